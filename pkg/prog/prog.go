// Package prog provides the entry point framework for the esc binary.
//
// It parses the common flags, sets up logging and profiling, and delegates
// to a Program implementation. Keeping main() out of the picture makes the
// whole program testable: tests call Run with their own file descriptors.
package prog

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"src.esc.sh/pkg/buildinfo"
	"src.esc.sh/pkg/logutil"
)

// Flags are the standard command line flags, parsed before the Program
// runs.
type Flags struct {
	Log        string
	CPUProfile string
	ConfigPath string
	Help       bool
	Version    bool
}

func (f *Flags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.Log, "log", "", "append debug logs to `file`")
	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "write a CPU profile to `file`")
	fs.StringVar(&f.ConfigPath, "config", "", "read configuration from `file`")
	fs.BoolVar(&f.Help, "help", false, "show usage help and quit")
	fs.BoolVar(&f.Version, "version", false, "show the version and quit")
}

// Program is the interface implemented by the esc subsystem that Run
// drives.
type Program interface {
	Run(fds [3]*os.File, f *Flags, args []string) error
}

// BadUsage returns an error that makes Run print the message along with
// usage help and exit with status 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns an error that makes Run exit with the given status, with no
// message.
func Exit(code int) error { return exitError{code} }

type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit with code %d", e.code) }

// Run parses args, applies the standard flags and runs p. It returns the
// process exit status.
func Run(fds [3]*os.File, args []string, p Program) int {
	var f Flags
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.SetOutput(fds[2])
	fs.Usage = func() { usage(fds[2], fs) }
	f.register(fs)
	if err := fs.Parse(args[1:]); err != nil {
		// flag has already printed the error and usage.
		return 2
	}

	if f.Help {
		usage(fds[1], fs)
		return 0
	}
	if f.Version {
		fmt.Fprintln(fds[1], buildinfo.ProgramName)
		return 0
	}

	if f.Log != "" {
		if err := logutil.SetOutputFile(f.Log); err != nil {
			fmt.Fprintln(fds[2], err)
		}
	}
	if f.CPUProfile != "" {
		pf, err := os.Create(f.CPUProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
		} else {
			pprof.StartCPUProfile(pf)
			defer func() {
				pprof.StopCPUProfile()
				pf.Close()
			}()
		}
	}

	err := p.Run(fds, &f, fs.Args())
	if err == nil {
		return 0
	}
	switch err := err.(type) {
	case badUsageError:
		fmt.Fprintln(fds[2], err.msg)
		usage(fds[2], fs)
		return 2
	case exitError:
		return err.code
	default:
		fmt.Fprintln(fds[2], err)
		return 2
	}
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: esc [flags]")
	fmt.Fprintln(w, "Flags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
