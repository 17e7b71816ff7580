// Command esc is an interactive stack-based (RPN) calculator for the
// terminal.
package main

import (
	"os"

	"src.esc.sh/pkg/prog"
	"src.esc.sh/pkg/repl"
)

func main() {
	os.Exit(prog.Run([3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args, repl.Program{}))
}
