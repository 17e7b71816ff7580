// Package repl implements the interactive calculator session: it reads
// keystrokes, routes them to number entry, the builtins or the command
// tree, and renders the stack after every key.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"src.esc.sh/pkg/buildinfo"
	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/hist"
	"src.esc.sh/pkg/logutil"
	"src.esc.sh/pkg/mode"
	"src.esc.sh/pkg/ops"
	"src.esc.sh/pkg/prog"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

var logger = logutil.GetLogger("[repl] ")

// Program runs the interactive calculator. It implements prog.Program.
type Program struct{}

// Run starts a session on the given file descriptors. When stdin is a
// terminal it is put in raw mode so single keystrokes dispatch immediately;
// otherwise keys are read as they arrive, which makes the session
// scriptable.
func (Program) Run(fds [3]*os.File, f *prog.Flags, args []string) error {
	if len(args) > 0 {
		return prog.BadUsage("esc accepts no positional arguments")
	}

	cfg := config.Default()
	if f.ConfigPath != "" {
		loaded, err := config.Load(f.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	raw := false
	if isatty.IsTerminal(fds[0].Fd()) {
		old, err := term.MakeRaw(int(fds[0].Fd()))
		if err == nil {
			raw = true
			defer term.Restore(int(fds[0].Fd()), old)
		} else {
			logger.Printf("cannot enter raw mode: %v", err)
		}
	}

	s := newSession(cfg, fds[0], fds[1], raw)
	return s.run()
}

// statusLine is the session's status bar state.
type statusLine struct {
	text string
}

func (s *statusLine) Ready()              { s.text = "Ready." }
func (s *statusLine) EnteringNumber()     { s.text = "Entering a number." }
func (s *statusLine) Error(msg string)    { s.text = "Error: " + msg }
func (s *statusLine) Advisory(msg string) { s.text = msg }

type session struct {
	cfg    *config.Config
	st     *stack.Stack
	hist   *hist.History
	reg    *register.Registry
	modes  *mode.Table
	root   *cmdtree.Menu
	menu   *cmdtree.Menu
	status *statusLine

	in  *bufio.Reader
	out io.Writer
	raw bool
}

func newSession(cfg *config.Config, in io.Reader, out io.Writer, raw bool) *session {
	s := &session{
		cfg:    cfg,
		hist:   hist.New(),
		reg:    register.New(),
		modes:  mode.NewTable(),
		status: &statusLine{text: "Ready."},
		in:     bufio.NewReader(in),
		out:    out,
		raw:    raw,
	}
	s.st = stack.New(cfg, s.status)
	s.st.SetCheckpointer(s.hist)
	s.root = ops.Install(cmdtree.NewRoot("Main Menu",
		"The calculator's top level."), cfg, s.modes, s.status)
	s.menu = s.root
	return s
}

// run self-tests every operation, then reads keys until quit or EOF. A
// self-test failure aborts before the first keystroke: a calculator that
// miscalculates must not start.
func (s *session) run() error {
	if err := cmdtree.SelfTestAll(s.root, s.cfg); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s%s", buildinfo.ProgramName, s.nl())

	for {
		s.render()
		r, _, err := s.in.ReadRune()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if err := s.handleKey(r); err != nil {
			if err == cmdtree.ErrExit {
				return nil
			}
			return err
		}
	}
}

func (s *session) handleKey(r rune) error {
	s.status.Ready()
	atRoot := s.menu == s.root

	switch {
	case atRoot && stack.IsEntryChar(r):
		s.addToNumber(r)
	case r == '\r' || r == '\n' || r == ' ':
		s.enterNumber()
	case r == 127 || r == 8:
		s.st.Backspace()
	case atRoot && string(r) == cmdtree.UndoKey:
		if !s.hist.Undo(s.st) {
			s.status.Error("Nothing to undo.")
		}
	case string(r) == cmdtree.RedoKey:
		if !s.hist.Redo(s.st) {
			s.status.Error("Nothing to redo.")
		}
	case atRoot && string(r) == cmdtree.StoreRegKey:
		s.storeRegister()
	case atRoot && string(r) == cmdtree.RetrieveRegKey:
		s.retrieveRegister()
	case atRoot && string(r) == cmdtree.DeleteRegKey:
		s.deleteRegister()
	case r == '?':
		s.showHelp()
	default:
		next, err := s.menu.Execute(string(r), s.st, s.reg)
		if err == cmdtree.ErrExit {
			return err
		}
		if err != nil {
			s.status.Error(err.Error())
		}
		s.menu = next
	}

	if s.status.text == "Ready." && s.st.Editing() {
		s.status.EnteringNumber()
	}
	return nil
}

// addToNumber types one character into the number being entered. An
// underscore types a minus sign, which would otherwise dispatch the
// subtraction operation.
func (s *session) addToNumber(r rune) {
	if r == '_' {
		r = '-'
	}
	if s.st.AddChar(r) {
		return
	}
	if s.st.Editing() {
		s.status.Error("No more precision available. Consider scientific notation.")
	} else {
		s.status.Error("Stack is full.")
	}
}

func (s *session) enterNumber() {
	finished, err := s.st.EnterNumber("")
	if err != nil {
		s.status.Error(err.Error())
		return
	}
	if !finished {
		s.status.Error("No number to finish adding. (Use 'd' to duplicate bos.)")
	}
}

// The register commands prompt for a single-letter name with a second
// keystroke.

func (s *session) storeRegister() {
	name, ok := s.promptRegisterName()
	if !ok {
		return
	}
	s.st.Transaction(func() error {
		if _, err := s.st.EnterNumber(""); err != nil {
			return rollback(err.Error())
		}
		bos := s.st.Bos()
		if bos == nil {
			return rollback("You must have an item on the stack to store to a register.")
		}
		if err := s.reg.Set(name, bos); err != nil {
			return rollback(err.Error())
		}
		s.status.Advisory(fmt.Sprintf("Stored bos to register '%s'.", name))
		return nil
	})
}

func (s *session) retrieveRegister() {
	name, ok := s.promptRegisterName()
	if !ok {
		return
	}
	s.st.Transaction(func() error {
		if _, err := s.st.EnterNumber(""); err != nil {
			return rollback(err.Error())
		}
		item, exists := s.reg.Get(name)
		if !exists {
			return rollback(fmt.Sprintf("Register '%s' does not exist.", name))
		}
		if !s.st.PushItems(fmt.Sprintf("retrieve register '%s'", name), item) {
			return rollback("Stack is full.")
		}
		return nil
	})
}

func (s *session) deleteRegister() {
	name, ok := s.promptRegisterName()
	if !ok {
		return
	}
	s.st.Transaction(func() error {
		if _, err := s.st.EnterNumber(""); err != nil {
			return rollback(err.Error())
		}
		if !s.reg.Delete(name) {
			return rollback(fmt.Sprintf("Register '%s' does not exist.", name))
		}
		s.status.Advisory(fmt.Sprintf("Deleted register '%s'.", name))
		return nil
	})
}

func (s *session) promptRegisterName() (string, bool) {
	fmt.Fprintf(s.out, "Which register? %s", s.nl())
	r, _, err := s.in.ReadRune()
	if err != nil {
		return "", false
	}
	return string(r), true
}

// showHelp prints the documentation and a simulation for the node behind
// the next key pressed.
func (s *session) showHelp() {
	fmt.Fprintf(s.out, "Press a key to get help for it.%s", s.nl())
	r, _, err := s.in.ReadRune()
	if err != nil {
		return
	}
	node, ok := s.menu.Child(string(r))
	if !ok {
		s.status.Error(fmt.Sprintf("There's no option '%s' in this menu.", string(r)))
		return
	}

	nl := s.nl()
	fmt.Fprintf(s.out, "%s'%s': %s%s", nl, node.Key(), node.Description(), nl)
	if doc := node.Doc(); doc != "" {
		fmt.Fprintf(s.out, "%s%s", doc, nl)
	}
	var lines []string
	switch n := node.(type) {
	case *cmdtree.Op:
		lines = n.Simulate(s.st, s.reg)
	case *cmdtree.Builtin:
		lines = n.Simulate()
	}
	if len(lines) > 0 {
		fmt.Fprint(s.out, nl)
		for _, line := range lines {
			fmt.Fprintf(s.out, "%s%s", line, nl)
		}
	}
}

func (s *session) render() {
	nl := s.nl()
	var b strings.Builder
	b.WriteString(nl)
	b.WriteString("== " + s.menu.AnnotatedDescription() + nl)
	if s.menu != s.root {
		for _, child := range s.menu.Children() {
			b.WriteString(fmt.Sprintf("  [%s] %s%s", printableKey(child.Key()), child.Description(), nl))
		}
	}
	items := s.st.Items()
	if len(items) == 0 {
		b.WriteString("  (stack is empty)" + nl)
	}
	for i, item := range items {
		cursor := " "
		if s.st.Editing() && i == len(items)-1 {
			cursor = "_"
		}
		b.WriteString(fmt.Sprintf("  %*s%s%s", s.cfg.StackWidth, item.Display(), cursor, nl))
	}
	b.WriteString(s.status.text + nl)
	io.WriteString(s.out, b.String())
}

func (s *session) nl() string {
	if s.raw {
		return "\r\n"
	}
	return "\n"
}

func printableKey(key string) string {
	if key == cmdtree.RedoKey {
		return "^R"
	}
	return key
}

func rollback(msg string) error {
	return errs.Rollback{Message: msg}
}
