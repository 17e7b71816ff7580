package ops

import (
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"

	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/mode"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
	"src.esc.sh/pkg/ui"
)

func newTree(t *testing.T) (*cmdtree.Menu, *mode.Table) {
	t.Helper()
	modes := mode.NewTable()
	root := Install(cmdtree.NewRoot("Main Menu", ""), config.Default(), modes, ui.Discard)
	return root, modes
}

func newStack(t *testing.T, vals ...string) *stack.Stack {
	t.Helper()
	st := stack.New(config.Default(), nil)
	for _, v := range vals {
		d, _, err := apd.NewFromString(v)
		if err != nil {
			t.Fatal(err)
		}
		st.Push([]*apd.Decimal{d}, "")
	}
	return st
}

func displays(st *stack.Stack) []string {
	items := st.Items()
	ss := make([]string, len(items))
	for i, it := range items {
		ss[i] = it.Display()
	}
	return ss
}

// The declared self-tests are the calculator's own regression suite; a
// clean run here is what startup requires before accepting keystrokes.
func TestAllOperationSelfTests(t *testing.T) {
	root, _ := newTree(t)
	if err := cmdtree.SelfTestAll(root, config.Default()); err != nil {
		t.Fatal(err)
	}
}

func TestDivideLogsCalculation(t *testing.T) {
	root, _ := newTree(t)
	st := newStack(t, "4", "6")
	if _, err := root.Execute("/", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if got, want := st.LastOperation(), "4 / 6 = 0.666666666667"; got != want {
		t.Errorf("history entry = %q, want %q", got, want)
	}
}

func TestTrigModeSwitch(t *testing.T) {
	root, modes := newTree(t)
	st := newStack(t, "90")
	reg := register.New()

	trig, err := root.Execute("t", st, reg)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := trig.AnnotatedDescription(), "trig functions (degrees)"; got != want {
		t.Errorf("menu description = %q, want %q", got, want)
	}

	if _, err := trig.Execute("s", st, reg); err != nil {
		t.Fatal(err)
	}
	if got := displays(st); len(got) != 1 || got[0] != "1" {
		t.Errorf("sin(90 degrees) displayed as %v, want [1]", got)
	}

	trig, _ = root.Execute("t", st, reg)
	if _, err := trig.Execute("r", st, reg); err != nil {
		t.Fatal(err)
	}
	if got := modes.Get(TrigMode); got != Radians {
		t.Errorf("trig mode = %q, want %q", got, Radians)
	}

	// sin(0) is 0 in any mode; sin of the same 90 now reads radians.
	st = newStack(t, "0")
	trig, _ = root.Execute("t", st, reg)
	if _, err := trig.Execute("s", st, reg); err != nil {
		t.Fatal(err)
	}
	if got := displays(st); len(got) != 1 || got[0] != "0" {
		t.Errorf("sin(0 radians) displayed as %v, want [0]", got)
	}
}

func TestSumRegisters(t *testing.T) {
	root, _ := newTree(t)
	reg := register.New()
	for name, v := range map[string]string{"a": "2", "b": "3"} {
		d, _, _ := apd.NewFromString(v)
		if err := reg.Set(name, stack.NewItem(config.Default(), d)); err != nil {
			t.Fatal(err)
		}
	}
	st := newStack(t)
	if _, err := root.Execute("R", st, reg); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"5"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
	if got, want := st.LastOperation(), "sum of registers = 5"; got != want {
		t.Errorf("history entry = %q, want %q", got, want)
	}

	_, err := root.Execute("R", st, register.New())
	if err == nil || err.Error() != "There are no registers defined." {
		t.Errorf("err = %v, want the no-registers message", err)
	}
}

func TestConstantsMenu(t *testing.T) {
	root, _ := newTree(t)
	st := newStack(t)
	reg := register.New()

	constants, err := root.Execute("i", st, reg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := constants.Execute("p", st, reg); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"3.14159265359"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestLogOfZeroIsNegativeInfinity(t *testing.T) {
	root, _ := newTree(t)
	st := newStack(t, "0")
	reg := register.New()

	logs, err := root.Execute("l", st, reg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := logs.Execute("n", st, reg); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"-Infinity"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestMainMenuLayout(t *testing.T) {
	root, _ := newTree(t)
	for _, key := range []string{
		"+", "-", "*", "/", "^", "%", "s", "d", "x", "p", "r", "c",
		"t", "l", "i", "I", "S", "R", "y",
		cmdtree.UndoKey, cmdtree.RedoKey, cmdtree.StoreRegKey,
		cmdtree.RetrieveRegKey, cmdtree.DeleteRegKey, cmdtree.QuitKey,
	} {
		if _, ok := root.Child(key); !ok {
			t.Errorf("main menu is missing key %q", key)
		}
	}
}

func TestSumWholeStack(t *testing.T) {
	root, _ := newTree(t)
	st := newStack(t, "3", "5")
	if _, err := root.Execute("S", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"8"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(st.LastOperation(), "sum of 2 items = 8") {
		t.Errorf("history entry = %q", st.LastOperation())
	}
}
