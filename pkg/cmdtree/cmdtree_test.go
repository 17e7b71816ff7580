package cmdtree

import (
	"strings"
	"testing"

	"github.com/cockroachdb/apd/v3"
	"github.com/google/go-cmp/cmp"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

func mustDecimal(t *testing.T, s string) *apd.Decimal {
	t.Helper()
	d, _, err := apd.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func newStack(t *testing.T, vals ...string) *stack.Stack {
	t.Helper()
	st := stack.New(config.Default(), nil)
	for _, v := range vals {
		if !st.Push([]*apd.Decimal{mustDecimal(t, v)}, "") {
			t.Fatalf("cannot push %s", v)
		}
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

// newDivide registers the binary division operation used throughout these
// tests.
func newDivide(root *Menu) *Op {
	return NewOp(OpSpec{
		Key:  "/",
		Menu: root,
		Func: func(sos, bos *apd.Decimal) (*apd.Decimal, error) {
			r := new(apd.Decimal)
			cond, err := config.Default().Context().Quo(r, sos, bos)
			if cond&apd.DivisionByZero != 0 {
				return nil, errs.DivisionByZero{}
			}
			if err != nil {
				return nil, err
			}
			return r, nil
		},
		Push:        1,
		Description: "divide sos by bos",
		LogAs:       LogBinary,
	})
}

func TestOpExecuteAndLog(t *testing.T) {
	root := NewRoot("Main Menu", "")
	newDivide(root)
	st := newStack(t, "4", "6")

	next, err := root.Execute("/", st, register.New())
	if err != nil {
		t.Fatal(err)
	}
	if next != root {
		t.Error("operation did not return to the main menu")
	}
	if diff := cmp.Diff([]string{"0.666666666667"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
	if got, want := st.LastOperation(), "4 / 6 = 0.666666666667"; got != want {
		t.Errorf("history entry = %q, want %q", got, want)
	}
}

func TestDivisionByZeroLeavesStackUnchanged(t *testing.T) {
	root := NewRoot("Main Menu", "")
	newDivide(root)
	st := newStack(t, "4", "0")
	before := st.Memento()

	_, err := root.Execute("/", st, register.New())
	if err == nil {
		t.Fatal("no error for division by zero")
	}
	if got, want := err.Error(), "Sorry, division by zero is against the law."; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}
	if !errs.HasKind(err, errs.KindDivisionByZero) {
		t.Error("the division by zero category was lost in translation")
	}
	if !st.Memento().Equal(before) {
		t.Error("stack changed after a failed operation")
	}
}

func TestInsufficientItemsRewrappedWithKey(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewOp(OpSpec{
		Key:  "r",
		Menu: root,
		Func: func(vals ...*apd.Decimal) ([]*apd.Decimal, error) {
			if len(vals) == 0 {
				return nil, errs.InsufficientItems{Required: 1}
			}
			rolled := append([]*apd.Decimal{}, vals[1:]...)
			return append(rolled, vals[0]), nil
		},
		Push:        -1,
		Description: "roll stack",
	})

	st := newStack(t)
	_, err := root.Execute("r", st, register.New())
	if got, want := err.Error(), "'r' needs at least 1 item on stack."; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}

	st = newStack(t, "1", "2", "3")
	if _, err := root.Execute("r", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"2", "3", "1"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestWholeStackOperation(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewOp(OpSpec{
		Key:  "S",
		Menu: root,
		Func: func(vals ...*apd.Decimal) (*apd.Decimal, error) {
			total := apd.New(0, 0)
			ctx := config.Default().Context()
			for _, v := range vals {
				ctx.Add(total, total, v)
			}
			return total, nil
		},
		Push:        1,
		Description: "sum entire stack",
	})

	st := newStack(t, "3", "5")
	if _, err := root.Execute("S", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"8"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestRetainLeavesArguments(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewOp(OpSpec{
		Key:         "d",
		Menu:        root,
		Func:        func(bos *apd.Decimal) (*apd.Decimal, error) { return bos, nil },
		Push:        1,
		Description: "duplicate bos",
		Retain:      true,
	})
	st := newStack(t, "7")
	if _, err := root.Execute("d", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"7", "7"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestPushSpaceChecked(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewOp(OpSpec{
		Key:  "d",
		Menu: root,
		Func: func(bos *apd.Decimal) ([]*apd.Decimal, error) {
			return []*apd.Decimal{bos, new(apd.Decimal).Set(bos)}, nil
		},
		Push:        2,
		Description: "duplicate bos",
	})

	st := newStack(t)
	for i := 0; i < st.Config().StackDepth; i++ {
		st.Push([]*apd.Decimal{apd.New(int64(i), 0)}, "")
	}
	before := st.Memento()
	_, err := root.Execute("d", st, register.New())
	if got, want := err.Error(), "Stack is too full (short 1 space(s))."; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}
	if !st.Memento().Equal(before) {
		t.Error("stack changed after a failed operation")
	}
}

func TestPendingEntryFinalizedBeforeExecution(t *testing.T) {
	root := NewRoot("Main Menu", "")
	newDivide(root)
	st := newStack(t, "8")
	st.AddChar('2')

	if _, err := root.Execute("/", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"4"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidPendingEntryFailsExecution(t *testing.T) {
	root := NewRoot("Main Menu", "")
	newDivide(root)
	st := newStack(t, "8")
	st.AddChar('2')
	st.AddChar('e')

	_, err := root.Execute("/", st, register.New())
	if err == nil || !strings.Contains(err.Error(), `Cannot run "/"`) {
		t.Errorf("err = %v, want a cannot-run message", err)
	}
}

func TestResultCountMismatchIsProgrammingError(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewOp(OpSpec{
		Key:  "b",
		Menu: root,
		Func: func() ([]*apd.Decimal, error) {
			return []*apd.Decimal{apd.New(1, 0), apd.New(2, 0)}, nil
		},
		Push:        1,
		Description: "broken",
	})
	_, err := root.Execute("b", newStack(t), register.New())
	if !errs.HasKind(err, errs.KindProgramming) {
		t.Errorf("err = %v, want a programming error", err)
	}
}

func TestLogArityMismatchIsProgrammingError(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewOp(OpSpec{
		Key:         "b",
		Menu:        root,
		Func:        func(bos *apd.Decimal) error { return nil },
		Push:        0,
		Description: "broken logging",
		LogAs:       LogUnary,
	})
	st := newStack(t, "5")
	before := st.Memento()

	_, err := root.Execute("b", st, register.New())
	if !errs.HasKind(err, errs.KindProgramming) {
		t.Fatalf("err = %v, want a programming error", err)
	}
	if !strings.Contains(err.Error(), "unary logging") {
		t.Errorf("err = %q, want it to name the logging declaration", err)
	}
	if !st.Memento().Equal(before) {
		t.Error("stack changed after a failed operation")
	}
}

func TestMenuNavigation(t *testing.T) {
	root := NewRoot("Main Menu", "")
	sub := NewMenu(root, "t", "trig functions", "", func() string { return "degrees" })

	next, err := root.Execute("t", newStack(t), register.New())
	if err != nil || next != sub {
		t.Fatalf("Execute(t) = %v, %v", next, err)
	}
	if got, want := sub.AnnotatedDescription(), "trig functions (degrees)"; got != want {
		t.Errorf("AnnotatedDescription = %q, want %q", got, want)
	}

	next, err = sub.Execute(QuitKey, newStack(t), register.New())
	if err != nil || next != root {
		t.Errorf("quit from submenu = %v, %v, want main menu", next, err)
	}

	if _, err := root.Execute(QuitKey, newStack(t), register.New()); err != ErrExit {
		t.Errorf("quit from main menu = %v, want ErrExit", err)
	}
}

func TestQuitPopsOneLevel(t *testing.T) {
	root := NewRoot("Main Menu", "")
	outer := NewMenu(root, "a", "outer menu", "", nil)
	inner := NewMenu(outer, "b", "inner menu", "", nil)

	next, err := inner.Execute(QuitKey, newStack(t), register.New())
	if err != nil || next != outer {
		t.Errorf("quit from inner menu = %v, %v, want the outer menu", next, err)
	}
	next, err = outer.Execute(QuitKey, newStack(t), register.New())
	if err != nil || next != root {
		t.Errorf("quit from outer menu = %v, %v, want the main menu", next, err)
	}
}

func TestNotInMenu(t *testing.T) {
	root := NewRoot("Main Menu", "")
	sub := NewMenu(root, "t", "trig functions", "", nil)

	next, err := sub.Execute("z", newStack(t), register.New())
	if next != root {
		t.Error("an unknown key did not return to the main menu")
	}
	if got, want := err.Error(), "There's no option 'z' in this menu."; got != want {
		t.Errorf("err = %q, want %q", got, want)
	}
}

func TestDuplicateKeyPanics(t *testing.T) {
	root := NewRoot("Main Menu", "")
	newDivide(root)
	defer func() {
		if recover() == nil {
			t.Error("duplicate key did not panic")
		}
	}()
	newDivide(root)
}

func TestModeChange(t *testing.T) {
	root := NewRoot("Main Menu", "")
	applied := false
	NewModeChange(root, "d", "degrees", func() { applied = true })

	next, err := root.Execute("d", newStack(t), register.New())
	if err != nil || next != root {
		t.Fatalf("Execute = %v, %v", next, err)
	}
	if !applied {
		t.Error("mode change was not applied")
	}
}

func TestConstant(t *testing.T) {
	root := NewRoot("Main Menu", "")
	NewConstant(root, "p", "3.14159265359", "pi", "")
	st := newStack(t)
	if _, err := root.Execute("p", st, register.New()); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"3.14159265359"}, displays(st)); diff != "" {
		t.Errorf("stack mismatch (-want +got):\n%s", diff)
	}
	if got, want := st.LastOperation(), "insert constant pi"; got != want {
		t.Errorf("history entry = %q, want %q", got, want)
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	root := NewRoot("Main Menu", "")
	RegisterStandardBuiltins(root)
	for _, key := range []string{StoreRegKey, RetrieveRegKey, DeleteRegKey, UndoKey, RedoKey, QuitKey} {
		if _, ok := root.Child(key); !ok {
			t.Errorf("builtin %q not registered", key)
		}
	}
	// Executing a builtin through the tree is a no-op.
	st := newStack(t, "5")
	next, err := root.Execute(UndoKey, st, register.New())
	if err != nil || next != root || st.Depth() != 1 {
		t.Errorf("builtin dispatch = %v, %v", next, err)
	}
}

func TestSimulatePreservesSession(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := newDivide(root)
	st := newStack(t, "4", "6")

	lines := op.Simulate(st, register.New())
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "4 / 6 = 0.666666666667") {
		t.Errorf("simulation missing the calculation:\n%s", joined)
	}
	if diff := cmp.Diff([]string{"4", "6"}, displays(st)); diff != "" {
		t.Errorf("simulation changed the stack (-want +got):\n%s", diff)
	}
}

func TestSimulateReportsError(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := newDivide(root)
	lines := op.Simulate(newStack(t, "4", "0"), register.New())
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "division by zero is against the law") {
		t.Errorf("simulation missing the error:\n%s", joined)
	}
}

func TestSimulateDisabled(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := NewOp(OpSpec{
		Key:         "y",
		Menu:        root,
		Func:        func(bos string) error { return nil },
		Push:        0,
		Description: "yank bos to clipboard",
		NoSimulate:  true,
	})
	lines := op.Simulate(newStack(t, "4"), register.New())
	if !strings.Contains(strings.Join(lines, " "), "disabled simulations") {
		t.Errorf("unexpected simulation text: %v", lines)
	}
}

func TestSelfTestPass(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := newDivide(root)
	op.Ensure(TestCase{Before: []interface{}{8, 2}, After: []interface{}{4}})
	op.Ensure(TestCase{Before: []interface{}{1, 0}, Raises: errs.KindDivisionByZero})
	if err := SelfTestAll(root, config.Default()); err != nil {
		t.Fatal(err)
	}
}

func TestSelfTestWrongResult(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := newDivide(root)
	op.Ensure(TestCase{Before: []interface{}{8, 2}, After: []interface{}{5}})
	err := SelfTestAll(root, config.Default())
	if !errs.HasKind(err, errs.KindProgramming) {
		t.Fatalf("err = %v, want a programming error", err)
	}
	if !strings.Contains(err.Error(), "unexpected result") {
		t.Errorf("err = %q, want an unexpected-result message", err)
	}
}

func TestSelfTestExpectedErrorMissing(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := newDivide(root)
	op.Ensure(TestCase{Before: []interface{}{8, 2}, Raises: errs.KindDivisionByZero})
	err := SelfTestAll(root, config.Default())
	if !errs.HasKind(err, errs.KindProgramming) {
		t.Fatalf("err = %v, want a programming error", err)
	}
}

func TestSelfTestClose(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := NewOp(OpSpec{
		Key:         "n",
		Menu:        root,
		Func:        func(bos *apd.Decimal) (float64, error) { return 2.718281828459045, nil },
		Push:        1,
		Description: "e^x",
	})
	op.Ensure(TestCase{Before: []interface{}{1}, After: []interface{}{"2.71828182846"}, Close: true})
	if err := SelfTestAll(root, config.Default()); err != nil {
		t.Fatal(err)
	}
}

func TestEnsureConflictPanics(t *testing.T) {
	root := NewRoot("Main Menu", "")
	op := newDivide(root)
	defer func() {
		if recover() == nil {
			t.Error("conflicting declaration did not panic")
		}
	}()
	op.Ensure(TestCase{Before: []interface{}{1, 0}, After: []interface{}{1}, Raises: errs.KindDivisionByZero})
}
