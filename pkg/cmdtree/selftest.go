package cmdtree

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/bind"
	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

// closeTolerance is the relative tolerance for Close comparisons, loose
// enough to absorb binary/decimal conversion noise in float-backed
// operations.
const closeTolerance = 1e-9

// TestCase declares one self-test for an operation: starting from a stack
// holding Before (deepest first), running the operation must leave the
// stack holding After, or fail with an error of kind Raises. Values may be
// anything bind.Coerce accepts.
//
// Close requests approximate comparison, for operations computed through
// binary floating point.
type TestCase struct {
	Before []interface{}
	After  []interface{}
	Raises errs.Kind
	Close  bool
}

// Ensure declares a self-test for the operation. All declared tests run at
// startup, before the first keystroke; a failing test aborts the program,
// on the grounds that a calculator that miscalculates is worse than one
// that does not start. Declaring both After and Raises panics.
func (o *Op) Ensure(tc TestCase) *Op {
	if tc.After != nil && tc.Raises != errs.KindNone {
		panic(errs.Programming{Msg: fmt.Sprintf(
			"a self-test for operation '%s' declares both a result and an error", o.key)})
	}
	o.tests = append(o.tests, tc)
	return o
}

// SelfTest runs the operation's declared tests against fresh stacks and
// registries. The first failure is returned as a programming error.
func (o *Op) SelfTest(cfg *config.Config) error {
	for _, tc := range o.tests {
		if err := o.runTest(cfg, tc); err != nil {
			return err
		}
	}
	return nil
}

func (o *Op) runTest(cfg *config.Config, tc TestCase) error {
	before, err := bind.CoerceSlice(tc.Before)
	if err != nil {
		return o.testProblem("declared a self-test with an invalid input value", err)
	}
	want, err := bind.CoerceSlice(tc.After)
	if err != nil {
		return o.testProblem("declared a self-test with an invalid expected value", err)
	}

	st := stack.New(cfg, nil)
	st.Push(before, "")
	runErr := o.run(st, register.New(), true)

	if tc.Raises != errs.KindNone {
		if runErr == nil {
			return o.testProblem("was expected to raise an error during a self-test, but did not", nil)
		}
		if !errs.HasKind(runErr, tc.Raises) {
			return o.testProblem("raised the wrong kind of error during a self-test", runErr)
		}
		return nil
	}
	if runErr != nil {
		return o.testProblem("raised an error during a self-test", runErr)
	}

	got := st.Decimals()
	if !stacksMatch(got, want, tc.Close) {
		return o.testProblem(fmt.Sprintf(
			"returned an unexpected result during a self-test (stack was [%s], expected [%s])",
			formatStack(cfg, got), formatStack(cfg, want)), nil)
	}
	return nil
}

func (o *Op) testProblem(problem string, cause error) error {
	return errs.FunctionProgramming{
		Function:    o.fn.Name(),
		Key:         o.key,
		Description: o.description,
		Problem:     problem,
		Cause:       cause,
	}
}

func stacksMatch(got, want []*apd.Decimal, approx bool) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if approx {
			if !closeEnough(got[i], want[i]) {
				return false
			}
		} else if got[i].Cmp(want[i]) != 0 {
			return false
		}
	}
	return true
}

func closeEnough(got, want *apd.Decimal) bool {
	g, err := got.Float64()
	if err != nil {
		return false
	}
	w, err := want.Float64()
	if err != nil {
		return false
	}
	scale := math.Max(1, math.Abs(w))
	return math.Abs(g-w) <= closeTolerance*scale
}

func formatStack(cfg *config.Config, ds []*apd.Decimal) string {
	ss := make([]string, len(ds))
	for i, d := range ds {
		ss[i] = stack.Format(cfg, d)
	}
	return strings.Join(ss, " ")
}

// SelfTestAll walks the tree under root and runs every operation's
// self-tests, returning the first failure.
func SelfTestAll(root *Menu, cfg *config.Config) error {
	tested := 0
	var walk func(m *Menu) error
	walk = func(m *Menu) error {
		for _, child := range m.Children() {
			switch c := child.(type) {
			case *Menu:
				if err := walk(c); err != nil {
					return err
				}
			case *Op:
				if err := c.SelfTest(cfg); err != nil {
					return err
				}
				tested++
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return err
	}
	logger.Printf("self-tested %d operations", tested)
	return nil
}
