// Package ops registers the standard calculator operations.
//
// Install builds the whole default command tree: arithmetic on the main
// menu, stack manipulation, the trig and logarithm submenus, the constants
// menu and the clipboard and register helpers. Every operation declares
// self-tests that run at startup through cmdtree.SelfTestAll.
package ops

import (
	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/mode"
	"src.esc.sh/pkg/ui"
)

// Install registers every standard operation into root. The returned menu
// is root again, for chaining.
func Install(root *cmdtree.Menu, cfg *config.Config, modes *mode.Table, status ui.Status) *cmdtree.Menu {
	if status == nil {
		status = ui.Discard
	}
	installArithmetic(root, cfg)
	installStackOps(root)
	installTrig(root, modes)
	installLog(root, cfg)
	installConstants(root)
	installMisc(root, cfg, status)
	cmdtree.RegisterStandardBuiltins(root)
	return root
}

// arithErr classifies the condition flags an arithmetic operation raised.
// Division by an exact zero, including 0/0, is reported as division by
// zero; the other invalid forms fall under the general arithmetic rules.
func arithErr(cond apd.Condition, err error) error {
	switch {
	case cond&(apd.DivisionByZero|apd.DivisionUndefined) != 0:
		return errs.DivisionByZero{}
	case cond&(apd.InvalidOperation|apd.DivisionImpossible) != 0:
		return errs.InvalidOperation{}
	case err != nil:
		return errs.Domain{Cause: err}
	}
	return nil
}

func installArithmetic(root *cmdtree.Menu, cfg *config.Config) {
	binary := func(key, description string,
		f func(ctx *apd.Context, r, a, b *apd.Decimal) (apd.Condition, error)) *cmdtree.Op {
		return cmdtree.NewOp(cmdtree.OpSpec{
			Key:  key,
			Menu: root,
			Func: func(sos, bos *apd.Decimal) (*apd.Decimal, error) {
				r := new(apd.Decimal)
				cond, err := f(cfg.Context(), r, sos, bos)
				if e := arithErr(cond, err); e != nil {
					return nil, e
				}
				return r, nil
			},
			Push:        1,
			Description: description,
			LogAs:       cmdtree.LogBinary,
		})
	}

	binary("+", "add sos and bos", (*apd.Context).Add).
		Ensure(cmdtree.TestCase{Before: vals(2, 3), After: vals(5)}).
		Ensure(cmdtree.TestCase{Before: vals("2.5", "0.5"), After: vals(3)})
	binary("-", "subtract bos from sos", (*apd.Context).Sub).
		Ensure(cmdtree.TestCase{Before: vals(5, 3), After: vals(2)}).
		Ensure(cmdtree.TestCase{Before: vals(3, 5), After: vals(-2)})
	binary("*", "multiply sos by bos", (*apd.Context).Mul).
		Ensure(cmdtree.TestCase{Before: vals(4, 6), After: vals(24)})
	binary("/", "divide sos by bos", (*apd.Context).Quo).
		Ensure(cmdtree.TestCase{Before: vals(8, 2), After: vals(4)}).
		Ensure(cmdtree.TestCase{Before: vals(4, 6), After: vals("0.666666666667")}).
		Ensure(cmdtree.TestCase{Before: vals(1, 0), Raises: errs.KindDivisionByZero}).
		Ensure(cmdtree.TestCase{Before: vals(0, 0), Raises: errs.KindDivisionByZero})
	binary("^", "raise sos to the bos power", (*apd.Context).Pow).
		Ensure(cmdtree.TestCase{Before: vals(2, 3), After: vals(8)}).
		Ensure(cmdtree.TestCase{Before: vals(4, "0.5"), After: vals(2)}).
		Ensure(cmdtree.TestCase{Before: vals(0, 0), Raises: errs.KindInvalidOperation})
	binary("%", "remainder of sos divided by bos", (*apd.Context).Rem).
		Ensure(cmdtree.TestCase{Before: vals(7, 3), After: vals(1)}).
		Ensure(cmdtree.TestCase{Before: vals(1, 0), Raises: errs.KindExecution})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "s",
		Menu: root,
		Func: func(bos *apd.Decimal) (*apd.Decimal, error) {
			r := new(apd.Decimal)
			cond, err := cfg.Context().Sqrt(r, bos)
			if e := arithErr(cond, err); e != nil {
				return nil, e
			}
			return r, nil
		},
		Push:        1,
		Description: "square root of bos",
		LogAs:       cmdtree.LogUnary,
	}).
		Ensure(cmdtree.TestCase{Before: vals(4), After: vals(2)}).
		Ensure(cmdtree.TestCase{Before: vals(-2), Raises: errs.KindInvalidOperation})
}

// vals builds a self-test value list.
func vals(vs ...interface{}) []interface{} { return vs }
