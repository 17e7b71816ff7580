package ops

import (
	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
)

func installLog(root *cmdtree.Menu, cfg *config.Config) {
	menu := cmdtree.NewMenu(root, "l", "logarithms",
		"Logarithms and exponentials, base ten and base e.", nil)

	// The logarithm of an exact zero is negative infinity, not an error;
	// the stack formatter knows how to display it.
	logOp := func(key, description string,
		f func(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error)) *cmdtree.Op {
		return cmdtree.NewOp(cmdtree.OpSpec{
			Key:  key,
			Menu: menu,
			Func: func(bos *apd.Decimal) (*apd.Decimal, error) {
				if bos.IsZero() {
					return &apd.Decimal{Form: apd.Infinite, Negative: true}, nil
				}
				r := new(apd.Decimal)
				cond, err := f(cfg.Context(), r, bos)
				if e := arithErr(cond, err); e != nil {
					return nil, e
				}
				return r, nil
			},
			Push:        1,
			Description: description,
			LogAs:       cmdtree.LogUnary,
		})
	}
	expOp := func(key, description string,
		f func(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error)) *cmdtree.Op {
		return cmdtree.NewOp(cmdtree.OpSpec{
			Key:  key,
			Menu: menu,
			Func: func(bos *apd.Decimal) (*apd.Decimal, error) {
				r := new(apd.Decimal)
				cond, err := f(cfg.Context(), r, bos)
				if e := arithErr(cond, err); e != nil {
					return nil, e
				}
				return r, nil
			},
			Push:        1,
			Description: description,
			LogAs:       cmdtree.LogUnary,
		})
	}

	logOp("l", "log base 10 of bos", (*apd.Context).Log10).
		Ensure(cmdtree.TestCase{Before: vals(1000), After: vals(3)}).
		Ensure(cmdtree.TestCase{Before: vals(0), After: vals("-Infinity")}).
		Ensure(cmdtree.TestCase{Before: vals(-1), Raises: errs.KindExecution})
	logOp("n", "natural log of bos", (*apd.Context).Ln).
		Ensure(cmdtree.TestCase{Before: vals(1), After: vals(0)}).
		Ensure(cmdtree.TestCase{Before: vals("2.71828182845904523536"), After: vals(1), Close: true}).
		Ensure(cmdtree.TestCase{Before: vals(0), After: vals("-Infinity")})
	expOp("1", "10 to the power of bos", func(ctx *apd.Context, r, x *apd.Decimal) (apd.Condition, error) {
		return ctx.Pow(r, apd.New(10, 0), x)
	}).
		Ensure(cmdtree.TestCase{Before: vals(2), After: vals(100)}).
		Ensure(cmdtree.TestCase{Before: vals(0), After: vals(1)})
	expOp("e", "e to the power of bos", (*apd.Context).Exp).
		Ensure(cmdtree.TestCase{Before: vals(0), After: vals(1)}).
		Ensure(cmdtree.TestCase{Before: vals(1), After: vals("2.71828182846"), Close: true})
}
