package ops

import (
	"math"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/mode"
)

// TrigMode is the mode that selects the angular unit of the trig menu.
const TrigMode = "trig_mode"

// Trig mode values.
const (
	Degrees = "degrees"
	Radians = "radians"
)

// The trig functions run through binary floating point; exact decimal
// arithmetic buys nothing for transcendental results.
func installTrig(root *cmdtree.Menu, modes *mode.Table) {
	modes.Register(TrigMode, Degrees, []string{Degrees, Radians})

	menu := cmdtree.NewMenu(root, "t", "trig functions",
		"Trigonometric functions. Angles are read and returned in the "+
			"current trig mode, shown next to the menu name; 'd' and 'r' "+
			"switch it.",
		func() string { return modes.Get(TrigMode) })

	toFloat := func(d *apd.Decimal) (float64, error) {
		f, err := d.Float64()
		if err != nil {
			return 0, errs.Domain{Cause: err}
		}
		return f, nil
	}
	check := func(f float64) (float64, error) {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, errs.Domain{}
		}
		return f, nil
	}

	// Forward functions convert their argument from the current mode;
	// arc functions convert their result to it.
	forward := func(key, description string, f func(float64) float64) *cmdtree.Op {
		return cmdtree.NewOp(cmdtree.OpSpec{
			Key:  key,
			Menu: menu,
			Func: func(bos *apd.Decimal) (float64, error) {
				x, err := toFloat(bos)
				if err != nil {
					return 0, err
				}
				if modes.Get(TrigMode) == Degrees {
					x = x * math.Pi / 180
				}
				return check(f(x))
			},
			Push:        1,
			Description: description,
			LogAs:       cmdtree.LogUnary,
		})
	}
	arc := func(key, description string, f func(float64) float64) *cmdtree.Op {
		return cmdtree.NewOp(cmdtree.OpSpec{
			Key:  key,
			Menu: menu,
			Func: func(bos *apd.Decimal) (float64, error) {
				x, err := toFloat(bos)
				if err != nil {
					return 0, err
				}
				r, err := check(f(x))
				if err != nil {
					return 0, err
				}
				if modes.Get(TrigMode) == Degrees {
					r = r * 180 / math.Pi
				}
				return r, nil
			},
			Push:        1,
			Description: description,
			LogAs:       cmdtree.LogUnary,
		})
	}

	forward("s", "sine of bos", math.Sin).
		Ensure(cmdtree.TestCase{Before: vals(90), After: vals(1), Close: true}).
		Ensure(cmdtree.TestCase{Before: vals(0), After: vals(0), Close: true})
	forward("c", "cosine of bos", math.Cos).
		Ensure(cmdtree.TestCase{Before: vals(0), After: vals(1), Close: true}).
		Ensure(cmdtree.TestCase{Before: vals(60), After: vals("0.5"), Close: true})
	forward("t", "tangent of bos", math.Tan).
		Ensure(cmdtree.TestCase{Before: vals(45), After: vals(1), Close: true})
	arc("i", "arc sine of bos", math.Asin).
		Ensure(cmdtree.TestCase{Before: vals(1), After: vals(90), Close: true}).
		Ensure(cmdtree.TestCase{Before: vals(2), Raises: errs.KindDomain})
	arc("o", "arc cosine of bos", math.Acos).
		Ensure(cmdtree.TestCase{Before: vals(1), After: vals(0), Close: true}).
		Ensure(cmdtree.TestCase{Before: vals(-2), Raises: errs.KindDomain})
	arc("a", "arc tangent of bos", math.Atan).
		Ensure(cmdtree.TestCase{Before: vals(1), After: vals(45), Close: true})

	cmdtree.NewModeChange(menu, "d", Degrees, func() { modes.Set(TrigMode, Degrees) })
	cmdtree.NewModeChange(menu, "r", Radians, func() { modes.Set(TrigMode, Radians) })
}
