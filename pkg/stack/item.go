// Package stack implements the calculator stack: the items on it, the
// editing state of the item being typed, and the transactional mutation
// discipline every operation goes through.
package stack

import (
	"strings"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
)

// Item is one slot on the stack.
//
// An item starts out partial while the user is typing it: it has only the
// string under construction, which may not even be a valid number yet.
// Finalize parses the string; from then on the item holds an exact decimal
// value and its canonical rendering, and the editing methods must not be
// called on it again.
type Item struct {
	entered bool
	dec     *apd.Decimal
	display string
}

// NewPartial returns a partial item holding the first typed character.
func NewPartial(first string) *Item {
	return &Item{display: first}
}

// NewItem returns an entered item holding a copy of d, rendered canonically.
func NewItem(cfg *config.Config, d *apd.Decimal) *Item {
	dec := new(apd.Decimal).Set(d)
	return &Item{entered: true, dec: dec, display: Format(cfg, dec)}
}

// Entered reports whether the item holds a finished value.
func (it *Item) Entered() bool { return it.entered }

// Decimal returns the item's value, or nil if the item is still partial.
// Callers must not mutate the returned value.
func (it *Item) Decimal() *apd.Decimal { return it.dec }

// Display returns the string shown for this item: the text under
// construction for a partial item, the canonical rendering otherwise.
func (it *Item) Display() string { return it.display }

func (it *Item) String() string { return it.display }

// AddChar appends one typed character. It reports false when the item is
// already at the configured width and cannot take more characters.
func (it *Item) AddChar(cfg *config.Config, c rune) bool {
	if it.entered {
		panic(errs.Programming{Msg: "AddChar called on an entered stack item"})
	}
	if len(it.display) >= cfg.StackWidth {
		return false
	}
	it.display += string(c)
	return true
}

// Backspace removes the last typed character.
func (it *Item) Backspace() {
	if it.entered {
		panic(errs.Programming{Msg: "Backspace called on an entered stack item"})
	}
	it.display = it.display[:len(it.display)-1]
}

// Finalize parses the accumulated string as an exact decimal. On success the
// item becomes entered and its display is recomputed canonically. On failure
// it reports false and the item stays editable, unchanged.
func (it *Item) Finalize(cfg *config.Config) bool {
	if it.entered {
		panic(errs.Programming{Msg: "Finalize called on an entered stack item"})
	}
	d, _, err := apd.NewFromString(it.display)
	if err != nil {
		return false
	}
	it.dec = d
	it.display = Format(cfg, d)
	it.entered = true
	return true
}

// Equal reports whether two items have the same entry state, value and
// display string. The history manager relies on this to suppress duplicate
// checkpoints.
func (it *Item) Equal(other *Item) bool {
	if it == nil || other == nil {
		return it == other
	}
	if it.entered != other.entered || it.display != other.display {
		return false
	}
	if it.dec == nil || other.dec == nil {
		return it.dec == nil && other.dec == nil
	}
	return it.dec.Cmp(other.dec) == 0
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := &Item{entered: it.entered, display: it.display}
	if it.dec != nil {
		c.dec = new(apd.Decimal).Set(it.dec)
	}
	return c
}

// IsEntryChar reports whether r can form part of a number being typed.
// '_' is accepted as the negative sign, dc-style; the session loop maps it
// to '-' before it reaches the stack.
func IsEntryChar(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == 'e' || r == '_'
}

// Format renders d canonically: rounded to the configured precision with
// trailing zeros stripped, the exponent removed whenever the coefficient
// fits the configured width, and scientific notation with reduced precision
// as the fallback when it does not.
func Format(cfg *config.Config, d *apd.Decimal) string {
	ctx := cfg.Context()

	var rounded apd.Decimal
	ctx.Round(&rounded, d)
	var reduced apd.Decimal
	reduced.Reduce(&rounded)
	if reduced.Exponent > 0 {
		// An integral value like 5E+3: rewrite as 5000 unless that takes
		// more digits than the precision allows.
		var q apd.Decimal
		if res, err := ctx.Quantize(&q, &reduced, 0); err == nil && res&apd.InvalidOperation == 0 {
			reduced.Set(&q)
		}
	}
	s := exponentToLower(reduced.Text('G'))
	if len(s) <= cfg.StackWidth {
		return s
	}

	for p := cfg.Precision; p >= 1; p-- {
		var t apd.Decimal
		cfg.Context().WithPrecision(p).Round(&t, d)
		s = exponentToLower(t.Text('E'))
		if len(s) <= cfg.StackWidth {
			return s
		}
	}
	return s
}

func exponentToLower(s string) string {
	return strings.Replace(s, "E", "e", 1)
}
