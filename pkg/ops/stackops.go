package ops

import (
	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/errs"
)

func installStackOps(root *cmdtree.Menu) {
	cmdtree.NewOp(cmdtree.OpSpec{
		Key:         "d",
		Menu:        root,
		Func:        func(bos *apd.Decimal) (*apd.Decimal, error) { return bos, nil },
		Push:        1,
		Description: "duplicate bos",
		Retain:      true,
		LogAs:       cmdtree.LogFormat("duplicate {0}"),
	}).
		Ensure(cmdtree.TestCase{Before: vals(5), After: vals(5, 5)}).
		Ensure(cmdtree.TestCase{Before: vals(), Raises: errs.KindInsufficientItems})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "x",
		Menu: root,
		Func: func(sos, bos *apd.Decimal) ([]*apd.Decimal, error) {
			return []*apd.Decimal{bos, sos}, nil
		},
		Push:        2,
		Description: "exchange bos and sos",
		LogAs:       cmdtree.LogFormat("exchange {0} and {1}"),
	}).
		Ensure(cmdtree.TestCase{Before: vals(1, 2), After: vals(2, 1)}).
		Ensure(cmdtree.TestCase{Before: vals(1), Raises: errs.KindInsufficientItems})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:         "p",
		Menu:        root,
		Func:        func(bos *apd.Decimal) error { return nil },
		Push:        0,
		Description: "pop bos",
		LogAs:       cmdtree.LogFormat("pop bos {0}"),
	}).
		Ensure(cmdtree.TestCase{Before: vals(5, 3), After: vals(5)}).
		Ensure(cmdtree.TestCase{Before: vals(), Raises: errs.KindInsufficientItems})

	// Roll moves bos to the far end of the stack.
	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "r",
		Menu: root,
		Func: func(items ...*apd.Decimal) ([]*apd.Decimal, error) {
			if len(items) == 0 {
				return nil, errs.InsufficientItems{Required: 1}
			}
			rolled := make([]*apd.Decimal, 0, len(items))
			rolled = append(rolled, items[len(items)-1])
			return append(rolled, items[:len(items)-1]...), nil
		},
		Push:        -1,
		Description: "roll stack",
	}).
		Ensure(cmdtree.TestCase{Before: vals(1, 2, 3), After: vals(3, 1, 2)}).
		Ensure(cmdtree.TestCase{Before: vals(1), After: vals(1)}).
		Ensure(cmdtree.TestCase{Before: vals(), Raises: errs.KindInsufficientItems})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:         "c",
		Menu:        root,
		Func:        func(items ...*apd.Decimal) error { return nil },
		Push:        0,
		Description: "clear stack",
	}).
		Ensure(cmdtree.TestCase{Before: vals(1, 2, 3), After: vals()}).
		Ensure(cmdtree.TestCase{Before: vals(), After: vals()})
}
