package ops

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/bind"
	"src.esc.sh/pkg/cmdtree"
	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
	"src.esc.sh/pkg/ui"
)

func installConstants(root *cmdtree.Menu) {
	menu := cmdtree.NewMenu(root, "i", "insert constant",
		"Push a constant onto the stack. Constants are stored to more "+
			"digits than the display precision.", nil)
	cmdtree.NewConstant(menu, "p", "3.14159265358979323846", "pi",
		"The ratio of a circle's circumference to its diameter.").
		Ensure(cmdtree.TestCase{Before: vals(), After: vals("3.14159265358979323846")})
	cmdtree.NewConstant(menu, "e", "2.71828182845904523536", "e",
		"The base of the natural logarithm.").
		Ensure(cmdtree.TestCase{Before: vals(), After: vals("2.71828182845904523536")})
}

func installMisc(root *cmdtree.Menu, cfg *config.Config, status ui.Status) {
	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "I",
		Menu: root,
		Func: func(bos *apd.Decimal) (*apd.Decimal, error) {
			r := new(apd.Decimal)
			cond, err := cfg.Context().Add(r, bos, apd.New(1, 0))
			if e := arithErr(cond, err); e != nil {
				return nil, e
			}
			return r, nil
		},
		Push:        1,
		Description: "increment",
		LogAs:       cmdtree.LogUnary,
	}).
		Ensure(cmdtree.TestCase{Before: vals(5), After: vals(6)}).
		Ensure(cmdtree.TestCase{Before: vals("-1"), After: vals(0)})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "S",
		Menu: root,
		Func: func(items ...*apd.Decimal) (*apd.Decimal, error) {
			if len(items) < 2 {
				return nil, errs.InsufficientItems{Required: 2}
			}
			total := apd.New(0, 0)
			ctx := cfg.Context()
			for _, item := range items {
				cond, err := ctx.Add(total, total, item)
				if e := arithErr(cond, err); e != nil {
					return nil, e
				}
			}
			return total, nil
		},
		Push:        1,
		Description: "sum entire stack",
		LogAs: cmdtree.LogWith(func(args []*stack.Item, results []*apd.Decimal) string {
			return fmt.Sprintf("sum of %d items = %s", len(args), stack.Format(cfg, results[0]))
		}),
	}).
		Ensure(cmdtree.TestCase{Before: vals(3, 5), After: vals(8)}).
		Ensure(cmdtree.TestCase{Before: vals(1, 2, 3, 4), After: vals(10)}).
		Ensure(cmdtree.TestCase{Before: vals(5), Raises: errs.KindInsufficientItems}).
		Ensure(cmdtree.TestCase{Before: vals(), Raises: errs.KindInsufficientItems})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "R",
		Menu: root,
		Func: func(reg *register.Registry) (*apd.Decimal, error) {
			if reg.Len() == 0 {
				return nil, errs.Execution{Msg: "There are no registers defined."}
			}
			total := apd.New(0, 0)
			ctx := cfg.Context()
			for _, item := range reg.Values() {
				cond, err := ctx.Add(total, total, item.Decimal())
				if e := arithErr(cond, err); e != nil {
					return nil, e
				}
			}
			return total, nil
		},
		Push:        1,
		Description: "sum all registers",
		LogAs: cmdtree.LogWith(func(args []*stack.Item, results []*apd.Decimal) string {
			return fmt.Sprintf("sum of registers = %s", stack.Format(cfg, results[0]))
		}),
	}).
		Ensure(cmdtree.TestCase{Before: vals(), Raises: errs.KindExecution})

	cmdtree.NewOp(cmdtree.OpSpec{
		Key:  "y",
		Menu: root,
		Func: func(bos string, testing bind.Testing) error {
			if testing {
				return nil
			}
			if err := copyToClipboard(bos); err != nil {
				return errs.Execution{Msg: "Could not copy to the clipboard.", Cause: err}
			}
			status.Advisory(fmt.Sprintf("Copied '%s' to the clipboard.", bos))
			return nil
		},
		Push:        0,
		Description: "yank bos to clipboard",
		Retain:      true,
		LogAs:       cmdtree.LogFormat("copy {0} to clipboard"),
		NoSimulate:  true,
	}).
		Ensure(cmdtree.TestCase{Before: vals(5), After: vals(5)})
}

func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		cmd = exec.Command("xsel", "--clipboard", "--input")
	}
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}
