package cmdtree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/stack"
)

// LogSpec produces the history entry recorded when an operation runs.
// Arguments are rendered with their display strings, the exact text the
// user saw on the stack; results are rendered through the canonical
// formatter. A spec that needs more arguments or results than the
// operation ran with reports a programming error naming the operation.
type LogSpec interface {
	describe(o *Op, cfg *config.Config, args []*stack.Item, results []*apd.Decimal) (string, error)
}

// LogUnary logs "description arg = result", suiting operations on one
// value.
var LogUnary LogSpec = unaryLog{}

// LogBinary logs "arg key arg = result", suiting infix arithmetic.
var LogBinary LogSpec = binaryLog{}

// LogFormat logs the given format string, with {0}, {1}, ... replaced by
// the operation's arguments followed by its results. Placeholders beyond
// the available values are left untouched.
func LogFormat(format string) LogSpec { return formatLog{format} }

// LogWith logs the string returned by fn, for entries no fixed format can
// express.
func LogWith(fn func(args []*stack.Item, results []*apd.Decimal) string) LogSpec {
	return funcLog{fn}
}

type unaryLog struct{}

func (unaryLog) describe(o *Op, cfg *config.Config, args []*stack.Item, results []*apd.Decimal) (string, error) {
	if len(args) < 1 || len(results) < 1 {
		return "", logArityProblem(o, "declares unary logging but ran without an argument and a result")
	}
	return fmt.Sprintf("%s %s = %s", o.description, args[0].Display(), stack.Format(cfg, results[0])), nil
}

type binaryLog struct{}

func (binaryLog) describe(o *Op, cfg *config.Config, args []*stack.Item, results []*apd.Decimal) (string, error) {
	if len(args) < 2 || len(results) < 1 {
		return "", logArityProblem(o, "declares binary logging but ran without two arguments and a result")
	}
	return fmt.Sprintf("%s %s %s = %s",
		args[0].Display(), o.key, args[1].Display(), stack.Format(cfg, results[0])), nil
}

type formatLog struct{ format string }

func (l formatLog) describe(o *Op, cfg *config.Config, args []*stack.Item, results []*apd.Decimal) (string, error) {
	vals := make([]string, 0, len(args)+len(results))
	for _, a := range args {
		vals = append(vals, a.Display())
	}
	for _, r := range results {
		vals = append(vals, stack.Format(cfg, r))
	}
	out := l.format
	for i, v := range vals {
		out = strings.ReplaceAll(out, "{"+strconv.Itoa(i)+"}", v)
	}
	return out, nil
}

type funcLog struct {
	fn func(args []*stack.Item, results []*apd.Decimal) string
}

func (l funcLog) describe(o *Op, cfg *config.Config, args []*stack.Item, results []*apd.Decimal) (string, error) {
	return l.fn(args, results), nil
}

func logArityProblem(o *Op, problem string) error {
	return errs.FunctionProgramming{
		Function:    o.fn.Name(),
		Key:         o.key,
		Description: o.description,
		Problem:     problem,
	}
}

// describe renders the history entry for one run of the operation.
func (o *Op) describe(cfg *config.Config, args []*stack.Item, results []*apd.Decimal) (string, error) {
	if o.logAs == nil {
		return o.description, nil
	}
	return o.logAs.describe(o, cfg, args, results)
}
