package cmdtree

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/bind"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

// OpSpec describes an operation to register with NewOp.
type OpSpec struct {
	// Key is the access key; Menu is the menu it is registered in.
	Key  string
	Menu *Menu

	// Func is the operation's implementation. Its signature determines
	// how many stack items the operation consumes; see package bind.
	Func interface{}

	// Push is the number of values the function returns to the stack:
	// a fixed count, or -1 for a variable number.
	Push int

	// Description is the short text shown in the menu; Doc is the longer
	// help text.
	Description string
	Doc         string

	// Retain leaves the consumed items on the stack instead of popping
	// them.
	Retain bool

	// LogAs controls the history entry recorded for each run; nil logs
	// the Description.
	LogAs LogSpec

	// NoSimulate marks operations with side effects outside the
	// calculator, which must not run during a preview.
	NoSimulate bool
}

// Op is a leaf node that runs a calculation against the stack.
type Op struct {
	key         string
	description string
	doc         string
	fn          *bind.Func
	pop         int
	push        int
	retain      bool
	logAs       LogSpec
	noSimulate  bool
	tests       []TestCase
}

// NewOp registers an operation in spec.Menu. A malformed spec (bad
// function signature, duplicate key) is a programming error and panics.
func NewOp(spec OpSpec) *Op {
	fn, err := bind.Wrap(spec.Key, spec.Func)
	if err != nil {
		panic(err)
	}
	o := &Op{
		key:         spec.Key,
		description: spec.Description,
		doc:         spec.Doc,
		fn:          fn,
		pop:         fn.Pop(),
		push:        spec.Push,
		retain:      spec.Retain,
		logAs:       spec.LogAs,
		noSimulate:  spec.NoSimulate,
	}
	if err := spec.Menu.registerChild(o); err != nil {
		panic(err)
	}
	return o
}

// NewConstant registers an operation that pushes a fixed value. The value
// may be anything bind.Coerce accepts.
func NewConstant(m *Menu, key string, value interface{}, description, doc string) *Op {
	d, err := bind.Coerce(value)
	if err != nil {
		panic(errs.Programming{
			Msg:   fmt.Sprintf("the constant '%s' has an invalid value", description),
			Cause: err,
		})
	}
	return NewOp(OpSpec{
		Key:         key,
		Menu:        m,
		Func:        func() (*apd.Decimal, error) { return d, nil },
		Push:        1,
		Description: description,
		Doc:         doc,
		LogAs:       LogFormat("insert constant " + description),
	})
}

// Key returns the access key.
func (o *Op) Key() string { return o.key }

// Description returns the short description.
func (o *Op) Description() string { return o.description }

// Doc returns the help text.
func (o *Op) Doc() string { return o.doc }

// Pop returns the number of stack items the operation consumes, -1 if it
// consumes the whole stack.
func (o *Op) Pop() int { return o.pop }

// Execute runs the operation against st inside a transaction: if anything
// fails, the stack is exactly as it was before the keystroke.
func (o *Op) Execute(st *stack.Stack, reg *register.Registry) error {
	return o.run(st, reg, false)
}

func (o *Op) run(st *stack.Stack, reg *register.Registry, testing bool) error {
	return st.Transaction(func() error {
		args, err := o.retrieveArgs(st)
		if err != nil {
			return err
		}
		results, err := o.fn.Call(args, reg, testing)
		if err != nil {
			return o.translateError(err)
		}
		return o.storeResults(st, args, results)
	})
}

// retrieveArgs finalizes any pending entry, checks that the results will
// fit, and slices the operation's arguments off the stack.
func (o *Op) retrieveArgs(st *stack.Stack) ([]*stack.Item, error) {
	if _, err := st.EnterNumber(o.key); err != nil {
		return nil, errs.Execution{Msg: err.Error(), Cause: err}
	}

	if o.pop != -1 && o.push > 0 {
		delta := o.push - o.pop
		if o.retain {
			delta = o.push
		}
		if !st.HasPushSpace(delta) {
			short := delta - st.FreeSpaces()
			return nil, errs.Execution{Msg: fmt.Sprintf(
				"Stack is too full (short %d space(s)).", short)}
		}
	}

	if o.pop == -1 {
		args := st.LastN(-1)
		if !o.retain {
			st.Clear()
		}
		return args, nil
	}
	args := st.Pop(o.pop, o.retain)
	if args == nil {
		return nil, errs.InsufficientItems{Op: o.key, Required: o.pop}
	}
	return args, nil
}

// translateError turns the categorized errors an operation function may
// return into the messages shown on the status bar. The original error
// stays in the chain so self-tests can still match its category.
func (o *Op) translateError(err error) error {
	var insufficient errs.InsufficientItems
	switch {
	case errors.As(err, &insufficient):
		return errs.InsufficientItems{Op: o.key, Required: insufficient.Required}
	case errs.HasKind(err, errs.KindDivisionByZero):
		return errs.Execution{Msg: "Sorry, division by zero is against the law.", Cause: err}
	case errs.HasKind(err, errs.KindInvalidOperation):
		return errs.Execution{Msg: "That operation is not defined by the rules of arithmetic.", Cause: err}
	case errs.HasKind(err, errs.KindDomain):
		return errs.Execution{Msg: "Domain error! Stack unchanged.", Cause: err}
	case errs.HasKind(err, errs.KindExecution), errs.HasKind(err, errs.KindProgramming):
		return err
	default:
		return errs.Execution{Msg: err.Error(), Cause: err}
	}
}

// storeResults pushes the operation's results and records the history
// entry.
func (o *Op) storeResults(st *stack.Stack, args []*stack.Item, results []*apd.Decimal) error {
	if o.push >= 0 && len(results) != o.push {
		return errs.FunctionProgramming{
			Function:    o.fn.Name(),
			Key:         o.key,
			Description: o.description,
			Problem: fmt.Sprintf("returned %d result(s) where its registration promised %d",
				len(results), o.push),
		}
	}

	describe, err := o.describe(st.Config(), args, results)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		st.RecordOperation(describe)
		return nil
	}
	if !st.Push(results, describe) {
		return errs.FunctionProgramming{
			Function:    o.fn.Name(),
			Key:         o.key,
			Description: o.description,
			Problem:     "returned more results than the stack has space for",
		}
	}
	return nil
}
