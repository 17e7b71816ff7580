package stack

import (
	"fmt"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/logutil"
	"src.esc.sh/pkg/ui"
)

var logger = logutil.GetLogger("[stack] ")

// Checkpointer saves pre-action snapshots of a Stack. It is implemented by
// the history manager; the stack calls it from EnterNumber so that every
// mutating action is preceded by a checkpoint.
type Checkpointer interface {
	Checkpoint(s *Stack)
}

// BackspaceResult describes what a Backspace call did.
type BackspaceResult int

const (
	// NothingToBackspace: no item was being edited.
	NothingToBackspace BackspaceResult = iota
	// CharRemoved: one character was removed from the item being edited.
	CharRemoved
	// ItemRemoved: the item being edited was down to one character and was
	// removed entirely; editing is over.
	ItemRemoved
)

// Stack is the calculator stack: a bounded ordered sequence of Items, the
// flag saying whether the last item is still being typed, and a log of the
// operations that produced the current state.
//
// A Stack is owned by one session loop and is never shared; operations
// receive it by reference and mutate it only inside a Transaction.
type Stack struct {
	cfg    *config.Config
	status ui.Status
	ckpt   Checkpointer

	items   []*Item
	editing bool
	oplog   []string
}

// New returns an empty Stack. status may be nil, in which case state
// transitions are discarded.
func New(cfg *config.Config, status ui.Status) *Stack {
	if status == nil {
		status = ui.Discard
	}
	return &Stack{cfg: cfg, status: status}
}

// SetCheckpointer wires the history manager in. A nil Checkpointer is valid
// and used by throwaway stacks in self-tests.
func (s *Stack) SetCheckpointer(c Checkpointer) { s.ckpt = c }

// Config returns the configuration the stack was built with.
func (s *Stack) Config() *config.Config { return s.cfg }

// Items returns the items bottom-to-top as a new slice. The items themselves
// are shared; callers must treat them as read-only.
func (s *Stack) Items() []*Item {
	return append([]*Item(nil), s.items...)
}

// Depth returns the number of items on the stack.
func (s *Stack) Depth() int { return len(s.items) }

// IsEmpty reports whether the stack has no items.
func (s *Stack) IsEmpty() bool { return len(s.items) == 0 }

// Editing reports whether the last item is still being typed.
func (s *Stack) Editing() bool { return s.editing }

// Bos returns the bottom of stack, the most recently pushed item, or nil if
// the stack is empty.
func (s *Stack) Bos() *Item {
	if len(s.items) == 0 {
		return nil
	}
	return s.items[len(s.items)-1]
}

// CursorPos returns the column of the entry cursor within the item being
// edited, or 0 if no item is being edited.
func (s *Stack) CursorPos() int {
	if !s.editing {
		return 0
	}
	return len(s.Bos().Display())
}

// FreeSpaces returns how many more items fit on the stack.
func (s *Stack) FreeSpaces() int { return s.cfg.StackDepth - len(s.items) }

// HasPushSpace reports whether n more items fit on the stack.
func (s *Stack) HasPushSpace(n int) bool { return len(s.items)+n <= s.cfg.StackDepth }

// Decimals returns the numeric values of all items bottom-to-top. Partial
// items contribute nil.
func (s *Stack) Decimals() []*apd.Decimal {
	ds := make([]*apd.Decimal, len(s.items))
	for i, it := range s.items {
		ds[i] = it.Decimal()
	}
	return ds
}

// OperationLog returns a copy of the operation descriptions recorded so far.
func (s *Stack) OperationLog() []string {
	return append([]string(nil), s.oplog...)
}

// LastOperation returns the most recent operation description, or "".
func (s *Stack) LastOperation() string {
	if len(s.oplog) == 0 {
		return ""
	}
	return s.oplog[len(s.oplog)-1]
}

// RecordOperation appends a description to the operation log. Operations
// that push results get this for free from Push; pop-only operations call
// it so that they still show up in the history.
func (s *Stack) RecordOperation(description string) {
	s.oplog = append(s.oplog, description)
}

// Push appends one entered item per value, each rendered canonically. It
// reports false, mutating nothing, if the values do not fit. A non-empty
// description is recorded in the operation log.
func (s *Stack) Push(vals []*apd.Decimal, description string) bool {
	if !s.HasPushSpace(len(vals)) {
		return false
	}
	if description != "" {
		s.RecordOperation(description)
	}
	for _, d := range vals {
		s.items = append(s.items, NewItem(s.cfg, d))
	}
	return true
}

// PushItems appends copies of the given items. Same contract as Push.
func (s *Stack) PushItems(description string, items ...*Item) bool {
	if !s.HasPushSpace(len(items)) {
		return false
	}
	if description != "" {
		s.RecordOperation(description)
	}
	for _, it := range items {
		s.items = append(s.items, it.Clone())
	}
	return true
}

// Pop removes the last n items and returns them bottom-to-top, or returns
// them without removing if retain is true. It returns nil, leaving the stack
// untouched, if fewer than n items exist. n == 0 returns an empty slice.
func (s *Stack) Pop(n int, retain bool) []*Item {
	if n == 0 {
		return []*Item{}
	}
	if n < 0 || n > len(s.items) {
		return nil
	}
	popped := append([]*Item(nil), s.items[len(s.items)-n:]...)
	if !retain {
		s.items = s.items[:len(s.items)-n]
	}
	return popped
}

// LastN returns the last n items without removing them. n == 0 returns an
// empty slice and n == -1 a copy of the whole stack, matching the meaning of
// pop counts in operation dispatch. If fewer than n items exist, all of them
// are returned.
func (s *Stack) LastN(n int) []*Item {
	switch {
	case n == -1 || n > len(s.items):
		return append([]*Item(nil), s.items...)
	case n <= 0:
		return []*Item{}
	default:
		return append([]*Item(nil), s.items[len(s.items)-n:]...)
	}
}

// AddChar routes a typed character to the item being edited, or opens a new
// partial item when none is. It reports false when the stack is full (no
// room for a new item) or the item has hit the width limit.
func (s *Stack) AddChar(r rune) bool {
	if s.editing {
		return s.Bos().AddChar(s.cfg, r)
	}
	if !s.HasPushSpace(1) {
		return false
	}
	s.items = append(s.items, NewPartial(string(r)))
	s.setEditing(true)
	return true
}

// Backspace undoes one character of entry. See BackspaceResult for the three
// possible outcomes.
func (s *Stack) Backspace() BackspaceResult {
	if !s.editing {
		return NothingToBackspace
	}
	bos := s.Bos()
	if len(bos.Display()) == 1 {
		s.items = s.items[:len(s.items)-1]
		s.setEditing(false)
		return ItemRemoved
	}
	bos.Backspace()
	return CharRemoved
}

// EnterNumber finishes the entry of the number being typed, if any.
//
// The history is checkpointed first in every case, even when nothing is
// being edited: operations call EnterNumber before touching the stack, so
// this yields a consistent pre-action checkpoint, and duplicate checkpoints
// are suppressed by the history manager.
//
// It returns (true, nil) when a number was finished, (false, nil) when
// nothing was being edited, and a non-nil error when the typed string is not
// a valid number. Set runningOp to an operation key for a more helpful
// error message when entering on behalf of an operation.
func (s *Stack) EnterNumber(runningOp string) (bool, error) {
	if s.ckpt != nil {
		s.ckpt.Checkpoint(s)
	}
	if !s.editing {
		return false, nil
	}
	if s.Bos().Finalize(s.cfg) {
		s.setEditing(false)
		return true, nil
	}
	msg := "Bottom of stack is not a valid number."
	if runningOp != "" {
		msg = fmt.Sprintf("Cannot run %q: invalid value on bos.", runningOp)
	}
	return false, errs.Execution{Msg: msg}
}

// Clear empties the stack. It does not checkpoint history; callers decide
// whether the clear is undoable.
func (s *Stack) Clear() {
	s.items = nil
	s.setEditing(false)
}

func (s *Stack) setEditing(v bool) {
	s.editing = v
	if v {
		s.status.EnteringNumber()
	} else {
		s.status.Ready()
	}
}
