// Package hist manages the undo/redo history of the calculator stack.
package hist

import (
	"src.esc.sh/pkg/logutil"
	"src.esc.sh/pkg/stack"
)

var logger = logutil.GetLogger("[hist] ")

// History keeps checkpoints of the stack over time and moves between them.
// It implements stack.Checkpointer.
type History struct {
	undo []*stack.Memento
	redo []*stack.Memento
}

// New returns an empty History.
func New() *History {
	return &History{}
}

// Checkpoint records the current state of s as an undo step. A checkpoint
// identical to the most recent one is dropped, so that repeated pre-action
// checkpoints from idempotent entry do not pile up. Any new checkpoint
// invalidates the redo list.
func (h *History) Checkpoint(s *stack.Stack) {
	if len(h.redo) > 0 {
		h.redo = nil
	}
	m := s.Memento()
	if n := len(h.undo); n == 0 || !h.undo[n-1].Equal(m) {
		h.undo = append(h.undo, m)
	}
}

// Undo brings s back to the preceding checkpoint, saving the current state
// for redo. It reports false if there is nothing to undo.
func (h *History) Undo(s *stack.Stack) bool {
	if len(h.undo) == 0 {
		return false
	}
	m := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, s.Memento())
	s.Restore(m)
	return true
}

// Redo brings s forward to the next checkpoint in the redo list, saving the
// current state for undo. It reports false if there is nothing to redo.
func (h *History) Redo(s *stack.Stack) bool {
	if len(h.redo) == 0 {
		return false
	}
	m := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, s.Memento())
	s.Restore(m)
	return true
}

// Clear drops all history. It is called after the startup self-tests so
// that the user session does not start with test-induced undo steps.
func (h *History) Clear() {
	if len(h.undo) > 0 || len(h.redo) > 0 {
		logger.Printf("clearing %d undo and %d redo checkpoints", len(h.undo), len(h.redo))
	}
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether an undo step is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
