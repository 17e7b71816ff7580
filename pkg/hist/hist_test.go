package hist

import (
	"testing"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/stack"
)

func push(t *testing.T, s *stack.Stack, val string) {
	t.Helper()
	d, _, err := apd.NewFromString(val)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Push([]*apd.Decimal{d}, "") {
		t.Fatalf("push %q failed", val)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	h := New()
	s := stack.New(config.Default(), nil)

	h.Checkpoint(s)
	push(t, s, "1")
	h.Checkpoint(s)
	push(t, s, "2")
	h.Checkpoint(s)
	push(t, s, "3")

	before := s.Memento()
	if !h.Undo(s) {
		t.Fatal("Undo failed")
	}
	if s.Depth() != 2 {
		t.Errorf("after undo, depth is %d, want 2", s.Depth())
	}
	if !h.Redo(s) {
		t.Fatal("Redo failed")
	}
	if !s.Memento().Equal(before) {
		t.Error("undo+redo did not restore the original state")
	}
}

func TestUndoEmpty(t *testing.T) {
	h := New()
	s := stack.New(config.Default(), nil)
	if h.Undo(s) {
		t.Error("Undo succeeded with no checkpoints")
	}
	if h.Redo(s) {
		t.Error("Redo succeeded with no checkpoints")
	}
}

func TestDuplicateCheckpointsSuppressed(t *testing.T) {
	h := New()
	s := stack.New(config.Default(), nil)
	push(t, s, "1")
	h.Checkpoint(s)
	h.Checkpoint(s)
	h.Checkpoint(s)

	if !h.Undo(s) {
		t.Fatal("Undo failed")
	}
	if h.Undo(s) {
		t.Error("duplicate checkpoints were recorded")
	}
}

func TestNewCheckpointClearsRedo(t *testing.T) {
	h := New()
	s := stack.New(config.Default(), nil)
	h.Checkpoint(s)
	push(t, s, "1")
	if !h.Undo(s) {
		t.Fatal("Undo failed")
	}
	if !h.CanRedo() {
		t.Fatal("no redo available after undo")
	}

	push(t, s, "7")
	h.Checkpoint(s)
	if h.CanRedo() {
		t.Error("redo list survived a new checkpoint")
	}
}

func TestClear(t *testing.T) {
	h := New()
	s := stack.New(config.Default(), nil)
	h.Checkpoint(s)
	push(t, s, "1")
	h.Checkpoint(s)
	h.Undo(s)
	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear left history behind")
	}
}
