package stack

import (
	"errors"
	"testing"

	"github.com/cockroachdb/apd/v3"

	"src.esc.sh/pkg/config"
	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/ui"
)

func TestTransactionCommits(t *testing.T) {
	s := newTestStack(t, "1")
	err := s.Transaction(func() error {
		pushVals(t, s, "2")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := displays(s.Items()); got != "1 2" {
		t.Errorf("stack is %q, want %q", got, "1 2")
	}
}

func TestTransactionAtomicity(t *testing.T) {
	s := newTestStack(t, "1", "2")
	before := s.Memento()
	boom := errors.New("boom")
	err := s.Transaction(func() error {
		s.Pop(2, false)
		pushVals(t, s, "99")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got error %v, want boom", err)
	}
	if !s.Memento().Equal(before) {
		t.Error("failed transaction left mutations behind")
	}
}

func TestTransactionRestoresOnPanic(t *testing.T) {
	s := newTestStack(t, "1")
	before := s.Memento()
	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic did not propagate out of the transaction")
			}
		}()
		s.Transaction(func() error {
			s.Clear()
			panic("unexpected")
		})
	}()
	if !s.Memento().Equal(before) {
		t.Error("panicking transaction left mutations behind")
	}
}

func TestTransactionRollbackWithMessage(t *testing.T) {
	rec := &ui.Recorder{}
	s := New(config.Default(), rec)
	pushVals(t, s, "1")
	before := s.Memento()

	err := s.Transaction(func() error {
		s.Push([]*apd.Decimal{mustDecimal(t, "7")}, "")
		return errs.Rollback{Message: "Register 'q' does not exist."}
	})
	if err != nil {
		t.Errorf("rollback escaped the transaction: %v", err)
	}
	if !s.Memento().Equal(before) {
		t.Error("rollback did not restore the stack")
	}
	if rec.LastError() != "Register 'q' does not exist." {
		t.Errorf("status got %q", rec.LastError())
	}
}

func TestTransactionRollbackWithoutMessage(t *testing.T) {
	rec := &ui.Recorder{}
	s := New(config.Default(), rec)
	err := s.Transaction(func() error {
		return errs.Rollback{}
	})
	if err != nil || len(rec.Errors) != 0 {
		t.Errorf("silent rollback: err %v, status errors %v", err, rec.Errors)
	}
}
