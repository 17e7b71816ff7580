package stack

import (
	"errors"

	"src.esc.sh/pkg/errs"
)

// Transaction runs body with all-or-nothing visibility of stack mutations.
//
// If body returns nil, its mutations persist. If body returns an
// errs.Rollback, the stack is restored to its state at entry, the rollback
// message (if any) goes to the status sink, and Transaction returns nil: the
// rollback is fully handled here. Any other error, and any panic, also
// restores the stack before being passed on.
func (s *Stack) Transaction(body func() error) error {
	checkpoint := s.Memento()
	defer func() {
		if r := recover(); r != nil {
			s.Restore(checkpoint)
			panic(r)
		}
	}()

	err := body()
	if err == nil {
		return nil
	}
	s.Restore(checkpoint)

	var rb errs.Rollback
	if errors.As(err, &rb) {
		logger.Printf("transaction rolled back: %s", rb.Message)
		if rb.Message != "" {
			s.status.Error(rb.Message)
		}
		return nil
	}
	logger.Printf("transaction failed: %v", err)
	return err
}
