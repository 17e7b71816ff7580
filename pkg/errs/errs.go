// Package errs declares the error types shared across esc packages.
//
// The session loop and the self-test harness need to tell error categories
// apart without string matching, so every error here carries a Kind. Errors
// that translate another error keep it in a Cause field; HasKind follows the
// chain so that a test declared against the underlying category still matches
// after translation.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies a category of esc error. The set is closed; the dispatch
// loop and self-test declarations match on it.
type Kind uint8

const (
	KindNone Kind = iota
	// KindNotInMenu: a menu access key that resolves to nothing.
	KindNotInMenu
	// KindInsufficientItems: an operation needs more stack items than exist.
	KindInsufficientItems
	// KindExecution: an operation failed in a way the user can recover from.
	KindExecution
	// KindDivisionByZero: arithmetic divided by zero.
	KindDivisionByZero
	// KindInvalidOperation: arithmetic the decimal rules cannot represent.
	KindInvalidOperation
	// KindDomain: an input outside a function's domain.
	KindDomain
	// KindRollback: an explicit request to roll back a stack transaction.
	KindRollback
	// KindProgramming: a broken operation or registration; fatal at startup.
	KindProgramming
)

// kinder is implemented by every error type in this package.
type kinder interface {
	Kind() Kind
}

// HasKind reports whether err, or any error it wraps, has kind k.
func HasKind(err error, k Kind) bool {
	for err != nil {
		if kr, ok := err.(kinder); ok && kr.Kind() == k {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// NotInMenu is returned when an access key does not exist in the active menu.
type NotInMenu struct {
	Key string
}

func (e NotInMenu) Error() string {
	return fmt.Sprintf("There's no option '%s' in this menu.", e.Key)
}

// Kind returns KindNotInMenu.
func (e NotInMenu) Kind() Kind { return KindNotInMenu }

// InsufficientItems is returned when an operation requires more items than
// the stack holds. Operations that take the whole stack return it with only
// Required set; the dispatcher re-wraps it with the operation key filled in.
type InsufficientItems struct {
	Op       string
	Required int
}

func (e InsufficientItems) Error() string {
	noun := "items"
	if e.Required == 1 {
		noun = "item"
	}
	if e.Op != "" {
		return fmt.Sprintf("'%s' needs at least %d %s on stack.", e.Op, e.Required, noun)
	}
	return fmt.Sprintf("insufficient items: needs at least %d %s", e.Required, noun)
}

// Kind returns KindInsufficientItems.
func (e InsufficientItems) Kind() Kind { return KindInsufficientItems }

// Execution is a user-recoverable operation failure. Msg is shown on the
// status bar verbatim; Cause, if set, preserves the failure it translates.
type Execution struct {
	Msg   string
	Cause error
}

func (e Execution) Error() string { return e.Msg }

func (e Execution) Unwrap() error { return e.Cause }

// Kind returns KindExecution.
func (e Execution) Kind() Kind { return KindExecution }

// DivisionByZero reports a division by zero.
type DivisionByZero struct{}

func (e DivisionByZero) Error() string { return "division by zero" }

// Kind returns KindDivisionByZero.
func (e DivisionByZero) Kind() Kind { return KindDivisionByZero }

// InvalidOperation reports arithmetic that is undefined under the decimal
// arithmetic rules, like 0^0 or the remainder of division by zero.
type InvalidOperation struct{}

func (e InvalidOperation) Error() string { return "invalid operation" }

// Kind returns KindInvalidOperation.
func (e InvalidOperation) Kind() Kind { return KindInvalidOperation }

// Domain reports an argument outside the domain of a function, like the
// square root of a negative number.
type Domain struct {
	Cause error
}

func (e Domain) Error() string { return "domain error" }

func (e Domain) Unwrap() error { return e.Cause }

// Kind returns KindDomain.
func (e Domain) Kind() Kind { return KindDomain }

// Rollback asks the enclosing stack transaction to restore the checkpoint
// and show Message on the status bar. It is handled by the transaction
// scope itself and never escapes it.
type Rollback struct {
	Message string
}

func (e Rollback) Error() string {
	return fmt.Sprintf("rollback transaction: %s", e.Message)
}

// Kind returns KindRollback.
func (e Rollback) Kind() Kind { return KindRollback }

// Programming reports a broken plugin or registration. It is never shown to
// the user during normal operation; it aborts startup instead.
type Programming struct {
	Msg   string
	Cause error
}

func (e Programming) Error() string { return e.Msg }

func (e Programming) Unwrap() error { return e.Cause }

// Kind returns KindProgramming.
func (e Programming) Kind() Kind { return KindProgramming }

// FunctionProgramming is a Programming error attributed to a specific
// operation function, with a standardized message.
type FunctionProgramming struct {
	Function    string
	Key         string
	Description string
	Problem     string
	Cause       error
}

func (e FunctionProgramming) Error() string {
	msg := fmt.Sprintf("The function '%s' (key '%s', description '%s') %s.",
		e.Function, e.Key, e.Description, e.Problem)
	if e.Cause != nil {
		msg += " The original error message is as follows: " + e.Cause.Error()
	}
	return msg
}

func (e FunctionProgramming) Unwrap() error { return e.Cause }

// Kind returns KindProgramming.
func (e FunctionProgramming) Kind() Kind { return KindProgramming }
