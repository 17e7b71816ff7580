// Package mode implements calculator modes: small named state cells like
// the degrees/radians switch, created and displayed by menus with families
// of related operations.
//
// A mode table belongs to the startup context; there is no process-wide
// table, so self-tests can build isolated ones.
package mode

import (
	"fmt"
	"strings"

	"src.esc.sh/pkg/errs"
)

// Mode is one named state cell.
type Mode struct {
	name    string
	value   string
	allowed []string
}

// Value returns the current value.
func (m *Mode) Value() string { return m.value }

// Table holds the modes registered in one session.
type Table struct {
	modes map[string]*Mode
}

// NewTable returns an empty mode table.
func NewTable() *Table {
	return &Table{modes: make(map[string]*Mode)}
}

// Register creates a new mode. Registering a name twice, or a default value
// outside allowed, is a programming error and panics. A nil allowed slice
// places no restriction on values.
func (t *Table) Register(name, defaultValue string, allowed []string) {
	if _, ok := t.modes[name]; ok {
		panic(errs.Programming{Msg: fmt.Sprintf("tried to re-register the existing mode '%s'", name)})
	}
	m := &Mode{name: name, allowed: allowed}
	t.modes[name] = m
	t.Set(name, defaultValue)
}

// Get returns the value of the named mode, or "" if no such mode has been
// registered.
func (t *Table) Get(name string) string {
	m, ok := t.modes[name]
	if !ok {
		return ""
	}
	return m.value
}

// Set changes the value of the named mode. Setting an unregistered mode or
// a value outside the mode's allowed set is a programming error and panics;
// failing loudly here catches a broken plugin before it produces wrong
// results.
func (t *Table) Set(name, value string) {
	m, ok := t.modes[name]
	if !ok {
		panic(errs.Programming{Msg: fmt.Sprintf("tried to set unregistered mode '%s'", name)})
	}
	if m.allowed != nil && !contains(m.allowed, value) {
		panic(errs.Programming{Msg: fmt.Sprintf(
			"tried to set invalid mode value '%s' (valid values: %s)",
			value, strings.Join(m.allowed, ", "))})
	}
	m.value = value
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
