// Package register implements registers: named cells that hold a stack item
// outside the stack until it is needed again.
package register

import (
	"errors"
	"sort"
	"unicode"

	"src.esc.sh/pkg/stack"
)

// ErrInvalidName is returned when a register name is not a single letter.
var ErrInvalidName = errors.New("Register names must be uppercase or lowercase letters.")

// Registry stores the values of all registers in a session.
type Registry struct {
	regs map[string]*stack.Item
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{regs: make(map[string]*stack.Item)}
}

// Set stores a copy of item under name. The name must be a single letter.
func (r *Registry) Set(name string, item *stack.Item) error {
	if !validName(name) {
		return ErrInvalidName
	}
	r.regs[name] = item.Clone()
	return nil
}

// Get returns the item stored under name.
func (r *Registry) Get(name string) (*stack.Item, bool) {
	item, ok := r.regs[name]
	return item, ok
}

// Delete removes the register name, reporting whether it existed.
func (r *Registry) Delete(name string) bool {
	if _, ok := r.regs[name]; !ok {
		return false
	}
	delete(r.regs, name)
	return true
}

// Len returns the number of registers in use.
func (r *Registry) Len() int { return len(r.regs) }

// Names returns the register names sorted for display.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.regs))
	for name := range r.regs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Values returns the stored items, ordered by register name.
func (r *Registry) Values() []*stack.Item {
	names := r.Names()
	items := make([]*stack.Item, len(names))
	for i, name := range names {
		items[i] = r.regs[name]
	}
	return items
}

func validName(name string) bool {
	runes := []rune(name)
	return len(runes) == 1 && unicode.IsLetter(runes[0])
}
