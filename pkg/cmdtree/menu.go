// Package cmdtree implements the tree of menus and operations that a
// calculator session dispatches keystrokes into.
//
// The tree is built once at startup by operation plugins and is immutable
// afterwards. Nodes come in exactly four flavors: Menu, Op, ModeChange and
// Builtin; the dispatcher switches over this closed set. Registration
// mistakes (duplicate keys, malformed functions) panic with a programming
// error so a broken plugin is caught before the first keystroke.
package cmdtree

import (
	"errors"
	"fmt"

	"src.esc.sh/pkg/errs"
	"src.esc.sh/pkg/logutil"
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

var logger = logutil.GetLogger("[cmdtree] ")

// Access keys with fixed meanings. QuitKey is handled by the menus
// themselves; the others belong to builtins that the session loop
// implements directly.
const (
	QuitKey        = "q"
	UndoKey        = "u"
	RedoKey        = "\x12" // Ctrl-R
	StoreRegKey    = ">"
	RetrieveRegKey = "<"
	DeleteRegKey   = "X"
)

// ErrExit is returned by Menu.Execute when the user quits from the main
// menu.
var ErrExit = errors.New("exit requested")

// Node is one entry of the command tree.
type Node interface {
	Key() string
	Description() string
	Doc() string
}

// Menu is an inner node: a named collection of children reached by access
// keys.
type Menu struct {
	key         string
	description string
	doc         string
	parent      *Menu
	children    map[string]Node
	order       []string
	modeDisplay func() string
}

// NewRoot returns an empty main menu.
func NewRoot(description, doc string) *Menu {
	return &Menu{description: description, doc: doc, children: make(map[string]Node)}
}

// NewMenu creates a submenu of parent reached by key. modeDisplay, if not
// nil, is called when the menu is displayed and its result shown next to
// the description; menus whose operations depend on a mode use it to keep
// the mode visible. Duplicate keys panic.
func NewMenu(parent *Menu, key, description, doc string, modeDisplay func() string) *Menu {
	m := &Menu{
		key:         key,
		description: description,
		doc:         doc,
		parent:      parent,
		children:    make(map[string]Node),
		modeDisplay: modeDisplay,
	}
	if err := parent.registerChild(m); err != nil {
		panic(err)
	}
	return m
}

// Key returns the menu's access key; the root menu's key is empty.
func (m *Menu) Key() string { return m.key }

// Description returns the menu's short description.
func (m *Menu) Description() string { return m.description }

// Doc returns the menu's help text.
func (m *Menu) Doc() string { return m.doc }

// AnnotatedDescription returns the description with the mode display, if
// any, appended in parentheses.
func (m *Menu) AnnotatedDescription() string {
	if m.modeDisplay == nil {
		return m.description
	}
	return fmt.Sprintf("%s (%s)", m.description, m.modeDisplay())
}

// Root returns the main menu at the top of this menu's tree.
func (m *Menu) Root() *Menu {
	for m.parent != nil {
		m = m.parent
	}
	return m
}

// Children returns the menu's children in registration order.
func (m *Menu) Children() []Node {
	cs := make([]Node, len(m.order))
	for i, key := range m.order {
		cs[i] = m.children[key]
	}
	return cs
}

// Child returns the child registered under key.
func (m *Menu) Child(key string) (Node, bool) {
	c, ok := m.children[key]
	return c, ok
}

func (m *Menu) registerChild(c Node) error {
	if existing, ok := m.children[c.Key()]; ok {
		return errs.Programming{Msg: fmt.Sprintf(
			"cannot add '%s' as a child of '%s': the access key '%s' is already in use for '%s'",
			c.Description(), m.description, c.Key(), existing.Description())}
	}
	m.children[c.Key()] = c
	m.order = append(m.order, c.Key())
	return nil
}

// Execute dispatches one access key pressed while this menu is active. It
// returns the menu that becomes active next: the chosen submenu, or the
// main menu after an operation runs or a key fails to resolve. Quitting
// from the main menu returns ErrExit; quitting from a submenu pops one
// level, back to the parent.
func (m *Menu) Execute(key string, st *stack.Stack, reg *register.Registry) (*Menu, error) {
	if key == QuitKey {
		if m.parent == nil {
			return nil, ErrExit
		}
		return m.parent, nil
	}
	child, ok := m.children[key]
	if !ok {
		return m.Root(), errs.NotInMenu{Key: key}
	}
	switch c := child.(type) {
	case *Menu:
		return c, nil
	case *Op:
		err := c.Execute(st, reg)
		if err == nil {
			logger.Printf("executed operation '%s'", c.Key())
		}
		return m.Root(), err
	case *ModeChange:
		c.apply()
		logger.Printf("mode change '%s'", c.Key())
		return m.Root(), nil
	case *Builtin:
		// Builtins are implemented by the session loop; reaching one
		// here means the loop chose not to handle it, so do nothing.
		return m.Root(), nil
	default:
		panic(errs.Programming{Msg: fmt.Sprintf("unknown node type %T in menu '%s'", child, m.description)})
	}
}

// ModeChange is a leaf that sets a calculator mode when its key is
// pressed. It never touches the stack and is not undoable.
type ModeChange struct {
	key         string
	description string
	apply       func()
}

// NewModeChange registers a mode change under key in menu m. apply is
// called each time the key is pressed.
func NewModeChange(m *Menu, key, description string, apply func()) *ModeChange {
	c := &ModeChange{key: key, description: description, apply: apply}
	if err := m.registerChild(c); err != nil {
		panic(err)
	}
	return c
}

// Key returns the access key.
func (c *ModeChange) Key() string { return c.key }

// Description returns the short description.
func (c *ModeChange) Description() string { return c.description }

// Doc returns the help text.
func (c *ModeChange) Doc() string {
	return fmt.Sprintf("Set the current mode to %s.", c.description)
}
