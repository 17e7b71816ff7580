package cmdtree

// Builtin is a leaf node for a command the session loop implements itself:
// undo, redo, the register commands. Registering them in the tree gives
// them a place in the menu display and the help screen; executing them
// through the tree does nothing.
type Builtin struct {
	key         string
	description string
	doc         string
	simulate    []string
}

// NewBuiltin registers a builtin under key in menu m.
func NewBuiltin(m *Menu, key, description, doc string, simulate []string) *Builtin {
	b := &Builtin{key: key, description: description, doc: doc, simulate: simulate}
	if err := m.registerChild(b); err != nil {
		panic(err)
	}
	return b
}

// Key returns the access key.
func (b *Builtin) Key() string { return b.key }

// Description returns the short description.
func (b *Builtin) Description() string { return b.description }

// Doc returns the help text.
func (b *Builtin) Doc() string { return b.doc }

// Simulate returns the fixed preview text shown on the help screen.
func (b *Builtin) Simulate() []string { return b.simulate }

// RegisterStandardBuiltins adds the session loop's fixed commands to the
// main menu so they show up in the menu display and help.
func RegisterStandardBuiltins(root *Menu) {
	NewBuiltin(root, StoreRegKey, "store bos to register",
		"Copy the bottom item of the stack into a register, a named slot "+
			"that keeps the value until you need it again. You will be "+
			"prompted for the register's name, which must be a single "+
			"uppercase or lowercase letter.",
		[]string{"If you press this key, you will be", "prompted for a register name."})
	NewBuiltin(root, RetrieveRegKey, "retrieve bos from register",
		"Copy a register's value onto the bottom of the stack. You will be "+
			"prompted for the register's name. The register keeps its "+
			"value; use 'X' to delete one.",
		[]string{"If you press this key, you will be", "prompted for a register name."})
	NewBuiltin(root, DeleteRegKey, "delete register",
		"Delete a register, dropping its value. You will be prompted for "+
			"the register's name.",
		[]string{"If you press this key, you will be", "prompted for a register name."})
	NewBuiltin(root, UndoKey, "undo",
		"Undo the last change to the stack. Undo history is unlimited "+
			"within a session.",
		[]string{"If you press this key, the stack will", "return to its previous state."})
	NewBuiltin(root, RedoKey, "redo (Ctrl-R)",
		"Redo a change you just undid. The redo history is dropped as soon "+
			"as you change the stack in some other way.",
		[]string{"If you press this key, the last", "undone change will be reapplied."})
	NewBuiltin(root, QuitKey, "quit",
		"Quit esc. From a submenu, return to the main menu instead.",
		[]string{"If you press this key, esc will exit."})
}
