package cmdtree

import (
	"src.esc.sh/pkg/register"
	"src.esc.sh/pkg/stack"
)

// Simulate runs the operation against copies of the stack and registers and
// describes what would happen, without touching the real session state. The
// help screen shows the result next to the operation's documentation.
func (o *Op) Simulate(st *stack.Stack, reg *register.Registry) []string {
	if o.noSimulate {
		return []string{
			"The author of this operation has disabled",
			"simulations.",
		}
	}

	scratch := stack.New(st.Config(), nil)
	scratch.Restore(st.Memento())
	scratchReg := register.New()
	for _, name := range reg.Names() {
		if item, ok := reg.Get(name); ok {
			scratchReg.Set(name, item)
		}
	}

	if err := o.run(scratch, scratchReg, false); err != nil {
		return []string{
			"If you run this operation now,",
			"it will fail with this error:",
			"",
			err.Error(),
		}
	}

	lines := []string{
		"This calculation would occur:",
		"",
		"    " + scratch.LastOperation(),
		"",
		"The stack would then contain:",
	}
	for _, item := range scratch.Items() {
		lines = append(lines, "    "+item.Display())
	}
	if scratch.IsEmpty() {
		lines = append(lines, "    (nothing)")
	}
	return lines
}
