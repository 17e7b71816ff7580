package stack

// Memento is a deep, independent snapshot of a Stack's state. It is produced
// by Memento and consumed by Restore; the history manager keeps sequences of
// them, and transactions keep one for rollback.
type Memento struct {
	items   []*Item
	editing bool
	oplog   []string
}

// Memento snapshots the stack. The snapshot shares nothing with the live
// stack and stays valid however the stack is mutated afterwards.
func (s *Stack) Memento() *Memento {
	m := &Memento{
		items:   make([]*Item, len(s.items)),
		editing: s.editing,
		oplog:   append([]string(nil), s.oplog...),
	}
	for i, it := range s.items {
		m.items[i] = it.Clone()
	}
	return m
}

// Restore brings the stack back to a snapshotted state. The memento remains
// usable afterwards. Restoring goes through setEditing so that status
// observers see the edit-mode transition.
func (s *Stack) Restore(m *Memento) {
	s.items = make([]*Item, len(m.items))
	for i, it := range m.items {
		s.items[i] = it.Clone()
	}
	s.oplog = append([]string(nil), m.oplog...)
	s.setEditing(m.editing)
}

// Equal reports whether two snapshots capture identical state. The history
// manager uses this to suppress checkpoints that would be exact duplicates.
func (m *Memento) Equal(other *Memento) bool {
	if m.editing != other.editing ||
		len(m.items) != len(other.items) ||
		len(m.oplog) != len(other.oplog) {
		return false
	}
	for i, it := range m.items {
		if !it.Equal(other.items[i]) {
			return false
		}
	}
	for i, op := range m.oplog {
		if op != other.oplog[i] {
			return false
		}
	}
	return true
}
