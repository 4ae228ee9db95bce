package grouping

import (
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// State is the lifecycle stage of a Manager.
type State int

const (
	// StateUninitialized has no tree yet.
	StateUninitialized State = iota
	// StateBuilt has a tree but an empty Order Entry.
	StateBuilt
	// StateOrdered has a populated Order Entry.
	StateOrdered
	// StateCommitted has been flattened for persistence.
	StateCommitted
	// StateDiscarded has dropped all state.
	StateDiscarded
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateBuilt:
		return "built"
	case StateOrdered:
		return "ordered"
	case StateCommitted:
		return "committed"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Closed reports whether the state accepts no further edits.
func (s State) Closed() bool {
	return s == StateCommitted || s == StateDiscarded
}

type cell struct {
	key   skills.GroupKey
	phase skills.Phase
}

// Manager holds the Order Entry of one edit session: the user's sequence
// of group keys and, per (group, phase), the sequence of leaf ids. It does
// not own records; callers pass them to Rebuild after every edit.
type Manager struct {
	opts  []Option
	state State
	tree  *Tree
	order []skills.GroupKey
	cells map[cell][]int
}

// NewManager creates a Manager in StateUninitialized.
func NewManager(opts ...Option) (*Manager, error) {
	if _, err := newOptions(opts...); err != nil {
		return nil, err
	}
	return &Manager{
		opts:  opts,
		cells: make(map[cell][]int),
	}, nil
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	return m.state
}

// Tree returns the last built tree, or nil.
func (m *Manager) Tree() *Tree {
	return m.tree
}

// Order returns a copy of the Order Entry.
func (m *Manager) Order() []skills.GroupKey {
	return append([]skills.GroupKey(nil), m.order...)
}

// Cell returns a copy of the leaf-id sequence of one (group, phase).
func (m *Manager) Cell(key skills.GroupKey, phase skills.Phase) []int {
	return append([]int(nil), m.cells[cell{key, phase}]...)
}

// Rebuild recomputes the tree and reconciles the Order Entry against it.
// An empty Order Entry adopts the natural order. A populated one is
// authoritative: keys that vanished are dropped, new pending groups go
// after their anchor, any other new key is appended.
func (m *Manager) Rebuild(records []skills.Leaf, pending []skills.PendingGroup) error {
	return m.rebuild(records, pending, false)
}

// Restart rebuilds as if the Order Entry were empty, so the natural order
// is adopted. On error the manager is left unchanged.
func (m *Manager) Restart(records []skills.Leaf, pending []skills.PendingGroup) error {
	return m.rebuild(records, pending, true)
}

func (m *Manager) rebuild(records []skills.Leaf, pending []skills.PendingGroup, fresh bool) error {
	if m.state.Closed() {
		return &errors.SessionError{Operation: "rebuild", State: m.state.String()}
	}

	tree, err := Build(records, pending, m.opts...)
	if err != nil {
		return err
	}
	if fresh {
		m.order = nil
		m.cells = make(map[cell][]int)
	}
	m.tree = tree
	if m.state == StateUninitialized {
		m.state = StateBuilt
	}

	m.order, m.cells = m.reconciled(tree)

	if len(m.order) > 0 {
		m.state = StateOrdered
	} else {
		m.state = StateBuilt
	}
	return nil
}

// reconciled returns the Order Entry and leaf sequences adjusted to tree
// without modifying the manager.
func (m *Manager) reconciled(tree *Tree) ([]skills.GroupKey, map[cell][]int) {
	natural := tree.Keys()
	order := natural
	if len(m.order) > 0 {
		order = reconcile(m.order, natural, func(k skills.GroupKey) skills.GroupKey {
			n, _ := tree.Node(k)
			return n.Anchor
		})
	}

	cells := make(map[cell][]int)
	for _, key := range order {
		n, _ := tree.Node(key)
		for _, p := range skills.Phases() {
			leaves := n.Phase(p)
			if len(leaves) == 0 {
				continue
			}
			ids := make([]int, len(leaves))
			for i, l := range leaves {
				ids[i] = l.ID
			}
			c := cell{key, p}
			cells[c] = reconcile(m.cells[c], ids, nil)
		}
	}
	return order, cells
}

// Rename replaces a group key in the Order Entry, keeping its position.
// When the new key is already present the old one is dropped and its
// leaves join the existing group.
func (m *Manager) Rename(from, to skills.GroupKey) bool {
	if from == to || m.state.Closed() {
		return false
	}
	i := indexOf(m.order, from)
	if i < 0 {
		return false
	}

	if indexOf(m.order, to) >= 0 {
		m.order = append(m.order[:i], m.order[i+1:]...)
		for p, ids := range m.cellsOf(from) {
			c := cell{to, p}
			m.cells[c] = append(m.cells[c], ids...)
			delete(m.cells, cell{from, p})
		}
		return true
	}

	m.order[i] = to
	for p, ids := range m.cellsOf(from) {
		m.cells[cell{to, p}] = ids
		delete(m.cells, cell{from, p})
	}
	return true
}

func (m *Manager) cellsOf(key skills.GroupKey) map[skills.Phase][]int {
	out := make(map[skills.Phase][]int)
	for c, ids := range m.cells {
		if c.key == key {
			out[c.phase] = ids
		}
	}
	return out
}

// Reorder moves fromKey to toKey's position. Unknown or equal keys are a
// no-op and return false.
func (m *Manager) Reorder(fromKey, toKey skills.GroupKey) bool {
	if fromKey == toKey || m.state.Closed() {
		return false
	}
	from, to := indexOf(m.order, fromKey), indexOf(m.order, toKey)
	if from < 0 || to < 0 {
		return false
	}
	m.order = move(m.order, from, to)
	return true
}

// ReorderPhase moves a leaf to another leaf's position within one
// (group, phase). Leaves are addressed by id. Unknown ids are a no-op; a
// phase outside 1-5 is a contract error.
func (m *Manager) ReorderPhase(groupKey skills.GroupKey, phase skills.Phase, fromID, toID int) (bool, error) {
	if !phase.Valid() {
		return false, errors.NewContractError("ReorderPhase", "phase", int(phase), "phase must be between 1 and 5")
	}
	if fromID == toID || m.state.Closed() {
		return false, nil
	}
	c := cell{groupKey, phase}
	ids := m.cells[c]
	from, to := indexOf(ids, fromID), indexOf(ids, toID)
	if from < 0 || to < 0 {
		return false, nil
	}
	m.cells[c] = move(ids, from, to)
	return true, nil
}

// Flatten emits copies of records in Order Entry order, group by group,
// phase by phase, with every member of a group carrying the group's
// 1-based position as its display order. Groups without records are
// skipped and do not consume a position. The held Order Entry is not
// changed, so a failed save can be retried.
func (m *Manager) Flatten(records []skills.Leaf) ([]skills.Leaf, error) {
	if m.state.Closed() {
		return nil, &errors.SessionError{Operation: "flatten", State: m.state.String()}
	}
	tree, err := Build(records, nil, m.opts...)
	if err != nil {
		return nil, err
	}
	order, cells := m.reconciled(tree)

	out := make([]skills.Leaf, 0, len(records))
	position := 0
	for _, row := range buildRows(tree, order, cells) {
		if row.count == 0 {
			continue
		}
		position++
		for _, bucket := range row.Phases {
			for _, leaf := range bucket {
				out = append(out, withOrder(leaf, position))
			}
		}
		for _, leaf := range row.Unphased {
			out = append(out, withOrder(leaf, position))
		}
	}
	return out, nil
}

// Commit moves the manager to StateCommitted. No further edits are
// accepted.
func (m *Manager) Commit() error {
	if m.state.Closed() {
		return &errors.SessionError{Operation: "commit", State: m.state.String()}
	}
	m.state = StateCommitted
	return nil
}

// Discard drops the tree and the Order Entry.
func (m *Manager) Discard() {
	m.tree = nil
	m.order = nil
	m.cells = nil
	m.state = StateDiscarded
}

func withOrder(leaf skills.Leaf, position int) skills.Leaf {
	c := leaf.Clone()
	c.DisplayOrder = skills.IntPtr(position)
	return c
}

// reconcile keeps held's order for keys still in natural, then places keys
// new to held: after their anchor when anchorOf names one already placed,
// otherwise at the end in natural order.
func reconcile[K comparable](held, natural []K, anchorOf func(K) K) []K {
	present := make(map[K]bool, len(natural))
	for _, k := range natural {
		present[k] = true
	}

	out := make([]K, 0, len(natural))
	placed := make(map[K]bool, len(natural))
	for _, k := range held {
		if present[k] && !placed[k] {
			out = append(out, k)
			placed[k] = true
		}
	}

	var zero K
	for _, k := range natural {
		if placed[k] {
			continue
		}
		anchor := zero
		if anchorOf != nil {
			anchor = anchorOf(k)
		}
		out = insertAfter(out, k, anchor)
		placed[k] = true
	}
	return out
}

func indexOf[K comparable](seq []K, k K) int {
	for i, v := range seq {
		if v == k {
			return i
		}
	}
	return -1
}

// move removes the element at from and reinserts it at to.
func move[K any](seq []K, from, to int) []K {
	out := make([]K, 0, len(seq))
	out = append(out, seq[:from]...)
	out = append(out, seq[from+1:]...)
	v := seq[from]
	out = append(out, v)
	copy(out[to+1:], out[to:])
	out[to] = v
	return out
}
