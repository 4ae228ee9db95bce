// Package grouping builds the editable hierarchy of a record set
// (group → phase → leaf) and holds the user's arrangement of it.
package grouping

import (
	"sort"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Node is one group: every leaf sharing a group key, bucketed by phase.
type Node struct {
	// Key is the order-entry key: the group key, or new-<placeholder> for
	// a pending group.
	Key         skills.GroupKey
	Category    string
	Item        string
	SubCategory string
	// Placeholder is set while the group itself is unpersisted.
	Placeholder string
	// Anchor is the key a pending group was inserted after.
	Anchor skills.GroupKey

	phases [constants.PhaseCount][]skills.Leaf
	// Unphased holds leaves whose phase is outside 1-5 so they are never
	// dropped while the validator flags them.
	Unphased []skills.Leaf

	// first is the first member in record order.
	first *skills.Leaf
	seq   int
}

// Phase returns the leaves of one phase bucket in record order. Phases
// outside 1-5 return nil.
func (n *Node) Phase(p skills.Phase) []skills.Leaf {
	if !p.Valid() {
		return nil
	}
	return n.phases[p-constants.MinPhase]
}

// Count returns the number of leaves in the group, unphased included.
func (n *Node) Count() int {
	c := len(n.Unphased)
	for _, bucket := range n.phases {
		c += len(bucket)
	}
	return c
}

// IsPending reports whether the group has not been persisted yet.
func (n *Node) IsPending() bool {
	return n.Placeholder != ""
}

// GroupKey returns the key the group has by its labels.
func (n *Node) GroupKey() skills.GroupKey {
	return skills.NewGroupKey(n.Category, n.Item, n.SubCategory)
}

func (n *Node) add(leaf skills.Leaf) {
	if n.first == nil {
		c := leaf
		n.first = &c
	}
	if leaf.Phase.Valid() {
		i := leaf.Phase - constants.MinPhase
		n.phases[i] = append(n.phases[i], leaf)
		return
	}
	n.Unphased = append(n.Unphased, leaf)
}

// Tree is the grouped view of a record set in natural order.
type Tree struct {
	nodes map[skills.GroupKey]*Node
	keys  []skills.GroupKey
}

// Keys returns the group keys in natural order.
func (t *Tree) Keys() []skills.GroupKey {
	return append([]skills.GroupKey(nil), t.keys...)
}

// Node returns the node for an order-entry key.
func (t *Tree) Node(key skills.GroupKey) (*Node, bool) {
	n, ok := t.nodes[key]
	return n, ok
}

// Len returns the number of groups.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Build partitions records into groups and sorts them. Leaves that carry a
// placeholder reference belong to that pending group. Pending groups are
// placed after the sort, each immediately after its anchor or at the end,
// in creation order.
func Build(records []skills.Leaf, pending []skills.PendingGroup, opts ...Option) (*Tree, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	t := &Tree{nodes: make(map[skills.GroupKey]*Node)}
	var persisted, placeholders []*Node

	for _, g := range pending {
		n := &Node{
			Key:         g.Key(),
			Category:    g.Category,
			Item:        g.Item,
			SubCategory: g.SubCategory,
			Placeholder: g.PlaceholderID,
			Anchor:      g.Anchor,
		}
		if _, dup := t.nodes[n.Key]; dup {
			continue
		}
		t.nodes[n.Key] = n
		placeholders = append(placeholders, n)
	}

	for _, leaf := range records {
		if err := skills.CheckPhase("grouping.Build", leaf.Phase); err != nil {
			return nil, err
		}

		key := leaf.GroupKey()
		if leaf.GroupPlaceholderID != "" {
			key = skills.PendingKey(leaf.GroupPlaceholderID)
		}

		n, ok := t.nodes[key]
		if !ok {
			n = &Node{
				Key:         key,
				Category:    leaf.Category,
				Item:        leaf.Item,
				SubCategory: leaf.SubCategory,
				Placeholder: leaf.GroupPlaceholderID,
			}
			t.nodes[key] = n
			if n.IsPending() {
				placeholders = append(placeholders, n)
			} else {
				n.seq = len(persisted)
				persisted = append(persisted, n)
			}
		}
		n.add(leaf)
	}

	sortNodes(persisted, o.categoryPriority)

	keys := make([]skills.GroupKey, 0, len(t.nodes))
	for _, n := range persisted {
		keys = append(keys, n.Key)
	}
	for _, n := range placeholders {
		keys = insertAfter(keys, n.Key, n.Anchor)
	}
	t.keys = keys

	return t, nil
}

// sortNodes orders groups by the first leaf's display order (absent last),
// then category priority, item and sub-category. nodes must be in
// first-appearance order; equal groups keep it.
func sortNodes(nodes []*Node, priority []string) {
	rank := make(map[string]int, len(priority))
	for i, c := range priority {
		if _, ok := rank[c]; !ok {
			rank[c] = i
		}
	}
	// Unlisted categories follow the listed ones in first-appearance order.
	next := len(priority)
	for _, n := range nodes {
		if _, ok := rank[n.Category]; !ok {
			rank[n.Category] = next
			next++
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]

		ao, aok := a.first.Order()
		bo, bok := b.first.Order()
		if aok != bok {
			return aok
		}
		if aok && ao != bo {
			return ao < bo
		}

		if ar, br := rank[a.Category], rank[b.Category]; ar != br {
			return ar < br
		}
		if a.Item != b.Item {
			return a.Item < b.Item
		}
		if a.SubCategory != b.SubCategory {
			return a.SubCategory < b.SubCategory
		}
		return a.seq < b.seq
	})
}

// insertAfter places key immediately after anchor, or appends it when the
// anchor is empty or absent.
func insertAfter[K comparable](seq []K, key, anchor K) []K {
	var zero K
	if anchor != zero {
		for i, k := range seq {
			if k == anchor {
				seq = append(seq, zero)
				copy(seq[i+2:], seq[i+1:])
				seq[i+1] = key
				return seq
			}
		}
	}
	return append(seq, key)
}
