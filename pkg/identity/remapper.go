package identity

import "github.com/agentstation/skillmatrix/pkg/skills"

// Remapper picks canonical ids for pending records. The choice is a storage
// concern; Resolve only checks the outcome.
type Remapper interface {
	// Remap returns one id per pending record, in order. taken holds the
	// ids already in use and may be modified.
	Remap(pending []skills.Leaf, taken map[int]bool) []int
}

// RemapperFunc adapts a function to the Remapper interface.
type RemapperFunc func(pending []skills.Leaf, taken map[int]bool) []int

// Remap implements Remapper.
func (f RemapperFunc) Remap(pending []skills.Leaf, taken map[int]bool) []int {
	return f(pending, taken)
}

// SequenceRemapper assigns max(persisted)+1, +2, ... in record order.
type SequenceRemapper struct{}

// Remap implements Remapper.
func (SequenceRemapper) Remap(pending []skills.Leaf, taken map[int]bool) []int {
	next := maxKey(taken) + 1
	out := make([]int, len(pending))
	for i := range pending {
		for taken[next] {
			next++
		}
		out[i] = next
		taken[next] = true
		next++
	}
	return out
}

// AbsoluteRemapper reuses the absolute value of a placeholder id. Records
// whose absolute id is taken, or who have none, fall back to the sequence.
type AbsoluteRemapper struct{}

// Remap implements Remapper.
func (AbsoluteRemapper) Remap(pending []skills.Leaf, taken map[int]bool) []int {
	out := make([]int, len(pending))
	var fallback []int
	for i, leaf := range pending {
		id := leaf.ID
		if id < 0 {
			id = -id
		}
		if id == 0 || taken[id] {
			fallback = append(fallback, i)
			continue
		}
		out[i] = id
		taken[id] = true
	}

	next := maxKey(taken) + 1
	for _, i := range fallback {
		out[i] = next
		taken[next] = true
		next++
	}
	return out
}

func maxKey(taken map[int]bool) int {
	m := 0
	for id := range taken {
		if id > m {
			m = id
		}
	}
	return m
}
