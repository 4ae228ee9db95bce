// Package skills defines the data model of the skill matrix: leaf records,
// the four taxonomy levels above them, the five phases, and the composite
// keys the rest of the engine addresses groups and cells by.
package skills

import (
	"fmt"
	"strings"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

// Leaf is one named skill entry at a given group and phase.
type Leaf struct {
	ID                 int    `json:"id" yaml:"id"`
	Category           string `json:"category" yaml:"category"`
	Item               string `json:"item" yaml:"item"`
	SubCategory        string `json:"sub_category" yaml:"sub_category"`
	SmallCategory      string `json:"small_category" yaml:"small_category"`
	Name               string `json:"name" yaml:"name"`
	Description        string `json:"description,omitempty" yaml:"description,omitempty"`
	Phase              Phase  `json:"phase" yaml:"phase"`
	DisplayOrder       *int   `json:"display_order,omitempty" yaml:"display_order,omitempty"`
	GroupPlaceholderID string `json:"group_placeholder_id,omitempty" yaml:"group_placeholder_id,omitempty"`
}

// GroupKey returns the key of the group this leaf belongs to by its labels.
func (l Leaf) GroupKey() GroupKey {
	return NewGroupKey(l.Category, l.Item, l.SubCategory)
}

// CellKey returns the key of the (group, phase) cell holding this leaf.
func (l Leaf) CellKey() CellKey {
	return NewCellKey(l.GroupKey(), l.Phase)
}

// ComparisonKey returns the identity of this leaf for diffing.
func (l Leaf) ComparisonKey() ComparisonKey {
	return ComparisonKey(strings.Join([]string{
		l.Category, l.Item, l.SubCategory, l.SmallCategory, l.Phase.String(), l.Name,
	}, constants.KeySeparator))
}

// Identity classifies the leaf's id.
func (l Leaf) Identity() Identity {
	return IdentityOf(l)
}

// IsPending reports whether the leaf has not been persisted yet.
func (l Leaf) IsPending() bool {
	return l.Identity().Kind != KindPersisted
}

// Order returns the display order and whether it is set.
func (l Leaf) Order() (int, bool) {
	if l.DisplayOrder == nil {
		return 0, false
	}
	return *l.DisplayOrder, true
}

// Clone returns a deep copy of the leaf.
func (l Leaf) Clone() Leaf {
	c := l
	if l.DisplayOrder != nil {
		v := *l.DisplayOrder
		c.DisplayOrder = &v
	}
	return c
}

// Shape returns a new leaf with the same taxonomy placement and phase but
// no name, description, or id. It is the template for a sibling entry.
func (l Leaf) Shape() Leaf {
	c := Leaf{
		Category:           l.Category,
		Item:               l.Item,
		SubCategory:        l.SubCategory,
		SmallCategory:      l.SmallCategory,
		Phase:              l.Phase,
		GroupPlaceholderID: l.GroupPlaceholderID,
	}
	if l.DisplayOrder != nil {
		v := *l.DisplayOrder
		c.DisplayOrder = &v
	}
	return c
}

// String returns a short locator for messages.
func (l Leaf) String() string {
	if l.ID != 0 {
		return fmt.Sprintf("record %d", l.ID)
	}
	return fmt.Sprintf("record %s", l.CellKey())
}

// CloneAll deep-copies a slice of leaves.
func CloneAll(leaves []Leaf) []Leaf {
	if leaves == nil {
		return nil
	}
	out := make([]Leaf, len(leaves))
	for i, l := range leaves {
		out[i] = l.Clone()
	}
	return out
}

// IntPtr returns a pointer to v. Handy for DisplayOrder literals.
func IntPtr(v int) *int {
	return &v
}

// Phase is a maturity stage of a group, valid from 1 to 5.
type Phase int

// Valid reports whether the phase falls within the five buckets.
func (p Phase) Valid() bool {
	return p >= constants.MinPhase && p <= constants.MaxPhase
}

// String returns the decimal form of the phase.
func (p Phase) String() string {
	return fmt.Sprintf("%d", int(p))
}

// Phases returns the five valid phases in order.
func Phases() []Phase {
	out := make([]Phase, 0, constants.PhaseCount)
	for p := constants.MinPhase; p <= constants.MaxPhase; p++ {
		out = append(out, Phase(p))
	}
	return out
}

// CheckPhase returns a contract error for negative phases. Out-of-range
// non-negative phases are user data and left to the validator.
func CheckPhase(operation string, p Phase) error {
	if p < 0 {
		return errors.NewContractError(operation, "phase", int(p), "phase cannot be negative")
	}
	return nil
}
