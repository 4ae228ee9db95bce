package grouping

import (
	"sort"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Row is one group in rendered order with its leaves arranged by the
// Order Entry. CategoryRowspan and ItemRowspan are set on the first row of
// a run of consecutive groups sharing the category (or category and item)
// and are zero on the rest of the run.
type Row struct {
	Key             skills.GroupKey                     `json:"key" yaml:"key"`
	Category        string                              `json:"category" yaml:"category"`
	Item            string                              `json:"item" yaml:"item"`
	SubCategory     string                              `json:"sub_category" yaml:"sub_category"`
	Placeholder     string                              `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Phases          [constants.PhaseCount][]skills.Leaf `json:"phases" yaml:"phases"`
	Unphased        []skills.Leaf                       `json:"unphased,omitempty" yaml:"unphased,omitempty"`
	CategoryRowspan int                                 `json:"category_rowspan" yaml:"category_rowspan"`
	ItemRowspan     int                                 `json:"item_rowspan" yaml:"item_rowspan"`

	count int
}

// Phase returns the ordered leaves of one phase.
func (r Row) Phase(p skills.Phase) []skills.Leaf {
	if !p.Valid() {
		return nil
	}
	return r.Phases[p-constants.MinPhase]
}

// Count returns the number of leaves in the row.
func (r Row) Count() int {
	return r.count
}

// Rows returns the render aggregate of the current tree in Order Entry
// order.
func (m *Manager) Rows() []Row {
	rows := m.rows()
	spans(rows)
	return rows
}

func (m *Manager) rows() []Row {
	if m.tree == nil {
		return []Row{}
	}
	return buildRows(m.tree, m.order, m.cells)
}

func buildRows(tree *Tree, order []skills.GroupKey, cells map[cell][]int) []Row {
	rows := make([]Row, 0, len(order))
	for _, key := range order {
		n, ok := tree.Node(key)
		if !ok {
			continue
		}
		row := Row{
			Key:         key,
			Category:    n.Category,
			Item:        n.Item,
			SubCategory: n.SubCategory,
			Placeholder: n.Placeholder,
			Unphased:    append([]skills.Leaf(nil), n.Unphased...),
			count:       n.Count(),
		}
		for i, p := range skills.Phases() {
			row.Phases[i] = arrange(n.Phase(p), cells[cell{key, p}])
		}
		rows = append(rows, row)
	}
	return rows
}

// arrange orders leaves by their position in ids. Leaves missing from ids,
// or sharing one, keep their record order after the ranked ones.
func arrange(leaves []skills.Leaf, ids []int) []skills.Leaf {
	out := append([]skills.Leaf(nil), leaves...)
	rank := make(map[int]int, len(ids))
	for i, id := range ids {
		if _, ok := rank[id]; !ok {
			rank[id] = i
		}
	}
	pos := func(l skills.Leaf) int {
		if r, ok := rank[l.ID]; ok {
			return r
		}
		return len(ids)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return pos(out[i]) < pos(out[j])
	})
	return out
}

func spans(rows []Row) {
	for i := 0; i < len(rows); {
		j := i + 1
		for j < len(rows) && rows[j].Category == rows[i].Category {
			j++
		}
		rows[i].CategoryRowspan = j - i
		for k := i; k < j; {
			l := k + 1
			for l < j && rows[l].Item == rows[k].Item {
				l++
			}
			rows[k].ItemRowspan = l - k
			k = l
		}
		i = j
	}
}
