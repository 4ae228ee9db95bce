package output

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/skillmatrix/internal/importer"
	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/grouping"
	"github.com/agentstation/skillmatrix/pkg/skills"
	"github.com/agentstation/skillmatrix/pkg/validation"
)

const emptyCell = "-"

// RowsToTableData converts the grouped view to table format. Category and
// item cells are printed only on the first row of their run, the way the
// rowspans merge them in the editor. Wide output adds leaf ids and the
// unphased column.
func RowsToTableData(rows []grouping.Row, wide bool) Data {
	headers := []string{"Category", "Item", "Sub Category"}
	for _, p := range skills.Phases() {
		headers = append(headers, "Phase "+p.String())
	}
	if wide {
		headers = append(headers, "Unphased", "Key")
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		category, item := "", ""
		if r.CategoryRowspan > 0 {
			category = orDash(r.Category)
		}
		if r.ItemRowspan > 0 {
			item = orDash(r.Item)
		}
		row := []string{category, item, orDash(r.SubCategory)}
		for _, p := range skills.Phases() {
			row = append(row, leafNames(r.Phase(p), wide))
		}
		if wide {
			row = append(row, leafNames(r.Unphased, true), string(r.Key))
		}
		out = append(out, row)
	}

	return Data{Headers: headers, Rows: out}
}

// RecordsToTableData converts leaf records to table format.
func RecordsToTableData(records []skills.Leaf, wide bool) Data {
	headers := []string{"ID", "Category", "Item", "Sub Category", "Small Category", "Name", "Phase", "Order"}
	align := []Align{AlignRight, AlignDefault, AlignDefault, AlignDefault, AlignDefault, AlignDefault, AlignRight, AlignRight}
	if wide {
		headers = append(headers, "Description", "Group Placeholder")
		align = append(align, AlignDefault, AlignDefault)
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{
			strconv.Itoa(r.ID),
			r.Category,
			r.Item,
			r.SubCategory,
			r.SmallCategory,
			r.Name,
			r.Phase.String(),
			displayOrder(r),
		}
		if wide {
			row = append(row, orDash(r.Description), orDash(r.GroupPlaceholderID))
		}
		rows = append(rows, row)
	}

	return Data{Headers: headers, Rows: rows, ColumnAlignment: align}
}

// ChangesToTableData lists added, changed and removed records.
func ChangesToTableData(c *differ.Changeset) Data {
	data := Data{
		Headers:         []string{"Change", "ID", "Group", "Name", "Phase", "Detail"},
		ColumnAlignment: []Align{AlignDefault, AlignRight, AlignDefault, AlignDefault, AlignRight, AlignDefault},
	}
	if c == nil {
		return data
	}

	for _, l := range c.Added {
		data.Rows = append(data.Rows, changeRow(differ.ChangeTypeAdd, l, ""))
	}
	for _, u := range c.Changed {
		parts := make([]string, 0, len(u.Changes))
		for _, fc := range u.Changes {
			parts = append(parts, fmt.Sprintf("%s: %s -> %s", fc.Path, orDash(fc.OldValue), orDash(fc.NewValue)))
		}
		data.Rows = append(data.Rows, changeRow(differ.ChangeTypeUpdate, u.Edited, strings.Join(parts, "; ")))
	}
	for _, l := range c.Removed {
		data.Rows = append(data.Rows, changeRow(differ.ChangeTypeRemove, l, ""))
	}
	return data
}

func changeRow(t differ.ChangeType, l skills.Leaf, detail string) []string {
	return []string{
		string(t),
		strconv.Itoa(l.ID),
		strings.ReplaceAll(string(l.GroupKey()), "|", " / "),
		l.Name,
		l.Phase.String(),
		orDash(detail),
	}
}

// SimilarLabelsToTableData lists the near-duplicate label candidates of
// every level.
func SimilarLabelsToTableData(similar map[skills.Level][]duplicates.Match) Data {
	data := Data{
		Headers:         []string{"Level", "New", "Existing", "Similarity"},
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignDefault, AlignRight},
	}
	for _, level := range skills.Levels() {
		for _, m := range similar[level] {
			data.Rows = append(data.Rows, []string{
				level.String(),
				m.New,
				m.Existing,
				formatScore(m.Similarity),
			})
		}
	}
	return data
}

// MatchesToTableData lists detector matches of one label set.
func MatchesToTableData(matches []duplicates.Match) Data {
	data := Data{
		Headers:         []string{"New", "Existing", "Similarity"},
		ColumnAlignment: []Align{AlignDefault, AlignDefault, AlignRight},
	}
	for _, m := range matches {
		data.Rows = append(data.Rows, []string{m.New, m.Existing, formatScore(m.Similarity)})
	}
	return data
}

// IssuesToTableData lists validation issues.
func IssuesToTableData(v *validation.Result) Data {
	data := Data{
		Headers: []string{"Key", "Record", "Field", "Message"},
	}
	if v == nil {
		return data
	}
	for _, is := range v.Issues {
		record := emptyCell
		switch {
		case is.RecordID != 0:
			record = strconv.Itoa(is.RecordID)
		case is.PlaceholderID != "":
			record = is.PlaceholderID
		}
		data.Rows = append(data.Rows, []string{is.Key, record, string(is.Field), is.Message})
	}
	return data
}

// OutcomesToTableData lists the result of each replayed event.
func OutcomesToTableData(outcomes []importer.Outcome) Data {
	data := Data{
		Headers:         []string{"#", "Op", "Applied", "Detail"},
		ColumnAlignment: []Align{AlignRight, AlignDefault, AlignCenter, AlignDefault},
	}
	for _, o := range outcomes {
		applied := "no"
		if o.Applied {
			applied = "yes"
		}
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(o.Index),
			string(o.Op),
			applied,
			orDash(o.Detail),
		})
	}
	return data
}

// IDsToTableData lists placeholder ids and the canonical ids they resolved to.
func IDsToTableData(ids map[int]int) Data {
	placeholders := make([]int, 0, len(ids))
	for p := range ids {
		placeholders = append(placeholders, p)
	}
	// -1 first, then -2, ...: the order they were handed out
	sort.Sort(sort.Reverse(sort.IntSlice(placeholders)))

	data := Data{
		Headers:         []string{"Placeholder", "ID"},
		ColumnAlignment: []Align{AlignRight, AlignRight},
	}
	for _, p := range placeholders {
		data.Rows = append(data.Rows, []string{strconv.Itoa(p), strconv.Itoa(ids[p])})
	}
	return data
}

func leafNames(leaves []skills.Leaf, withIDs bool) string {
	if len(leaves) == 0 {
		return ""
	}
	names := make([]string, 0, len(leaves))
	for _, l := range leaves {
		name := orDash(l.Name)
		if withIDs {
			name = fmt.Sprintf("%s (#%d)", name, l.ID)
		}
		names = append(names, name)
	}
	return strings.Join(names, "\n")
}

func displayOrder(l skills.Leaf) string {
	if order, ok := l.Order(); ok {
		return strconv.Itoa(order)
	}
	return emptyCell
}

func formatScore(s float64) string {
	return strconv.FormatFloat(s, 'f', 2, 64)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return emptyCell
	}
	return s
}
