package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/internal/importer"
	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/grouping"
	"github.com/agentstation/skillmatrix/pkg/skills"
	"github.com/agentstation/skillmatrix/pkg/validation"
)

func leaf(id int, category, item, sub, name string, phase skills.Phase) skills.Leaf {
	return skills.Leaf{
		ID:            id,
		Category:      category,
		Item:          item,
		SubCategory:   sub,
		SmallCategory: "s",
		Name:          name,
		Phase:         phase,
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"table", "JSON", " yaml ", "wide", "markdown", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseFormat("csv")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestFormatIsTable(t *testing.T) {
	assert.True(t, FormatTable.IsTable())
	assert.True(t, FormatWide.IsTable())
	assert.True(t, Format("").IsTable())
	assert.False(t, FormatJSON.IsTable())
	assert.False(t, FormatMarkdown.IsTable())
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func TestRowsToTableDataMergesSpans(t *testing.T) {
	m, err := grouping.NewManager()
	require.NoError(t, err)
	records := []skills.Leaf{
		leaf(1, "RedTeam", "A", "x", "recon", 1),
		leaf(2, "RedTeam", "A", "y", "exploit", 2),
		leaf(3, "RedTeam", "B", "z", "report", 3),
		leaf(4, "BlueTeam", "C", "w", "detect", 1),
	}
	require.NoError(t, m.Rebuild(records, nil))

	data := RowsToTableData(m.Rows(), false)
	require.Len(t, data.Rows, 4)
	assert.Len(t, data.Headers, 8)

	assert.Equal(t, []string{"RedTeam", "A", "x", "recon", "", "", "", ""}, data.Rows[0])
	assert.Equal(t, []string{"", "", "y", "", "exploit", "", "", ""}, data.Rows[1])
	assert.Equal(t, []string{"", "B", "z", "", "", "report", "", ""}, data.Rows[2])
	assert.Equal(t, "BlueTeam", data.Rows[3][0])

	wide := RowsToTableData(m.Rows(), true)
	assert.Equal(t, "recon (#1)", wide.Rows[0][3])
	assert.Equal(t, "RedTeam|A|x", wide.Rows[0][9])
}

func TestRecordsToTableData(t *testing.T) {
	l := leaf(7, "RedTeam", "A", "x", "recon", 2)
	l.DisplayOrder = skills.IntPtr(3)
	data := RecordsToTableData([]skills.Leaf{l, leaf(-1, "RedTeam", "A", "x", "", 1)}, true)

	require.Len(t, data.Rows, 2)
	assert.Equal(t, []string{"7", "RedTeam", "A", "x", "s", "recon", "2", "3", "-", "-"}, data.Rows[0])
	assert.Equal(t, "-", data.Rows[1][7])
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
}

func TestChangesToTableData(t *testing.T) {
	baseline := []skills.Leaf{
		leaf(1, "RedTeam", "A", "x", "recon", 1),
		leaf(2, "RedTeam", "A", "x", "exploit", 1),
	}
	edited := []skills.Leaf{baseline[0], leaf(3, "Red Team", "A", "x", "exploit", 1)}
	edited[0].Description = "passive first"

	c := differ.New().Records(baseline, edited)
	data := ChangesToTableData(c)

	require.Len(t, data.Rows, 3)
	assert.Equal(t, "add", data.Rows[0][0])
	assert.Equal(t, "Red Team / A / x", data.Rows[0][2])
	assert.Equal(t, "update", data.Rows[1][0])
	assert.Contains(t, data.Rows[1][5], "passive first")
	assert.Equal(t, "remove", data.Rows[2][0])

	similar := SimilarLabelsToTableData(c.SimilarLabels)
	require.Len(t, similar.Rows, 1)
	assert.Equal(t, []string{"categories", "Red Team", "RedTeam", "0.95"}, similar.Rows[0])

	assert.Empty(t, ChangesToTableData(nil).Rows)
}

func TestIssuesToTableData(t *testing.T) {
	v := validation.Validate(
		[]skills.Leaf{leaf(4, "RedTeam", "A", "x", "", 1)},
		[]skills.PendingGroup{{PlaceholderID: "tmp-1"}},
	)
	data := IssuesToTableData(v)

	require.NotEmpty(t, data.Rows)
	assert.Equal(t, "4", data.Rows[0][1])
	assert.Equal(t, "tmp-1", data.Rows[len(data.Rows)-1][1])
	assert.Empty(t, IssuesToTableData(nil).Rows)
}

func TestOutcomesAndIDs(t *testing.T) {
	outcomes := OutcomesToTableData([]importer.Outcome{
		{Index: 1, Op: importer.OpInsertGroup, Applied: true, Detail: "tmp-1"},
		{Index: 2, Op: importer.OpMoveGroup},
	})
	assert.Equal(t, [][]string{
		{"1", "insert_group", "yes", "tmp-1"},
		{"2", "move_group", "no", "-"},
	}, outcomes.Rows)

	ids := IDsToTableData(map[int]int{-2: 9, -1: 8})
	assert.Equal(t, [][]string{{"-1", "8"}, {"-2", "9"}}, ids.Rows)
}

func TestFormatters(t *testing.T) {
	data := MatchesToTableData([]duplicates.Match{{New: "Red Team", Existing: "RedTeam", Similarity: 0.95}})

	var table bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&table, data))
	assert.Contains(t, table.String(), "Red Team")
	assert.Contains(t, table.String(), "0.95")

	var markdown bytes.Buffer
	require.NoError(t, NewFormatter(FormatMarkdown).Format(&markdown, data))
	assert.Contains(t, markdown.String(), "|")
	assert.Contains(t, markdown.String(), "RedTeam")

	matches := []duplicates.Match{{New: "a", Existing: "b", Similarity: 0.5}}
	var js bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&js, matches))
	var decoded []duplicates.Match
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, matches, decoded)

	var yml bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&yml, matches))
	assert.Contains(t, yml.String(), "existing: b")
}

func TestTableFormatterReflectsStructs(t *testing.T) {
	type score struct {
		Left  string  `json:"left"`
		Right string  `json:"right"`
		Score float64 `json:"similarity_score"`
	}

	data, ok := toTableData([]score{{"a", "b", 0.5}})
	require.True(t, ok)
	assert.Equal(t, []string{"Left", "Right", "Similarity Score"}, data.Headers)
	assert.Equal(t, [][]string{{"a", "b", "0.5"}}, data.Rows)

	single, ok := toTableData(&score{"a", "b", 1})
	require.True(t, ok)
	assert.Equal(t, []string{"Property", "Value"}, single.Headers)
	assert.Len(t, single.Rows, 3)

	_, ok = toTableData(42)
	assert.False(t, ok)
}
