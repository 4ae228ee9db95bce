package tree

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix"
	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/persistence/memory"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/grouping"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func newApp(format string) *application.Mock {
	store := memory.New(
		skills.Leaf{ID: 1, Category: "RedTeam", Item: "A", SubCategory: "x", SmallCategory: "s", Name: "recon", Phase: 1, DisplayOrder: skills.IntPtr(1)},
		skills.Leaf{ID: 2, Category: "BlueTeam", Item: "B", SubCategory: "y", SmallCategory: "s", Name: "detect", Phase: 2, DisplayOrder: skills.IntPtr(2)},
	)
	return &application.Mock{
		EngineFunc: func(opts ...skillmatrix.Option) (*skillmatrix.Engine, error) {
			base := []skillmatrix.Option{skillmatrix.WithStore(store), skillmatrix.WithLogger(logging.NewNopLogger())}
			return skillmatrix.New(append(base, opts...)...)
		},
		OutputFormatFunc: func() string { return format },
	}
}

func execute(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTreeJSON(t *testing.T) {
	out, err := execute(t, newApp("json"))
	require.NoError(t, err)

	var rows []grouping.Row
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)

	keys := []skills.GroupKey{rows[0].Key, rows[1].Key}
	assert.ElementsMatch(t, []skills.GroupKey{"RedTeam|A|x", "BlueTeam|B|y"}, keys)
}

func TestTreeTable(t *testing.T) {
	out, err := execute(t, newApp("table"))
	require.NoError(t, err)
	assert.Contains(t, out, "recon")
	assert.Contains(t, out, "detect")

	wide, err := execute(t, newApp("wide"))
	require.NoError(t, err)
	assert.Contains(t, wide, "recon (#1)")
}

func TestTreeRecords(t *testing.T) {
	out, err := execute(t, newApp("json"), "--records")
	require.NoError(t, err)

	var records []skills.Leaf
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Len(t, records, 2)
}

func TestTreeRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, newApp("csv"))
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
