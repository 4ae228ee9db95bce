package apply

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix"
	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/persistence/memory"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

const addLeaf = `
- op: add_leaf
  group: RedTeam|A|x
  phase: 2
- op: set_field
  field: name
  value: exploit
- op: delete_leaf
  id: 42
`

func newApp(format string) (*application.Mock, *memory.Store) {
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
	}, store
}

func writeScript(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))
	return path
}

func execute(t *testing.T, app application.Application, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestApplyPreview(t *testing.T) {
	app, store := newApp("json")
	out, _, err := execute(t, app, "--events", writeScript(t, addLeaf))
	require.NoError(t, err)

	var result struct {
		Outcomes []struct {
			Applied bool `json:"applied"`
		} `json:"outcomes"`
		Commit json.RawMessage `json:"commit"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Outcomes, 3)
	assert.True(t, result.Outcomes[0].Applied)
	assert.True(t, result.Outcomes[1].Applied)
	assert.False(t, result.Outcomes[2].Applied)
	assert.Empty(t, result.Commit)
	assert.Zero(t, store.Saves())
}

func TestApplyCommit(t *testing.T) {
	app, store := newApp("table")
	out, status, err := execute(t, app, "-f", writeScript(t, addLeaf), "--commit")
	require.NoError(t, err)
	assert.Contains(t, out, "Committed 3 records")
	assert.Contains(t, status, "1 new ids assigned")

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	var added *skills.Leaf
	for i := range records {
		assert.Positive(t, records[i].ID)
		if records[i].Name == "exploit" {
			added = &records[i]
		}
	}
	require.NotNil(t, added)
	assert.Equal(t, skills.Phase(2), added.Phase)
	assert.Equal(t, skills.GroupKey("RedTeam|A|x"), added.GroupKey())
}

func TestApplyCommitRefusedOnInvalidResult(t *testing.T) {
	app, store := newApp("table")
	_, status, err := execute(t, app, "-f", writeScript(t, "- op: add_leaf\n  group: RedTeam|A|x\n  phase: 3\n"), "--commit")

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.Contains(t, status, "Commit refused")
	assert.Zero(t, store.Saves())
}

func TestApplyStopsOnContractError(t *testing.T) {
	app, _ := newApp("table")
	_, status, err := execute(t, app, "-f", writeScript(t, "- op: add_leaf\n  group: RedTeam|A|x\n  phase: 9\n"))

	require.Error(t, err)
	assert.True(t, errors.IsContractError(err))
	assert.Contains(t, status, "Replay stopped")
}

func TestApplyRequiresEvents(t *testing.T) {
	app, _ := newApp("json")
	_, _, err := execute(t, app)
	assert.Error(t, err)
}
