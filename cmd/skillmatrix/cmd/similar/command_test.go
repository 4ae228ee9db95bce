package similar

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix"
	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

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

func TestSimilarPair(t *testing.T) {
	out, err := execute(t, &application.Mock{}, "Red Team", "RedTeam")
	require.NoError(t, err)

	var s Score
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 0.95, s.Similarity)
	assert.Zero(t, s.Distance)
	assert.True(t, s.NearDuplicate)
}

func TestSimilarIdenticalIsNotNearDuplicate(t *testing.T) {
	out, err := execute(t, &application.Mock{}, "RedTeam", "RedTeam")
	require.NoError(t, err)

	var s Score
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 1.0, s.Similarity)
	assert.False(t, s.NearDuplicate)
}

func TestSimilarExisting(t *testing.T) {
	out, err := execute(t, &application.Mock{},
		"Blue team", "Purple", "--existing", "RedTeam,BlueTeam", "--threshold", "0.9")
	require.NoError(t, err)

	var matches []duplicates.Match
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Blue team", matches[0].New)
	assert.Equal(t, "BlueTeam", matches[0].Existing)
}

func TestSimilarUsesEngineThreshold(t *testing.T) {
	app := &application.Mock{
		EngineFunc: func(opts ...skillmatrix.Option) (*skillmatrix.Engine, error) {
			return skillmatrix.New(append([]skillmatrix.Option{skillmatrix.WithSimilarityThreshold(0.99)}, opts...)...)
		},
	}
	out, err := execute(t, app, "Red Team", "RedTeam")
	require.NoError(t, err)

	var s Score
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.False(t, s.NearDuplicate)
}

func TestSimilarRejectsThreshold(t *testing.T) {
	_, err := execute(t, &application.Mock{}, "a", "b", "--threshold", "1.5")
	var cerr *errors.ConfigError
	assert.ErrorAs(t, err, &cerr)
}
