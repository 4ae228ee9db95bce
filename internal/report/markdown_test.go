package report

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/session"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New([]skills.Leaf{
		{ID: 1, Category: "RedTeam", Item: "Recon", SubCategory: "OSINT", SmallCategory: "Search", Name: "Shodan", Phase: 1, DisplayOrder: skills.IntPtr(1)},
		{ID: 2, Category: "BlueTeam", Item: "Detect", SubCategory: "SIEM", SmallCategory: "Rules", Name: "Sigma", Phase: 2, DisplayOrder: skills.IntPtr(2)},
	}, session.WithID("review"), session.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return s
}

func TestReviewListsDuplicatesAndErrors(t *testing.T) {
	s := newSession(t)
	_, err := s.SetGroupField("RedTeam|Recon|OSINT", skills.LevelCategory, "Red Team")
	require.NoError(t, err)
	_, err = s.SetField(2, "name", "")
	require.NoError(t, err)

	r, err := s.Check()
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Review(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "# Skill matrix review")
	assert.Contains(t, out, "`review`")
	assert.Contains(t, out, "**Not ready to commit**")
	assert.Contains(t, out, "record 2: name is required")
	assert.Contains(t, out, "RedTeam (0.95)")
	assert.Contains(t, out, "### Added records")
	assert.Contains(t, out, "Red Team / Recon / OSINT")
}

func TestReviewCleanSession(t *testing.T) {
	r, err := newSession(t).Check()
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Review(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "**Ready to commit**")
	assert.Contains(t, out, "Validation passed")
	assert.Contains(t, out, "No changes detected")
	assert.NotContains(t, out, "### New labels")
}

func TestCommitSummary(t *testing.T) {
	s := newSession(t)
	leaf, err := s.AddLeaf("BlueTeam|Detect|SIEM", 3)
	require.NoError(t, err)
	_, err = s.SetField(leaf.ID, "name", "YARA")
	require.NoError(t, err)
	_, err = s.InsertGroup("")
	require.NoError(t, err)
	for _, level := range []skills.Level{skills.LevelCategory, skills.LevelItem, skills.LevelSubCategory} {
		_, err = s.SetGroupField("new-tmp-1", level, "E")
		require.NoError(t, err)
	}

	result, err := s.Commit(context.Background(), nil)
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, Commit(&buf, s.ID(), result))
	out := buf.String()
	assert.Contains(t, out, "3 records saved")
	assert.Contains(t, out, "## Assigned ids")
	assert.Contains(t, out, "YARA")
	assert.Contains(t, out, "tmp-1 (E|E|E)")
}
