// Package integration runs edit sessions end to end against every store.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix"
	"github.com/agentstation/skillmatrix/internal/persistence"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func seed() []skills.Leaf {
	return []skills.Leaf{
		{ID: 1, Category: "RedTeam", Item: "Recon", SubCategory: "OSINT", SmallCategory: "Search", Name: "Shodan", Phase: 1, DisplayOrder: skills.IntPtr(1)},
		{ID: 2, Category: "BlueTeam", Item: "Detect", SubCategory: "SIEM", SmallCategory: "Rules", Name: "Sigma", Phase: 2, DisplayOrder: skills.IntPtr(2)},
	}
}

func openEngine(t *testing.T, kind persistence.Kind, path string) (*skillmatrix.Engine, persistence.Store) {
	t.Helper()
	store, err := persistence.Open(kind, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	engine, err := skillmatrix.New(skillmatrix.WithStore(store), skillmatrix.WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return engine, store
}

func TestEditSessionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for kind, path := range map[persistence.Kind]string{
		persistence.KindMemory: "",
		persistence.KindFiles:  filepath.Join(dir, "skills.yaml"),
		persistence.KindSQLite: filepath.Join(dir, "skills.db"),
	} {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			engine, store := openEngine(t, kind, path)
			require.NoError(t, store.Save(ctx, seed()))

			s, err := engine.Open(ctx)
			require.NoError(t, err)

			group, err := s.InsertGroup("RedTeam|Recon|OSINT")
			require.NoError(t, err)
			for level, value := range map[skills.Level]string{
				skills.LevelCategory:    "RedTeam",
				skills.LevelItem:        "Exploit",
				skills.LevelSubCategory: "Web",
			} {
				ok, err := s.SetGroupField(group.Key(), level, value)
				require.NoError(t, err)
				require.True(t, ok)
			}
			leaf, err := s.AddLeaf(group.Key(), 3)
			require.NoError(t, err)
			for field, value := range map[string]string{"name": "sqlmap", "small_category": "Injection"} {
				_, err := s.SetField(leaf.ID, field, value)
				require.NoError(t, err)
			}

			report, err := s.Check()
			require.NoError(t, err)
			require.True(t, report.CanCommit(), report.Validation.Errors)

			result, err := engine.Commit(ctx, s)
			require.NoError(t, err)
			require.Len(t, result.IDs, 1)
			assert.Equal(t, 3, result.IDs[leaf.ID])

			reopened, err := engine.Open(ctx)
			require.NoError(t, err)
			defer reopened.Discard()

			assert.ElementsMatch(t, result.Records, reopened.Records())
			assert.Equal(t,
				[]skills.GroupKey{"RedTeam|Recon|OSINT", "RedTeam|Exploit|Web", "BlueTeam|Detect|SIEM"},
				reopened.Order())
		})
	}
}
