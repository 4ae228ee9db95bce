package skillmatrix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/internal/persistence/memory"
	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/identity"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func seed() []skills.Leaf {
	return []skills.Leaf{
		{ID: 1, Category: "RedTeam", Item: "Recon", SubCategory: "OSINT", SmallCategory: "Search", Name: "Shodan", Phase: 1, DisplayOrder: skills.IntPtr(1)},
		{ID: 2, Category: "BlueTeam", Item: "Detect", SubCategory: "SIEM", SmallCategory: "Rules", Name: "Sigma", Phase: 2, DisplayOrder: skills.IntPtr(2)},
	}
}

func TestOpenCommitThroughStore(t *testing.T) {
	ctx := context.Background()
	store := memory.New(seed()...)

	engine, err := New(WithStore(store), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	var added, updated, removed int
	engine.OnRecordAdded(func(skills.Leaf) { added++ })
	engine.OnRecordUpdated(func(differ.RecordUpdate) { updated++ })
	engine.OnRecordRemoved(func(skills.Leaf) { removed++ })

	s, err := engine.Open(ctx)
	require.NoError(t, err)
	assert.Len(t, s.Records(), 2)

	require.True(t, s.MoveGroup("BlueTeam|Detect|SIEM", "RedTeam|Recon|OSINT"))
	leaf, err := s.AddLeaf("RedTeam|Recon|OSINT", 1)
	require.NoError(t, err)
	_, err = s.SetField(leaf.ID, "name", "Censys")
	require.NoError(t, err)

	result, err := engine.Commit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 1, store.Saves())

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, result.Records, stored)

	assert.Equal(t, 1, added)
	assert.Equal(t, 2, updated, "both original groups swapped positions")
	assert.Zero(t, removed)
}

func TestCommitFailureKeepsStoreIntact(t *testing.T) {
	ctx := context.Background()
	store := memory.New(seed()...)
	engine, err := New(WithStore(store), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	s, err := engine.Open(ctx)
	require.NoError(t, err)
	require.True(t, s.DeleteLeaf(2))

	store.FailSaves(errors.New("locked"))
	_, err = engine.Commit(ctx, s)
	require.Error(t, err)

	stored, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestEngineWithoutStore(t *testing.T) {
	engine, err := New(WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	s, err := engine.Open(context.Background())
	require.NoError(t, err)
	assert.Empty(t, s.Records())

	result, err := engine.Commit(context.Background(), s)
	require.NoError(t, err)
	assert.Empty(t, result.Records)

	_, err = engine.Commit(context.Background(), nil)
	assert.True(t, errors.IsValidationError(err))
}

func TestOptionsValidate(t *testing.T) {
	_, err := New(WithStore(nil))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(WithSimilarityThreshold(0))
	assert.True(t, errors.IsValidationError(err))
	_, err = New(WithCategoryPriority())
	assert.True(t, errors.IsValidationError(err))
	_, err = New(WithRemapper(nil))
	assert.True(t, errors.IsValidationError(err))

	engine, err := New(
		WithSimilarityThreshold(0.9),
		WithCategoryPriority("BlueTeam", "RedTeam"),
		WithRemapper(identity.AbsoluteRemapper{}),
		WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)

	s, err := engine.Open(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.ApplyImport([]skills.Leaf{
		{Category: "RedTeam", Item: "a", SubCategory: "a", SmallCategory: "s", Name: "n", Phase: 1},
		{Category: "BlueTeam", Item: "a", SubCategory: "a", SmallCategory: "s", Name: "n", Phase: 1},
	}))
	assert.Equal(t, []skills.GroupKey{"BlueTeam|a|a", "RedTeam|a|a"}, s.Order())
}
