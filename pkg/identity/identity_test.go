package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/identity"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

func TestLeafIDStrictlyDecreasing(t *testing.T) {
	a := identity.New(3, 10, -4)

	assert.Equal(t, -11, a.LeafID())
	assert.Equal(t, -12, a.LeafID())

	// deleted ids are never handed out again
	a.Observe(-5)
	assert.Equal(t, -13, a.LeafID())

	a.Observe(40)
	assert.Equal(t, -41, a.LeafID())
}

func TestLeafIDEmpty(t *testing.T) {
	a := identity.New()
	assert.Equal(t, -1, a.LeafID())
	assert.Equal(t, -2, a.LeafID())
}

func TestGroupPlaceholder(t *testing.T) {
	a := identity.New(1, 2)
	first := a.GroupPlaceholder()
	second := a.GroupPlaceholder()

	assert.Equal(t, "tmp-1", first)
	assert.Equal(t, "tmp-2", second)
	assert.NotEqual(t, first, second)
}

func records() []skills.Leaf {
	return []skills.Leaf{
		{ID: 1, Category: "A", Item: "B", SubCategory: "C", Name: "one", Phase: 1},
		{ID: -2, Category: "A", Item: "B", SubCategory: "C", Name: "two", Phase: 1},
		{ID: 5, Category: "A", Item: "B", SubCategory: "C", Name: "five", Phase: 2},
		{ID: -6, Category: "X", Item: "Y", SubCategory: "Z", Name: "six", Phase: 1, GroupPlaceholderID: "tmp-1"},
	}
}

func TestResolveSequence(t *testing.T) {
	res, err := identity.Resolve(records(), nil)
	require.NoError(t, err)

	ids := []int{}
	for _, r := range res.Records {
		assert.Greater(t, r.ID, 0)
		assert.Empty(t, r.GroupPlaceholderID)
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{1, 6, 5, 7}, ids)
	assert.Equal(t, map[int]int{-2: 6, -6: 7}, res.IDs)
	assert.Equal(t, map[string]skills.GroupKey{"tmp-1": "X|Y|Z"}, res.Groups)
}

func TestResolveAbsoluteFallsBackOnCollision(t *testing.T) {
	in := records()
	in[1].ID = -5 // abs collides with persisted 5

	res, err := identity.Resolve(in, identity.AbsoluteRemapper{})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Records[3].ID)
	assert.Equal(t, 7, res.Records[1].ID)
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	in := records()
	_, err := identity.Resolve(in, nil)
	require.NoError(t, err)
	assert.Equal(t, -2, in[1].ID)
	assert.Equal(t, "tmp-1", in[3].GroupPlaceholderID)
}

func TestResolveUnassignedRecords(t *testing.T) {
	in := []skills.Leaf{{ID: 0, Name: "a"}, {ID: 0, Name: "b"}, {ID: 3, Name: "c"}}
	res, err := identity.Resolve(in, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Records[0].ID)
	assert.Equal(t, 5, res.Records[1].ID)
	assert.Empty(t, res.IDs)
}

func TestResolveRejectsBadRemapper(t *testing.T) {
	zero := identity.RemapperFunc(func(pending []skills.Leaf, _ map[int]bool) []int {
		return make([]int, len(pending))
	})
	_, err := identity.Resolve(records(), zero)
	assert.True(t, errors.IsContractError(err))

	colliding := identity.RemapperFunc(func(pending []skills.Leaf, _ map[int]bool) []int {
		out := make([]int, len(pending))
		for i := range out {
			out[i] = 1
		}
		return out
	})
	_, err = identity.Resolve(records(), colliding)
	assert.True(t, errors.IsContractError(err))

	short := identity.RemapperFunc(func([]skills.Leaf, map[int]bool) []int { return nil })
	_, err = identity.Resolve(records(), short)
	assert.True(t, errors.IsContractError(err))
}

func TestResolveDuplicatePersisted(t *testing.T) {
	_, err := identity.Resolve([]skills.Leaf{{ID: 1}, {ID: 1}}, nil)
	assert.ErrorIs(t, err, errors.ErrContract)
}
