package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/skills"
	"github.com/agentstation/skillmatrix/pkg/validation"
)

func valid(id int, name string) skills.Leaf {
	return skills.Leaf{
		ID:            id,
		Category:      "RedTeam",
		Item:          "Recon",
		SubCategory:   "OSINT",
		SmallCategory: "Passive",
		Name:          name,
		Phase:         1,
	}
}

func TestValidateFlagsExactlyInvalidRecords(t *testing.T) {
	blankName := valid(2, "  ")
	phaseZero := valid(3, "phase zero")
	phaseZero.Phase = 0
	phaseSix := valid(4, "phase six")
	phaseSix.Phase = 6
	blankCategory := valid(5, "no category")
	blankCategory.Category = ""
	blankItem := valid(6, "no item")
	blankItem.Item = ""
	blankSub := valid(7, "no sub")
	blankSub.SubCategory = "\t"
	blankSmall := valid(8, "no small")
	blankSmall.SmallCategory = ""

	records := []skills.Leaf{
		valid(1, "fine"),
		blankName, phaseZero, phaseSix, blankCategory, blankItem, blankSub, blankSmall,
		valid(9, "also fine"),
	}

	result := validation.Validate(records, nil)
	require.True(t, result.HasErrors())
	assert.Len(t, result.Errors, 7)
	assert.Len(t, result.Issues, 7)

	flagged := map[int]skills.Field{}
	for _, issue := range result.Issues {
		flagged[issue.RecordID] = issue.Field
	}
	assert.Equal(t, map[int]skills.Field{
		2: skills.FieldName,
		3: skills.FieldPhase,
		4: skills.FieldPhase,
		5: skills.FieldCategory,
		6: skills.FieldItem,
		7: skills.FieldSubCategory,
		8: skills.FieldSmallCategory,
	}, flagged)

	assert.True(t, result.HasKey("RedTeam|Recon|OSINT|0"))
	assert.True(t, result.HasKey("RedTeam|Recon|OSINT|6"))
	assert.True(t, result.HasKey("|Recon|OSINT|1"))
	assert.True(t, result.HasKey("RedTeam|Recon|OSINT|1"))
}

func TestValidateOneMessagePerFailingField(t *testing.T) {
	leaf := skills.Leaf{ID: -1, Phase: 7}
	result := validation.Validate([]skills.Leaf{leaf}, nil)

	// four levels, name, phase
	assert.Len(t, result.Errors, 6)
	assert.Equal(t, []string{"|||7"}, result.Keys())
	assert.Contains(t, result.Errors[0], "row 1")
}

func TestValidatePendingGroups(t *testing.T) {
	pending := []skills.PendingGroup{
		{PlaceholderID: "tmp-1"},
		{PlaceholderID: "tmp-2", Category: "BlueTeam", Item: "Detection", SubCategory: "EDR"},
	}

	result := validation.Validate(nil, pending)
	assert.Len(t, result.Errors, 3)
	assert.Equal(t, []string{"new-tmp-1"}, result.Keys())
	for _, issue := range result.Issues {
		assert.Equal(t, "tmp-1", issue.PlaceholderID)
	}
}

func TestValidatePassing(t *testing.T) {
	result := validation.Validate([]skills.Leaf{valid(1, "a"), valid(-1, "b")}, []skills.PendingGroup{
		{PlaceholderID: "tmp-1", Category: "c", Item: "i", SubCategory: "s"},
	})
	assert.False(t, result.HasErrors())
	assert.Empty(t, result.Keys())
	assert.NoError(t, result.Err())
	assert.Equal(t, "Validation passed", result.String())
}

func TestResultErr(t *testing.T) {
	result := validation.Validate([]skills.Leaf{{ID: 1, Phase: 1}}, nil)
	err := result.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "and 4 more")
}
