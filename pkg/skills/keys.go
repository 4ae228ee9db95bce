package skills

import (
	"strconv"
	"strings"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

// GroupKey identifies a group: category|item|subCategory, matched exactly.
type GroupKey string

// NewGroupKey joins the three group-level labels.
func NewGroupKey(category, item, subCategory string) GroupKey {
	return GroupKey(strings.Join([]string{category, item, subCategory}, constants.KeySeparator))
}

// ParseGroupKey splits a key into its labels. Keys without exactly three
// parts are contract violations.
func ParseGroupKey(key GroupKey) (category, item, subCategory string, err error) {
	parts := strings.Split(string(key), constants.KeySeparator)
	if len(parts) != 3 {
		return "", "", "", errors.NewContractError("ParseGroupKey", "key", string(key), "expected category|item|subCategory")
	}
	return parts[0], parts[1], parts[2], nil
}

// IsPending reports whether the key addresses a group that has not been
// materialized yet.
func (k GroupKey) IsPending() bool {
	return strings.HasPrefix(string(k), constants.PendingGroupKeyPrefix)
}

// String implements fmt.Stringer.
func (k GroupKey) String() string {
	return string(k)
}

// PendingKey returns the order-entry key of a pending group.
func PendingKey(placeholderID string) GroupKey {
	return GroupKey(constants.PendingGroupKeyPrefix + placeholderID)
}

// CellKey identifies one phase bucket of a group:
// category|item|subCategory|phase.
type CellKey string

// NewCellKey joins a group key and phase.
func NewCellKey(group GroupKey, phase Phase) CellKey {
	return CellKey(string(group) + constants.KeySeparator + phase.String())
}

// Split returns the group key and phase of the cell.
func (k CellKey) Split() (GroupKey, Phase, error) {
	s := string(k)
	idx := strings.LastIndex(s, constants.KeySeparator)
	if idx < 0 {
		return "", 0, errors.NewContractError("CellKey.Split", "key", s, "missing phase")
	}
	n, err := strconv.Atoi(s[idx+1:])
	if err != nil {
		return "", 0, errors.NewContractError("CellKey.Split", "key", s, "phase is not an integer")
	}
	group := GroupKey(s[:idx])
	if _, _, _, err := ParseGroupKey(group); err != nil {
		return "", 0, err
	}
	return group, Phase(n), nil
}

// ComparisonKey identifies a leaf for diffing:
// category|item|subCategory|smallCategory|phase|name.
type ComparisonKey string
