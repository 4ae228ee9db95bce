package skills

import (
	"strconv"
	"strings"

	"github.com/agentstation/skillmatrix/pkg/errors"
)

// Level is one of the four taxonomy levels above a leaf.
type Level int

const (
	// LevelCategory is the top taxonomy level.
	LevelCategory Level = iota
	// LevelItem is the second level.
	LevelItem
	// LevelSubCategory is the third level and the last part of a group key.
	LevelSubCategory
	// LevelSmallCategory is the fourth level, set per leaf.
	LevelSmallCategory
)

// Levels returns the four levels from top to bottom.
func Levels() []Level {
	return []Level{LevelCategory, LevelItem, LevelSubCategory, LevelSmallCategory}
}

// String returns the plural name used in change reports.
func (lv Level) String() string {
	switch lv {
	case LevelCategory:
		return "categories"
	case LevelItem:
		return "items"
	case LevelSubCategory:
		return "subCategories"
	case LevelSmallCategory:
		return "smallCategories"
	default:
		return "unknown"
	}
}

// Field returns the record field holding this level's label.
func (lv Level) Field() Field {
	switch lv {
	case LevelCategory:
		return FieldCategory
	case LevelItem:
		return FieldItem
	case LevelSubCategory:
		return FieldSubCategory
	default:
		return FieldSmallCategory
	}
}

// Label returns the leaf's label at this level.
func (lv Level) Label(l Leaf) string {
	switch lv {
	case LevelCategory:
		return l.Category
	case LevelItem:
		return l.Item
	case LevelSubCategory:
		return l.SubCategory
	case LevelSmallCategory:
		return l.SmallCategory
	default:
		return ""
	}
}

// Field names a settable leaf attribute.
type Field string

// Settable fields.
const (
	FieldCategory      Field = "category"
	FieldItem          Field = "item"
	FieldSubCategory   Field = "sub_category"
	FieldSmallCategory Field = "small_category"
	FieldName          Field = "name"
	FieldDescription   Field = "description"
	FieldPhase         Field = "phase"
	FieldDisplayOrder  Field = "display_order"
)

// ParseField resolves a field name. Both snake_case and camelCase are
// accepted since the interaction layer uses the latter.
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.ReplaceAll(name, "_", "")) {
	case "category":
		return FieldCategory, nil
	case "item":
		return FieldItem, nil
	case "subcategory":
		return FieldSubCategory, nil
	case "smallcategory":
		return FieldSmallCategory, nil
	case "name":
		return FieldName, nil
	case "description":
		return FieldDescription, nil
	case "phase":
		return FieldPhase, nil
	case "displayorder":
		return FieldDisplayOrder, nil
	default:
		return "", errors.NewContractError("ParseField", "field", name, "unknown field")
	}
}

// IsGroupLevel reports whether the field is part of the group key.
func (f Field) IsGroupLevel() bool {
	return f == FieldCategory || f == FieldItem || f == FieldSubCategory
}

// Set assigns a string value to the field. A phase that is not an integer
// is stored as 0. Display order must parse as an integer; an empty one
// clears it. A negative phase is a contract violation.
func (l *Leaf) Set(field Field, value string) error {
	switch field {
	case FieldCategory:
		l.Category = value
	case FieldItem:
		l.Item = value
	case FieldSubCategory:
		l.SubCategory = value
	case FieldSmallCategory:
		l.SmallCategory = value
	case FieldName:
		l.Name = value
	case FieldDescription:
		l.Description = value
	case FieldPhase:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			// Phase 0 is never valid; the validator flags the record.
			n = 0
		}
		if err := CheckPhase("Leaf.Set", Phase(n)); err != nil {
			return err
		}
		l.Phase = Phase(n)
	case FieldDisplayOrder:
		value = strings.TrimSpace(value)
		if value == "" {
			l.DisplayOrder = nil
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.NewContractError("Leaf.Set", "display_order", value, "not an integer")
		}
		l.DisplayOrder = &n
	default:
		return errors.NewContractError("Leaf.Set", "field", string(field), "unknown field")
	}
	return nil
}

// SetLevel assigns a label at a taxonomy level.
func (l *Leaf) SetLevel(lv Level, value string) {
	switch lv {
	case LevelCategory:
		l.Category = value
	case LevelItem:
		l.Item = value
	case LevelSubCategory:
		l.SubCategory = value
	case LevelSmallCategory:
		l.SmallCategory = value
	}
}

// SetLevel assigns a group-level label on a pending group. The small
// category lives on leaves and is ignored here.
func (g *PendingGroup) SetLevel(lv Level, value string) {
	switch lv {
	case LevelCategory:
		g.Category = value
	case LevelItem:
		g.Item = value
	case LevelSubCategory:
		g.SubCategory = value
	}
}
