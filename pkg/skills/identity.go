package skills

// Kind discriminates persisted leaves from placeholders.
type Kind int

const (
	// KindUnassigned is a leaf with id 0; only import candidates carry it.
	KindUnassigned Kind = iota
	// KindPersisted is a stored leaf with a positive id.
	KindPersisted
	// KindPending is a leaf created in this session with a negative id.
	KindPending
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPersisted:
		return "persisted"
	case KindPending:
		return "pending"
	default:
		return "unassigned"
	}
}

// Identity is the tagged view of a leaf's id. PlaceholderGroupID is set only
// for pending leaves whose group is itself pending.
type Identity struct {
	Kind               Kind
	ID                 int
	PlaceholderGroupID string
}

// IdentityOf classifies a leaf. A leaf that still references a placeholder
// group is pending even if a positive id was copied onto it.
func IdentityOf(l Leaf) Identity {
	switch {
	case l.GroupPlaceholderID != "":
		return Identity{Kind: KindPending, ID: l.ID, PlaceholderGroupID: l.GroupPlaceholderID}
	case l.ID > 0:
		return Identity{Kind: KindPersisted, ID: l.ID}
	case l.ID < 0:
		return Identity{Kind: KindPending, ID: l.ID}
	default:
		return Identity{Kind: KindUnassigned}
	}
}

// PendingGroup is a group created in this session that may not have any
// leaves yet. Anchor names the group it was inserted after; empty appends.
type PendingGroup struct {
	PlaceholderID string   `json:"placeholder_id" yaml:"placeholder_id"`
	Category      string   `json:"category" yaml:"category"`
	Item          string   `json:"item" yaml:"item"`
	SubCategory   string   `json:"sub_category" yaml:"sub_category"`
	Anchor        GroupKey `json:"anchor,omitempty" yaml:"anchor,omitempty"`
}

// Key returns the order-entry key of the group.
func (g PendingGroup) Key() GroupKey {
	return PendingKey(g.PlaceholderID)
}

// GroupKey returns the key the group will have once materialized.
func (g PendingGroup) GroupKey() GroupKey {
	return NewGroupKey(g.Category, g.Item, g.SubCategory)
}
