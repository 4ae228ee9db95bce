package session

import (
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Interaction events. Each is applied synchronously. Events that reference
// keys or ids no longer present are no-ops and report false; they usually
// come from a stale UI replay.

// MoveGroup moves a group to another group's position in the Order Entry.
func (s *Session) MoveGroup(fromKey, toKey skills.GroupKey) bool {
	moved := s.groups.Reorder(fromKey, toKey)
	log := logging.WithGroup(s.logger, fromKey)
	log.Debug().
		Str("to", string(toKey)).
		Bool("moved", moved).
		Msg("Move group")
	return moved
}

// MovePhaseItem moves a leaf to another leaf's position within one cell.
func (s *Session) MovePhaseItem(groupKey skills.GroupKey, phase skills.Phase, fromID, toID int) (bool, error) {
	if err := s.closed("move phase item"); err != nil {
		return false, err
	}
	moved, err := s.groups.ReorderPhase(groupKey, phase, fromID, toID)
	if err != nil {
		return false, err
	}
	log := logging.WithGroup(s.logger, groupKey)
	log.Debug().
		Int("phase", int(phase)).
		Int("from_id", fromID).
		Int("to_id", toID).
		Bool("moved", moved).
		Msg("Move phase item")
	return moved, nil
}

// InsertGroup creates an empty pending group immediately after anchor, or
// at the end when anchor is empty or unknown. Its labels start blank and
// are filled with SetGroupField.
func (s *Session) InsertGroup(anchor skills.GroupKey) (skills.PendingGroup, error) {
	if err := s.closed("insert group"); err != nil {
		return skills.PendingGroup{}, err
	}

	g := skills.PendingGroup{
		PlaceholderID: s.alloc.GroupPlaceholder(),
		Anchor:        anchor,
	}
	s.pending = append(s.pending, g)
	if err := s.rebuild(); err != nil {
		s.pending = s.pending[:len(s.pending)-1]
		return skills.PendingGroup{}, err
	}

	s.logger.Debug().
		Str("placeholder", g.PlaceholderID).
		Str("anchor", string(anchor)).
		Msg("Insert group")
	return g, nil
}

// SetGroupField sets a taxonomy label on a whole group: on the pending group
// and its leaves, or on every member of a persisted group. The group keeps
// its position in the Order Entry.
func (s *Session) SetGroupField(key skills.GroupKey, level skills.Level, value string) (bool, error) {
	if err := s.closed("set group field"); err != nil {
		return false, err
	}

	changed := false
	if key.IsPending() {
		i := s.pendingIndex(key)
		if i < 0 {
			return false, nil
		}
		s.pending[i].SetLevel(level, value)
		for j := range s.records {
			if s.records[j].GroupPlaceholderID == s.pending[i].PlaceholderID {
				s.records[j].SetLevel(level, value)
			}
		}
		changed = true
	} else {
		for j := range s.records {
			r := &s.records[j]
			if r.GroupPlaceholderID == "" && r.GroupKey() == key {
				r.SetLevel(level, value)
				changed = true
			}
		}
		if !changed {
			return false, nil
		}
		if level != skills.LevelSmallCategory {
			category, item, sub, err := skills.ParseGroupKey(key)
			if err != nil {
				return false, err
			}
			g := skills.PendingGroup{Category: category, Item: item, SubCategory: sub}
			g.SetLevel(level, value)
			s.groups.Rename(key, g.GroupKey())
		}
	}

	if err := s.rebuild(); err != nil {
		return false, err
	}
	log := logging.WithGroup(s.logger, key)
	log.Debug().
		Str("level", level.String()).
		Str("value", value).
		Msg("Set group field")
	return changed, nil
}

// DeleteGroup removes a group and every leaf in it.
func (s *Session) DeleteGroup(key skills.GroupKey) bool {
	if s.groups.State().Closed() {
		return false
	}

	removed := false
	if key.IsPending() {
		i := s.pendingIndex(key)
		if i < 0 {
			return false
		}
		placeholder := s.pending[i].PlaceholderID
		s.pending = append(s.pending[:i:i], s.pending[i+1:]...)
		s.records = filter(s.records, func(r skills.Leaf) bool {
			return r.GroupPlaceholderID != placeholder
		})
		removed = true
	} else {
		before := len(s.records)
		s.records = filter(s.records, func(r skills.Leaf) bool {
			return r.GroupPlaceholderID != "" || r.GroupKey() != key
		})
		removed = len(s.records) != before
	}

	if !removed {
		return false
	}
	log := logging.WithGroup(s.logger, key)
	if err := s.rebuild(); err != nil {
		log.Error().Err(err).Msg("Rebuild after delete group failed")
	}
	log.Debug().Msg("Delete group")
	return true
}

// AddLeaf adds an empty leaf to one cell of a group, cloned from the
// group's shape with a fresh placeholder id.
func (s *Session) AddLeaf(groupKey skills.GroupKey, phase skills.Phase) (skills.Leaf, error) {
	if err := s.closed("add leaf"); err != nil {
		return skills.Leaf{}, err
	}
	if !phase.Valid() {
		return skills.Leaf{}, errors.NewContractError("AddLeaf", "phase", int(phase), "phase must be between 1 and 5")
	}

	leaf, ok := s.shapeOf(groupKey)
	if !ok {
		return skills.Leaf{}, errors.NewNotFoundError("group", string(groupKey))
	}
	leaf.Phase = phase
	leaf.ID = s.alloc.LeafID()

	s.records = append(s.records, leaf)
	if err := s.rebuild(); err != nil {
		s.records = s.records[:len(s.records)-1]
		return skills.Leaf{}, err
	}

	log := logging.WithGroup(s.logger, groupKey)
	log.Debug().
		Int("phase", int(phase)).
		Int("id", leaf.ID).
		Msg("Add leaf")
	return leaf.Clone(), nil
}

// DeleteLeaf removes a leaf by id. Its id is never handed out again.
func (s *Session) DeleteLeaf(id int) bool {
	if s.groups.State().Closed() {
		return false
	}
	i := s.recordIndex(id)
	if i < 0 {
		return false
	}
	s.records = append(s.records[:i:i], s.records[i+1:]...)
	if err := s.rebuild(); err != nil {
		s.logger.Error().Err(err).Msg("Rebuild after delete leaf failed")
	}
	s.logger.Debug().Int("id", id).Msg("Delete leaf")
	return true
}

// SetField sets one field of one record. Field names are accepted in
// snake_case or camelCase. Setting a group-level label on a leaf of a
// pending group detaches it into the group its labels name.
func (s *Session) SetField(recordID int, field, value string) (bool, error) {
	if err := s.closed("set field"); err != nil {
		return false, err
	}
	f, err := skills.ParseField(field)
	if err != nil {
		return false, err
	}
	i := s.recordIndex(recordID)
	if i < 0 {
		return false, nil
	}

	updated := s.records[i].Clone()
	if err := updated.Set(f, value); err != nil {
		return false, err
	}
	if f.IsGroupLevel() {
		updated.GroupPlaceholderID = ""
	}
	previous := s.records[i]
	s.records[i] = updated

	if err := s.rebuild(); err != nil {
		s.records[i] = previous
		return false, err
	}
	s.logger.Debug().
		Int("id", recordID).
		Str("field", string(f)).
		Msg("Set field")
	return true, nil
}

func (s *Session) pendingIndex(key skills.GroupKey) int {
	for i, g := range s.pending {
		if g.Key() == key {
			return i
		}
	}
	return -1
}

func (s *Session) recordIndex(id int) int {
	if id == 0 {
		return -1
	}
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// shapeOf returns the template for a new leaf in the group under key.
func (s *Session) shapeOf(key skills.GroupKey) (skills.Leaf, bool) {
	if key.IsPending() {
		i := s.pendingIndex(key)
		if i < 0 {
			return skills.Leaf{}, false
		}
		g := s.pending[i]
		for _, r := range s.records {
			if r.GroupPlaceholderID == g.PlaceholderID {
				return r.Shape(), true
			}
		}
		return skills.Leaf{
			Category:           g.Category,
			Item:               g.Item,
			SubCategory:        g.SubCategory,
			GroupPlaceholderID: g.PlaceholderID,
		}, true
	}

	for _, r := range s.records {
		if r.GroupPlaceholderID == "" && r.GroupKey() == key {
			return r.Shape(), true
		}
	}
	return skills.Leaf{}, false
}

func filter(records []skills.Leaf, keep func(skills.Leaf) bool) []skills.Leaf {
	out := records[:0:0]
	for _, r := range records {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
