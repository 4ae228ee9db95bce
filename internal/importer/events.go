package importer

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/session"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Op names an interaction event.
type Op string

// Interaction events a script can replay.
const (
	OpMoveGroup     Op = "move_group"
	OpMovePhaseItem Op = "move_phase_item"
	OpInsertGroup   Op = "insert_group"
	OpSetGroupField Op = "set_group_field"
	OpDeleteGroup   Op = "delete_group"
	OpAddLeaf       Op = "add_leaf"
	OpDeleteLeaf    Op = "delete_leaf"
	OpSetField      Op = "set_field"
)

// Event is one scripted interaction. Which fields apply depends on Op.
// For add_leaf and set_group_field an empty group means the group inserted
// last; for set_field and delete_leaf a zero id means the leaf added last.
type Event struct {
	Op     Op     `yaml:"op" json:"op"`
	From   string `yaml:"from,omitempty" json:"from,omitempty"`
	To     string `yaml:"to,omitempty" json:"to,omitempty"`
	Group  string `yaml:"group,omitempty" json:"group,omitempty"`
	Phase  int    `yaml:"phase,omitempty" json:"phase,omitempty"`
	FromID int    `yaml:"from_id,omitempty" json:"from_id,omitempty"`
	ToID   int    `yaml:"to_id,omitempty" json:"to_id,omitempty"`
	Anchor string `yaml:"anchor,omitempty" json:"anchor,omitempty"`
	ID     int    `yaml:"id,omitempty" json:"id,omitempty"`
	Field  string `yaml:"field,omitempty" json:"field,omitempty"`
	Value  string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Outcome reports what one replayed event did. Applied is false for
// events that referenced something no longer present.
type Outcome struct {
	Index   int    `yaml:"index" json:"index"`
	Op      Op     `yaml:"op" json:"op"`
	Applied bool   `yaml:"applied" json:"applied"`
	Detail  string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

// ParseEventsFile reads an event script from path.
func ParseEventsFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	events, err := ParseEvents(f)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return events, nil
}

// ParseEvents reads a YAML list of events.
func ParseEvents(r io.Reader) ([]Event, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var events []Event
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	for i, e := range events {
		if !e.Op.known() {
			return nil, fmt.Errorf("event %d: unknown op %q", i+1, e.Op)
		}
	}
	return events, nil
}

func (op Op) known() bool {
	switch op {
	case OpMoveGroup, OpMovePhaseItem, OpInsertGroup, OpSetGroupField,
		OpDeleteGroup, OpAddLeaf, OpDeleteLeaf, OpSetField:
		return true
	}
	return false
}

// Replay applies events to s in order and stops at the first error.
func Replay(s *session.Session, events []Event) ([]Outcome, error) {
	r := &replayer{s: s}
	outcomes := make([]Outcome, 0, len(events))
	for i, e := range events {
		out, err := r.apply(e)
		out.Index, out.Op = i+1, e.Op
		if err != nil {
			return outcomes, fmt.Errorf("event %d (%s): %w", i+1, e.Op, err)
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

type replayer struct {
	s         *session.Session
	lastGroup skills.GroupKey
	lastLeaf  int
}

func (r *replayer) group(name string) skills.GroupKey {
	if name == "" {
		return r.lastGroup
	}
	return skills.GroupKey(name)
}

func (r *replayer) leaf(id int) int {
	if id == 0 {
		return r.lastLeaf
	}
	return id
}

func (r *replayer) apply(e Event) (Outcome, error) {
	switch e.Op {
	case OpMoveGroup:
		return Outcome{Applied: r.s.MoveGroup(skills.GroupKey(e.From), skills.GroupKey(e.To))}, nil

	case OpMovePhaseItem:
		ok, err := r.s.MovePhaseItem(skills.GroupKey(e.Group), skills.Phase(e.Phase), e.FromID, e.ToID)
		return Outcome{Applied: ok}, err

	case OpInsertGroup:
		g, err := r.s.InsertGroup(skills.GroupKey(e.Anchor))
		if err != nil {
			return Outcome{}, err
		}
		r.lastGroup = g.Key()
		return Outcome{Applied: true, Detail: string(g.Key())}, nil

	case OpSetGroupField:
		level, err := levelOf(e.Field)
		if err != nil {
			return Outcome{}, err
		}
		key := r.group(e.Group)
		ok, err := r.s.SetGroupField(key, level, e.Value)
		if err == nil && ok && !key.IsPending() && level != skills.LevelSmallCategory {
			r.lastGroup = renamed(key, level, e.Value)
		}
		return Outcome{Applied: ok}, err

	case OpDeleteGroup:
		return Outcome{Applied: r.s.DeleteGroup(r.group(e.Group))}, nil

	case OpAddLeaf:
		l, err := r.s.AddLeaf(r.group(e.Group), skills.Phase(e.Phase))
		if err != nil {
			return Outcome{}, err
		}
		r.lastLeaf = l.ID
		return Outcome{Applied: true, Detail: fmt.Sprintf("id %d", l.ID)}, nil

	case OpDeleteLeaf:
		return Outcome{Applied: r.s.DeleteLeaf(r.leaf(e.ID))}, nil

	case OpSetField:
		ok, err := r.s.SetField(r.leaf(e.ID), e.Field, e.Value)
		return Outcome{Applied: ok}, err

	default:
		return Outcome{}, errors.NewContractError("Replay", "op", string(e.Op), "unknown op")
	}
}

// levelOf resolves a taxonomy level by its field name.
func levelOf(name string) (skills.Level, error) {
	f, err := skills.ParseField(name)
	if err != nil {
		return 0, err
	}
	for _, lv := range skills.Levels() {
		if lv.Field() == f {
			return lv, nil
		}
	}
	return 0, errors.NewContractError("Replay", "field", name, "not a taxonomy level")
}

func renamed(key skills.GroupKey, level skills.Level, value string) skills.GroupKey {
	category, item, sub, err := skills.ParseGroupKey(key)
	if err != nil {
		return key
	}
	g := skills.PendingGroup{Category: category, Item: item, SubCategory: sub}
	g.SetLevel(level, value)
	return g.GroupKey()
}
