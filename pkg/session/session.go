// Package session is the explicit handle of one single-writer edit session.
// It owns the working record set, the pending groups and the Order Entry,
// and applies interaction events to them synchronously.
package session

import (
	"context"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/grouping"
	"github.com/agentstation/skillmatrix/pkg/identity"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/skills"
	"github.com/agentstation/skillmatrix/pkg/validation"
)

// Persister accepts the full flattened record set on commit. Save must be
// all-or-nothing.
type Persister interface {
	Save(ctx context.Context, records []skills.Leaf) error
}

// Session is one edit session over a baseline snapshot. It is not safe for
// concurrent use.
type Session struct {
	id      string
	started utc.Time
	opts    *options
	logger  zerolog.Logger

	baseline []skills.Leaf
	records  []skills.Leaf
	pending  []skills.PendingGroup

	alloc  *identity.Allocator
	groups *grouping.Manager
	differ differ.Differ

	lastValidation *validation.Result
}

// New starts a session over baseline. The baseline is deep-copied and
// never modified.
func New(baseline []skills.Leaf, opts ...Option) (*Session, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	groups, err := grouping.NewManager(o.groupingOptions()...)
	if err != nil {
		return nil, err
	}

	started := utc.Now()
	id := o.id
	if id == "" {
		id = started.Format("20060102T150405.000000")
	}

	s := &Session{
		id:       id,
		started:  started,
		opts:     o,
		logger:   o.logger.With().Str(logging.SessionField, id).Logger(),
		baseline: skills.CloneAll(baseline),
		records:  skills.CloneAll(baseline),
		groups:   groups,
		differ:   differ.New(o.differOptions()...),
	}
	if s.records == nil {
		s.records = []skills.Leaf{}
	}

	ids := make([]int, len(s.records))
	for i, r := range s.records {
		ids[i] = r.ID
	}
	s.alloc = identity.New(ids...)

	if err := s.rebuild(); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("records", len(s.records)).
		Int("groups", len(s.groups.Order())).
		Msg("Edit session started")

	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session was opened.
func (s *Session) StartedAt() utc.Time { return s.started }

// State returns the Order Entry lifecycle state.
func (s *Session) State() grouping.State { return s.groups.State() }

// Records returns a copy of the working record set.
func (s *Session) Records() []skills.Leaf { return skills.CloneAll(s.records) }

// Baseline returns a copy of the baseline snapshot.
func (s *Session) Baseline() []skills.Leaf { return skills.CloneAll(s.baseline) }

// PendingGroups returns a copy of the groups created in this session.
func (s *Session) PendingGroups() []skills.PendingGroup {
	return append([]skills.PendingGroup(nil), s.pending...)
}

// Order returns the current Order Entry.
func (s *Session) Order() []skills.GroupKey { return s.groups.Order() }

// Rows returns the render aggregate in Order Entry order.
func (s *Session) Rows() []grouping.Row { return s.groups.Rows() }

// Tree returns the last built tree.
func (s *Session) Tree() *grouping.Tree { return s.groups.Tree() }

// LastValidation returns the result of the most recent Check or Commit,
// or nil if none ran.
func (s *Session) LastValidation() *validation.Result { return s.lastValidation }

func (s *Session) closed(operation string) error {
	if st := s.groups.State(); st.Closed() {
		return &errors.SessionError{Operation: operation, State: st.String()}
	}
	return nil
}

func (s *Session) rebuild() error {
	return s.groups.Rebuild(s.records, s.pending)
}

// Check validates the working set and, on top, computes the change report
// against the baseline.
func (s *Session) Check() (*Report, error) {
	if err := s.closed("check"); err != nil {
		return nil, err
	}

	v := validation.Validate(s.records, s.pending)
	s.lastValidation = v

	report := &Report{
		SessionID:   s.id,
		GeneratedAt: utc.Now(),
		Validation:  v,
		Changes:     s.differ.Records(s.baseline, s.records),
	}

	s.logger.Info().
		Bool("valid", !v.HasErrors()).
		Int("errors", len(v.Errors)).
		Int("changes", report.Changes.Summary.TotalChanges).
		Int("similar_labels", report.Changes.Summary.SimilarLabels).
		Msg("Checked edit session")

	return report, nil
}

// Commit validates, resolves placeholders, flattens the Order Entry into
// display orders and hands the result to p. Validation failures refuse the
// commit with an error matching errors.ErrInvalidInput. A failed save
// leaves the session open. p receives ctx carrying the session's logger
// tagged with the session id and the commit operation.
func (s *Session) Commit(ctx context.Context, p Persister) (*CommitResult, error) {
	if err := s.closed("commit"); err != nil {
		return nil, err
	}
	ctx = logging.WithOperation(logging.WithSession(logging.WithLogger(ctx, s.opts.logger), s.id), "commit")
	log := logging.FromContext(ctx)

	v := validation.Validate(s.records, s.pending)
	s.lastValidation = v
	if err := v.Err(); err != nil {
		log.Warn().Int("errors", len(v.Errors)).Msg("Commit refused: validation failed")
		return nil, err
	}

	flat, err := s.groups.Flatten(s.records)
	if err != nil {
		return nil, err
	}

	res, err := identity.Resolve(flat, s.opts.remapper)
	if err != nil {
		return nil, err
	}

	if p != nil {
		if err := p.Save(ctx, res.Records); err != nil {
			log.Error().Err(err).Msg("Commit failed to save")
			return nil, errors.WrapResource("save", "records", s.id, err)
		}
	}

	if err := s.groups.Commit(); err != nil {
		return nil, err
	}

	result := &CommitResult{
		Records:   skills.CloneAll(res.Records),
		IDs:       res.IDs,
		Groups:    res.Groups,
		Dropped:   s.emptyPendingGroups(),
		Changes:   s.differ.Records(s.baseline, res.Records),
		Committed: utc.Now(),
	}

	log.Info().
		Int("records", len(result.Records)).
		Int("remapped", len(result.IDs)).
		Int("dropped_groups", len(result.Dropped)).
		Msg("Edit session committed")

	return result, nil
}

// Discard drops pending groups and the Order Entry and reverts the working
// set to the baseline. The session accepts no further edits.
func (s *Session) Discard() {
	if s.groups.State().Closed() {
		return
	}
	s.records = skills.CloneAll(s.baseline)
	s.pending = nil
	s.lastValidation = nil
	s.groups.Discard()
	s.logger.Info().Msg("Edit session discarded")
}

func (s *Session) emptyPendingGroups() []skills.PendingGroup {
	used := make(map[string]bool)
	for _, r := range s.records {
		if r.GroupPlaceholderID != "" {
			used[r.GroupPlaceholderID] = true
		}
	}
	var out []skills.PendingGroup
	for _, g := range s.pending {
		if !used[g.PlaceholderID] {
			out = append(out, g)
		}
	}
	return out
}
