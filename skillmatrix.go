// Package skillmatrix is the entry point of the skill-matrix reconciliation
// engine. It loads a baseline record set from a store, hands out edit
// sessions over it, and commits flattened sessions back.
//
// Example usage:
//
//	engine, err := skillmatrix.New(
//	    skillmatrix.WithStore(store),
//	    skillmatrix.WithSimilarityThreshold(0.8),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s, err := engine.Open(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	s.MoveGroup("RedTeam|Recon|OSINT", "共通|基礎|ネットワーク")
//
//	report, _ := s.Check()
//	if report.CanCommit() {
//	    result, err := engine.Commit(ctx, s)
//	    ...
//	}
package skillmatrix

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/session"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Store loads and replaces the full record set.
type Store interface {
	Load(ctx context.Context) ([]skills.Leaf, error)
	Save(ctx context.Context, records []skills.Leaf) error
}

// Engine opens and commits edit sessions against one store.
type Engine struct {
	config *config
	store  Store
	logger zerolog.Logger
	hooks  *hooks
}

// New creates an Engine with the given options. Without WithStore the
// engine opens sessions over an empty baseline and commits nowhere.
func New(opts ...Option) (*Engine, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	return &Engine{
		config: c,
		store:  c.store,
		logger: *c.logger,
		hooks:  newHooks(),
	}, nil
}

// Open loads the baseline from the store and starts a session over it.
// Extra options override the engine's session defaults.
func (e *Engine) Open(ctx context.Context, opts ...session.Option) (*session.Session, error) {
	var baseline []skills.Leaf
	if e.store != nil {
		records, err := e.store.Load(ctx)
		if err != nil {
			return nil, errors.WrapResource("load", "records", "", err)
		}
		baseline = records
	}

	s, err := session.New(baseline, append(e.config.sessionOptions(), opts...)...)
	if err != nil {
		return nil, err
	}

	e.logger.Debug().
		Str("session_id", s.ID()).
		Int("records", len(baseline)).
		Msg("Opened session")
	return s, nil
}

// Commit commits s through the engine's store and fires the record hooks
// for what changed.
func (e *Engine) Commit(ctx context.Context, s *session.Session) (*session.CommitResult, error) {
	if s == nil {
		return nil, &errors.ValidationError{Field: "session", Message: "cannot be nil"}
	}

	var p session.Persister
	if e.store != nil {
		p = e.store
	}
	result, err := s.Commit(ctx, p)
	if err != nil {
		return nil, err
	}

	e.hooks.trigger(result)
	return result, nil
}

// OnRecordAdded registers a callback for records added by a commit.
func (e *Engine) OnRecordAdded(fn RecordAddedHook) { e.hooks.OnRecordAdded(fn) }

// OnRecordUpdated registers a callback for records whose secondary fields
// changed in a commit.
func (e *Engine) OnRecordUpdated(fn RecordUpdatedHook) { e.hooks.OnRecordUpdated(fn) }

// OnRecordRemoved registers a callback for records removed by a commit.
func (e *Engine) OnRecordRemoved(fn RecordRemovedHook) { e.hooks.OnRecordRemoved(fn) }

// SimilarityThreshold returns the near-duplicate threshold sessions use.
func (e *Engine) SimilarityThreshold() float64 {
	if e.config.threshold != nil {
		return *e.config.threshold
	}
	return constants.DefaultSimilarityThreshold
}
