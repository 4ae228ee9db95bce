// Package memory provides an in-memory record store for tests and dry runs.
package memory

import (
	"context"
	"sync"

	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Store keeps the record set in memory.
type Store struct {
	mu      sync.RWMutex
	records []skills.Leaf
	saves   int
	failErr error
}

// New creates a store holding a copy of records.
func New(records ...skills.Leaf) *Store {
	return &Store{records: skills.CloneAll(records)}
}

// Load returns a copy of the stored records.
func (s *Store) Load(ctx context.Context) ([]skills.Leaf, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := skills.CloneAll(s.records)
	if out == nil {
		out = []skills.Leaf{}
	}
	return out, nil
}

// Save replaces the stored records with a copy of records.
func (s *Store) Save(ctx context.Context, records []skills.Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failErr != nil {
		return s.failErr
	}
	s.records = skills.CloneAll(records)
	s.saves++
	return nil
}

// Saves returns how many saves succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// FailSaves makes every following Save return err. A nil err clears it.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
