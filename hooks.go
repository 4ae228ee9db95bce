package skillmatrix

import (
	"sync"

	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/session"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Hook function types for commit events
type (
	// RecordAddedHook is called for each record a commit added
	RecordAddedHook func(record skills.Leaf)

	// RecordUpdatedHook is called for each record a commit changed
	RecordUpdatedHook func(update differ.RecordUpdate)

	// RecordRemovedHook is called for each record a commit removed
	RecordRemovedHook func(record skills.Leaf)
)

// hooks manages callbacks fired after a successful commit
type hooks struct {
	mu              sync.RWMutex
	onRecordAdded   []RecordAddedHook
	onRecordUpdated []RecordUpdatedHook
	onRecordRemoved []RecordRemovedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordAdded registers a callback for added records
func (h *hooks) OnRecordAdded(fn RecordAddedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordAdded = append(h.onRecordAdded, fn)
}

// OnRecordUpdated registers a callback for changed records
func (h *hooks) OnRecordUpdated(fn RecordUpdatedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordUpdated = append(h.onRecordUpdated, fn)
}

// OnRecordRemoved registers a callback for removed records
func (h *hooks) OnRecordRemoved(fn RecordRemovedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRecordRemoved = append(h.onRecordRemoved, fn)
}

// trigger fires hooks for every change in a commit result
func (h *hooks) trigger(result *session.CommitResult) {
	if result == nil || result.Changes == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, r := range result.Changes.Added {
		for _, hook := range h.onRecordAdded {
			hook(r)
		}
	}
	for _, u := range result.Changes.Changed {
		for _, hook := range h.onRecordUpdated {
			hook(u)
		}
	}
	for _, r := range result.Changes.Removed {
		for _, hook := range h.onRecordRemoved {
			hook(r)
		}
	}
}
