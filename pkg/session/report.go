package session

import (
	"fmt"

	"github.com/agentstation/utc"

	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/skills"
	"github.com/agentstation/skillmatrix/pkg/validation"
)

// Report is the pre-commit review of an edited or imported record set.
type Report struct {
	SessionID   string             `json:"session_id" yaml:"session_id"`
	GeneratedAt utc.Time           `json:"generated_at" yaml:"generated_at"`
	Validation  *validation.Result `json:"validation" yaml:"validation"`
	Changes     *differ.Changeset  `json:"changes" yaml:"changes"`
	ParseErrors []string           `json:"parse_errors,omitempty" yaml:"parse_errors,omitempty"`
}

// CanCommit reports whether the reviewed set passed validation.
func (r *Report) CanCommit() bool {
	return r.Validation != nil && !r.Validation.HasErrors()
}

// String returns a one-line summary.
func (r *Report) String() string {
	s := fmt.Sprintf("%s; %s", r.Validation, r.Changes)
	if n := len(r.ParseErrors); n > 0 {
		s = fmt.Sprintf("%s; %d parse errors", s, n)
	}
	return s
}

// CommitResult describes what was persisted.
type CommitResult struct {
	Records []skills.Leaf `json:"records" yaml:"records"`
	// IDs maps each placeholder id to its canonical id.
	IDs map[int]int `json:"ids" yaml:"ids"`
	// Groups maps each resolved placeholder group to its key.
	Groups map[string]skills.GroupKey `json:"groups" yaml:"groups"`
	// Dropped lists pending groups that had no records at commit.
	Dropped   []skills.PendingGroup `json:"dropped,omitempty" yaml:"dropped,omitempty"`
	Changes   *differ.Changeset     `json:"changes" yaml:"changes"`
	Committed utc.Time              `json:"committed_at" yaml:"committed_at"`
}
