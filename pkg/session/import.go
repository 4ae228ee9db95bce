package session

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/skillmatrix/pkg/skills"
	"github.com/agentstation/skillmatrix/pkg/validation"
)

// PreviewImport validates and diffs an imported candidate set against the
// baseline without touching the session. parseErrors from the importer are
// carried through to the report.
func (s *Session) PreviewImport(candidate []skills.Leaf, parseErrors []string) *Report {
	v := validation.Validate(candidate, nil)
	report := &Report{
		SessionID:   s.id,
		GeneratedAt: utc.Now(),
		Validation:  v,
		Changes:     s.differ.Records(s.baseline, candidate),
		ParseErrors: append([]string(nil), parseErrors...),
	}

	s.logger.Info().
		Int("candidates", len(candidate)).
		Int("parse_errors", len(parseErrors)).
		Bool("valid", !v.HasErrors()).
		Msg("Previewed import")
	return report
}

// ApplyImport replaces the working set with candidate. A candidate whose
// comparison key matches a working record takes over that record's id and
// placeholder group; only the first candidate per key matches. Every other
// candidate gets a fresh placeholder id. Pending groups no imported record
// references are dropped and the Order Entry is reset to the natural order.
// On error the session is unchanged.
func (s *Session) ApplyImport(candidate []skills.Leaf) error {
	if err := s.closed("apply import"); err != nil {
		return err
	}
	for _, c := range candidate {
		if err := skills.CheckPhase("ApplyImport", c.Phase); err != nil {
			return err
		}
	}

	working := make(map[skills.ComparisonKey]skills.Leaf, len(s.records))
	for _, r := range s.records {
		k := r.ComparisonKey()
		if _, ok := working[k]; !ok {
			working[k] = r
		}
	}

	matched := 0
	claimed := make(map[skills.ComparisonKey]bool, len(candidate))
	records := make([]skills.Leaf, 0, len(candidate))
	referenced := make(map[string]bool)
	for _, c := range candidate {
		leaf := c.Clone()
		k := leaf.ComparisonKey()
		if r, ok := working[k]; ok && !claimed[k] {
			claimed[k] = true
			leaf.ID = r.ID
			leaf.GroupPlaceholderID = r.GroupPlaceholderID
			matched++
		} else {
			leaf.ID = s.alloc.LeafID()
			leaf.GroupPlaceholderID = ""
		}
		if leaf.GroupPlaceholderID != "" {
			referenced[leaf.GroupPlaceholderID] = true
		}
		records = append(records, leaf)
	}

	var pending []skills.PendingGroup
	for _, g := range s.pending {
		if referenced[g.PlaceholderID] {
			pending = append(pending, g)
		}
	}

	if err := s.groups.Restart(records, pending); err != nil {
		return err
	}
	s.records, s.pending = records, pending

	s.logger.Info().
		Int("records", len(records)).
		Int("matched", matched).
		Int("pending_groups", len(pending)).
		Msg("Applied import")
	return nil
}
