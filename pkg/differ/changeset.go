// Package differ compares a baseline snapshot of leaf records with an edited
// set and reports what changed. The result drives a pre-commit review; it
// never blocks a commit by itself.
package differ

import (
	"fmt"
	"strings"

	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// ChangeType represents the type of change.
type ChangeType string

const (
	// ChangeTypeAdd indicates a record was added.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate indicates a record was updated.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeRemove indicates a record was removed.
	ChangeTypeRemove ChangeType = "remove"
)

// FieldChange represents a change to a specific field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"`
	OldValue string     `json:"old_value" yaml:"old_value"`
	NewValue string     `json:"new_value" yaml:"new_value"`
	Type     ChangeType `json:"type" yaml:"type"`
}

// RecordUpdate is a record present on both sides whose secondary fields differ.
type RecordUpdate struct {
	Key      skills.ComparisonKey `json:"key" yaml:"key"`
	Baseline skills.Leaf          `json:"baseline" yaml:"baseline"`
	Edited   skills.Leaf          `json:"edited" yaml:"edited"`
	Changes  []FieldChange        `json:"changes" yaml:"changes"`
}

// Changeset represents all changes between a baseline and an edited set.
type Changeset struct {
	AddedLabels   map[skills.Level][]string           `json:"added_labels" yaml:"added_labels"`
	SimilarLabels map[skills.Level][]duplicates.Match `json:"similar_labels" yaml:"similar_labels"`

	Added   []skills.Leaf  `json:"added" yaml:"added"`
	Changed []RecordUpdate `json:"changed" yaml:"changed"`
	Removed []skills.Leaf  `json:"removed" yaml:"removed"`

	Summary ChangesetSummary `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides summary statistics for a changeset.
type ChangesetSummary struct {
	RecordsAdded   int `json:"records_added" yaml:"records_added"`
	RecordsChanged int `json:"records_changed" yaml:"records_changed"`
	RecordsRemoved int `json:"records_removed" yaml:"records_removed"`
	LabelsAdded    int `json:"labels_added" yaml:"labels_added"`
	SimilarLabels  int `json:"similar_labels" yaml:"similar_labels"`
	TotalChanges   int `json:"total_changes" yaml:"total_changes"`
}

// calculateSummary computes the summary for a changeset.
func calculateSummary(c *Changeset) ChangesetSummary {
	labels, similar := 0, 0
	for _, level := range skills.Levels() {
		labels += len(c.AddedLabels[level])
		similar += len(c.SimilarLabels[level])
	}
	added, changed, removed := len(c.Added), len(c.Changed), len(c.Removed)

	return ChangesetSummary{
		RecordsAdded:   added,
		RecordsChanged: changed,
		RecordsRemoved: removed,
		LabelsAdded:    labels,
		SimilarLabels:  similar,
		TotalChanges:   added + changed + removed,
	}
}

// HasChanges returns true if the changeset contains any record changes.
func (c *Changeset) HasChanges() bool {
	return c.Summary.TotalChanges > 0
}

// IsEmpty returns true if the changeset has neither record changes nor new labels.
func (c *Changeset) IsEmpty() bool {
	return c.Summary.TotalChanges == 0 && c.Summary.LabelsAdded == 0
}

// HasSimilarLabels returns true if any new label resembles an existing one.
func (c *Changeset) HasSimilarLabels() bool {
	return c.Summary.SimilarLabels > 0
}

// String returns a human-readable summary of the changeset.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes detected"
	}

	var parts []string

	if c.HasChanges() {
		recordParts := []string{}
		if n := len(c.Added); n > 0 {
			recordParts = append(recordParts, fmt.Sprintf("%d added", n))
		}
		if n := len(c.Changed); n > 0 {
			recordParts = append(recordParts, fmt.Sprintf("%d changed", n))
		}
		if n := len(c.Removed); n > 0 {
			recordParts = append(recordParts, fmt.Sprintf("%d removed", n))
		}
		parts = append(parts, fmt.Sprintf("Records: %s", strings.Join(recordParts, ", ")))
	}

	if c.Summary.LabelsAdded > 0 {
		labelParts := []string{}
		for _, level := range skills.Levels() {
			if n := len(c.AddedLabels[level]); n > 0 {
				labelParts = append(labelParts, fmt.Sprintf("%d %s", n, level))
			}
		}
		parts = append(parts, fmt.Sprintf("New labels: %s", strings.Join(labelParts, ", ")))
	}

	if c.HasSimilarLabels() {
		parts = append(parts, fmt.Sprintf("Possible duplicates: %d", c.Summary.SimilarLabels))
	}

	return strings.Join(parts, "; ")
}
