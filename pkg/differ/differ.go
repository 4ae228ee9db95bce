package differ

import (
	"fmt"
	"sort"

	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Differ handles change detection between a baseline and an edited record set.
type Differ interface {
	// Records compares two sets of leaf records and returns changes
	Records(baseline, edited []skills.Leaf) *Changeset

	// Labels returns the distinct labels introduced at each taxonomy level
	// along with their near-duplicates among the baseline labels
	Labels(baseline, edited []skills.Leaf) (map[skills.Level][]string, map[skills.Level][]duplicates.Match)
}

// differ is the default implementation of Differ.
type differ struct {
	ignoreFields map[skills.Field]bool
	threshold    float64
}

// New creates a Differ with default settings.
func New(opts ...Option) Differ {
	d := &differ{
		ignoreFields: make(map[skills.Field]bool),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Records compares two sets of leaf records and returns changes.
func (diff *differ) Records(baseline, edited []skills.Leaf) *Changeset {
	changeset := &Changeset{
		Added:   []skills.Leaf{},
		Changed: []RecordUpdate{},
		Removed: []skills.Leaf{},
	}

	changeset.AddedLabels, changeset.SimilarLabels = diff.Labels(baseline, edited)

	// Create maps for efficient lookup
	baselineMap := make(map[skills.ComparisonKey]skills.Leaf, len(baseline))
	for _, leaf := range baseline {
		baselineMap[leaf.ComparisonKey()] = leaf
	}

	editedMap := make(map[skills.ComparisonKey]skills.Leaf, len(edited))
	for _, leaf := range edited {
		editedMap[leaf.ComparisonKey()] = leaf
	}

	// Find added and changed records
	for key, editedLeaf := range editedMap {
		if baselineLeaf, exists := baselineMap[key]; exists {
			if update := diff.leaf(key, baselineLeaf, editedLeaf); update != nil {
				changeset.Changed = append(changeset.Changed, *update)
			}
		} else {
			changeset.Added = append(changeset.Added, editedLeaf)
		}
	}

	// Find removed records
	for key, baselineLeaf := range baselineMap {
		if _, exists := editedMap[key]; !exists {
			changeset.Removed = append(changeset.Removed, baselineLeaf)
		}
	}

	// Sort for consistent output
	sortChangeset(changeset)

	changeset.Summary = calculateSummary(changeset)

	return changeset
}

// Labels computes the labels introduced at each level and their near-duplicates.
func (diff *differ) Labels(baseline, edited []skills.Leaf) (map[skills.Level][]string, map[skills.Level][]duplicates.Match) {
	added := make(map[skills.Level][]string, len(skills.Levels()))
	similar := make(map[skills.Level][]duplicates.Match, len(skills.Levels()))

	var opts []duplicates.Option
	if diff.threshold > 0 {
		opts = append(opts, duplicates.WithThreshold(diff.threshold))
	}

	for _, level := range skills.Levels() {
		existing := distinctLabels(baseline, level)
		seen := make(map[string]bool, len(existing))
		for _, label := range existing {
			seen[label] = true
		}

		introduced := []string{}
		for _, label := range distinctLabels(edited, level) {
			if !seen[label] {
				introduced = append(introduced, label)
			}
		}

		added[level] = introduced
		similar[level] = duplicates.FindSimilar(introduced, existing, opts...)
	}

	return added, similar
}

// leaf compares two records sharing a comparison key.
func (diff *differ) leaf(key skills.ComparisonKey, baseline, edited skills.Leaf) *RecordUpdate {
	changes := []FieldChange{}

	if baseline.Description != edited.Description && !diff.ignoreFields[skills.FieldDescription] {
		changes = append(changes, FieldChange{
			Path:     string(skills.FieldDescription),
			OldValue: truncateString(baseline.Description, 50),
			NewValue: truncateString(edited.Description, 50),
			Type:     ChangeTypeUpdate,
		})
	}

	if !equalOrder(baseline.DisplayOrder, edited.DisplayOrder) && !diff.ignoreFields[skills.FieldDisplayOrder] {
		changes = append(changes, FieldChange{
			Path:     string(skills.FieldDisplayOrder),
			OldValue: formatOrder(baseline.DisplayOrder),
			NewValue: formatOrder(edited.DisplayOrder),
			Type:     ChangeTypeUpdate,
		})
	}

	if len(changes) == 0 {
		return nil
	}

	return &RecordUpdate{
		Key:      key,
		Baseline: baseline,
		Edited:   edited,
		Changes:  changes,
	}
}

// distinctLabels returns the non-empty labels at a level in first-appearance order.
func distinctLabels(leaves []skills.Leaf, level skills.Level) []string {
	seen := make(map[string]bool)
	labels := []string{}
	for _, leaf := range leaves {
		label := level.Label(leaf)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// sortChangeset sorts all slices in the changeset.
func sortChangeset(changeset *Changeset) {
	sort.Slice(changeset.Added, func(i, j int) bool {
		return changeset.Added[i].ComparisonKey() < changeset.Added[j].ComparisonKey()
	})
	sort.Slice(changeset.Changed, func(i, j int) bool {
		return changeset.Changed[i].Key < changeset.Changed[j].Key
	})
	sort.Slice(changeset.Removed, func(i, j int) bool {
		return changeset.Removed[i].ComparisonKey() < changeset.Removed[j].ComparisonKey()
	})
}

// Helper functions

func equalOrder(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func formatOrder(v *int) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// truncateString truncates a string to a maximum number of runes.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
