// Package validation checks an edited record set before it may be
// persisted. Failures are reported, never returned as errors from Validate;
// callers decide whether to honor them.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Issue is one failing field of one record or pending group.
type Issue struct {
	Key           string       `json:"key" yaml:"key"`
	RecordID      int          `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	PlaceholderID string       `json:"placeholder_id,omitempty" yaml:"placeholder_id,omitempty"`
	Field         skills.Field `json:"field" yaml:"field"`
	Message       string       `json:"message" yaml:"message"`
}

// Result represents the outcome of validating a record set.
type Result struct {
	Errors    []string            `json:"errors" yaml:"errors"`
	ErrorKeys map[string]struct{} `json:"-" yaml:"-"`
	Issues    []Issue             `json:"issues" yaml:"issues"`
}

// HasErrors returns true if any check failed.
func (r *Result) HasErrors() bool {
	return len(r.Issues) > 0
}

// HasKey reports whether a cell key or pending-group marker was flagged.
func (r *Result) HasKey(key string) bool {
	_, ok := r.ErrorKeys[key]
	return ok
}

// Keys returns the flagged keys in sorted order.
func (r *Result) Keys() []string {
	keys := make([]string, 0, len(r.ErrorKeys))
	for k := range r.ErrorKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Err summarizes the result as an error, or nil when it passed.
func (r *Result) Err() error {
	if !r.HasErrors() {
		return nil
	}
	first := r.Issues[0]
	msg := first.Message
	if n := len(r.Issues) - 1; n > 0 {
		msg = fmt.Sprintf("%s (and %d more)", msg, n)
	}
	return errors.NewValidationError(string(first.Field), first.Key, msg)
}

// String returns a string representation of the validation result.
func (r *Result) String() string {
	if !r.HasErrors() {
		return "Validation passed"
	}
	return fmt.Sprintf("Validation failed with %d errors in %d cells", len(r.Errors), len(r.ErrorKeys))
}

func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
	r.Errors = append(r.Errors, issue.Message)
	r.ErrorKeys[issue.Key] = struct{}{}
}

// Validate runs the per-record and per-pending-group checks.
func Validate(records []skills.Leaf, pending []skills.PendingGroup) *Result {
	result := &Result{
		Errors:    []string{},
		ErrorKeys: make(map[string]struct{}),
		Issues:    []Issue{},
	}

	for i, leaf := range records {
		key := string(leaf.CellKey())
		where := locate(i, leaf)

		for _, level := range skills.Levels() {
			if blank(level.Label(leaf)) {
				result.add(Issue{
					Key:           key,
					RecordID:      leaf.ID,
					PlaceholderID: leaf.GroupPlaceholderID,
					Field:         level.Field(),
					Message:       fmt.Sprintf("%s: %s is required", where, level.Field()),
				})
			}
		}

		if blank(leaf.Name) {
			result.add(Issue{
				Key:           key,
				RecordID:      leaf.ID,
				PlaceholderID: leaf.GroupPlaceholderID,
				Field:         skills.FieldName,
				Message:       fmt.Sprintf("%s: name is required", where),
			})
		}

		if !leaf.Phase.Valid() {
			result.add(Issue{
				Key:           key,
				RecordID:      leaf.ID,
				PlaceholderID: leaf.GroupPlaceholderID,
				Field:         skills.FieldPhase,
				Message: fmt.Sprintf("%s: phase must be an integer between %d and %d, got %d",
					where, constants.MinPhase, constants.MaxPhase, int(leaf.Phase)),
			})
		}
	}

	for _, group := range pending {
		key := string(group.Key())
		checks := []struct {
			field skills.Field
			value string
		}{
			{skills.FieldCategory, group.Category},
			{skills.FieldItem, group.Item},
			{skills.FieldSubCategory, group.SubCategory},
		}
		for _, c := range checks {
			if blank(c.value) {
				result.add(Issue{
					Key:           key,
					PlaceholderID: group.PlaceholderID,
					Field:         c.field,
					Message:       fmt.Sprintf("new group %s: %s is required", group.PlaceholderID, c.field),
				})
			}
		}
	}

	return result
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// locate names a record for messages; unsaved records have no stable id yet.
func locate(index int, leaf skills.Leaf) string {
	if leaf.ID > 0 {
		return fmt.Sprintf("record %d", leaf.ID)
	}
	return fmt.Sprintf("row %d", index+1)
}
