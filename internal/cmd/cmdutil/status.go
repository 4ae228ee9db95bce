package cmdutil

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/internal/cmd/alerts"
	"github.com/agentstation/skillmatrix/internal/cmd/output"
	"github.com/agentstation/skillmatrix/pkg/session"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Status returns an alert writer on the command's stderr so status lines
// never mix with structured stdout.
func Status(cmd *cobra.Command, format output.Format) alerts.Writer {
	if !format.IsTable() && format != output.FormatMarkdown {
		return alerts.NewFormatWriter(cmd.ErrOrStderr(), format)
	}
	return alerts.NewFormatWriter(cmd.ErrOrStderr(), output.FormatTable)
}

// ReviewAlert summarizes a review: refused when validation failed, a
// warning when new labels resemble existing ones, success otherwise.
func ReviewAlert(r *session.Report) *alerts.Alert {
	if !r.CanCommit() {
		a := alerts.NewError("Not ready to commit")
		if r.Validation != nil {
			a.WithDetails(r.Validation.Errors...)
		}
		return a
	}

	if c := r.Changes; c != nil && c.HasSimilarLabels() {
		a := alerts.NewWarning(fmt.Sprintf("Ready to commit, %d possible duplicate labels", c.Summary.SimilarLabels))
		for _, level := range skills.Levels() {
			for _, m := range c.SimilarLabels[level] {
				a.WithDetails(fmt.Sprintf("%s: %q resembles %q (%.2f)", level, m.New, m.Existing, m.Similarity))
			}
		}
		return a
	}
	return alerts.NewSuccess("Ready to commit")
}

// CommitAlert summarizes a commit.
func CommitAlert(c *session.CommitResult) *alerts.Alert {
	a := alerts.NewSuccess(fmt.Sprintf("Committed %d records", len(c.Records)))
	if n := len(c.IDs); n > 0 {
		a.WithDetails(fmt.Sprintf("%d new ids assigned", n))
	}
	if n := len(c.Dropped); n > 0 {
		a.WithDetails(fmt.Sprintf("%d empty groups dropped", n))
	}
	return a
}
