package output

import (
	"fmt"
	"io"

	"github.com/agentstation/skillmatrix/internal/report"
	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/session"
)

// WriteReport writes a pre-commit review in format. Tables print the
// validation issues, import problems, near-duplicate labels and record
// changes in that order, skipping empty sections.
func WriteReport(w io.Writer, format Format, r *session.Report) error {
	switch {
	case format == FormatMarkdown:
		return report.Review(w, r)
	case !format.IsTable():
		return NewFormatter(format).Format(w, r)
	}

	t := &TableFormatter{Wide: format == FormatWide}
	switch {
	case r.Validation == nil:
	case r.CanCommit():
		fmt.Fprintln(w, "Validation passed")
	default:
		fmt.Fprintln(w, r.Validation.String())
		if err := t.formatTable(w, IssuesToTableData(r.Validation)); err != nil {
			return err
		}
	}

	if len(r.ParseErrors) > 0 {
		fmt.Fprintf(w, "\n%d import problems:\n", len(r.ParseErrors))
		for _, e := range r.ParseErrors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}

	return writeChanges(w, t, r.Changes)
}

// WriteCommit writes the result of a commit in format.
func WriteCommit(w io.Writer, format Format, sessionID string, c *session.CommitResult) error {
	switch {
	case format == FormatMarkdown:
		return report.Commit(w, sessionID, c)
	case !format.IsTable():
		return NewFormatter(format).Format(w, c)
	}

	t := &TableFormatter{Wide: format == FormatWide}
	fmt.Fprintf(w, "Committed %d records\n", len(c.Records))
	if len(c.IDs) > 0 {
		if err := t.formatTable(w, IDsToTableData(c.IDs)); err != nil {
			return err
		}
	}
	for _, g := range c.Dropped {
		fmt.Fprintf(w, "Dropped empty group %s\n", g.PlaceholderID)
	}
	return writeChanges(w, t, c.Changes)
}

func writeChanges(w io.Writer, t *TableFormatter, c *differ.Changeset) error {
	if c == nil || c.IsEmpty() {
		fmt.Fprintln(w, "No changes")
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, c.String())
	if c.HasSimilarLabels() {
		if err := t.formatTable(w, SimilarLabelsToTableData(c.SimilarLabels)); err != nil {
			return err
		}
	}
	if c.HasChanges() {
		return t.formatTable(w, ChangesToTableData(c))
	}
	return nil
}
