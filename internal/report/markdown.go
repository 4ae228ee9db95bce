// Package report renders pre-commit reviews and commit results as
// Markdown for humans to confirm.
package report

import (
	"fmt"
	"io"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/skillmatrix/pkg/constants"
	"github.com/agentstation/skillmatrix/pkg/differ"
	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/session"
	"github.com/agentstation/skillmatrix/pkg/skills"
)

// Review writes a Markdown review of r to w.
func Review(w io.Writer, r *session.Report) error {
	doc := md.NewMarkdown(w)
	doc.H1("Skill matrix review")
	doc.PlainTextf("Session %s, generated %s.", md.Code(r.SessionID), r.GeneratedAt.Format(constants.TimeFormatHuman)).LF()

	status := "Ready to commit"
	if !r.CanCommit() {
		status = "Not ready to commit"
	}
	doc.PlainText(md.Bold(status)).LF()

	if r.Validation != nil {
		doc.H2("Validation")
		if r.Validation.HasErrors() {
			doc.PlainText(r.Validation.String()).LF()
			doc.BulletList(r.Validation.Errors...)
		} else {
			doc.PlainText("Validation passed").LF()
		}
	}

	if len(r.ParseErrors) > 0 {
		doc.H2("Import problems")
		doc.BulletList(r.ParseErrors...)
	}

	if r.Changes != nil {
		changes(doc, r.Changes)
	}
	return doc.Build()
}

// Commit writes a Markdown summary of a commit to w.
func Commit(w io.Writer, sessionID string, c *session.CommitResult) error {
	doc := md.NewMarkdown(w)
	doc.H1("Skill matrix commit")
	doc.PlainTextf("Session %s committed %s: %d records saved.",
		md.Code(sessionID), c.Committed.Format(constants.TimeFormatHuman), len(c.Records)).LF()

	if len(c.IDs) > 0 {
		doc.H2("Assigned ids")
		rows := make([][]string, 0, len(c.IDs))
		for _, r := range c.Records {
			for old, id := range c.IDs {
				if id == r.ID {
					rows = append(rows, []string{fmt.Sprint(old), fmt.Sprint(id), r.Name})
				}
			}
		}
		doc.Table(md.TableSet{Header: []string{"Placeholder", "Id", "Name"}, Rows: rows})
	}

	if len(c.Dropped) > 0 {
		doc.H2("Dropped empty groups")
		items := make([]string, len(c.Dropped))
		for i, g := range c.Dropped {
			items[i] = fmt.Sprintf("%s (%s)", g.PlaceholderID, g.GroupKey())
		}
		doc.BulletList(items...)
	}

	if c.Changes != nil {
		changes(doc, c.Changes)
	}
	return doc.Build()
}

func changes(doc *md.Markdown, c *differ.Changeset) {
	doc.H2("Changes")
	doc.PlainText(c.String()).LF()

	if labels := labelRows(c); len(labels) > 0 {
		doc.H3("New labels")
		doc.Table(md.TableSet{
			Header: []string{"Level", "Label", "Possible duplicate of"},
			Rows:   labels,
		})
	}

	if len(c.Added) > 0 {
		doc.H3("Added records")
		doc.Table(md.TableSet{Header: recordHeader, Rows: recordRows(c.Added)})
	}

	if len(c.Changed) > 0 {
		doc.H3("Changed records")
		rows := make([][]string, 0, len(c.Changed))
		for _, u := range c.Changed {
			for _, f := range u.Changes {
				rows = append(rows, []string{locator(u.Edited), f.Path, f.OldValue, f.NewValue})
			}
		}
		doc.Table(md.TableSet{Header: []string{"Record", "Field", "Old", "New"}, Rows: rows})
	}

	if len(c.Removed) > 0 {
		doc.H3("Removed records")
		doc.Table(md.TableSet{Header: recordHeader, Rows: recordRows(c.Removed)})
	}
}

var recordHeader = []string{"Id", "Group", "Small category", "Phase", "Name"}

func recordRows(records []skills.Leaf) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			fmt.Sprint(r.ID),
			strings.ReplaceAll(string(r.GroupKey()), constants.KeySeparator, " / "),
			r.SmallCategory,
			r.Phase.String(),
			r.Name,
		}
	}
	return rows
}

func labelRows(c *differ.Changeset) [][]string {
	var rows [][]string
	for _, level := range skills.Levels() {
		matches := make(map[string][]duplicates.Match)
		for _, m := range c.SimilarLabels[level] {
			matches[m.New] = append(matches[m.New], m)
		}
		for _, label := range c.AddedLabels[level] {
			similar := make([]string, len(matches[label]))
			for i, m := range matches[label] {
				similar[i] = fmt.Sprintf("%s (%.2f)", m.Existing, m.Similarity)
			}
			rows = append(rows, []string{level.String(), label, strings.Join(similar, ", ")})
		}
	}
	return rows
}

func locator(l skills.Leaf) string {
	if l.Name != "" {
		return fmt.Sprintf("%d %s", l.ID, l.Name)
	}
	return fmt.Sprint(l.ID)
}
