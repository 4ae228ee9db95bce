// Package apply provides the apply command: a script of editor events
// replayed against an edit session over the stored records.
package apply

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/cmd/alerts"
	"github.com/agentstation/skillmatrix/internal/cmd/cmdutil"
	"github.com/agentstation/skillmatrix/internal/importer"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/session"
)

// Result is the structured output of a replay.
type Result struct {
	Outcomes []importer.Outcome    `json:"outcomes" yaml:"outcomes"`
	Report   *session.Report       `json:"report" yaml:"report"`
	Commit   *session.CommitResult `json:"commit,omitempty" yaml:"commit,omitempty"`
}

// NewCommand creates the apply command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var events string
	var flags *cmdutil.CommitFlags

	cmd := &cobra.Command{
		Use:     "apply",
		GroupID: "core",
		Short:   "Replay editor events against the stored records",
		Long: `Apply replays a YAML list of editor events (moving, inserting, renaming and
deleting groups, adding, moving and editing leaves) in one edit session,
then prints what each event did and the resulting review.

Events that refer to groups or records that no longer exist are skipped.
An empty group refers to the group inserted last and id 0 to the leaf
added last.

With --commit the session is committed when validation passes; new groups
and leaves receive their permanent ids and every record its display order.`,
		Example: `  skillmatrix apply --events edits.yaml
  skillmatrix apply --events edits.yaml --commit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, events, flags.Commit)
		},
	}

	cmd.Flags().StringVarP(&events, "events", "f", "", "Event script to replay (required)")
	_ = cmd.MarkFlagRequired("events")
	flags = cmdutil.AddCommitFlags(cmd)

	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string, commit bool) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	status := cmdutil.Status(cmd, format)
	out := cmd.OutOrStdout()

	script, err := importer.ParseEventsFile(path)
	if err != nil {
		return err
	}

	engine, err := app.Engine()
	if err != nil {
		return err
	}
	s, err := engine.Open(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Discard()

	outcomes, err := importer.Replay(s, script)
	if err != nil {
		_ = status.WriteAlert(alerts.NewError("Replay stopped").WithError(err))
		return err
	}

	report, err := s.Check()
	if err != nil {
		return err
	}

	var result *session.CommitResult
	if commit && report.CanCommit() {
		if result, err = engine.Commit(cmd.Context(), s); err != nil {
			_ = status.WriteAlert(alerts.NewError("Commit refused").WithError(err))
			return err
		}
	}

	app.Logger().Info().
		Str("file", path).
		Int("events", len(script)).
		Bool("committed", result != nil).
		Msg("Replayed events")

	if err := write(out, format, s.ID(), Result{Outcomes: outcomes, Report: report, Commit: result}); err != nil {
		return err
	}

	switch {
	case result != nil:
		return status.WriteAlert(cmdutil.CommitAlert(result))
	case commit:
		_ = status.WriteAlert(alerts.NewError("Commit refused").WithDetails(report.Validation.Errors...))
		if err := report.Validation.Err(); err != nil {
			return err
		}
		return &errors.ValidationError{Field: "records", Message: "validation failed"}
	default:
		return status.WriteAlert(cmdutil.ReviewAlert(report))
	}
}
