// Package check provides the check command: validation and a change review
// of an edited record set against the stored baseline.
package check

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/cmd/cmdutil"
	"github.com/agentstation/skillmatrix/internal/cmd/output"
	"github.com/agentstation/skillmatrix/internal/persistence/files"
	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
	"github.com/agentstation/skillmatrix/pkg/session"
)

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var edited string

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Validate records and review changes before a commit",
		Long: `Check validates a record set and compares it with the stored baseline.

With --edited the records document at FILE is reviewed; it uses the same
format as the files store. Without it the stored records themselves are
validated.

The review lists every validation problem, the labels new at each taxonomy
level together with existing labels they closely resemble, and the records
added, changed and removed. The command fails when validation fails.`,
		Example: `  skillmatrix check                          # Validate the stored records
  skillmatrix check --edited skills.new.yaml # Review an edited copy
  skillmatrix check --edited skills.new.yaml -o markdown > review.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, app, edited)
		},
	}

	cmd.Flags().StringVarP(&edited, "edited", "e", "", "Edited records document to review")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, edited string) error {
	format, err := cmdutil.Format(app)
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

	ctx := logging.WithLogger(cmd.Context(), app.Logger())
	ctx = logging.WithSession(ctx, s.ID())
	logger := logging.FromContext(ctx)

	var report *session.Report
	if edited == "" {
		if report, err = s.Check(); err != nil {
			return err
		}
	} else {
		records, err := files.New(edited).Load(ctx)
		if err != nil {
			return err
		}
		logger.Debug().Str("file", edited).Int("records", len(records)).Msg("Loaded edited records")
		report = s.PreviewImport(records, nil)
	}

	if err := output.WriteReport(cmd.OutOrStdout(), format, report); err != nil {
		return err
	}
	if err := cmdutil.Status(cmd, format).WriteAlert(cmdutil.ReviewAlert(report)); err != nil {
		return err
	}

	if !report.CanCommit() {
		if err := report.Validation.Err(); err != nil {
			return err
		}
		return &errors.ValidationError{Field: "records", Message: "validation failed"}
	}
	return nil
}
