// Package sheet provides the import command: a skill sheet reviewed
// against the stored baseline and optionally committed in its place.
package sheet

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/cmd/alerts"
	"github.com/agentstation/skillmatrix/internal/cmd/cmdutil"
	"github.com/agentstation/skillmatrix/internal/cmd/output"
	"github.com/agentstation/skillmatrix/internal/importer"
	"github.com/agentstation/skillmatrix/pkg/errors"
)

// NewCommand creates the import command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.CommitFlags

	cmd := &cobra.Command{
		Use:     "import FILE",
		GroupID: "core",
		Short:   "Preview or commit a skill sheet",
		Long: `Import reads a sheet of rows exported from a spreadsheet, with one column
per record field (English or Japanese headers), and reviews it against the
stored records.

Cells that cannot be read are reported as import problems; rows with an
unreadable phase are kept with phase 0 so validation points at them.

With --commit the sheet replaces the stored records when it has no import
problems and passes validation. Rows matching a stored record keep its id.`,
		Example: `  skillmatrix import sheet.yaml            # Preview
  skillmatrix import sheet.yaml --commit   # Replace the stored records`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, args[0], flags.Commit)
		},
	}

	flags = cmdutil.AddCommitFlags(cmd)

	return cmd
}

func run(cmd *cobra.Command, app application.Application, path string, commit bool) error {
	format, err := cmdutil.Format(app)
	if err != nil {
		return err
	}
	status := cmdutil.Status(cmd, format)

	sheet, err := importer.ParseFile(path)
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

	report := s.PreviewImport(sheet.Records, sheet.Errors)
	if !commit {
		if err := output.WriteReport(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}
		return status.WriteAlert(cmdutil.ReviewAlert(report))
	}

	if len(sheet.Errors) > 0 {
		if err := output.WriteReport(cmd.OutOrStdout(), format, report); err != nil {
			return err
		}
		_ = status.WriteAlert(alerts.NewError("Import refused").WithDetails(sheet.Errors...))
		return errors.NewParseError("sheet", path, "sheet has import problems", nil)
	}

	if err := s.ApplyImport(sheet.Records); err != nil {
		return err
	}
	result, err := engine.Commit(cmd.Context(), s)
	if err != nil {
		if report.Validation != nil {
			_ = output.WriteReport(cmd.OutOrStdout(), format, report)
		}
		_ = status.WriteAlert(alerts.NewError("Commit refused").WithError(err))
		return err
	}

	app.Logger().Info().
		Str("file", path).
		Int("records", len(result.Records)).
		Msg("Imported sheet")

	if err := output.WriteCommit(cmd.OutOrStdout(), format, s.ID(), result); err != nil {
		return err
	}
	return status.WriteAlert(cmdutil.CommitAlert(result))
}
