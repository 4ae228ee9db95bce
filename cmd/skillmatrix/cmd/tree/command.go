// Package tree provides the tree command: the stored record set grouped
// the way the editor shows it.
package tree

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/cmd/cmdutil"
	"github.com/agentstation/skillmatrix/internal/cmd/output"
)

// NewCommand creates the tree command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var records bool

	cmd := &cobra.Command{
		Use:     "tree",
		GroupID: "core",
		Short:   "Show the skill matrix grouped by taxonomy and phase",
		Long: `Tree loads the stored records and prints one row per group in display
order, with the leaves of each phase in their cell. Consecutive rows of the
same category or item are merged.

Use --records to list the flat records instead.`,
		Example: `  skillmatrix tree                 # Grouped view
  skillmatrix tree -o wide         # Include leaf ids and group keys
  skillmatrix tree --records       # Flat record list`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			app.Logger().Debug().
				Int("records", len(s.Records())).
				Int("groups", len(s.Order())).
				Msg("Loaded tree")

			var data any
			switch {
			case records && (format.IsTable() || format == output.FormatMarkdown):
				data = output.RecordsToTableData(s.Records(), format == output.FormatWide)
			case records:
				data = s.Records()
			case format.IsTable() || format == output.FormatMarkdown:
				data = output.RowsToTableData(s.Rows(), format == output.FormatWide)
			default:
				data = s.Rows()
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().BoolVar(&records, "records", false, "List flat records instead of groups")

	return cmd
}
