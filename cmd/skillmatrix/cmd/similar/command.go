// Package similar provides the similar command: label similarity scores
// and near-duplicate candidates.
package similar

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/cmd/application"
	"github.com/agentstation/skillmatrix/internal/cmd/cmdutil"
	"github.com/agentstation/skillmatrix/internal/cmd/output"
	"github.com/agentstation/skillmatrix/pkg/duplicates"
	"github.com/agentstation/skillmatrix/pkg/similarity"
)

// Score is the comparison of two labels.
type Score struct {
	Left          string  `json:"left" yaml:"left"`
	Right         string  `json:"right" yaml:"right"`
	Normalized    string  `json:"normalized" yaml:"normalized"`
	Distance      int     `json:"distance" yaml:"distance"`
	Similarity    float64 `json:"similarity" yaml:"similarity"`
	NearDuplicate bool    `json:"near_duplicate" yaml:"near_duplicate"`
}

// NewCommand creates the similar command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var threshold float64
	var existing []string

	cmd := &cobra.Command{
		Use:     "similar LABEL [LABEL...]",
		GroupID: "tools",
		Short:   "Score how closely labels resemble each other",
		Long: `Similar scores labels the way new taxonomy labels are checked for typos
and naming drift. Identical labels score 1.00, labels that differ only in
case or whitespace 0.95, others by edit distance.

With two labels and no --existing the pair is scored. With --existing
every label is matched against that list and the candidates at or above
the threshold are listed.`,
		Example: `  skillmatrix similar "Red Team" RedTeam
  skillmatrix similar "Blue team" Purple --existing RedTeam,BlueTeam,PurpleTeam`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmdutil.Format(app)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("threshold") {
				engine, err := app.Engine()
				if err != nil {
					return err
				}
				threshold = engine.SimilarityThreshold()
			}
			if err := duplicates.ValidateThreshold(threshold); err != nil {
				return err
			}

			if len(existing) == 0 {
				if len(args) != 2 {
					return cmd.Help()
				}
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), score(args[0], args[1], threshold))
			}

			matches := duplicates.FindSimilar(args, existing, duplicates.WithThreshold(threshold))
			var data any = matches
			if format.IsTable() || format == output.FormatMarkdown {
				data = output.MatchesToTableData(matches)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Lowest similarity reported (default from config)")
	cmd.Flags().StringSliceVar(&existing, "existing", nil, "Existing labels to match against")

	return cmd
}

func score(a, b string, threshold float64) Score {
	na, nb := similarity.Normalize(a), similarity.Normalize(b)
	normalized := na
	if na != nb {
		normalized = strings.Join([]string{na, nb}, " / ")
	}
	s := similarity.Score(a, b)
	return Score{
		Left:          a,
		Right:         b,
		Normalized:    normalized,
		Distance:      similarity.Distance(na, nb),
		Similarity:    s,
		NearDuplicate: s >= threshold && s < 1.0,
	}
}
