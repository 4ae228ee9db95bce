// Package cmdutil provides shared flags and helpers for skillmatrix commands.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/internal/cmd/output"
)

// FormatSource is the part of the application a command reads the
// configured output format from.
type FormatSource interface {
	OutputFormat() string
}

// CommitFlags holds flags for commands that can persist what they built.
type CommitFlags struct {
	Commit bool
}

// AddCommitFlags adds the --commit flag to a command.
func AddCommitFlags(cmd *cobra.Command) *CommitFlags {
	flags := &CommitFlags{}
	cmd.Flags().BoolVar(&flags.Commit, "commit", false,
		"Commit the result to the store when validation passes")
	return flags
}

// Format resolves the output format: the configured one if set, otherwise
// table on a terminal and JSON when piped.
func Format(app FormatSource) (output.Format, error) {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return "", err
	}
	return output.DetectFormat(string(format)), nil
}
