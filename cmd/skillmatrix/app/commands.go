package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/cmd/skillmatrix/cmd/apply"
	"github.com/agentstation/skillmatrix/cmd/skillmatrix/cmd/check"
	"github.com/agentstation/skillmatrix/cmd/skillmatrix/cmd/completion"
	"github.com/agentstation/skillmatrix/cmd/skillmatrix/cmd/sheet"
	"github.com/agentstation/skillmatrix/cmd/skillmatrix/cmd/similar"
	"github.com/agentstation/skillmatrix/cmd/skillmatrix/cmd/tree"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(tree.NewCommand(a))
	rootCmd.AddCommand(check.NewCommand(a))
	rootCmd.AddCommand(sheet.NewCommand(a))
	rootCmd.AddCommand(apply.NewCommand(a))

	// Tools
	rootCmd.AddCommand(similar.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(completion.NewCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("skillmatrix %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
