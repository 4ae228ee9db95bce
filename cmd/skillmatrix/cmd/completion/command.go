// Package completion provides shell completion management commands.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/internal/cmd/alerts"
	"github.com/agentstation/skillmatrix/internal/cmd/completion"
	"github.com/agentstation/skillmatrix/internal/cmd/output"
)

// NewCommand creates the completion command with install/uninstall subcommands.
// It replaces cobra's generated completion command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "completion SHELL",
		Short:     "Generate or install shell completions",
		ValidArgs: completion.Shells(),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		Long: `Completion writes the completion script for bash, zsh, fish or powershell
to stdout.

  source <(skillmatrix completion bash)
  skillmatrix completion fish | source

Use the install and uninstall subcommands to place the script where the
shell picks it up.`,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return completion.Generate(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}

	cmd.AddCommand(newInstallCommand(), newUninstallCommand())
	return cmd
}

func newInstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "install [SHELL...]",
		Short:     "Install completions (all supported shells by default)",
		ValidArgs: completion.Installable(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := alerts.NewFormatWriter(cmd.OutOrStdout(), output.FormatTable)
			for _, shell := range shellsOrAll(args) {
				path, err := completion.Install(cmd.Root(), shell)
				if err != nil {
					return err
				}
				_ = status.WriteAlert(alerts.NewSuccess(fmt.Sprintf("%s completions installed to %s", shell, path)))
			}
			return status.WriteAlert(alerts.NewInfo("Start a new shell session to enable completions"))
		},
	}
}

func newUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "uninstall [SHELL...]",
		Short:     "Remove installed completions",
		ValidArgs: completion.Installable(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := alerts.NewFormatWriter(cmd.OutOrStdout(), output.FormatTable)
			for _, shell := range shellsOrAll(args) {
				path, removed, err := completion.Uninstall(shell)
				if err != nil {
					return err
				}
				if removed {
					_ = status.WriteAlert(alerts.NewSuccess(fmt.Sprintf("Removed %s completions from %s", shell, path)))
				} else {
					_ = status.WriteAlert(alerts.NewInfo(fmt.Sprintf("No %s completions at %s", shell, path)))
				}
			}
			return nil
		},
	}
}

func shellsOrAll(args []string) []string {
	if len(args) == 0 {
		return completion.Installable()
	}
	return args
}
