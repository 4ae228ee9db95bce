package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/skillmatrix/pkg/errors"
	"github.com/agentstation/skillmatrix/pkg/logging"
)

// Execute runs the skillmatrix CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "skillmatrix",
		Short:   "Skill matrix editor and reconciliation CLI",
		Version: a.version,
		Long: `Skillmatrix maintains a skill matrix: named skills arranged by category,
item, sub category and small category across five phases.

It shows the stored matrix grouped the way it is edited, reviews edited
copies and imported sheets against it (validation, changed records and
labels that look like typos of existing ones), replays editor events and
commits the result with permanent ids and display orders.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "tools",
		Title: "Tools:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.skillmatrix.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml, wide, markdown")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("store", "", "record store: files, sqlite or memory")
	flags.String("store-path", "", "record store location (default skills.yaml or skills.db)")

	rootCmd.SetVersionTemplate("skillmatrix {{.Version}}\n")
	if a.stdout != nil {
		rootCmd.SetOut(a.stdout)
	}
	if a.stderr != nil {
		rootCmd.SetErr(a.stderr)
	}

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfigFile(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
		mustGetString(cmd, "store"),
		mustGetString(cmd, "store-path"),
	)
	if err := a.config.Validate(); err != nil {
		return err
	}

	// Reinitialize logger with updated config
	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// Exit codes.
const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitInvalidInput  = 2 // bad flags, config or records, including a refused commit
	ExitNotFound      = 3
	ExitContract      = 4 // an event or field value broke an operation's contract
	ExitSessionClosed = 5
)

// ExitCode classifies err into one of the exit codes.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.IsValidationError(err):
		return ExitInvalidInput
	case errors.IsNotFound(err):
		return ExitNotFound
	case errors.IsContractError(err):
		return ExitContract
	case errors.IsSessionClosed(err):
		return ExitSessionClosed
	default:
		return ExitFailure
	}
}

// ExitOnError prints err and exits with its ExitCode. It is meant for
// top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(ExitCode(err))
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
