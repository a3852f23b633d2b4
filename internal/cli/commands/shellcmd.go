package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// NewShellCommand creates the shell command. It is also what runs when
// mealplan is started without a subcommand.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive meal planner",
		Long: `Start the interactive loop with the commands add, show, plan, list plan,
save and exit.

On a terminal, input has line editing, history and tab completion. Input can
also be piped in, one answer per line.`,
		Args: cobra.NoArgs,
		RunE: RunShell,
	}
}

// RunShell runs the interactive shell on the command's input and output.
func RunShell(cmd *cobra.Command, _ []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	home, _ := os.UserHomeDir()
	in, err := newLineReader(cmd.InOrStdin(), cmd.OutOrStdout(), cmdCtx.Cfg.ShellHistoryPath(home))
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	shell := NewShell(in, cmd.OutOrStdout(), cmd.ErrOrStderr(), cmdCtx.Store, cmdCtx.Planner, cmdCtx.Logger)
	return shell.Run(cmd.Context())
}
