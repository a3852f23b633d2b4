package commands

import (
	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Plan the meals of the week",
		Long: `Choose a breakfast, a lunch and a dinner for every day from Monday to
Sunday. Choices are read from standard input, one per line.

The new plan replaces the stored one only once all 21 meals are chosen.
If a category has no meals, nothing is asked and the old plan is kept.`,
		Example: `  # Plan interactively
  mealplan plan

  # Plan from a file of answers
  mealplan plan < answers.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			shell := NewShell(NewScannerReader(cmd.InOrStdin()), cmd.OutOrStdout(), cmd.ErrOrStderr(),
				cmdCtx.Store, cmdCtx.Planner, cmdCtx.Logger)
			return shell.Plan(cmd.Context())
		},
	}
}
