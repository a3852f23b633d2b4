package commands

import (
	"github.com/spf13/cobra"
)

// NewListPlanCommand creates the list-plan command.
func NewListPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list-plan",
		Aliases: []string{"list"},
		Short:   "Show the stored weekly plan",
		Long: `Print the breakfast, lunch and dinner planned for each day.

Output adapts to environment:
  - Terminal: the same layout as the interactive shell
  - Piped/Scripted: Markdown format
  - --output json|yaml|table: structured output`,
		Example: `  # Show the plan
  mealplan list-plan

  # As JSON
  mealplan list-plan -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			plan, err := cmdCtx.Store.LoadPlan(cmd.Context())
			if err != nil {
				return err
			}
			return renderPlan(cmdCtx.Renderer, plan)
		},
	}
}
