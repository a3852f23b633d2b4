package commands

import (
	"github.com/leapstack-labs/mealplan/pkg/core"
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	var alphabetical bool
	cmd := &cobra.Command{
		Use:   "show <category>",
		Short: "List the meals of a category",
		Long: `Print every meal of a category with its ingredients.

Meals are listed in the order they were added unless --alphabetical is set.

Output adapts to environment:
  - Terminal: the same layout as the interactive shell
  - Piped/Scripted: Markdown format
  - --output json|yaml|table: structured output`,
		Example: `  # Show lunches
  mealplan show lunch

  # Alphabetical, as a table
  mealplan show dinner --alphabetical -o table`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeCategories,
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := core.ParseCategory(args[0])
			if err != nil {
				return err
			}

			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			order := core.OrderInsertion
			if alphabetical {
				order = core.OrderAlphabetical
			}

			meals, err := cmdCtx.Store.ListByCategory(cmd.Context(), category, order)
			if err != nil {
				return err
			}
			return renderMeals(cmdCtx.Renderer, category, meals)
		},
	}

	cmd.Flags().BoolVarP(&alphabetical, "alphabetical", "a", false, "Sort meals by name")
	return cmd
}
