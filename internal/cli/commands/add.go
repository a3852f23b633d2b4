package commands

import (
	"github.com/leapstack-labs/mealplan/pkg/core"
	"github.com/spf13/cobra"
)

// AddOptions holds options for the add command.
type AddOptions struct {
	Category    string
	Name        string
	Ingredients string
}

// NewAddCommand creates the add command.
func NewAddCommand() *cobra.Command {
	opts := &AddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a meal with its ingredients",
		Long: `Store a new meal in one of the categories breakfast, lunch or dinner.

Names and ingredients may contain letters and spaces only. Ingredients are
given as a comma separated list and keep their order. Meal names must be
unique.`,
		Example: `  # Add a breakfast
  mealplan add --category breakfast --name Pancakes --ingredients "Flour,Eggs,Milk"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAdd(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Meal category: breakfast, lunch or dinner")
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Meal name")
	cmd.Flags().StringVarP(&opts.Ingredients, "ingredients", "i", "", "Comma separated ingredients")
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("ingredients")
	_ = cmd.RegisterFlagCompletionFunc("category", completeCategories)

	return cmd
}

func runAdd(cmd *cobra.Command, opts *AddOptions) error {
	category, err := core.ParseCategory(opts.Category)
	if err != nil {
		return err
	}
	ingredients, err := core.ParseIngredients(opts.Ingredients)
	if err != nil {
		return err
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	meal, err := cmdCtx.Store.AddMeal(cmd.Context(), category, opts.Name, ingredients)
	if err != nil {
		return err
	}

	cmdCtx.Logger.Debug("meal added", "meal_id", meal.ID)
	cmdCtx.Renderer.Println(msgMealAdded)
	return nil
}

func completeCategories(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	names := make([]string, 0, 3)
	for _, c := range core.Categories() {
		names = append(names, c.String())
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
