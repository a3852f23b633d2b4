package commands

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/mealplan/internal/planner"
	"github.com/spf13/cobra"
)

// NewSaveCommand creates the save command.
func NewSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Write the shopping list of the stored plan",
		Long: `Count the ingredients of every planned meal and write one line per
ingredient to a file. An ingredient used by several planned meals is written
as "<ingredient> x<count>". Lines are sorted by ingredient.

Use - as the file name to write to standard output.`,
		Example: `  # Write to a file
  mealplan save shopping.txt

  # Print it
  mealplan save -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			list, err := cmdCtx.Planner.SavedShoppingList(cmd.Context())
			if errors.Is(err, planner.ErrNoPlan) {
				return errors.New(msgUnableToSave)
			}
			if err != nil {
				return err
			}

			if args[0] == "-" {
				_, err := list.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := writeShoppingListFile(args[0], list); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}
			cmdCtx.Renderer.Println(msgSaved)
			return nil
		},
	}
}
