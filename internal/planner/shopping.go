package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

// ErrNoPlan is returned when a shopping list is requested before any plan
// has been saved.
var ErrNoPlan = errors.New("no plan found")

// ShoppingList maps ingredient name to the number of planned meals using it.
// Names are kept exactly as stored.
type ShoppingList map[string]int

// Lines returns one line per ingredient sorted by name: the bare name for a
// count of one, "<name> x<count>" otherwise.
func (l ShoppingList) Lines() []string {
	names := make([]string, 0, len(l))
	for name := range l {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, len(names))
	for i, name := range names {
		if n := l[name]; n > 1 {
			lines[i] = fmt.Sprintf("%s x%d", name, n)
		} else {
			lines[i] = name
		}
	}
	return lines
}

// WriteTo writes every line followed by a newline.
func (l ShoppingList) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder
	for _, line := range l.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// ComputeShoppingList counts the ingredients of every planned meal. A meal
// chosen for several slots contributes its ingredients each time. Names that
// no longer match a meal contribute nothing.
func (p *Planner) ComputeShoppingList(ctx context.Context, plan core.WeeklyPlan) (ShoppingList, error) {
	list := make(ShoppingList)
	cache := make(map[string][]string)

	for _, entry := range plan.Entries() {
		ingredients, ok := cache[entry.MealOption]
		if !ok {
			var err error
			ingredients, err = p.ingredientsFor(ctx, entry.MealOption)
			if err != nil {
				return nil, err
			}
			cache[entry.MealOption] = ingredients
		}
		for _, ing := range ingredients {
			list[ing]++
		}
	}
	return list, nil
}

// SavedShoppingList computes the shopping list of the stored plan.
// It returns ErrNoPlan when the plan table is empty.
func (p *Planner) SavedShoppingList(ctx context.Context) (ShoppingList, error) {
	plan, err := p.store.LoadPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if len(plan) == 0 {
		return nil, ErrNoPlan
	}
	return p.ComputeShoppingList(ctx, plan)
}

func (p *Planner) ingredientsFor(ctx context.Context, meal string) ([]string, error) {
	id, err := p.store.FindMealID(ctx, meal)
	if errors.Is(err, core.ErrNotFound) {
		p.logger.Warn("planned meal no longer exists", slog.String("meal", meal))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", meal, err)
	}

	ingredients, err := p.store.IngredientsOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients of %q: %w", meal, err)
	}
	return ingredients, nil
}
