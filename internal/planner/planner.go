// Package planner builds the weekly meal plan and derives the shopping list
// from it.
//
// A plan is built interactively: the Planner loads the candidate meals for
// each category, asks a Selector for every (day, category) slot and hands the
// complete week to the store in one call. Nothing is written until all 21
// slots are chosen, so an abandoned session leaves the stored plan untouched.
package planner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

// Store is the subset of core.Store the planner needs.
type Store interface {
	ListByCategory(ctx context.Context, category core.Category, order core.ListOrder) ([]core.Meal, error)
	FindMealID(ctx context.Context, name string) (int64, error)
	IngredientsOf(ctx context.Context, mealID int64) ([]string, error)
	SavePlan(ctx context.Context, entries []core.PlanEntry) error
	LoadPlan(ctx context.Context) (core.WeeklyPlan, error)
}

// Selector picks the meal for one slot. candidates is the alphabetical list
// of meal names in the category; the returned name must be one of them.
type Selector interface {
	Select(ctx context.Context, day core.Day, category core.Category, candidates []string) (string, error)
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(ctx context.Context, day core.Day, category core.Category, candidates []string) (string, error)

// Select calls f.
func (f SelectorFunc) Select(ctx context.Context, day core.Day, category core.Category, candidates []string) (string, error) {
	return f(ctx, day, category, candidates)
}

// DayObserver is implemented by selectors that want to know when all three
// meals of a day have been chosen.
type DayObserver interface {
	DayPlanned(day core.Day, meals map[core.Category]string)
}

// Planner coordinates plan building against a Store.
type Planner struct {
	store  Store
	logger *slog.Logger
}

// New creates a Planner. If logger is nil, a discard logger is used.
func New(store Store, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Planner{store: store, logger: logger}
}

// Candidates returns the alphabetical meal names of every category.
// Categories without meals are reported together in an EmptyCategoriesError.
func (p *Planner) Candidates(ctx context.Context) (map[core.Category][]string, error) {
	candidates := make(map[core.Category][]string, 3)
	var empty []core.Category

	for _, c := range core.Categories() {
		meals, err := p.store.ListByCategory(ctx, c, core.OrderAlphabetical)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s candidates: %w", c, err)
		}
		if len(meals) == 0 {
			empty = append(empty, c)
			continue
		}
		names := make([]string, len(meals))
		for i, m := range meals {
			names[i] = m.Name
		}
		candidates[c] = names
	}

	if len(empty) > 0 {
		return nil, &core.EmptyCategoriesError{Categories: empty}
	}
	return candidates, nil
}

// BuildWeeklyPlan asks sel for every slot of the week and saves the result.
//
// When a category has no meals it returns an error wrapping
// core.ErrEmptyCategory before sel is consulted. A choice that is not one of
// the offered candidates aborts the session with a core.ValidationError.
// In both cases the stored plan is left as it was.
func (p *Planner) BuildWeeklyPlan(ctx context.Context, sel Selector) (*Session, error) {
	candidates, err := p.Candidates(ctx)
	if err != nil {
		return nil, err
	}

	session := NewSession(candidates)
	logger := p.logger.With(slog.String("session", session.ID.String()))
	logger.Debug("planning started")

	observer, _ := sel.(DayObserver)

	for _, day := range core.Days() {
		for _, c := range core.Categories() {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			choice, err := sel.Select(ctx, day, c, session.Candidates(c))
			if err != nil {
				return nil, fmt.Errorf("select %s for %s: %w", c, day, err)
			}
			if err := session.Record(day, c, choice); err != nil {
				return nil, err
			}
		}
		if observer != nil {
			observer.DayPlanned(day, session.dayMeals(day))
		}
	}

	if err := p.store.SavePlan(ctx, session.Entries()); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}
	session.markSaved()

	logger.Debug("plan saved", slog.Int("entries", core.SlotsPerWeek))
	return session, nil
}
