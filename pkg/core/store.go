package core

import "context"

// Store defines the persistence operations over meals, ingredients and plan.
type Store interface {
	Close() error

	// Initialize creates the schema if absent. It is idempotent.
	Initialize(ctx context.Context) error

	// Id generation (max + 1, not safe for concurrent writers)
	NextMealID(ctx context.Context) (int64, error)
	NextIngredientID(ctx context.Context) (int64, error)

	// Meal operations
	AddMeal(ctx context.Context, category Category, name string, ingredients []string) (*Meal, error)
	ListByCategory(ctx context.Context, category Category, order ListOrder) ([]Meal, error)
	FindMealID(ctx context.Context, name string) (int64, error)
	IngredientsOf(ctx context.Context, mealID int64) ([]string, error)

	// Plan operations
	DeleteAllPlanEntries(ctx context.Context) error
	SavePlan(ctx context.Context, entries []PlanEntry) error
	LoadPlan(ctx context.Context) (WeeklyPlan, error)

	// Stats reports row counts for diagnostics.
	Stats(ctx context.Context) (*StoreStats, error)
}

// StoreStats summarizes the stored data.
type StoreStats struct {
	Driver        string `json:"driver" yaml:"driver"`
	SchemaVersion int64  `json:"schema_version" yaml:"schema_version"`
	Meals         int64  `json:"meals" yaml:"meals"`
	Ingredients   int64  `json:"ingredients" yaml:"ingredients"`
	PlanEntries   int64  `json:"plan_entries" yaml:"plan_entries"`
}

// PlanComplete reports whether the plan table holds a full week.
func (s *StoreStats) PlanComplete() bool {
	return s.PlanEntries == SlotsPerWeek
}
