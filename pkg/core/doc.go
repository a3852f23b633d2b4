// Package core defines the shared language of the mealplan system.
//
// This package contains:
//   - Domain entities (Meal, Ingredient, PlanEntry, WeeklyPlan)
//   - Enumerations (Category, Day, ListOrder)
//   - The Store interface implemented by internal/state
//   - Typed errors and input validation
//
// pkg/core imports only the standard library. All other packages depend
// on core, not the reverse.
package core
