package core

import "fmt"

// Day is a day of the planned week, stored by its full English name.
type Day string

// Days of the week in planning order.
const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days returns the seven days in planning order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

// String returns the day name.
func (d Day) String() string {
	return string(d)
}

// Valid reports whether d is one of the seven known days.
func (d Day) Valid() bool {
	for _, day := range Days() {
		if d == day {
			return true
		}
	}
	return false
}

// SlotsPerWeek is the number of plan entries in a complete week.
const SlotsPerWeek = 7 * 3

// UnresolvedMealID is stored in plan rows whose meal name matched no meal.
// It never leaves the state package as a lookup result.
const UnresolvedMealID int64 = -1

// PlanEntry is one (day, category) slot of the weekly plan.
// MealOption duplicates the meal name for display and must match MealID.
type PlanEntry struct {
	Day        Day      `json:"day" yaml:"day"`
	Category   Category `json:"meal_category" yaml:"meal_category"`
	MealID     int64    `json:"meal_id" yaml:"meal_id"`
	MealOption string   `json:"meal_option" yaml:"meal_option"`
}

// WeeklyPlan maps day -> category -> meal name.
type WeeklyPlan map[Day]map[Category]string

// Set records the meal for a slot, allocating the day map on demand.
func (p WeeklyPlan) Set(day Day, category Category, meal string) {
	if p[day] == nil {
		p[day] = make(map[Category]string, 3)
	}
	p[day][category] = meal
}

// Get returns the meal for a slot and whether the slot is filled.
func (p WeeklyPlan) Get(day Day, category Category) (string, bool) {
	meals, ok := p[day]
	if !ok {
		return "", false
	}
	meal, ok := meals[category]
	return meal, ok
}

// Complete reports whether every day has all three categories filled.
func (p WeeklyPlan) Complete() bool {
	for _, day := range Days() {
		for _, c := range Categories() {
			if _, ok := p.Get(day, c); !ok {
				return false
			}
		}
	}
	return true
}

// Entries flattens the plan into entries in day then category order.
// Unfilled slots are skipped. MealID is left zero for the store to resolve.
func (p WeeklyPlan) Entries() []PlanEntry {
	entries := make([]PlanEntry, 0, SlotsPerWeek)
	for _, day := range Days() {
		for _, c := range Categories() {
			if meal, ok := p.Get(day, c); ok {
				entries = append(entries, PlanEntry{Day: day, Category: c, MealOption: meal})
			}
		}
	}
	return entries
}

// ValidateWeek checks that entries cover every (day, category) slot exactly once.
func ValidateWeek(entries []PlanEntry) error {
	if len(entries) != SlotsPerWeek {
		return &ValidationError{
			Field:  "plan",
			Value:  fmt.Sprintf("%d entries", len(entries)),
			Reason: fmt.Sprintf("a plan must contain exactly %d entries", SlotsPerWeek),
		}
	}

	seen := make(map[Day]map[Category]bool, 7)
	for _, e := range entries {
		if !e.Day.Valid() {
			return &ValidationError{Field: "day", Value: string(e.Day), Reason: "unknown day"}
		}
		if !e.Category.Valid() {
			return &ValidationError{Field: "meal_category", Value: string(e.Category), Reason: "unknown category"}
		}
		if seen[e.Day] == nil {
			seen[e.Day] = make(map[Category]bool, 3)
		}
		if seen[e.Day][e.Category] {
			return &ValidationError{
				Field:  "plan",
				Value:  fmt.Sprintf("%s/%s", e.Day, e.Category),
				Reason: "slot planned more than once",
			}
		}
		seen[e.Day][e.Category] = true
	}
	return nil
}
