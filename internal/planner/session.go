package planner

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/leapstack-labs/mealplan/pkg/core"
)

// State is the lifecycle of a planning session.
type State int

const (
	// StateNoPlan means nothing has been chosen yet.
	StateNoPlan State = iota
	// StateInProgress means some slots are chosen.
	StateInProgress
	// StateSaved means the week has been written to the store.
	StateSaved
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateNoPlan:
		return "no_plan"
	case StateInProgress:
		return "in_progress"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// Session holds the selections of one planning run.
type Session struct {
	ID         uuid.UUID
	state      State
	candidates map[core.Category][]string
	plan       core.WeeklyPlan
}

// NewSession starts a session offering candidates per category.
func NewSession(candidates map[core.Category][]string) *Session {
	return &Session{
		ID:         uuid.New(),
		state:      StateNoPlan,
		candidates: candidates,
		plan:       make(core.WeeklyPlan, 7),
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Candidates returns the meal names offered for category.
func (s *Session) Candidates(category core.Category) []string {
	return s.candidates[category]
}

// Record stores the choice for one slot. The meal must be one of the
// category's candidates, compared exactly.
func (s *Session) Record(day core.Day, category core.Category, meal string) error {
	if s.state == StateSaved {
		return fmt.Errorf("session %s is already saved", s.ID)
	}
	if !day.Valid() {
		return &core.ValidationError{Field: "day", Value: string(day), Reason: "unknown day"}
	}
	if !slices.Contains(s.candidates[category], meal) {
		return &core.ValidationError{
			Field:  "meal",
			Value:  meal,
			Reason: fmt.Sprintf("not a %s option", category),
		}
	}
	s.plan.Set(day, category, meal)
	s.state = StateInProgress
	return nil
}

// Complete reports whether every slot of the week is chosen.
func (s *Session) Complete() bool {
	return s.plan.Complete()
}

// Entries returns the chosen slots in day then category order.
func (s *Session) Entries() []core.PlanEntry {
	return s.plan.Entries()
}

// Plan returns a copy of the selections.
func (s *Session) Plan() core.WeeklyPlan {
	out := make(core.WeeklyPlan, len(s.plan))
	for day, meals := range s.plan {
		for c, meal := range meals {
			out.Set(day, c, meal)
		}
	}
	return out
}

func (s *Session) dayMeals(day core.Day) map[core.Category]string {
	meals := make(map[core.Category]string, 3)
	for c, meal := range s.plan[day] {
		meals[c] = meal
	}
	return meals
}

func (s *Session) markSaved() {
	s.state = StateSaved
}
