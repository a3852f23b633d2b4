package planner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/leapstack-labs/mealplan/internal/testutil"
	"github.com/leapstack-labs/mealplan/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore keeps meals in memory. Meal ids are 1-based positions in meals.
type fakeStore struct {
	meals   []core.Meal
	saved   []core.PlanEntry
	plan    core.WeeklyPlan
	saveErr error
	saves   int
	lookups map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{lookups: make(map[string]int)}
}

func (f *fakeStore) add(c core.Category, name string, ingredients ...string) {
	id := int64(len(f.meals) + 1)
	m := core.Meal{ID: id, Category: c, Name: name}
	for _, ing := range ingredients {
		m.Ingredients = append(m.Ingredients, core.Ingredient{Name: ing, MealID: id})
	}
	f.meals = append(f.meals, m)
}

func (f *fakeStore) ListByCategory(_ context.Context, c core.Category, order core.ListOrder) ([]core.Meal, error) {
	out := []core.Meal{}
	for _, m := range f.meals {
		if m.Category == c {
			out = append(out, m)
		}
	}
	if order == core.OrderAlphabetical {
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out, nil
}

func (f *fakeStore) FindMealID(_ context.Context, name string) (int64, error) {
	f.lookups[name]++
	for _, m := range f.meals {
		if m.Name == name {
			return m.ID, nil
		}
	}
	return 0, fmt.Errorf("meal %q: %w", name, core.ErrNotFound)
}

func (f *fakeStore) IngredientsOf(_ context.Context, id int64) ([]string, error) {
	for _, m := range f.meals {
		if m.ID == id {
			return m.IngredientNames(), nil
		}
	}
	return []string{}, nil
}

func (f *fakeStore) SavePlan(_ context.Context, entries []core.PlanEntry) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	if err := core.ValidateWeek(entries); err != nil {
		return err
	}
	f.saved = entries
	f.plan = make(core.WeeklyPlan)
	for _, e := range entries {
		f.plan.Set(e.Day, e.Category, e.MealOption)
	}
	return nil
}

func (f *fakeStore) LoadPlan(context.Context) (core.WeeklyPlan, error) {
	if f.plan == nil {
		return core.WeeklyPlan{}, nil
	}
	return f.plan, nil
}

// first always picks the first candidate and records the days it saw.
type first struct {
	calls int
	days  []core.Day
}

func (s *first) Select(_ context.Context, _ core.Day, _ core.Category, candidates []string) (string, error) {
	s.calls++
	return candidates[0], nil
}

func (s *first) DayPlanned(day core.Day, meals map[core.Category]string) {
	if len(meals) == 3 {
		s.days = append(s.days, day)
	}
}

func seeded() *fakeStore {
	store := newFakeStore()
	store.add(core.CategoryBreakfast, "Pancakes", "Flour", "Eggs", "Milk")
	store.add(core.CategoryBreakfast, "Oatmeal", "Oats", "Milk")
	store.add(core.CategoryLunch, "Salad", "Lettuce", "Tomato")
	store.add(core.CategoryDinner, "Omelette", "Eggs", "Cheese")
	return store
}

func TestBuildWeeklyPlan(t *testing.T) {
	store := seeded()
	p := New(store, testutil.NewTestLogger(t))
	sel := &first{}

	session, err := p.BuildWeeklyPlan(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, core.SlotsPerWeek, sel.calls)
	assert.Equal(t, core.Days(), sel.days)
	assert.Equal(t, StateSaved, session.State())
	assert.True(t, session.Complete())
	assert.Equal(t, 1, store.saves)
	require.Len(t, store.saved, core.SlotsPerWeek)

	// Candidates arrive alphabetically, so Oatmeal comes before Pancakes.
	assert.Equal(t, "Oatmeal", store.plan[core.Monday][core.CategoryBreakfast])
	assert.Equal(t, "Salad", store.plan[core.Sunday][core.CategoryLunch])
}

func TestBuildWeeklyPlan_SlotOrder(t *testing.T) {
	p := New(seeded(), nil)

	var order []string
	sel := SelectorFunc(func(_ context.Context, day core.Day, c core.Category, candidates []string) (string, error) {
		order = append(order, day.String()+"/"+c.String())
		return candidates[0], nil
	})

	_, err := p.BuildWeeklyPlan(context.Background(), sel)
	require.NoError(t, err)
	require.Len(t, order, 21)
	assert.Equal(t, []string{"Monday/breakfast", "Monday/lunch", "Monday/dinner", "Tuesday/breakfast"}, order[:4])
	assert.Equal(t, "Sunday/dinner", order[20])
}

func TestBuildWeeklyPlan_EmptyCategory(t *testing.T) {
	store := newFakeStore()
	store.add(core.CategoryBreakfast, "Toast", "Bread")
	store.plan = core.WeeklyPlan{core.Monday: {core.CategoryLunch: "Old"}}

	p := New(store, nil)
	sel := &first{}

	session, err := p.BuildWeeklyPlan(context.Background(), sel)
	require.Error(t, err)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, core.ErrEmptyCategory)

	var empty *core.EmptyCategoriesError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, []core.Category{core.CategoryLunch, core.CategoryDinner}, empty.Categories)

	assert.Zero(t, sel.calls, "no prompt before the empty check")
	assert.Zero(t, store.saves)
	assert.Equal(t, "Old", store.plan[core.Monday][core.CategoryLunch])
}

func TestBuildWeeklyPlan_RejectsUnknownChoice(t *testing.T) {
	store := seeded()
	p := New(store, nil)

	sel := SelectorFunc(func(_ context.Context, day core.Day, c core.Category, candidates []string) (string, error) {
		if day == core.Wednesday && c == core.CategoryDinner {
			return "omelette", nil
		}
		return candidates[0], nil
	})

	_, err := p.BuildWeeklyPlan(context.Background(), sel)
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
	assert.Zero(t, store.saves)
}

func TestBuildWeeklyPlan_SelectorError(t *testing.T) {
	store := seeded()
	p := New(store, nil)
	errQuit := errors.New("input closed")

	calls := 0
	sel := SelectorFunc(func(_ context.Context, _ core.Day, _ core.Category, candidates []string) (string, error) {
		calls++
		if calls == 5 {
			return "", errQuit
		}
		return candidates[0], nil
	})

	_, err := p.BuildWeeklyPlan(context.Background(), sel)
	assert.ErrorIs(t, err, errQuit)
	assert.Zero(t, store.saves)
}

func TestBuildWeeklyPlan_SaveError(t *testing.T) {
	store := seeded()
	store.saveErr = &core.PersistenceError{Op: "insert plan", Err: errors.New("disk full")}

	_, err := New(store, nil).BuildWeeklyPlan(context.Background(), &first{})
	require.Error(t, err)
	assert.True(t, core.IsPersistence(err))
}

func TestBuildWeeklyPlan_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := seeded()
	_, err := New(store, nil).BuildWeeklyPlan(ctx, &first{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, store.saves)
}

func TestSession(t *testing.T) {
	s := NewSession(map[core.Category][]string{
		core.CategoryBreakfast: {"Toast"},
		core.CategoryLunch:     {"Salad"},
		core.CategoryDinner:    {"Stew"},
	})
	assert.NotEqual(t, "", s.ID.String())
	assert.Equal(t, StateNoPlan, s.State())

	require.NoError(t, s.Record(core.Monday, core.CategoryBreakfast, "Toast"))
	assert.Equal(t, StateInProgress, s.State())
	assert.False(t, s.Complete())

	err := s.Record(core.Monday, core.CategoryLunch, "Toast")
	assert.True(t, core.IsValidation(err), "breakfast option is not a lunch candidate")

	err = s.Record(core.Day("Someday"), core.CategoryLunch, "Salad")
	assert.True(t, core.IsValidation(err))

	plan := s.Plan()
	plan.Set(core.Tuesday, core.CategoryDinner, "Stew")
	assert.Len(t, s.Entries(), 1, "Plan returns a copy")

	s.markSaved()
	assert.Error(t, s.Record(core.Tuesday, core.CategoryDinner, "Stew"))
	assert.Equal(t, "saved", s.State().String())
}

func TestSession_IDsAreUnique(t *testing.T) {
	a := NewSession(nil)
	b := NewSession(nil)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestComputeShoppingList(t *testing.T) {
	store := newFakeStore()
	store.add(core.CategoryBreakfast, "Pancakes", "Flour", "Eggs", "Milk")
	store.add(core.CategoryLunch, "Salad", "Lettuce")
	store.add(core.CategoryDinner, "Stew", "Beef")

	plan := core.WeeklyPlan{}
	plan.Set(core.Monday, core.CategoryBreakfast, "Pancakes")
	plan.Set(core.Tuesday, core.CategoryBreakfast, "Pancakes")
	plan.Set(core.Monday, core.CategoryLunch, "Salad")

	list, err := New(store, nil).ComputeShoppingList(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, ShoppingList{"Flour": 2, "Eggs": 2, "Milk": 2, "Lettuce": 1}, list)
	assert.Equal(t, 1, store.lookups["Pancakes"], "lookups are cached per name")
}

func TestComputeShoppingList_CaseSensitive(t *testing.T) {
	store := newFakeStore()
	store.add(core.CategoryBreakfast, "Toast", "Bread", "butter")
	store.add(core.CategoryLunch, "Sandwich", "Bread", "Butter")

	plan := core.WeeklyPlan{}
	plan.Set(core.Monday, core.CategoryBreakfast, "Toast")
	plan.Set(core.Monday, core.CategoryLunch, "Sandwich")

	list, err := New(store, nil).ComputeShoppingList(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, ShoppingList{"Bread": 2, "butter": 1, "Butter": 1}, list)
}

func TestComputeShoppingList_MissingMeal(t *testing.T) {
	logger, logs := testutil.NewRecordingLogger()
	store := newFakeStore()
	store.add(core.CategoryLunch, "Salad", "Lettuce")

	plan := core.WeeklyPlan{}
	plan.Set(core.Monday, core.CategoryLunch, "Salad")
	plan.Set(core.Monday, core.CategoryDinner, "Ghost")

	list, err := New(store, logger).ComputeShoppingList(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, ShoppingList{"Lettuce": 1}, list)
	assert.True(t, logs.Contains("Ghost"))
}

func TestSavedShoppingList(t *testing.T) {
	store := seeded()
	p := New(store, nil)

	_, err := p.SavedShoppingList(context.Background())
	assert.ErrorIs(t, err, ErrNoPlan)

	_, err = p.BuildWeeklyPlan(context.Background(), &first{})
	require.NoError(t, err)

	list, err := p.SavedShoppingList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ShoppingList{"Oats": 7, "Milk": 7, "Lettuce": 7, "Tomato": 7, "Eggs": 7, "Cheese": 7}, list)
}

func TestShoppingList_WriteTo(t *testing.T) {
	list := ShoppingList{"Milk": 2, "Eggs": 2, "Flour": 2, "Lettuce": 1}

	var buf bytes.Buffer
	n, err := list.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, "Eggs x2\nFlour x2\nLettuce\nMilk x2\n", buf.String())
	assert.Equal(t, int64(buf.Len()), n)

	buf.Reset()
	_, err = ShoppingList{}.WriteTo(&buf)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}
