package core

import "strings"

// =============================================================================
// Category
// =============================================================================

// Category is the meal slot a meal belongs to.
type Category string

// Meal categories, in the order they are planned for each day.
const (
	CategoryBreakfast Category = "breakfast"
	CategoryLunch     Category = "lunch"
	CategoryDinner    Category = "dinner"
)

// Categories returns all categories in planning order.
func Categories() []Category {
	return []Category{CategoryBreakfast, CategoryLunch, CategoryDinner}
}

// String returns the lowercase name of the category.
func (c Category) String() string {
	return string(c)
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryBreakfast, CategoryLunch, CategoryDinner:
		return true
	default:
		return false
	}
}

// ParseCategory converts user input to a Category, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", &ValidationError{
			Field:  "category",
			Value:  s,
			Reason: "must be one of breakfast, lunch, dinner",
		}
	}
	return c, nil
}

// =============================================================================
// Meal
// =============================================================================

// Meal is a named dish in one category with its ordered ingredients.
type Meal struct {
	ID          int64        `json:"meal_id" yaml:"meal_id"`
	Category    Category     `json:"category" yaml:"category"`
	Name        string       `json:"name" yaml:"name"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
}

// IngredientNames returns the ingredient names in stored order.
func (m *Meal) IngredientNames() []string {
	names := make([]string, len(m.Ingredients))
	for i, ing := range m.Ingredients {
		names[i] = ing.Name
	}
	return names
}

// Ingredient is one ingredient row. IDs are global across all meals.
type Ingredient struct {
	ID     int64  `json:"ingredient_id" yaml:"ingredient_id"`
	Name   string `json:"name" yaml:"name"`
	MealID int64  `json:"meal_id" yaml:"meal_id"`
}

// ListOrder selects how meals of a category are ordered.
type ListOrder int

const (
	// OrderInsertion orders meals by ascending meal id.
	OrderInsertion ListOrder = iota
	// OrderAlphabetical orders meals by ascending name.
	OrderAlphabetical
)

// String returns the string representation of the order.
func (o ListOrder) String() string {
	switch o {
	case OrderInsertion:
		return "insertion"
	case OrderAlphabetical:
		return "alphabetical"
	default:
		return "unknown"
	}
}
