package core

import (
	"regexp"
	"strings"
)

// lettersOnly matches names made of ASCII letters and spaces.
var lettersOnly = regexp.MustCompile(`^[a-zA-Z ]+$`)

// ValidateMealName checks that a meal name uses letters and spaces only.
func ValidateMealName(name string) error {
	if !lettersOnly.MatchString(name) || strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Value: name, Reason: "use letters only"}
	}
	return nil
}

// ParseIngredients splits a comma-separated list and validates every item.
// Items are trimmed of surrounding spaces. At least one item is required.
func ParseIngredients(input string) ([]string, error) {
	parts := strings.Split(input, ",")
	ingredients := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if !lettersOnly.MatchString(item) {
			return nil, &ValidationError{Field: "ingredient", Value: part, Reason: "use letters only"}
		}
		ingredients = append(ingredients, item)
	}
	return ingredients, nil
}

// ValidateIngredients checks an already split ingredient list.
func ValidateIngredients(ingredients []string) error {
	if len(ingredients) == 0 {
		return &ValidationError{Field: "ingredients", Value: "", Reason: "at least one ingredient is required"}
	}
	for _, item := range ingredients {
		if !lettersOnly.MatchString(item) || strings.TrimSpace(item) == "" {
			return &ValidationError{Field: "ingredient", Value: item, Reason: "use letters only"}
		}
	}
	return nil
}
