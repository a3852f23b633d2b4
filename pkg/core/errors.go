package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Check with errors.Is.
var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateMeal is returned when a meal name is already taken.
	ErrDuplicateMeal = errors.New("meal already exists")

	// ErrEmptyCategory is returned when planning finds a category with no meals.
	ErrEmptyCategory = errors.New("category has no meals")
)

// SchemaError reports a failure to create the schema. It is fatal at startup.
type SchemaError struct {
	Op  string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Op, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// PersistenceError reports a failed read or write against the store.
// The failing command is abandoned; the session continues.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError reports malformed input. Interactive callers re-prompt.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// EmptyCategoriesError lists the categories that blocked planning.
type EmptyCategoriesError struct {
	Categories []Category
}

func (e *EmptyCategoriesError) Error() string {
	names := make([]string, len(e.Categories))
	for i, c := range e.Categories {
		names[i] = c.String()
	}
	return fmt.Sprintf("cannot plan: no meals in %s", strings.Join(names, ", "))
}

func (e *EmptyCategoriesError) Unwrap() error { return ErrEmptyCategory }

// IsValidation reports whether err is or wraps a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err is or wraps a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
