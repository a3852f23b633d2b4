package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

// --- Id generation ---

// NextMealID returns max(meal_id) + 1, or 1 when no meals exist.
func (s *SQLStore) NextMealID(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, persistenceErr("next meal id", errNotOpened)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.nextID(ctx, s.db, "meals", "meal_id")
	if err != nil {
		return 0, persistenceErr("next meal id", err)
	}
	return id, nil
}

// NextIngredientID returns max(ingredient_id) + 1 across all meals, or 1.
func (s *SQLStore) NextIngredientID(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, persistenceErr("next ingredient id", errNotOpened)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.nextID(ctx, s.db, "ingredients", "ingredient_id")
	if err != nil {
		return 0, persistenceErr("next ingredient id", err)
	}
	return id, nil
}

// nextID reads the current maximum of column in table. Both names are
// package constants, never user input.
func (s *SQLStore) nextID(ctx context.Context, q querier, table, column string) (int64, error) {
	var maxID sql.NullInt64
	//nolint:gosec // table and column are fixed identifiers
	query := fmt.Sprintf("SELECT MAX(%s) FROM %s", column, table)
	if err := q.QueryRowContext(ctx, query).Scan(&maxID); err != nil {
		return 0, err
	}
	if !maxID.Valid {
		return 1, nil
	}
	return maxID.Int64 + 1, nil
}

// --- Meal operations ---

// AddMeal stores a meal and its ingredients in one transaction.
// Ingredient rows keep the input order and receive global ids.
func (s *SQLStore) AddMeal(ctx context.Context, category core.Category, name string, ingredients []string) (*core.Meal, error) {
	if s.db == nil {
		return nil, persistenceErr("add meal", errNotOpened)
	}
	if !category.Valid() {
		return nil, &core.ValidationError{Field: "category", Value: string(category), Reason: "must be one of breakfast, lunch, dinner"}
	}
	if err := core.ValidateMealName(name); err != nil {
		return nil, err
	}
	if err := core.ValidateIngredients(ingredients); err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	meal := &core.Meal{Category: category, Name: name}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.findMealID(ctx, tx, name); err == nil {
			return fmt.Errorf("add meal %q: %w", name, core.ErrDuplicateMeal)
		} else if !errors.Is(err, core.ErrNotFound) {
			return persistenceErr("add meal", err)
		}

		mealID, err := s.nextID(ctx, tx, "meals", "meal_id")
		if err != nil {
			return persistenceErr("add meal", err)
		}
		meal.ID = mealID

		if _, err := tx.ExecContext(ctx,
			s.dialect.rebind(`INSERT INTO meals (category, meal, meal_id) VALUES (?, ?, ?)`),
			category.String(), name, mealID,
		); err != nil {
			return persistenceErr("insert meal", err)
		}

		for _, ingredient := range ingredients {
			ingredientID, err := s.nextID(ctx, tx, "ingredients", "ingredient_id")
			if err != nil {
				return persistenceErr("insert ingredient", err)
			}
			if _, err := tx.ExecContext(ctx,
				s.dialect.rebind(`INSERT INTO ingredients (ingredient, ingredient_id, meal_id) VALUES (?, ?, ?)`),
				ingredient, ingredientID, mealID,
			); err != nil {
				return persistenceErr("insert ingredient", err)
			}
			meal.Ingredients = append(meal.Ingredients, core.Ingredient{
				ID:     ingredientID,
				Name:   ingredient,
				MealID: mealID,
			})
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, core.ErrDuplicateMeal) && !core.IsPersistence(err) {
			err = persistenceErr("add meal", err)
		}
		return nil, err
	}

	s.logger.Debug("meal added",
		slog.Int64("meal_id", meal.ID),
		slog.String("category", category.String()),
		slog.Int("ingredients", len(meal.Ingredients)),
	)
	return meal, nil
}

// ListByCategory returns the meals of a category with their ingredients.
// Category matching ignores case. Ingredients are ordered by ingredient id.
func (s *SQLStore) ListByCategory(ctx context.Context, category core.Category, order core.ListOrder) ([]core.Meal, error) {
	if s.db == nil {
		return nil, persistenceErr("list meals", errNotOpened)
	}

	orderBy := "meal_id"
	if order == core.OrderAlphabetical {
		orderBy = "meal, meal_id"
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	key := strings.ToLower(category.String())

	//nolint:gosec // orderBy is one of two fixed clauses
	query := s.dialect.rebind(fmt.Sprintf(
		`SELECT category, meal, meal_id FROM meals WHERE LOWER(category) = ? ORDER BY %s`, orderBy))

	rows, err := s.db.QueryContext(ctx, query, key)
	if err != nil {
		return nil, persistenceErr("list meals", err)
	}

	meals := []core.Meal{}
	index := make(map[int64]int)
	for rows.Next() {
		var m core.Meal
		var storedCategory string
		if err := rows.Scan(&storedCategory, &m.Name, &m.ID); err != nil {
			_ = rows.Close()
			return nil, persistenceErr("list meals", err)
		}
		m.Category = core.Category(strings.ToLower(storedCategory))
		index[m.ID] = len(meals)
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, persistenceErr("list meals", err)
	}
	_ = rows.Close()

	if len(meals) == 0 {
		return meals, nil
	}

	// One query for every ingredient of the category instead of one per meal.
	ingRows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT i.ingredient, i.ingredient_id, i.meal_id
		 FROM ingredients i
		 JOIN meals m ON m.meal_id = i.meal_id
		 WHERE LOWER(m.category) = ?
		 ORDER BY i.ingredient_id`), key)
	if err != nil {
		return nil, persistenceErr("list ingredients", err)
	}
	defer func() { _ = ingRows.Close() }()

	for ingRows.Next() {
		var ing core.Ingredient
		if err := ingRows.Scan(&ing.Name, &ing.ID, &ing.MealID); err != nil {
			return nil, persistenceErr("list ingredients", err)
		}
		if i, ok := index[ing.MealID]; ok {
			meals[i].Ingredients = append(meals[i].Ingredients, ing)
		}
	}
	if err := ingRows.Err(); err != nil {
		return nil, persistenceErr("list ingredients", err)
	}

	return meals, nil
}

// FindMealID returns the id of the first meal named name.
// When several rows share the name, the lowest id wins.
func (s *SQLStore) FindMealID(ctx context.Context, name string) (int64, error) {
	if s.db == nil {
		return 0, persistenceErr("find meal", errNotOpened)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	id, err := s.findMealID(ctx, s.db, name)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return 0, err
		}
		return 0, persistenceErr("find meal", err)
	}
	return id, nil
}

func (s *SQLStore) findMealID(ctx context.Context, q querier, name string) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT meal_id FROM meals WHERE meal = ? ORDER BY meal_id LIMIT 1`),
		name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("meal %q: %w", name, core.ErrNotFound)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// IngredientsOf returns the ingredient names of a meal in stored order.
func (s *SQLStore) IngredientsOf(ctx context.Context, mealID int64) ([]string, error) {
	if s.db == nil {
		return nil, persistenceErr("ingredients", errNotOpened)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		s.dialect.rebind(`SELECT ingredient FROM ingredients WHERE meal_id = ? ORDER BY ingredient_id`),
		mealID,
	)
	if err != nil {
		return nil, persistenceErr("ingredients", err)
	}
	defer func() { _ = rows.Close() }()

	ingredients := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, persistenceErr("ingredients", err)
		}
		ingredients = append(ingredients, name)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("ingredients", err)
	}
	return ingredients, nil
}
