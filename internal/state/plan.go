package state

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

// DeleteAllPlanEntries clears the plan table.
func (s *SQLStore) DeleteAllPlanEntries(ctx context.Context) error {
	if s.db == nil {
		return persistenceErr("delete plan", errNotOpened)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM plan`); err != nil {
		return persistenceErr("delete plan", err)
	}
	return nil
}

// SavePlan replaces the stored plan with entries. The delete, the meal id
// lookups and a single multi-row insert share one transaction, so the table
// only ever holds an empty or a full week.
//
// A meal name that resolves to no meal is still written, with
// core.UnresolvedMealID in the meal_id column.
func (s *SQLStore) SavePlan(ctx context.Context, entries []core.PlanEntry) error {
	if s.db == nil {
		return persistenceErr("save plan", errNotOpened)
	}
	if err := core.ValidateWeek(entries); err != nil {
		return err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM plan`); err != nil {
			return persistenceErr("delete plan", err)
		}

		var sb strings.Builder
		sb.WriteString(`INSERT INTO plan (day, meal_category, meal_id, meal_option) VALUES `)
		args := make([]any, 0, len(entries)*4)

		for i, e := range entries {
			mealID, err := s.findMealID(ctx, tx, e.MealOption)
			if errors.Is(err, core.ErrNotFound) {
				s.logger.Warn("planned meal not found",
					slog.String("meal", e.MealOption),
					slog.String("day", e.Day.String()),
					slog.String("category", e.Category.String()),
				)
				mealID = core.UnresolvedMealID
			} else if err != nil {
				return persistenceErr("resolve meal", err)
			}

			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(?, ?, ?, ?)")
			args = append(args, e.Day.String(), e.Category.String(), mealID, e.MealOption)
		}

		if _, err := tx.ExecContext(ctx, s.dialect.rebind(sb.String()), args...); err != nil {
			return persistenceErr("insert plan", err)
		}
		return nil
	})
	if err != nil {
		if !core.IsPersistence(err) {
			err = persistenceErr("save plan", err)
		}
		return err
	}

	s.logger.Debug("plan saved", slog.Int("entries", len(entries)))
	return nil
}

// LoadPlan returns every stored plan row grouped by day.
// An empty table yields an empty plan.
func (s *SQLStore) LoadPlan(ctx context.Context) (core.WeeklyPlan, error) {
	if s.db == nil {
		return nil, persistenceErr("load plan", errNotOpened)
	}
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT day, meal_category, meal_option FROM plan`)
	if err != nil {
		return nil, persistenceErr("load plan", err)
	}
	defer func() { _ = rows.Close() }()

	plan := make(core.WeeklyPlan)
	for rows.Next() {
		var day, category, option string
		if err := rows.Scan(&day, &category, &option); err != nil {
			return nil, persistenceErr("load plan", err)
		}
		plan.Set(core.Day(day), core.Category(strings.ToLower(category)), option)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("load plan", err)
	}
	return plan, nil
}
