package state

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/mealplan/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	store, err := NewSQLStoreWithDB(db, driver, nil)
	require.NoError(t, err)
	return store, mock
}

func TestSQLStore_AddMealRollsBackOnIngredientFailure(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT meal_id FROM meals WHERE meal = ?`)).
		WithArgs("Soup").
		WillReturnRows(sqlmock.NewRows([]string{"meal_id"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(meal_id) FROM meals`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO meals (category, meal, meal_id) VALUES (?, ?, ?)`)).
		WithArgs("dinner", "Soup", int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(ingredient_id) FROM ingredients`)).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ingredients`)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	meal, err := store.AddMeal(context.Background(), core.CategoryDinner, "Soup", []string{"Water"})
	require.Error(t, err)
	assert.Nil(t, meal)
	assert.True(t, core.IsPersistence(err))
	assert.Contains(t, err.Error(), "disk I/O error")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_AddMealBeginFailure(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	mock.ExpectBegin().WillReturnError(errors.New("database is locked"))

	_, err := store.AddMeal(context.Background(), core.CategoryLunch, "Soup", []string{"Water"})
	require.Error(t, err)
	assert.True(t, core.IsPersistence(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_FindMealIDPostgresPlaceholders(t *testing.T) {
	store, mock := newMockStore(t, DriverPostgres)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT meal_id FROM meals WHERE meal = $1 ORDER BY meal_id LIMIT 1`)).
		WithArgs("Toast").
		WillReturnRows(sqlmock.NewRows([]string{"meal_id"}).AddRow(int64(12)))

	id, err := store.FindMealID(context.Background(), "Toast")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_FindMealIDQueryError(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT meal_id FROM meals`)).
		WillReturnError(errors.New("connection reset"))

	_, err := store.FindMealID(context.Background(), "Toast")
	require.Error(t, err)
	assert.True(t, core.IsPersistence(err))
	assert.False(t, errors.Is(err, core.ErrNotFound))
}

func TestSQLStore_SavePlanCommitFailure(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	entries := fullWeek("Toast", "Salad", "Stew")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM plan`)).
		WillReturnResult(sqlmock.NewResult(0, 21))
	for _, e := range entries {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT meal_id FROM meals WHERE meal = ?`)).
			WithArgs(e.MealOption).
			WillReturnRows(sqlmock.NewRows([]string{"meal_id"}).AddRow(int64(1)))
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO plan (day, meal_category, meal_id, meal_option) VALUES (?, ?, ?, ?), (?, ?, ?, ?)`)).
		WillReturnResult(sqlmock.NewResult(0, 21))
	mock.ExpectCommit().WillReturnError(errors.New("disk full"))

	err := store.SavePlan(context.Background(), entries)
	require.Error(t, err)
	assert.True(t, core.IsPersistence(err))
	assert.Contains(t, err.Error(), "commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_SavePlanInsertFailureRollsBack(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	entries := fullWeek("Toast", "Salad", "Stew")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM plan`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	for range entries {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT meal_id FROM meals WHERE meal = ?`)).
			WillReturnRows(sqlmock.NewRows([]string{"meal_id"}).AddRow(int64(1)))
	}
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO plan`)).
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := store.SavePlan(context.Background(), entries)
	require.Error(t, err)

	var perr *core.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "insert plan", perr.Op)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_LoadPlanQueryError(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT day, meal_category, meal_option FROM plan`)).
		WillReturnError(errors.New("no such table: plan"))

	plan, err := store.LoadPlan(context.Background())
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, core.IsPersistence(err))
}

func TestSQLStore_LoadPlanNormalizesCategory(t *testing.T) {
	store, mock := newMockStore(t, DriverSQLite)

	rows := sqlmock.NewRows([]string{"day", "meal_category", "meal_option"}).
		AddRow("Monday", "Breakfast", "Toast").
		AddRow("Monday", "dinner", "Stew")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT day, meal_category, meal_option FROM plan`)).
		WillReturnRows(rows)

	plan, err := store.LoadPlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Toast", plan[core.Monday][core.CategoryBreakfast])
	assert.Equal(t, "Stew", plan[core.Monday][core.CategoryDinner])
	assert.False(t, plan.Complete())
}

func TestNewSQLStoreWithDB_UnknownDriver(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = NewSQLStoreWithDB(db, "mysql", nil)
	var unknown *UnknownDriverError
	assert.ErrorAs(t, err, &unknown)
}
