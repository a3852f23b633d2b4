// Package state persists meals, ingredients and the weekly plan in a
// relational database. SQLite (modernc.org/sqlite) is the default backend;
// PostgreSQL is reached through pgx's database/sql driver.
//
// The table layout is fixed for compatibility with existing databases:
//
//	meals(category, meal, meal_id)
//	ingredients(ingredient, ingredient_id, meal_id)
//	plan(day, meal_category, meal_id, meal_option)
//
// Ids are assigned as max + 1 inside the write transaction, which assumes
// a single writer.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

var errNotOpened = errors.New("database not opened")

// Config selects and configures the backend.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver string
	// DSN is a file path (or ":memory:") for sqlite, a connection string for postgres.
	DSN string
	// Timeout bounds every individual storage call. Zero disables it.
	Timeout time.Duration
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLStore implements core.Store over database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	timeout time.Duration
	logger  *slog.Logger
}

var _ core.Store = (*SQLStore)(nil)

// NewSQLStore creates a store that is not yet connected.
// If logger is nil, a discard logger is used.
func NewSQLStore(logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLStore{logger: logger}
}

// NewSQLStoreWithDB wraps an existing connection. Used by tests that drive
// the store through sqlmock.
func NewSQLStoreWithDB(db *sql.DB, driver string, logger *slog.Logger) (*SQLStore, error) {
	d, err := lookupDialect(driver)
	if err != nil {
		return nil, err
	}
	s := NewSQLStore(logger)
	s.db = db
	s.dialect = d
	return s, nil
}

// Open connects to the configured database and verifies the connection.
func (s *SQLStore) Open(ctx context.Context, cfg Config) error {
	d, err := lookupDialect(cfg.Driver)
	if err != nil {
		return err
	}

	dsn, err := d.prepareDSN(cfg.DSN)
	if err != nil {
		return err
	}

	s.logger.Debug("opening database", slog.String("driver", d.name))

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", d.name, err)
	}
	if d.singleConn {
		db.SetMaxOpenConns(1)
	}

	pingCtx, cancel := withTimeout(ctx, cfg.Timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping %s database: %w", d.name, err)
	}

	s.db = db
	s.dialect = d
	s.timeout = cfg.Timeout
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		s.logger.Debug("closing database connection")
		return s.db.Close()
	}
	return nil
}

// DriverName returns the configured backend name.
func (s *SQLStore) DriverName() string {
	return s.dialect.name
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// opContext bounds a single storage call by the configured timeout.
func (s *SQLStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, s.timeout)
}

// inTx runs fn inside a transaction, rolling back when fn fails.
func (s *SQLStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func persistenceErr(op string, err error) error {
	return &core.PersistenceError{Op: op, Err: err}
}
