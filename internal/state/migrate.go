package state

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/leapstack-labs/mealplan/pkg/core"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

// goose keeps its dialect and filesystem in package globals.
var gooseMu sync.Mutex

// Initialize creates the meals, ingredients and plan tables if absent.
// Running it again is a no-op.
func (s *SQLStore) Initialize(ctx context.Context) error {
	if s.db == nil {
		return &core.SchemaError{Op: "initialize", Err: errNotOpened}
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := s.configureGoose(); err != nil {
		return &core.SchemaError{Op: "initialize", Err: err}
	}

	if err := goose.UpContext(ctx, s.db, "migrations"); err != nil {
		return &core.SchemaError{Op: "apply", Err: err}
	}

	s.logger.Debug("schema ready", slog.String("driver", s.dialect.name))
	return nil
}

// SchemaVersion returns the applied schema version (0 when uninitialized).
func (s *SQLStore) SchemaVersion(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, persistenceErr("schema version", errNotOpened)
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := s.configureGoose(); err != nil {
		return 0, persistenceErr("schema version", err)
	}

	version, err := goose.GetDBVersionContext(ctx, s.db)
	if err != nil {
		return 0, persistenceErr("schema version", err)
	}
	return version, nil
}

func (s *SQLStore) configureGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: s.logger})
	if err := goose.SetDialect(s.dialect.gooseDialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// gooseLogger routes goose progress lines into slog at debug level.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

// Fatalf is only reached on goose internal errors; it logs instead of exiting.
func (l gooseLogger) Fatalf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}
