package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/mealplan/internal/cli/output"
	"github.com/leapstack-labs/mealplan/internal/state"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	driver := string(c.Database.Driver)
	if !slices.Contains(state.Drivers(), driver) {
		return &state.UnknownDriverError{Driver: driver, Available: state.Drivers()}
	}

	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		return err
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Database.Timeout < 0 {
		return fmt.Errorf("database.timeout must not be negative, got %s", c.Database.Timeout)
	}

	switch driver {
	case state.DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite\nHint: Set database.path in mealplan.yaml or use --database")
		}
	case state.DriverPostgres:
		if c.Database.DSN == "" && c.Database.Name == "" {
			return fmt.Errorf("postgres requires database.dsn or database.name\nHint: Set them in mealplan.yaml or use --dsn")
		}
	}
	return nil
}

// StoreConfig builds the state.Config for the configured backend.
func (c *Config) StoreConfig() state.Config {
	sc := state.Config{
		Driver:  string(c.Database.Driver),
		Timeout: c.Database.Timeout,
	}

	switch {
	case sc.Driver == state.DriverSQLite:
		sc.DSN = c.Database.Path
	case c.Database.DSN != "":
		sc.DSN = c.Database.DSN
	default:
		sc.DSN = state.BuildPostgresDSN(state.PostgresOptions{
			Host:     c.Database.Host,
			Port:     c.Database.Port,
			Database: c.Database.Name,
			User:     c.Database.User,
			Password: c.Database.Password,
			SSLMode:  c.Database.SSLMode,
		})
	}
	return sc
}

// Level returns the slog level. Verbose always means debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ShellHistoryPath returns the readline history file. Without an explicit
// setting it lives next to a sqlite database, or in the home directory.
func (c *Config) ShellHistoryPath(home string) string {
	if c.HistoryFile != "" {
		return c.HistoryFile
	}
	if string(c.Database.Driver) == state.DriverSQLite && c.Database.Path != ":memory:" && !strings.HasPrefix(c.Database.Path, "file:") {
		return filepath.Join(filepath.Dir(c.Database.Path), "shell_history")
	}
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".mealplan_history")
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: use debug, info, warn or error", s)
	}
	return level, nil
}
