package state

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // SQLite driver (pure Go)
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// dialect captures the per-backend differences the store cares about.
type dialect struct {
	name         string
	driverName   string // database/sql driver
	gooseDialect string
	numbered     bool // $1, $2 placeholders instead of ?
	singleConn   bool
	prepareDSN   func(dsn string) (string, error)
}

var dialects = map[string]dialect{
	DriverSQLite: {
		name:         DriverSQLite,
		driverName:   "sqlite",
		gooseDialect: "sqlite3",
		singleConn:   true,
		prepareDSN:   sqliteDSN,
	},
	DriverPostgres: {
		name:         DriverPostgres,
		driverName:   "pgx",
		gooseDialect: "postgres",
		numbered:     true,
		prepareDSN:   postgresDSN,
	},
}

// Drivers lists the supported backends.
func Drivers() []string {
	return []string{DriverSQLite, DriverPostgres}
}

func lookupDialect(name string) (dialect, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	switch key {
	case "", "sqlite3":
		key = DriverSQLite
	case "postgresql", "pgx":
		key = DriverPostgres
	}
	d, ok := dialects[key]
	if !ok {
		return dialect{}, &UnknownDriverError{Driver: name, Available: Drivers()}
	}
	return d, nil
}

// rebind rewrites ? placeholders for dialects that number them.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteDSN ensures the parent directory exists and adds connection pragmas.
func sqliteDSN(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("sqlite database path is required")
	}
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path, nil
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return path + "?_pragma=busy_timeout(5000)&_txlock=immediate", nil
}

func postgresDSN(dsn string) (string, error) {
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("postgres connection string is required")
	}
	return dsn, nil
}

// PostgresOptions describes a PostgreSQL connection in parts.
type PostgresOptions struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
}

// BuildPostgresDSN constructs a key=value PostgreSQL connection string.
func BuildPostgresDSN(opts PostgresOptions) string {
	host := opts.Host
	if host == "" {
		host = "localhost"
	}

	port := opts.Port
	if port == 0 {
		port = 5432
	}

	sslmode := opts.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%d dbname=%s sslmode=%s", host, port, opts.Database, sslmode)

	if opts.User != "" {
		dsn += fmt.Sprintf(" user=%s", opts.User)
	}
	if opts.Password != "" {
		dsn += fmt.Sprintf(" password=%s", opts.Password)
	}

	return dsn
}

// UnknownDriverError is returned when an unsupported driver is configured.
type UnknownDriverError struct {
	Driver    string
	Available []string
}

func (e *UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown database driver %q\nAvailable drivers: %v\nHint: Check database.driver in mealplan.yaml", e.Driver, e.Available)
}
