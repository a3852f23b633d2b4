// Package config provides configuration management for the mealplan CLI.
//
// Values are merged from defaults, a mealplan.yaml file, MEALPLAN_*
// environment variables and command-line flags, in increasing order of
// precedence.
package config

import "time"

// Default configuration values.
const (
	DefaultDriver       = "sqlite"
	DefaultDatabasePath = ".mealplan/meals.db"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel     = "info"
	DefaultTimeout      = 30 * time.Second
	DefaultSSLMode      = "disable"
)

// Config holds all CLI configuration options.
type Config struct {
	Database     DatabaseConfig `koanf:"database"`
	OutputFormat string         `koanf:"output"`
	Verbose      bool           `koanf:"verbose"`
	LogLevel     string         `koanf:"log_level"`
	HistoryFile  string         `koanf:"history_file"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// DriverName is a database driver name, normalised during decoding.
type DriverName string

// DatabaseConfig selects the storage backend.
//
// For sqlite only Path is used. For postgres either DSN is set or the
// connection is assembled from the individual fields.
type DatabaseConfig struct {
	Driver   DriverName    `koanf:"driver"`
	Path     string        `koanf:"path"`
	DSN      string        `koanf:"dsn"`
	Host     string        `koanf:"host"`
	Port     int           `koanf:"port"`
	User     string        `koanf:"user"`
	Password string        `koanf:"password"`
	Name     string        `koanf:"name"`
	SSLMode  string        `koanf:"sslmode"`
	Timeout  time.Duration `koanf:"timeout"`
}
