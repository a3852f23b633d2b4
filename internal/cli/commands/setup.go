package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/mealplan/internal/cli/config"
	"github.com/leapstack-labs/mealplan/internal/cli/output"
	"github.com/leapstack-labs/mealplan/internal/planner"
	"github.com/leapstack-labs/mealplan/internal/state"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Store    *state.SQLStore
	Planner  *planner.Planner
	Renderer *output.Renderer
}

// NewCommandContext opens the configured store, creates the schema if
// needed and wires the planner and renderer.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := config.GetLogger(cmd.Context())

	store, err := openStore(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = store.Close()
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Store:    store,
		Planner:  planner.New(store, logger),
		Renderer: newRenderer(cmd, cfg),
	}, cleanup, nil
}

// getConfig returns the configuration loaded by the root command, loading
// it from file and environment when a command runs on its own.
func getConfig() (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", nil)
}

func newRenderer(cmd *cobra.Command, cfg *config.Config) *output.Renderer {
	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		mode = output.ModeAuto
	}
	return output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
}

// openStore connects and initializes the schema. A schema failure is fatal.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*state.SQLStore, error) {
	store := state.NewSQLStore(logger)
	if err := store.Open(ctx, cfg.StoreConfig()); err != nil {
		return nil, err
	}
	if err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}
