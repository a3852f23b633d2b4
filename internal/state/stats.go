package state

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/mealplan/pkg/core"
)

// Stats reports the schema version and row counts of every table.
func (s *SQLStore) Stats(ctx context.Context) (*core.StoreStats, error) {
	if s.db == nil {
		return nil, persistenceErr("stats", errNotOpened)
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	stats := &core.StoreStats{Driver: s.dialect.name, SchemaVersion: version}
	counts := []struct {
		table string
		dest  *int64
	}{
		{"meals", &stats.Meals},
		{"ingredients", &stats.Ingredients},
		{"plan", &stats.PlanEntries},
	}
	for _, c := range counts {
		//nolint:gosec // table names are fixed
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", c.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return nil, persistenceErr("stats", err)
		}
	}
	return stats, nil
}
