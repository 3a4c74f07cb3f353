package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/storage/postgres/migrations"
)

// Migrate applies the embedded schema migrations that are not applied yet.
func (s *Store) Migrate(ctx context.Context, logger zerolog.Logger) error {
	db := stdlib.OpenDBFromPool(s.pool)
	defer func() { _ = db.Close() }()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, result := range results {
		logger.Info().
			Int64("version", result.Source.Version).
			Dur("duration", result.Duration).
			Msg("applied migration")
	}

	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	logger.Debug().
		Int64("version", version).
		Msg("schema is up to date")
	return nil
}
