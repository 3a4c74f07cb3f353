package app

import (
	"context"
	"fmt"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/config"
	"github.com/adanyl0v/task-manager/internal/services"
	"github.com/adanyl0v/task-manager/internal/storage"
	"github.com/adanyl0v/task-manager/internal/storage/memory"
	"github.com/adanyl0v/task-manager/internal/storage/postgres"
)

// OpenStore returns the store selected by the storage driver, migrated
// if it is Postgres and migrations are enabled.
func OpenStore(ctx context.Context, logger zerolog.Logger, cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn().Msg("using in-memory storage, data won't survive a restart")
		return memory.New(), nil
	case config.StorageDriverPostgres:
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}

	pool, err := ConnectPostgres(ctx, logger, cfg.Postgres)
	if err != nil {
		return nil, err
	}
	store := postgres.New(pool)

	if cfg.Migrations.Enabled {
		err = store.Migrate(ctx, logger)
		if err != nil {
			store.Close()
			logger.Error().
				Err(err).
				Msg("failed to migrate postgres")
			return nil, err
		}
	}
	return store, nil
}

func NewServices(logger zerolog.Logger, cfg *config.Config, store storage.Store) *services.Services {
	passwords := services.NewPasswordHasher(&argon2id.Params{
		Memory:      cfg.Password.Memory,
		Iterations:  cfg.Password.Iterations,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})

	sessions := services.NewSessionService(
		logger,
		store,
		passwords,
		cfg.JWT.Issuer,
		[]byte(cfg.JWT.SigningKey),
		cfg.JWT.AccessTokenTTL,
		cfg.Session.RefreshTokenTTL,
		cfg.Session.RefreshTokenBytes,
	)

	return &services.Services{
		Sessions: sessions,
		Auth:     services.NewAuthService(logger, store, sessions, passwords),
		Lists:    services.NewListService(logger, store),
		Tasks:    services.NewTaskService(logger, store),
	}
}
