package app

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/config"
)

func ReadConfig(logger zerolog.Logger, reader config.Reader) (*config.Config, error) {
	cfg, err := reader.Read()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to read env")
		return nil, err
	}
	logger.Info().
		Str("env", cfg.Env).
		Str("storage_driver", cfg.StorageDriver).
		Msg("read env")
	return cfg, nil
}
