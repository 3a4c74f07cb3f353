// Package app wires configuration, storage, services and the HTTP server
// into a running process.
package app

import (
	"context"

	"github.com/adanyl0v/task-manager/internal/config"
)

func Run(ctx context.Context) error {
	logger := NewDefaultLogger()
	logger.Info().Msg("initialized default logger")

	cfg, err := ReadConfig(logger, config.NewEnvReader())
	if err != nil {
		return err
	}

	logger, err = NewApplicationLogger(logger, cfg.Env)
	if err != nil {
		return err
	}
	logger.Info().Msg("initialized application logger")

	err = InitSentry(logger, cfg.Sentry, cfg.Env)
	if err != nil {
		return err
	}
	defer FlushSentry(cfg.Sentry.FlushTimeout)

	store, err := OpenStore(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		logger.Info().Msg("closed store")
	}()

	svc := NewServices(logger, cfg, store)
	return NewHTTPServer(logger, cfg, store, svc).Run(ctx)
}
