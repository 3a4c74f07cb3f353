package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/config"
)

// NewDefaultLogger returns the logger used until the config is read.
func NewDefaultLogger() zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimestampFieldName = "timestamp"

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Int("pid", os.Getpid()).
		Logger()
}

// NewApplicationLogger sets the global level for env and switches to
// a console writer for local runs.
func NewApplicationLogger(base zerolog.Logger, env string) (zerolog.Logger, error) {
	w := io.Writer(os.Stdout)
	switch env {
	case config.EnvDev:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case config.EnvProd:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case config.EnvLocal:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)

		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	default:
		return base, fmt.Errorf("unknown env: %s", env)
	}

	return base.Output(w), nil
}
