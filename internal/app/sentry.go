package app

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/config"
)

// InitSentry is a no-op when no DSN is configured.
func InitSentry(logger zerolog.Logger, cfg config.SentryConfig, env string) error {
	if cfg.DSN == "" {
		logger.Debug().Msg("sentry dsn is empty, skipping sentry")
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      env,
		AttachStacktrace: true,
	})
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to init sentry")
		return fmt.Errorf("failed to init sentry: %w", err)
	}
	logger.Info().Msg("initialized sentry")
	return nil
}

func FlushSentry(timeout time.Duration) {
	sentry.Flush(timeout)
}

// recoverWithSentry turns panics into 500 responses and reports them along
// with every other 5xx response.
func recoverWithSentry(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetTag("method", c.Request.Method)
		hub.Scope().SetTag("route", c.FullPath())

		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetExtra("panic", rec)
				scope.SetExtra("stack", string(debug.Stack()))
				hub.CaptureMessage("panic in request")
			})
			logger.Error().
				Interface("panic", rec).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Msg("recovered from panic")

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"Error": http.StatusText(http.StatusInternalServerError),
			})
		}()

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			for _, err := range c.Errors {
				hub.CaptureException(err.Err)
			}
		}
	}
}
