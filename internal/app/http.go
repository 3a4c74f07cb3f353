package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/config"
	"github.com/adanyl0v/task-manager/internal/delivery/http/v1"
	"github.com/adanyl0v/task-manager/internal/services"
	"github.com/adanyl0v/task-manager/internal/storage"
)

// Headers the browser client has to send and read across origins.
var sessionHeaders = []string{"x-access-token", "x-refresh-token", "_id"}

type HTTPServer struct {
	logger          zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewHTTPServer(
	logger zerolog.Logger,
	cfg *config.Config,
	store storage.Store,
	svc *services.Services,
) *HTTPServer {
	return &HTTPServer{
		logger: logger,
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
			Handler:           NewRouter(logger, cfg, store, svc),
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		},
		shutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}
}

func NewRouter(
	logger zerolog.Logger,
	cfg *config.Config,
	store storage.Store,
	svc *services.Services,
) *gin.Engine {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	m := newMetrics()

	router := gin.New()
	router.Use(requestLogger(logger))
	router.Use(recoverWithSentry(logger))
	router.Use(m.middleware())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:  append([]string{"Origin", "Content-Type", "Accept", "Authorization"}, sessionHeaders...),
		ExposeHeaders: sessionHeaders,
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/healthz", handleHealth(logger, store))
	router.GET("/metrics", gin.WrapH(m.handler()))
	v1.RegisterRoutes(router, v1.New(logger, svc), cfg.HTTP.RequireAccessToken)
	return router
}

// Run serves until ctx is canceled and then shuts the server down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("addr", s.server.Addr).
			Msg("setting up http server")
		err := s.server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		return err
	}
	s.logger.Info().Msg("shut down http server")
	return nil
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("handled request")
	}
}

func handleHealth(logger zerolog.Logger, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 2*time.Second)
		defer cancel()

		err := store.Ping(ctx)
		if err != nil {
			logger.Error().
				Err(err).
				Msg("failed to ping store")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
