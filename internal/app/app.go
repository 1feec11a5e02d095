// Package app wires configuration into a running HTTP service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/monasticacademy/srt-to-json-microservice/internal/cache"
	"github.com/monasticacademy/srt-to-json-microservice/internal/config"
	"github.com/monasticacademy/srt-to-json-microservice/internal/metrics"
	"github.com/monasticacademy/srt-to-json-microservice/internal/server"
	"github.com/monasticacademy/srt-to-json-microservice/internal/services"
)

const cacheGroup = "captions"

// NewCache builds the caption cache selected by cfg. Provider "none" yields nil.
func NewCache(cfg *config.Config, logger zerolog.Logger) (cache.Cache, error) {
	if cfg.Cache.Provider == "none" {
		return nil, nil
	}
	c, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		TTL:           cfg.Cache.TTL,
		Logger:        cache.NewZerologLogger(logger),
		RedisAddress:  cfg.Cache.Redis.Address,
		RedisPassword: cfg.Cache.Redis.Password,
		RedisDB:       cfg.Cache.Redis.DB,
		Group:         cacheGroup,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache: %w", cfg.Cache.Provider, err)
	}
	return c, nil
}

// NewHandler builds the full HTTP handler for cfg around c, which may be nil.
func NewHandler(cfg *config.Config, c cache.Cache, logger zerolog.Logger) http.Handler {
	svc := services.NewCaptionService(c, logger)
	return server.New(svc, server.Options{
		APIKey:       cfg.APIKey,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Sentry:       cfg.Sentry.DSN != "",
	}, logger)
}

// Run serves until ctx is cancelled, then shuts down within
// cfg.Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
		logger.Info().Str("environment", cfg.Sentry.Environment).Msg("Sentry error reporting enabled")
	}

	if cfg.APIKey == "" {
		logger.Warn().Msg("No API key configured; every /parse_srt request will be rejected")
	}

	c, err := NewCache(cfg, logger)
	if err != nil {
		return err
	}
	if c != nil {
		defer func() {
			if err := c.Close(); err != nil {
				logger.Error().Err(err).Msg("Failed to close cache")
			}
		}()
	}

	servers := []*http.Server{server.NewHTTPServer(cfg.Server.Address, cfg.Server.Port, NewHandler(cfg, c, logger))}
	if cfg.Metrics.Enabled {
		servers = append(servers, metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port))
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		logger.Info().Str("address", srv.Addr).Msg("Starting HTTP server")
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("serve %s: %w", srv.Addr, err)
			}
		}()
	}

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutting down")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("Server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Str("address", srv.Addr).Msg("Failed to shut down server")
		}
	}

	if serveErr == nil {
		logger.Info().Msg("Server stopped gracefully")
	}
	return serveErr
}
