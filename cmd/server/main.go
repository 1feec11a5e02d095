package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/monasticacademy/srt-to-json-microservice/internal/app"
	"github.com/monasticacademy/srt-to-json-microservice/internal/config"
)

func main() {
	bootLogger := config.NewLogger("info", os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("Failed to load config")
	}
	logger := config.NewLogger(cfg.LogLevel, os.Stdout)

	logger.Info().
		Str("server_address", cfg.Server.Address).
		Int("server_port", cfg.Server.Port).
		Str("cache_provider", cfg.Cache.Provider).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Msg("Application started with configuration")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("Server exited with error")
	}
}
