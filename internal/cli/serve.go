package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/monasticacademy/srt-to-json-microservice/internal/app"
	"github.com/monasticacademy/srt-to-json-microservice/internal/config"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Long:  "Run the HTTP service using config.yaml and APP_* environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := root.logger
			if !cmd.Flags().Changed("log-level") {
				logger = config.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return app.Run(ctx, cfg, logger)
		},
	}
}
