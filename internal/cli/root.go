// Package cli implements the srtparse command line tool.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/monasticacademy/srt-to-json-microservice/internal/config"
)

type rootOptions struct {
	logLevel string
	logger   zerolog.Logger
}

// NewRootCmd builds the srtparse command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "srtparse",
		Short: "Convert SRT subtitles to JSON captions",
		Long: `srtparse parses SubRip (SRT) subtitle files into JSON captions and can
merge adjacent captions under character and duration limits.

It can also run the HTTP conversion service.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			opts.logger = config.NewLogger(opts.logLevel, cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (trace, debug, info, warn, error)")

	cmd.AddCommand(newParseCmd(opts), newServeCmd(opts))
	return cmd
}

// Execute runs the root command against os.Args.
func Execute() error {
	cmd := NewRootCmd()
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	return cmd.Execute()
}
