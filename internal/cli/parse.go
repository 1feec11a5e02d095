package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
	"github.com/monasticacademy/srt-to-json-microservice/internal/parser"
	"github.com/monasticacademy/srt-to-json-microservice/internal/services"
)

type parseOptions struct {
	charLimit   int
	millisLimit int
	stripTags   bool
	srt         bool
	pretty      bool
	charset     string
}

func newParseCmd(root *rootOptions) *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse an SRT file and print captions",
		Long: `Parse an SRT document from a file, or from standard input when the file is
omitted or "-", and print the captions as JSON (or as SRT with --srt).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, closeIn, err := openInput(cmd, args)
			if err != nil {
				return err
			}
			defer closeIn()
			return runParse(cmd, root, opts, in)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.charLimit, "char-limit", 0, "Maximum characters per merged caption (0 = unlimited)")
	f.IntVar(&opts.millisLimit, "millis-limit", 0, "Maximum duration in milliseconds per merged caption (0 = unlimited)")
	f.BoolVar(&opts.stripTags, "strip-tags", false, "Remove inline HTML markup from caption text")
	f.BoolVar(&opts.srt, "srt", false, "Write SRT instead of JSON")
	f.BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	f.StringVar(&opts.charset, "charset", "", "Input encoding (e.g. latin1, windows-1250); detected when empty")
	return cmd
}

func openInput(cmd *cobra.Command, args []string) (io.Reader, func(), error) {
	if len(args) == 0 || args[0] == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// limitsFromFlags maps flag values to Limits. Flags that were not given are
// absent; explicit zero or negative values are passed through so they fail
// validation.
func limitsFromFlags(cmd *cobra.Command, opts *parseOptions) models.Limits {
	var l models.Limits
	if cmd.Flags().Changed("char-limit") {
		v := opts.charLimit
		l.CharLimit = &v
	}
	if cmd.Flags().Changed("millis-limit") {
		v := opts.millisLimit
		l.MillisLimit = &v
	}
	return l
}

func runParse(cmd *cobra.Command, root *rootOptions, opts *parseOptions, in io.Reader) error {
	var (
		decoded io.Reader
		err     error
	)
	if opts.charset != "" {
		decoded, err = parser.NewDecodingReader(in, opts.charset)
	} else {
		decoded, err = parser.NewUTF8Reader(in, "")
	}
	if err != nil {
		return err
	}

	text, err := io.ReadAll(decoded)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	svc := services.NewCaptionService(nil, root.logger)
	captions, err := svc.Process(cmd.Context(), string(text), models.ProcessOptions{
		Limits:    limitsFromFlags(cmd, opts),
		StripTags: opts.stripTags,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.srt {
		return parser.Write(out, captions)
	}
	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(captions)
}
