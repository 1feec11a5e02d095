package testutil

import (
	"fmt"
	"strings"
)

// IntPtr is a helper for creating *int values in tests
func IntPtr(v int) *int {
	return &v
}

// TwoCueSRT is the two-cue document used across package tests.
const TwoCueSRT = "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:02,500 --> 00:00:05,000\nWorld\n"

// MultiLineSRT contains multi-line cues, a blank line inside cue text and CRLF-free endings.
const MultiLineSRT = `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
First paragraph.

Second paragraph.

4
00:01:00,000 --> 01:00:00,001
Final subtitle.
`

// CueOptions describes one generated SRT cue.
type CueOptions struct {
	Index   int
	StartMs int64
	EndMs   int64
	Text    string
}

// FormatCue renders a single cue in SRT syntax, without the trailing blank line.
func FormatCue(opts CueOptions) string {
	return fmt.Sprintf("%d\n%s --> %s\n%s\n", opts.Index, formatMs(opts.StartMs), formatMs(opts.EndMs), opts.Text)
}

// GenerateSRT concatenates cues separated by blank lines.
func GenerateSRT(cues ...CueOptions) string {
	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		parts = append(parts, FormatCue(c))
	}
	return strings.Join(parts, "\n")
}

// GenerateSequentialSRT builds n cues of the given duration and gap, with texts "Line 1".."Line n".
func GenerateSequentialSRT(n int, durationMs, gapMs int64) string {
	cues := make([]CueOptions, 0, n)
	start := int64(0)
	for i := 1; i <= n; i++ {
		cues = append(cues, CueOptions{
			Index:   i,
			StartMs: start,
			EndMs:   start + durationMs,
			Text:    fmt.Sprintf("Line %d", i),
		})
		start += durationMs + gapMs
	}
	return GenerateSRT(cues...)
}

func formatMs(ms int64) string {
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
