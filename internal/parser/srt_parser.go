package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/monasticacademy/srt-to-json-microservice/internal/apperrors"
	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
)

var (
	// indexRegex matches a positive cue index without sign or leading zeros.
	indexRegex = regexp.MustCompile(`^[1-9][0-9]*$`)

	// timingRegex matches "HH:MM:SS,mmm --> HH:MM:SS,mmm". Hours may have more than two digits.
	timingRegex = regexp.MustCompile(
		`^(\d{2,}):([0-5]\d):([0-5]\d),(\d{3})[ \t]+-->[ \t]+(\d{2,}):([0-5]\d):([0-5]\d),(\d{3})$`,
	)
)

// block is a group of consecutive lines forming one SRT cue.
type block struct {
	line  int // 1-based line number of the first line in the input
	lines []string
}

// Parse converts SRT text into captions in source order.
//
// Blocks are separated by one or more blank lines. A blank run that sits inside a
// cue's text, and is not followed by the start of another cue, is kept as embedded
// empty lines of that text.
func Parse(text string) ([]models.Caption, error) {
	lines := normalize(text)
	if len(lines) == 0 {
		return nil, &apperrors.ErrEmptyInput{}
	}

	blocks := splitBlocks(lines)
	captions := make([]models.Caption, 0, len(blocks))
	for i, b := range blocks {
		caption, err := parseBlock(b, i+1)
		if err != nil {
			return nil, err
		}
		captions = append(captions, caption)
	}

	return captions, nil
}

// ParseReader reads r to the end and parses its content as SRT.
func ParseReader(r io.Reader) ([]models.Caption, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read SRT input: %w", err)
	}
	return Parse(string(content))
}

// normalize strips the BOM, unifies line endings and drops trailing whitespace.
// Leading blank lines stay so that line numbers match the caller's input.
func normalize(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimRightFunc(text, unicode.IsSpace)
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isTimingLine(line string) bool {
	return timingRegex.MatchString(strings.TrimSpace(line))
}

func isIndexLine(line string) bool {
	return indexRegex.MatchString(strings.TrimSpace(line))
}

// startsCue reports whether lines[i] looks like the beginning of a new cue.
func startsCue(lines []string, i int) bool {
	if isIndexLine(lines[i]) {
		return true
	}
	return i+1 < len(lines) && isTimingLine(lines[i+1])
}

func splitBlocks(lines []string) []block {
	var blocks []block

	i := 0
	for i < len(lines) {
		if isBlank(lines[i]) {
			i++
			continue
		}

		b := block{line: i + 1}
		for i < len(lines) {
			if !isBlank(lines[i]) {
				b.lines = append(b.lines, lines[i])
				i++
				continue
			}

			end := i
			for end < len(lines) && isBlank(lines[end]) {
				end++
			}

			// The blank run separates blocks unless the cue already has text
			// and whatever follows is not another cue.
			hasText := len(b.lines) >= 3 && isTimingLine(b.lines[1])
			if end == len(lines) || !hasText || startsCue(lines, end) {
				break
			}
			for ; i < end; i++ {
				b.lines = append(b.lines, "")
			}
		}
		blocks = append(blocks, b)
	}

	return blocks
}

func parseBlock(b block, ordinal int) (models.Caption, error) {
	indexLine := strings.TrimSpace(b.lines[0])
	if !indexRegex.MatchString(indexLine) {
		reason := fmt.Sprintf("invalid index line %q", indexLine)
		if isTimingLine(indexLine) {
			reason = "missing index line"
		}
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line, reason)
	}

	index, err := strconv.Atoi(indexLine)
	if err != nil {
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line,
			fmt.Sprintf("invalid index line %q", indexLine))
	}

	if len(b.lines) < 2 {
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line, "missing timing line")
	}

	timingLine := strings.TrimSpace(b.lines[1])
	matches := timingRegex.FindStringSubmatch(timingLine)
	if matches == nil {
		reason := "missing timing line"
		if strings.Contains(timingLine, "-->") {
			reason = fmt.Sprintf("invalid timing line %q", timingLine)
		}
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line+1, reason)
	}

	start, err := parseTimestamp(matches[1], matches[2], matches[3], matches[4])
	if err != nil {
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line+1,
			fmt.Sprintf("invalid start timestamp: %v", err))
	}
	end, err := parseTimestamp(matches[5], matches[6], matches[7], matches[8])
	if err != nil {
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line+1,
			fmt.Sprintf("invalid end timestamp: %v", err))
	}
	if start > end {
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line+1,
			fmt.Sprintf("start time %s is after end time %s", FormatTimestamp(start), FormatTimestamp(end)))
	}

	if len(b.lines) < 3 {
		return models.Caption{}, apperrors.NewMalformedInputError(ordinal, b.line+2, "empty text")
	}

	return models.Caption{
		Index:   index,
		Content: strings.Join(b.lines[2:], "\n"),
		Start:   start,
		End:     end,
	}, nil
}
