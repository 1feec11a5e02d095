package parser

import (
	"fmt"
	"strconv"
)

// parseTimestamp converts the captured fields of an SRT timestamp to milliseconds.
func parseTimestamp(hours, minutes, seconds, millis string) (int64, error) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("hours %q: %w", hours, err)
	}
	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("minutes %q: %w", minutes, err)
	}
	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("seconds %q: %w", seconds, err)
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("milliseconds %q: %w", millis, err)
	}

	// Guard the multiplication below against int64 overflow.
	const maxHours = (1<<63 - 1) / 3_600_000
	if h >= maxHours {
		return 0, fmt.Errorf("hours %q out of range", hours)
	}

	return ((h*60+m)*60+s)*1000 + ms, nil
}

// FormatTimestamp renders milliseconds as an SRT timestamp (HH:MM:SS,mmm).
// Negative values are clamped to zero.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3_600_000
	m := ms / 60_000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
