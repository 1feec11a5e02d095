// Package combiner merges adjacent captions while keeping each merged group
// within caller-supplied size limits.
package combiner

import (
	"unicode/utf8"

	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
)

// Combine merges adjacent captions in a single greedy left-to-right pass.
//
// A caption joins the current group only if the merged text (joined with a single
// space) fits CharLimit and the span from the group start to the caption end fits
// MillisLimit. A caption that exceeds a limit on its own is emitted unchanged as its
// own group. Output indices are always 1..N. The input slice is not modified.
func Combine(captions []models.Caption, limits models.Limits) ([]models.Caption, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	out := make([]models.Caption, 0, len(captions))
	if limits.IsZero() {
		for _, c := range captions {
			c.Index = len(out) + 1
			out = append(out, c)
		}
		return out, nil
	}

	var (
		current  models.Caption
		runes    int
		hasGroup bool
	)
	flush := func() {
		current.Index = len(out) + 1
		out = append(out, current)
	}

	for _, c := range captions {
		if !hasGroup {
			current, runes, hasGroup = c, utf8.RuneCountInString(c.Content), true
			continue
		}

		mergedRunes := runes + 1 + utf8.RuneCountInString(c.Content)
		if fits(limits, mergedRunes, c.End-current.Start) {
			current.Content = current.Content + " " + c.Content
			current.End = c.End
			runes = mergedRunes
			continue
		}

		flush()
		current, runes = c, utf8.RuneCountInString(c.Content)
	}

	if hasGroup {
		flush()
	}

	return out, nil
}

func fits(limits models.Limits, chars int, millis int64) bool {
	if limits.CharLimit != nil && chars > *limits.CharLimit {
		return false
	}
	if limits.MillisLimit != nil && millis > int64(*limits.MillisLimit) {
		return false
	}
	return true
}
