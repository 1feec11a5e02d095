package models

import (
	"strconv"

	"github.com/monasticacademy/srt-to-json-microservice/internal/apperrors"
)

// Limits bounds how far adjacent captions may be merged.
// A nil field means the dimension is unconstrained.
type Limits struct {
	CharLimit   *int `json:"char_limit,omitempty"`
	MillisLimit *int `json:"millis_limit,omitempty"`
}

// NewLimits builds Limits from plain values, where 0 means absent.
func NewLimits(charLimit, millisLimit int) Limits {
	var l Limits
	if charLimit != 0 {
		l.CharLimit = &charLimit
	}
	if millisLimit != 0 {
		l.MillisLimit = &millisLimit
	}
	return l
}

// IsZero reports whether neither limit is set.
func (l Limits) IsZero() bool {
	return l.CharLimit == nil && l.MillisLimit == nil
}

// Validate rejects any present limit that is not strictly positive.
func (l Limits) Validate() error {
	if l.CharLimit != nil && *l.CharLimit <= 0 {
		return &apperrors.ErrInvalidLimit{Name: "char_limit", Value: *l.CharLimit}
	}
	if l.MillisLimit != nil && *l.MillisLimit <= 0 {
		return &apperrors.ErrInvalidLimit{Name: "millis_limit", Value: *l.MillisLimit}
	}
	return nil
}

// CacheKey returns a stable textual form of the limits, used to build cache keys.
func (l Limits) CacheKey() string {
	return formatLimit(l.CharLimit) + ":" + formatLimit(l.MillisLimit)
}

func formatLimit(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

// ProcessOptions controls a single parse-and-combine request.
type ProcessOptions struct {
	Limits    Limits
	StripTags bool // Remove inline HTML markup before combining
}
