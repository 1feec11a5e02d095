package apperrors

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is returned when an SRT block cannot be interpreted.
// The whole input is rejected; no partial results are produced.
type ErrMalformedInput struct {
	Block  int    // 1-based ordinal of the offending block
	Line   int    // 1-based line number in the input, 0 if unknown
	Reason string // Short description, e.g. "missing timing line"
}

// Error implements the error interface.
func (e *ErrMalformedInput) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed SRT block %d (line %d): %s", e.Block, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed SRT block %d: %s", e.Block, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrMalformedInput) Is(target error) bool {
	_, ok := target.(*ErrMalformedInput)
	return ok
}

// NewMalformedInputError creates a new ErrMalformedInput.
func NewMalformedInputError(block, line int, reason string) *ErrMalformedInput {
	return &ErrMalformedInput{
		Block:  block,
		Line:   line,
		Reason: reason,
	}
}

// ErrInvalidLimit is returned when a combine limit is zero or negative.
type ErrInvalidLimit struct {
	Name  string
	Value int
}

// Error implements the error interface.
func (e *ErrInvalidLimit) Error() string {
	return fmt.Sprintf("%s must be a positive integer, got %d", e.Name, e.Value)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidLimit) Is(target error) bool {
	_, ok := target.(*ErrInvalidLimit)
	return ok
}

// ErrEmptyInput is returned when the SRT text is empty or whitespace only.
type ErrEmptyInput struct{}

// Error implements the error interface.
func (e *ErrEmptyInput) Error() string {
	return "the input text provided is empty"
}

// Is allows for error checking with errors.Is().
func (e *ErrEmptyInput) Is(target error) bool {
	_, ok := target.(*ErrEmptyInput)
	return ok
}

// ErrNoContent is returned by the HTTP boundary when a request carries no SRT content.
type ErrNoContent struct {
	Preview string // First bytes of the raw request body, for diagnostics
}

// Error implements the error interface.
func (e *ErrNoContent) Error() string {
	preview := e.Preview
	if preview == "" {
		preview = "[empty]"
	}
	return fmt.Sprintf("no SRT content found in request; send it as raw text, as form field 'srt_content' or as JSON with 'srt_content'. Received: %s...", preview)
}

// Is allows for error checking with errors.Is().
func (e *ErrNoContent) Is(target error) bool {
	_, ok := target.(*ErrNoContent)
	return ok
}

// IsClientError reports whether err originates from invalid caller input.
func IsClientError(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, &ErrMalformedInput{}),
		errors.Is(err, &ErrInvalidLimit{}),
		errors.Is(err, &ErrEmptyInput{}),
		errors.Is(err, &ErrNoContent{}):
		return true
	default:
		return false
	}
}
