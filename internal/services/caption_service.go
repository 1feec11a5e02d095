package services

import (
	"context"

	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
)

// CaptionService turns raw SRT text into combined captions
type CaptionService interface {
	// Process parses text, optionally strips markup and merges adjacent captions
	// within opts.Limits. Limits are validated before any parsing happens.
	Process(ctx context.Context, text string, opts models.ProcessOptions) ([]models.Caption, error)
}
