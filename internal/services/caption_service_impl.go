package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"

	"github.com/monasticacademy/srt-to-json-microservice/internal/cache"
	"github.com/monasticacademy/srt-to-json-microservice/internal/combiner"
	"github.com/monasticacademy/srt-to-json-microservice/internal/metrics"
	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
	"github.com/monasticacademy/srt-to-json-microservice/internal/parser"
	"github.com/monasticacademy/srt-to-json-microservice/internal/sanitize"
)

// DefaultCaptionService implements CaptionService with an optional result cache
type DefaultCaptionService struct {
	cache  cache.Cache
	logger zerolog.Logger
}

// NewCaptionService creates a caption service. c may be nil to disable caching.
func NewCaptionService(c cache.Cache, logger zerolog.Logger) CaptionService {
	return &DefaultCaptionService{
		cache:  c,
		logger: logger.With().Str("component", "caption_service").Logger(),
	}
}

// cacheKey fingerprints the document together with every option that affects the output.
func cacheKey(text string, opts models.ProcessOptions) string {
	return strconv.FormatUint(xxhash.Sum64String(text), 16) + ":" +
		opts.Limits.CacheKey() + ":" + strconv.FormatBool(opts.StripTags)
}

func (s *DefaultCaptionService) Process(ctx context.Context, text string, opts models.ProcessOptions) ([]models.Caption, error) {
	if err := opts.Limits.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(text, opts)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	captions, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	parsed := len(captions)

	if opts.StripTags {
		captions = sanitize.StripCaptions(captions)
	}

	combined, err := combiner.Combine(captions, opts.Limits)
	if err != nil {
		return nil, fmt.Errorf("combine captions: %w", err)
	}

	elapsed := time.Since(start)
	metrics.ProcessDuration.Observe(elapsed.Seconds())
	metrics.CaptionsParsedTotal.Add(float64(parsed))
	metrics.CaptionsEmittedTotal.Add(float64(len(combined)))

	s.logger.Debug().
		Int("parsed", parsed).
		Int("emitted", len(combined)).
		Str("limits", opts.Limits.CacheKey()).
		Bool("stripTags", opts.StripTags).
		Dur("elapsed", elapsed).
		Msg("Processed SRT document")

	s.store(ctx, key, combined)
	return combined, nil
}

func (s *DefaultCaptionService) lookup(ctx context.Context, key string) ([]models.Caption, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var captions []models.Caption
	if err := json.Unmarshal(data, &captions); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Discarding undecodable cache entry")
		return nil, false
	}
	s.logger.Debug().Str("key", key).Int("captions", len(captions)).Msg("Served captions from cache")
	return captions, true
}

func (s *DefaultCaptionService) store(ctx context.Context, key string, captions []models.Caption) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(captions)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode captions for cache")
		return
	}
	s.cache.Set(ctx, key, data)
}
