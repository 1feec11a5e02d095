package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/monasticacademy/srt-to-json-microservice/internal/metrics"
)

const (
	apiKeyHeader        = "X-API-KEY"
	unauthorizedMessage = "Unauthorized: API key is invalid or missing."
)

// requireAPIKey rejects requests whose X-API-KEY header does not match the
// configured key. An empty configured key rejects everything.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	expected := []byte(s.opts.APIKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		provided := r.Header.Get(apiKeyHeader)
		if len(expected) == 0 || provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			metrics.RequestsTotal.WithLabelValues(metrics.StatusUnauthorized).Inc()
			s.logger.Warn().
				Str("remote", r.RemoteAddr).
				Bool("keyPresent", provided != "").
				Msg("Rejected request with invalid API key")
			writeError(w, http.StatusUnauthorized, unauthorizedMessage, &s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// accessLog writes one zerolog line per request.
func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		event := s.logger.Info()
		if status >= http.StatusInternalServerError {
			event = s.logger.Error()
		}
		event.
			Str("requestID", middleware.GetReqID(r.Context())).
			Str("remote", r.RemoteAddr).
			Str("method", r.Method).
			Str("path", r.URL.RequestURI()).
			Int("status", status).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// instrument records request counts and latency labelled by chi route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// recoverer turns a panic into a JSON 500 and reports it to Sentry when a hub
// is attached to the request.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
				hub.RecoverWithContext(r.Context(), rec)
			}
			s.logger.Error().
				Interface("panic", rec).
				Str("requestID", middleware.GetReqID(r.Context())).
				Msg("Recovered from panic")
			writeError(w, http.StatusInternalServerError, internalErrorMessage, &s.logger)
		}()
		next.ServeHTTP(w, r)
	})
}
