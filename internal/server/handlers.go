package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/getsentry/sentry-go"

	"github.com/monasticacademy/srt-to-json-microservice/internal/apperrors"
	"github.com/monasticacademy/srt-to-json-microservice/internal/metrics"
	"github.com/monasticacademy/srt-to-json-microservice/internal/models"
)

const notFoundMessage = "The requested URL was not found on the server. If you entered the URL manually please check your spelling and try again."

// errInvalidParam reports a query parameter that is not of the expected type.
type errInvalidParam struct {
	name  string
	value string
	kind  string
}

func (e *errInvalidParam) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.name, e.kind, e.value)
}

type healthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"}, &s.logger)
}

func (s *Server) handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, notFoundMessage, &s.logger)
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, fmt.Sprintf("The method %s is not allowed for the requested URL.", r.Method), &s.logger)
}

func (s *Server) handleParseSRT(w http.ResponseWriter, r *http.Request) {
	opts, err := processOptions(r.URL.Query())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := opts.Limits.Validate(); err != nil {
		s.fail(w, r, err)
		return
	}

	body, err := readBody(w, r, s.opts.MaxBodyBytes)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	content, err := extractContent(r.Header.Get("Content-Type"), body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	captions, err := s.service.Process(r.Context(), content, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	metrics.RequestsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
	writeJSON(w, http.StatusOK, captions, &s.logger)
}

// processOptions reads char_limit, millis_limit and strip_tags. Empty values
// count as absent.
func processOptions(q url.Values) (models.ProcessOptions, error) {
	var opts models.ProcessOptions

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"char_limit", &opts.Limits.CharLimit},
		{"millis_limit", &opts.Limits.MillisLimit},
	} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, &errInvalidParam{name: p.name, value: raw, kind: "an integer"}
		}
		*p.dst = &v
	}

	if raw := q.Get("strip_tags"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, &errInvalidParam{name: "strip_tags", value: raw, kind: "a boolean"}
		}
		opts.StripTags = v
	}
	return opts, nil
}

// fail maps err to a status code and writes the JSON error body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		paramErr *errInvalidParam
		bodyErr  *errBadBody
	)

	switch {
	case errors.Is(err, errBodyTooLarge):
		metrics.RequestsTotal.WithLabelValues(metrics.StatusBadRequest).Inc()
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", s.opts.MaxBodyBytes), &s.logger)
	case apperrors.IsClientError(err), errors.As(err, &paramErr), errors.As(err, &bodyErr):
		metrics.RequestsTotal.WithLabelValues(metrics.StatusBadRequest).Inc()
		s.logger.Warn().Err(err).Msg("Rejected SRT request")
		writeError(w, http.StatusBadRequest, err.Error(), &s.logger)
	case errors.Is(err, context.Canceled):
		// Client went away; nobody is left to read a response.
		s.logger.Debug().Err(err).Msg("Request cancelled")
	default:
		metrics.RequestsTotal.WithLabelValues(metrics.StatusError).Inc()
		s.logger.Error().Err(err).Msg("Unexpected error while processing SRT request")
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
		writeError(w, http.StatusInternalServerError, internalErrorMessage, &s.logger)
	}
}
