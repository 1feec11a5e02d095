// Package server exposes the caption service over HTTP.
package server

import (
	"net"
	"net/http"
	"strconv"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/monasticacademy/srt-to-json-microservice/internal/services"
)

// DefaultMaxBodyBytes caps request bodies when Options.MaxBodyBytes is zero.
const DefaultMaxBodyBytes = 10 << 20

// Options configures the HTTP surface.
type Options struct {
	// APIKey is compared against the X-API-KEY header. Empty rejects every request.
	APIKey string

	// MaxBodyBytes caps the decoded request body.
	MaxBodyBytes int64

	// CORSOrigins lists allowed origins. Empty disables CORS headers.
	CORSOrigins []string

	// Sentry attaches a Sentry hub to each request. sentry.Init must have been called.
	Sentry bool
}

// Server holds the router and its dependencies.
type Server struct {
	service services.CaptionService
	opts    Options
	router  *chi.Mux
	logger  zerolog.Logger
}

// New builds the router with all middleware and routes.
func New(service services.CaptionService, opts Options, logger zerolog.Logger) *Server {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	s := &Server{
		service: service,
		opts:    opts,
		router:  chi.NewRouter(),
		logger:  logger.With().Str("component", "http").Logger(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.accessLog)
	s.router.Use(instrument)
	if s.opts.Sentry {
		s.router.Use(sentryhttp.New(sentryhttp.Options{}).Handle)
	}
	s.router.Use(s.recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Content-Encoding", apiKeyHeader},
			MaxAge:         300,
		}))
	}
	s.router.Use(func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	})
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.With(s.requireAPIKey).Post("/parse_srt", s.handleParseSRT)

	s.router.NotFound(s.handleNotFound)
	s.router.MethodNotAllowed(s.handleMethodNotAllowed)
}

// NewHTTPServer wraps handler in an http.Server listening on address:port.
func NewHTTPServer(address string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(address, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
