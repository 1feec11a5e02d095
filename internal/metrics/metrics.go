package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Request outcome labels for RequestsTotal.
const (
	StatusSuccess      = "success"
	StatusBadRequest   = "bad_request"
	StatusUnauthorized = "unauthorized"
	StatusError        = "error"
)

// Caption processing metrics
var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "srt_requests_total",
			Help: "Total number of SRT conversion requests by outcome.",
		},
		[]string{"status"},
	)

	CaptionsParsedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "srt_captions_parsed_total",
			Help: "Total number of captions read from SRT input.",
		},
	)

	CaptionsEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "srt_captions_emitted_total",
			Help: "Total number of captions returned after combining.",
		},
	)

	ProcessDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "srt_process_duration_seconds",
			Help:    "Time spent parsing and combining a document.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "code"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		CaptionsParsedTotal,
		CaptionsEmittedTotal,
		ProcessDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	)
}
