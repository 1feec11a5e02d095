package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getCounterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	return getCounterValue(c)
}

func TestMetrics_RequestsTotal(t *testing.T) {
	for _, status := range []string{StatusSuccess, StatusBadRequest, StatusUnauthorized, StatusError} {
		before := getCounterVecValue(RequestsTotal, status)
		RequestsTotal.WithLabelValues(status).Inc()
		if after := getCounterVecValue(RequestsTotal, status); after != before+1 {
			t.Errorf("%s: expected counter to increment by 1, got diff %.0f", status, after-before)
		}
	}
}

func TestMetrics_CaptionCounters(t *testing.T) {
	parsed := getCounterValue(CaptionsParsedTotal)
	emitted := getCounterValue(CaptionsEmittedTotal)

	CaptionsParsedTotal.Add(4)
	CaptionsEmittedTotal.Add(2)

	if diff := getCounterValue(CaptionsParsedTotal) - parsed; diff != 4 {
		t.Errorf("parsed diff = %.0f, want 4", diff)
	}
	if diff := getCounterValue(CaptionsEmittedTotal) - emitted; diff != 2 {
		t.Errorf("emitted diff = %.0f, want 2", diff)
	}
}

func TestMetrics_ProcessDuration(t *testing.T) {
	var before dto.Metric
	if err := ProcessDuration.Write(&before); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ProcessDuration.Observe(0.01)

	var after dto.Metric
	if err := ProcessDuration.Write(&after); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if after.GetHistogram().GetSampleCount() != before.GetHistogram().GetSampleCount()+1 {
		t.Error("Expected one more observation")
	}
}

func TestMetrics_NewHTTPServer(t *testing.T) {
	srv := NewHTTPServer("localhost", 9100)

	if srv.Addr != "localhost:9100" {
		t.Errorf("Expected address 'localhost:9100', got '%s'", srv.Addr)
	}
	if srv.Handler == nil {
		t.Fatal("Expected handler to be set")
	}

	RequestsTotal.WithLabelValues(StatusSuccess).Inc()
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "srt_requests_total") {
		t.Error("Expected srt_requests_total in /metrics output")
	}
}

func TestMetrics_NewHTTPServer_DefaultPort(t *testing.T) {
	srv := NewHTTPServer("0.0.0.0", 0)

	if srv.Addr != "0.0.0.0:9090" {
		t.Errorf("Expected address '0.0.0.0:9090', got '%s'", srv.Addr)
	}
}
