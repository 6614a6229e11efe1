package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/cockpit/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for
// endpoint.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(sw.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if sw.status < http.StatusBadRequest {
			return
		}
		class, severity := classify(sw.status)
		metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
		metrics.RecordErrorByType(class, severity)
		metrics.RecordErrorLatency("http", class, durationMs)
	}
}

// classify maps an error status to the metric labels used across the API.
func classify(status int) (class, severity string) {
	switch status {
	case http.StatusNotFound:
		return "not_found", "low"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed", "low"
	case http.StatusRequestEntityTooLarge:
		return "too_large", "medium"
	case http.StatusBadGateway:
		// A binding action failed downstream of the trigger.
		return "dispatch_failed", "high"
	}
	if status >= http.StatusInternalServerError {
		return "server_error", "high"
	}
	return "client_error", "medium"
}

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}
