package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)

	SecurityHeaders(okHandler()).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "SAMEORIGIN", rr.Header().Get("X-Frame-Options"))
	assert.Contains(t, rr.Header().Get("Content-Security-Policy"), "connect-src 'self' ws: wss:")
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}

func TestLoggerRecordsRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := chimw.RequestID(Logger(logger)(okHandler()))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	out := buf.String()
	assert.Contains(t, out, `"path":"/health"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"request_id"`)
	assert.Contains(t, out, "request completed")
}

func TestMetricsCapturesStatus(t *testing.T) {
	var seen *statusWriter
	handler := Metrics(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		sw, ok := w.(*statusWriter)
		require.True(t, ok)
		seen = sw
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/missing.css", http.NoBody))

	require.NotNil(t, seen)
	assert.Equal(t, http.StatusNotFound, seen.status)
	assert.Same(t, rr, seen.Unwrap())
}

func TestStatusWriterHijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder()}
	_, _, err := sw.Hijack()
	assert.Error(t, err)
}

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"/":              "/",
		"/health":        "/health",
		"/ws":            "/ws",
		"/metrics":       "/metrics",
		"/app.js":        "/static",
		"/css/style.css": "/static",
	}
	for in, want := range tests {
		assert.Equal(t, want, normalizePath(in), in)
	}
}
