package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthHandler verifies the JSON health body.
func TestHealthHandler(t *testing.T) {
	rr := httptest.NewRecorder()
	HealthHandler(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "OK", body.Status)
	ts := requireTimestamp(t, body.Timestamp)
	assert.WithinDuration(t, time.Now(), ts, 5*time.Second)
}

// TestRoutes exercises the router end to end over HTTP.
func TestRoutes(t *testing.T) {
	configureServerForTest(t, nil)
	ts, _ := newTestServer(t, immediateDelay())

	tests := []struct {
		name        string
		method      string
		path        string
		wantStatus  int
		wantBody    string
		contentType string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, `"status":"OK"`, "application/json"},
		{"index", http.MethodGet, "/", http.StatusOK, testIndex, "text/html; charset=utf-8"},
		{"static asset", http.MethodGet, "/app.js", http.StatusOK, "console.log", ""},
		{"missing asset", http.MethodGet, "/nope.css", http.StatusNotFound, "", ""},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK, "gochat_http_requests_total", ""},
		{"websocket wrong method", http.MethodPost, "/ws", http.StatusMethodNotAllowed, "only accepts GET", ""},
	}

	client := &http.Client{Timeout: 5 * time.Second}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+tt.path, http.NoBody)
			require.NoError(t, err)

			resp, err := client.Do(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.wantBody)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
		})
	}
}

// TestRoutesSecurityHeaders verifies headers from the middleware chain.
func TestRoutesSecurityHeaders(t *testing.T) {
	configureServerForTest(t, nil)
	ts, _ := newTestServer(t, immediateDelay())

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.NotEmpty(t, resp.Header.Get("Content-Security-Policy"))
}

// TestRoutesCORSPreflight verifies the CORS handler answers preflights.
func TestRoutesCORSPreflight(t *testing.T) {
	configureServerForTest(t, nil)
	ts, _ := newTestServer(t, immediateDelay())

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/health", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

// TestCreateServer verifies the timeouts applied to the HTTP server.
func TestCreateServer(t *testing.T) {
	mux := http.NewServeMux()
	srv := CreateServer(":3000", mux)

	assert.Equal(t, ":3000", srv.Addr)
	assert.Equal(t, mux, srv.Handler)
	assert.Equal(t, 15*time.Second, srv.ReadTimeout)
	assert.Equal(t, 15*time.Second, srv.WriteTimeout)
	assert.Equal(t, 60*time.Second, srv.IdleTimeout)
}

// TestShutdownServer verifies a started server stops cleanly.
func TestShutdownServer(t *testing.T) {
	srv := CreateServer("127.0.0.1:0", http.NewServeMux())

	errCh := make(chan error, 1)
	go func() { errCh <- StartServer(srv) }()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, ShutdownServer(srv, time.Second))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("StartServer did not return after shutdown")
	}
}
