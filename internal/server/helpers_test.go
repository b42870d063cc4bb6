package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/gochat-bot/internal/bot"
)

const testIndex = "<!DOCTYPE html><title>GoChat Bot</title>"

// newTestPublicDir writes a minimal static site and returns its path.
func newTestPublicDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(testIndex), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('chat');"), 0o600))
	return dir
}

// configureServerForTest applies a config for the duration of the test.
func configureServerForTest(t *testing.T, customize func(cfg *Config)) {
	t.Helper()
	cfg := NewConfig()
	cfg.PublicDir = newTestPublicDir(t)
	if customize != nil {
		customize(cfg)
	}
	SetConfig(cfg)
	t.Cleanup(func() {
		SetConfig(nil)
	})
}

// newTestServer starts a hub and router behind httptest. Replies are sent
// after delay.
func newTestServer(t *testing.T, delay *bot.Delay) (*httptest.Server, *Hub) {
	t.Helper()
	logger := zerolog.Nop()

	hub := NewHub(NewConversation(bot.NewSelector(nil), delay, logger), logger)
	go hub.Run()

	ts := httptest.NewServer(SetupRoutes(hub, logger))
	t.Cleanup(func() {
		_ = hub.Shutdown(2 * time.Second)
		ts.Close()
	})
	return ts, hub
}

func immediateDelay() *bot.Delay {
	return bot.NewDelay(0, 0, nil)
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

// dialTestServer opens a WebSocket to ts and closes it when the test ends.
func dialTestServer(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}

	header := http.Header{}
	header.Set("Origin", ts.URL)

	conn, resp, err := dialer.Dial(wsURL(ts), header)
	if resp != nil {
		_ = resp.Body.Close()
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// sendChat writes a chat message envelope carrying text.
func sendChat(t *testing.T, conn *websocket.Conn, text string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(Envelope{Event: EventChatMessage, Data: ChatMessage{Text: text}}))
}

// readChat reads the next envelope, failing the test after timeout.
func readChat(t *testing.T, conn *websocket.Conn, timeout time.Duration) ChatMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(timeout)))

	var env Envelope
	require.NoError(t, conn.ReadJSON(&env))
	require.Equal(t, EventChatMessage, env.Event)
	return env.Data
}

// requireTimestamp checks ts is an RFC 3339 UTC time.
func requireTimestamp(t *testing.T, ts string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err, "timestamp %q", ts)
	require.True(t, strings.HasSuffix(ts, "Z"), "timestamp %q is not UTC", ts)
	return parsed
}
