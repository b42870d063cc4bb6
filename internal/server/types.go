// Package server defines the chat payload types exchanged over the WebSocket
// and utility helpers shared by client, hub, and conversation logic.
package server

import (
	"errors"
	"strings"
	"time"
)

// EventChatMessage is the only event name carried in either direction.
const EventChatMessage = "chat message"

// timestampLayout renders UTC times with millisecond precision and a Z suffix.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Role identifies who authored a ChatMessage.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

var (
	// ErrClientClosed is returned when sending to a connection that has
	// already been unregistered.
	ErrClientClosed = errors.New("client connection closed")
	// ErrSendBufferFull is returned when a client's outbound queue is full.
	ErrSendBufferFull = errors.New("client send buffer full")
)

// ChatMessage is a single chat line. Inbound payloads only need Text.
type ChatMessage struct {
	Text      string `json:"text"`
	Sender    Role   `json:"sender,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Envelope frames one named event per WebSocket text message.
type Envelope struct {
	Event string      `json:"event"`
	Data  ChatMessage `json:"data"`
}

// Peer is the outbound side of one connection as seen by a Conversation.
type Peer interface {
	ID() string
	Send(msg ChatMessage) error
}

func newChatMessage(text string, sender Role, now time.Time) ChatMessage {
	return ChatMessage{
		Text:      text,
		Sender:    sender,
		Timestamp: formatTimestamp(now),
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
