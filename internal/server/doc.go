// Package server implements the HTTP and WebSocket server for the GoChat bot.
//
// The implementation is organized into specialized files for configuration,
// the client registry (Hub), per-connection pumps, the chat conversation,
// routing, and HTTP handlers to keep the codebase maintainable and testable.
package server
