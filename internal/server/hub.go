// Package server coordinates client registration, outbound delivery, and
// connection cleanup for the GoChat WebSocket system via the Hub type.
package server

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tyrowin/gochat-bot/internal/metrics"
)

// Hub tracks live WebSocket clients. It starts each client's pumps, runs
// the conversation lifecycle hooks, and guards delivery so that a message
// is never queued on a closed send channel.
type Hub struct {
	clients      map[*Client]bool
	register     chan *Client
	unregister   chan *Client
	mutex        sync.RWMutex
	wg           sync.WaitGroup
	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	conversation *Conversation
	logger       zerolog.Logger
}

// NewHub creates and initializes a new Hub instance. A nil conversation uses
// the default selector and typing delay.
func NewHub(conversation *Conversation, logger zerolog.Logger) *Hub {
	if conversation == nil {
		conversation = NewConversation(nil, nil, logger)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:      make(map[*Client]bool),
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
		conversation: conversation,
		logger:       logger,
	}
}

// GetRegisterChan returns the channel used for registering new clients to the hub.
// This channel is write-only from the caller's perspective.
func (h *Hub) GetRegisterChan() chan<- *Client {
	return h.register
}

// GetUnregisterChan returns the channel used for unregistering clients from the hub.
// This channel is write-only from the caller's perspective.
func (h *Hub) GetUnregisterChan() chan<- *Client {
	return h.unregister
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// deliver queues payload on client's send channel. The read lock is held for
// the whole send so unregistration cannot close the channel underneath it.
func (h *Hub) deliver(client *Client, payload []byte) error {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, exists := h.clients[client]; !exists || client.closed {
		return ErrClientClosed
	}

	select {
	case client.send <- payload:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// registerClient hands client to Run, or closes its socket when the hub has
// already stopped.
func (h *Hub) registerClient(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		if client.conn != nil {
			_ = client.conn.Close()
		}
		return false
	}
}

// unregisterClient is called by readPump on exit; it must not block once
// Run has returned.
func (h *Hub) unregisterClient(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Run starts the hub's main event loop, handling client registration and
// unregistration. This method should be called in a separate goroutine as it
// runs until Shutdown.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.shutdownClients()
			return

		case client := <-h.register:
			if client == nil {
				h.logger.Warn().Msg("received nil client registration; skipping")
				continue
			}
			h.add(client)

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// add registers client, queues the welcome message, then launches its pumps.
// The welcome is queued before readPump starts so it always precedes any echo.
func (h *Hub) add(client *Client) {
	h.mutex.Lock()
	client.closed = false
	h.clients[client] = true
	clientCount := len(h.clients)
	h.mutex.Unlock()

	metrics.ActiveConnections.Inc()
	metrics.ConnectionsTotal.Inc()
	h.logger.Info().Str("client_id", client.id).Str("remote_addr", client.addr).Int("clients", clientCount).Msg("client registered")

	h.conversation.Start(client)

	if client.conn == nil {
		return
	}

	h.wg.Add(2)
	go func() {
		defer h.wg.Done()
		client.writePump()
	}()
	go func() {
		defer h.wg.Done()
		client.readPump()
	}()
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mutex.Unlock()
		return
	}
	delete(h.clients, client)
	client.closed = true
	clientCount := len(h.clients)
	h.mutex.Unlock()

	// Close the channel after releasing the lock
	close(client.send)
	metrics.ActiveConnections.Dec()
	h.logger.Info().Str("client_id", client.id).Int("clients", clientCount).Msg("client unregistered")

	h.conversation.End(client)
}

// shutdownClients unregisters and closes every active client. Closing the
// send channels stops the write pumps; the read pumps exit on the closed
// sockets and their unregister calls return through done.
func (h *Hub) shutdownClients() {
	h.logger.Info().Msg("shutting down all client connections")

	h.mutex.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mutex.RUnlock()

	for _, client := range clients {
		h.remove(client)
		if client.conn == nil {
			continue
		}
		if err := client.conn.Close(); err != nil && !isExpectedCloseError(err) {
			h.logger.Error().Err(err).Str("client_id", client.id).Msg("error closing client connection")
		}
	}

	h.logger.Info().Int("closed", len(clients)).Msg("closed client connections")
}

// Shutdown initiates graceful shutdown of the hub and waits for all goroutines to complete.
// It returns after all client connections are closed and goroutines have finished,
// or when the timeout is reached.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.logger.Info().Msg("initiating hub shutdown")

	h.cancel()
	<-h.done

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info().Msg("hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		h.logger.Warn().Msg("hub shutdown timeout reached, some goroutines may still be running")
		return context.DeadlineExceeded
	}
}
