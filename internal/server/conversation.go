// Package server drives the per-connection chat exchange: welcome on connect,
// echo on every message, and a delayed bot reply.
package server

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/Tyrowin/gochat-bot/internal/bot"
	"github.com/Tyrowin/gochat-bot/internal/metrics"
)

// Conversation implements the chat exchange for any Peer. It keeps no
// per-connection state, so a single instance serves every client.
type Conversation struct {
	selector *bot.Selector
	delay    *bot.Delay
	logger   zerolog.Logger
	now      func() time.Time
}

// NewConversation creates a Conversation. Nil selector or delay fall back to
// the randomly seeded defaults.
func NewConversation(selector *bot.Selector, delay *bot.Delay, logger zerolog.Logger) *Conversation {
	if selector == nil {
		selector = bot.NewSelector(nil)
	}
	if delay == nil {
		delay = bot.DefaultDelay(nil)
	}
	// Export every category series from the start, even at zero.
	for _, c := range bot.Categories() {
		metrics.BotReplies.WithLabelValues(string(c))
	}
	return &Conversation{
		selector: selector,
		delay:    delay,
		logger:   logger,
		now:      time.Now,
	}
}

// Start greets a freshly connected peer.
func (cv *Conversation) Start(p Peer) {
	cv.logger.Info().Str("client_id", p.ID()).Msg("user connected")
	cv.push(p, bot.WelcomeMessage, RoleBot)
}

// Handle echoes text back to the peer as a user message, then schedules the
// bot reply after the typing delay. Replies are not ordered relative to
// each other.
func (cv *Conversation) Handle(p Peer, text string) {
	cv.logger.Info().Str("client_id", p.ID()).Str("text", text).Msg("message received")
	metrics.MessagesReceived.Inc()

	cv.push(p, text, RoleUser)

	wait := cv.delay.Next()
	metrics.ReplyDelay.Observe(wait.Seconds())
	time.AfterFunc(wait, func() {
		category := cv.selector.Classify(text)
		if cv.push(p, cv.selector.Reply(category), RoleBot) {
			metrics.BotReplies.WithLabelValues(string(category)).Inc()
		}
	})
}

// End logs the disconnect. Replies still pending for p fire later and are
// dropped by Send.
func (cv *Conversation) End(p Peer) {
	cv.logger.Info().Str("client_id", p.ID()).Msg("user disconnected")
}

// push stamps and sends one message, reporting whether it was queued.
func (cv *Conversation) push(p Peer, text string, sender Role) bool {
	err := p.Send(newChatMessage(text, sender, cv.now()))
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, ErrClientClosed):
		metrics.DroppedMessages.WithLabelValues("closed").Inc()
		cv.logger.Debug().Str("client_id", p.ID()).Str("sender", string(sender)).Msg("dropping message for closed connection")
	case errors.Is(err, ErrSendBufferFull):
		metrics.DroppedMessages.WithLabelValues("buffer_full").Inc()
		cv.logger.Warn().Str("client_id", p.ID()).Msg("send buffer full, dropping message")
	default:
		metrics.DroppedMessages.WithLabelValues("encode").Inc()
		cv.logger.Error().Err(err).Str("client_id", p.ID()).Msg("failed to send message")
	}
	return false
}
