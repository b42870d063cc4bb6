// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gochat_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Connection metrics
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gochat_active_connections",
			Help: "WebSocket connections currently registered",
		},
	)

	ConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_connections_total",
			Help: "Total WebSocket connections accepted",
		},
	)

	// Chat metrics
	MessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gochat_messages_received_total",
			Help: "Total chat messages received from clients",
		},
	)

	BotReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_bot_replies_total",
			Help: "Total bot replies sent",
		},
		[]string{"category"},
	)

	ReplyDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gochat_reply_delay_seconds",
			Help:    "Simulated typing delay before a bot reply",
			Buckets: []float64{.5, 1, 1.5, 2, 2.5, 3},
		},
	)

	DroppedMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gochat_dropped_messages_total",
			Help: "Outbound chat messages that could not be queued",
		},
		[]string{"reason"}, // "closed", "buffer_full", "encode"
	)
)
