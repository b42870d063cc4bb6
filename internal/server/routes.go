// Package server wires HTTP handlers and middleware into a chi router for
// the GoChat application.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Tyrowin/gochat-bot/internal/middleware"
)

// SetupRoutes configures and returns the application router: health check,
// metrics, the WebSocket endpoint, and the static site under the configured
// public directory.
func SetupRoutes(h *Hub, logger zerolog.Logger) *chi.Mux {
	cfg := CurrentConfig()
	r := chi.NewRouter()

	// Metrics first to capture all requests
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/ws", WebSocketHandler(h))

	// The WebSocket route stays outside Compress so the upgrade can hijack
	// an unwrapped connection.
	r.Group(func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Get("/health", HealthHandler)
		r.Get("/", IndexHandler(cfg.PublicDir))
		r.Handle("/*", StaticHandler(cfg.PublicDir))
	})

	return r
}
