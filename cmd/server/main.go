package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Tyrowin/gochat-bot/internal/server"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg := server.NewConfigFromEnv()
	server.SetConfig(cfg)
	active := server.CurrentConfig()

	logger := newLogger(&active)
	log.Logger = logger

	hub := server.NewHub(server.NewConversation(nil, nil, logger), logger)
	go hub.Run()

	mux := server.SetupRoutes(hub, logger)
	httpServer := server.CreateServer(active.Port, mux)

	go func() {
		logger.Info().
			Str("port", active.Port).
			Str("env", active.Env).
			Str("public_dir", active.PublicDir).
			Msg("starting chatbot server")

		if err := server.StartServer(httpServer); err != nil {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	if err := server.ShutdownServer(httpServer, shutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := hub.Shutdown(shutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("hub shutdown incomplete")
	}

	logger.Info().Msg("server stopped")
}

func newLogger(cfg *server.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
