package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/config"
	"github.com/Bendr-Dev/matrix-code-game/internal/httpserver"
	"github.com/Bendr-Dev/matrix-code-game/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	mem := store.NewMemoryStore()
	defer mem.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go store.Maintain(ctx, mem, 30*time.Second, cfg.SessionTTL)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     httpserver.New(mem, cfg).Router(),
		ReadTimeout: 5 * time.Second,
		IdleTimeout: 30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http server shutdown")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Int("difficulty", cfg.Game.Difficulty).
		Int("bufferCount", cfg.Game.BufferCount).
		Dur("startTime", cfg.Game.StartTime).
		Msg("starting go-server")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped gracefully")
}
