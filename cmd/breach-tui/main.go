package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/config"
	"github.com/Bendr-Dev/matrix-code-game/internal/daily"
	"github.com/Bendr-Dev/matrix-code-game/internal/game"
	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
	"github.com/Bendr-Dev/matrix-code-game/internal/tui"
)

func main() {
	dailyMode := flag.Bool("daily", false, "play today's shared board")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the game; logs go to BREACH_LOG or nowhere.
	var out io.Writer = io.Discard
	if path := os.Getenv("BREACH_LOG"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	now := time.Now()
	var rng matrix.Source
	if *dailyMode {
		rng = daily.Source(now, cfg.DailySalt)
	}
	g, err := game.New(cfg.Game, rng, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "new game: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	sound, err := tui.NewSounder()
	if err != nil {
		// Non-fatal, game can run without sound
		log.Warn().Err(err).Msg("audio initialization failed")
	}

	log.Info().Str("gameId", g.ID).Bool("daily", *dailyMode).Msg("starting terminal game")
	tui.New(screen, g, sound).Run()

	sound.Close()
	screen.Fini()
}
