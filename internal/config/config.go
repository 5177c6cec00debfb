// internal/config/config.go
//
// Startup configuration, read from the environment once.
// `.env` files are loaded by the entrypoints (godotenv) before Load runs.
//
// Environment variables:
//   PORT=5175               HTTP listen port
//   LOG_LEVEL=info          zerolog level
//   CLIENT_ORIGIN=...       CORS origin (default http://localhost:5173)
//   DIFFICULTY=5            grid dimension
//   BUFFER_COUNT=8          max picks per game
//   START_TIME=20           countdown in seconds (fractions allowed)
//   SESSION_TTL=15m         idle sessions are dropped after this
//   DAILY_SALT=...          salt for the daily puzzle seed

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Bendr-Dev/matrix-code-game/internal/game"
)

// Config is the full process configuration.
type Config struct {
	Port         string
	LogLevel     string
	ClientOrigin string
	SessionTTL   time.Duration
	DailySalt    string
	Game         game.Config
}

// Load reads the environment, applies defaults and validates the result.
func Load() (Config, error) {
	c := Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		DailySalt:    getEnv("DAILY_SALT", "local_dev_salt"),
		Game:         game.DefaultConfig(),
	}

	var err error
	if c.Game.Difficulty, err = envInt("DIFFICULTY", c.Game.Difficulty); err != nil {
		return c, err
	}
	if c.Game.BufferCount, err = envInt("BUFFER_COUNT", c.Game.BufferCount); err != nil {
		return c, err
	}
	secs, err := envFloat("START_TIME", c.Game.StartTime.Seconds())
	if err != nil {
		return c, err
	}
	c.Game.StartTime = time.Duration(secs * float64(time.Second))

	if c.SessionTTL, err = envDuration("SESSION_TTL", 15*time.Minute); err != nil {
		return c, err
	}
	if c.SessionTTL <= 0 {
		return c, fmt.Errorf("SESSION_TTL must be positive")
	}

	if err := c.Game.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func envFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return f, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", k, err)
	}
	return d, nil
}
