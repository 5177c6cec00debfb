// internal/game/types.go
//
// Core type definitions for a single breach game.
// Defines:
//   - Config: grid size, buffer capacity, countdown length.
//   - Cursor: which row or column the next pick must come from.
//   - State:  coarse game state reported to clients.
//   - Game:   everything one game owns, replaced wholesale on Reset.

package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
	"github.com/Bendr-Dev/matrix-code-game/internal/tracker"
)

const (
	DefaultDifficulty  = 5
	DefaultBufferCount = 8
	DefaultStartTime   = 20 * time.Second

	MinDifficulty  = 4
	MaxDifficulty  = 16
	MinBufferCount = 5
)

// ErrInvalidConfig is wrapped by Config.Validate failures.
var ErrInvalidConfig = errors.New("invalid game config")

// Config is fixed for the lifetime of a game.
type Config struct {
	Difficulty  int           // grid dimension
	BufferCount int           // max picks
	StartTime   time.Duration // countdown length
}

// DefaultConfig returns the 5x5 / 8 picks / 20s setup.
func DefaultConfig() Config {
	return Config{
		Difficulty:  DefaultDifficulty,
		BufferCount: DefaultBufferCount,
		StartTime:   DefaultStartTime,
	}
}

// Validate checks the grid size and countdown, and that random walks of
// BufferCount picks reliably fit the drawable (Difficulty-1)x(Difficulty-1)
// region. Below difficulty 4 no walk reaches MinBufferCount picks.
func (c Config) Validate() error {
	if c.Difficulty < MinDifficulty || c.Difficulty > MaxDifficulty {
		return fmt.Errorf("%w: difficulty %d not in [%d,%d]", ErrInvalidConfig, c.Difficulty, MinDifficulty, MaxDifficulty)
	}
	longest := matrix.MaxPathLength(c.Difficulty)
	if c.BufferCount < MinBufferCount || c.BufferCount > longest {
		return fmt.Errorf("%w: buffer count %d not in [%d,%d]", ErrInvalidConfig, c.BufferCount, MinBufferCount, longest)
	}
	if !matrix.Walkable(c.Difficulty, c.BufferCount) {
		return fmt.Errorf("%w: %d picks rarely fit a %dx%d grid", ErrInvalidConfig, c.BufferCount, c.Difficulty, c.Difficulty)
	}
	if c.StartTime <= 0 {
		return fmt.Errorf("%w: start time must be positive", ErrInvalidConfig)
	}
	return nil
}

// Cursor tracks the line the next pick must lie on.
// When ExpectingRow is set the pick must be in Row, otherwise in Col.
type Cursor struct {
	ExpectingRow bool `json:"expectingRow"`
	Row          int  `json:"row"`
	Col          int  `json:"col"`
}

// allows reports whether (row, col) lies on the active line.
func (c Cursor) allows(row, col int) bool {
	if c.ExpectingRow {
		return row == c.Row
	}
	return col == c.Col
}

// advance fixes the picked column (or row) and flips direction.
func (c *Cursor) advance(row, col int) {
	if c.ExpectingRow {
		c.Col = col
	} else {
		c.Row = row
	}
	c.ExpectingRow = !c.ExpectingRow
}

// State is a coarse string representation of the game.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game holds the state of a single game session.
type Game struct {
	ID         string
	Config     Config
	Matrix     matrix.Matrix
	Tracks     []tracker.TrackState // one per target sequence, sorted by length
	Buffer     []matrix.ByteValue   // picks so far
	Used       [][]bool             // cells already picked
	Cursor     Cursor
	StartedAt  time.Time
	Deadline   time.Time
	FinishedAt time.Time // zero while playing
	TimedOut   bool

	rng matrix.Source
}
