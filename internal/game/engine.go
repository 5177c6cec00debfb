// internal/game/engine.go
//
// Game engine for a single breach session.
// Responsibilities:
//   - Create/reset games: matrix, target sequences, tracker states, countdown.
//   - Validate and apply picks (finished, time, bounds, active line, reuse).
//   - Feed accepted picks to the tracker and report playing → won/lost.
//
// Notes:
//   - A Game is single-owner and not safe for concurrent use; the session
//     package serialises access.
//   - randomID() is a compact hex identifier for correlating server state.

package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
	"github.com/Bendr-Dev/matrix-code-game/internal/sequence"
	"github.com/Bendr-Dev/matrix-code-game/internal/tracker"
)

var (
	ErrFinished    = errors.New("game finished")
	ErrTimeUp      = errors.New("time is up")
	ErrOutOfBounds = errors.New("cell out of bounds")
	ErrOffLine     = errors.New("cell not on active line")
	ErrCellUsed    = errors.New("cell already used")
)

// New constructs a game. A nil rng gets a freshly seeded PCG source.
func New(cfg Config, rng matrix.Source, now time.Time) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewSource()
	}
	g := &Game{ID: randomID(), Config: cfg, rng: rng}
	if err := g.Reset(now); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset discards the current puzzle and progress and starts a new round
// with the same config. The countdown restarts at now.
func (g *Game) Reset(now time.Time) error {
	d := g.Config.Difficulty
	m := matrix.Generate(d, g.rng)
	seqs, err := sequence.Create(g.Config.BufferCount, m, d, g.rng)
	if err != nil {
		return fmt.Errorf("create sequences: %w", err)
	}

	used := make([][]bool, d)
	for i := range used {
		used[i] = make([]bool, d)
	}

	g.Matrix = m
	g.Tracks = tracker.NewStates(seqs)
	g.Buffer = make([]matrix.ByteValue, 0, g.Config.BufferCount)
	g.Used = used
	g.Cursor = Cursor{ExpectingRow: true}
	g.StartedAt = now
	g.Deadline = now.Add(g.Config.StartTime)
	g.FinishedAt = time.Time{}
	g.TimedOut = false
	return nil
}

// Select applies a pick at (row, col) made at time now.
// Returns the resulting state, or an error if the pick was rejected.
//
// Validation rules:
//   - Game must not be finished.
//   - The countdown must not have run out (an expired game is timed out here).
//   - The cell must exist, lie on the active line and not be used yet.
func (g *Game) Select(row, col int, now time.Time) (State, error) {
	if g.finished() {
		return g.State(), ErrFinished
	}
	if !now.Before(g.Deadline) {
		g.OnTimeout()
		return g.State(), ErrTimeUp
	}
	b, ok := g.Matrix.At(row, col)
	if !ok {
		return g.State(), fmt.Errorf("%w: (%d,%d)", ErrOutOfBounds, row, col)
	}
	if !g.Cursor.allows(row, col) {
		return g.State(), fmt.Errorf("%w: (%d,%d)", ErrOffLine, row, col)
	}
	if g.Used[row][col] {
		return g.State(), fmt.Errorf("%w: (%d,%d)", ErrCellUsed, row, col)
	}

	g.Used[row][col] = true
	g.Cursor.advance(row, col)
	g.OnBufferAppend(b)
	if g.finished() {
		g.FinishedAt = now
	}
	return g.State(), nil
}

// OnBufferAppend records one accepted pick and updates every sequence.
func (g *Game) OnBufferAppend(b matrix.ByteValue) {
	if len(g.Buffer) >= g.Config.BufferCount {
		return
	}
	g.Buffer = append(g.Buffer, b)
	tracker.Update(g.Tracks, b, len(g.Buffer), g.Config.BufferCount)
}

// OnTimeout fails every pending sequence and ends the game.
func (g *Game) OnTimeout() {
	if g.finished() {
		return
	}
	tracker.Timeout(g.Tracks)
	g.TimedOut = true
	g.FinishedAt = g.Deadline
}

// State reports playing while any sequence is pending; afterwards the game
// is won if at least one sequence succeeded.
func (g *Game) State() State {
	if !g.finished() {
		return StatePlaying
	}
	if tracker.AnySuccess(g.Tracks) {
		return StateWon
	}
	return StateLost
}

func (g *Game) finished() bool {
	return g.TimedOut || tracker.Settled(g.Tracks)
}

// Remaining is the countdown left at now; it stops once the game ends.
func (g *Game) Remaining(now time.Time) time.Duration {
	if !g.FinishedAt.IsZero() {
		now = g.FinishedAt
	}
	if d := g.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// FormatRemaining renders a countdown as seconds with two decimals ("0.00" floor).
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.2f", d.Seconds())
}

// NewSource returns a PCG source seeded from crypto/rand.
func NewSource() *rand.Rand {
	var b [16]byte
	if _, err := crand.Read(b[:]); err != nil {
		log.Error().Err(err).Msg("crypto/rand seed failed, seeding from clock")
		binary.LittleEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	}
	return rand.New(rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:])))
}

// randomID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func randomID() string {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		log.Error().Err(err).Msg("crypto/rand id failed, using clock")
		binary.BigEndian.PutUint64(b[:], uint64(time.Now().UnixNano()))
	}
	return hex.EncodeToString(b[:])
}
