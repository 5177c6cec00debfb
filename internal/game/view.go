package game

import (
	"time"

	"github.com/Bendr-Dev/matrix-code-game/internal/tracker"
)

// View is the read-only rendering model of a game.
type View struct {
	GameID      string         `json:"gameId"`
	Matrix      [][]string     `json:"matrix"`
	Sequences   []SequenceView `json:"sequences"`
	Buffer      []string       `json:"buffer"`
	BufferCount int            `json:"bufferCount"`
	Cursor      Cursor         `json:"cursor"`
	Used        [][]bool       `json:"used"`
	State       State          `json:"state"`
	Remaining   string         `json:"remaining"`
}

// SequenceView is one target sequence with its progress.
type SequenceView struct {
	Values    []string `json:"values"`
	CurrIndex int      `json:"currIndex"`
	Status    string   `json:"status"` // pending | success | failed
}

// Snapshot copies the game into a View. The result shares no memory with g.
func (g *Game) Snapshot(now time.Time) View {
	v := View{
		GameID:      g.ID,
		Matrix:      g.Matrix.Strings(),
		Sequences:   make([]SequenceView, len(g.Tracks)),
		Buffer:      make([]string, len(g.Buffer)),
		BufferCount: g.Config.BufferCount,
		Cursor:      g.Cursor,
		Used:        make([][]bool, len(g.Used)),
		State:       g.State(),
		Remaining:   FormatRemaining(g.Remaining(now)),
	}
	for i, ts := range g.Tracks {
		v.Sequences[i] = SequenceView{
			Values:    ts.Seq.Strings(),
			CurrIndex: ts.CurrIndex,
			Status:    ts.Complete.String(),
		}
	}
	for i, b := range g.Buffer {
		v.Buffer[i] = string(b)
	}
	for i, row := range g.Used {
		v.Used[i] = append([]bool(nil), row...)
	}
	return v
}

// Statuses lists the per-sequence outcomes in display order.
func (g *Game) Statuses() []tracker.Status {
	out := make([]tracker.Status, len(g.Tracks))
	for i, ts := range g.Tracks {
		out[i] = ts.Complete
	}
	return out
}
