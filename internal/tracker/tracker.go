// internal/tracker/tracker.go
//
// Progress tracking for target sequences.
//
// Every accepted buffer pick is matched against all sequences at once.
// Each sequence runs its own small state machine:
//
//   Pending --(last element matched)--> Success
//   Pending --(not enough buffer left / timeout)--> Failed
//
// Success and Failed are terminal for the rest of the game.

package tracker

import (
	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
	"github.com/Bendr-Dev/matrix-code-game/internal/sequence"
)

// Status is the outcome of one sequence.
type Status int

const (
	Failed  Status = -1
	Pending Status = 0
	Success Status = 1
)

// String returns the lowercase name used in API payloads.
func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "pending"
	}
}

// TrackState is the match progress of a single sequence.
type TrackState struct {
	Seq       sequence.Sequence // target values
	CurrIndex int               // last matched position, -1 = nothing matched
	Complete  Status
}

// NewStates creates fresh Pending states for seqs, in the same order.
func NewStates(seqs []sequence.Sequence) []TrackState {
	out := make([]TrackState, len(seqs))
	for i, s := range seqs {
		out[i] = TrackState{Seq: s, CurrIndex: -1, Complete: Pending}
	}
	return out
}

// Update feeds one newly appended buffer value b into every Pending state.
// bufferLen is the buffer length including b; bufferCount is its capacity.
func Update(states []TrackState, b matrix.ByteValue, bufferLen, bufferCount int) {
	for i := range states {
		advance(&states[i], b)
		checkCapacity(&states[i], bufferCount-bufferLen)
	}
}

// advance applies the match rules to a single state.
func advance(ts *TrackState, b matrix.ByteValue) {
	if ts.Complete != Pending {
		return
	}
	next := ts.CurrIndex + 1
	switch {
	case next < len(ts.Seq) && ts.Seq[next] == b:
		ts.CurrIndex = next
		if ts.CurrIndex+1 == len(ts.Seq) {
			ts.Complete = Success
		}
	case ts.CurrIndex != -1 && ts.Seq[ts.CurrIndex] == b:
		// repeat of the element just matched; keep progress
	case ts.CurrIndex != -1 && ts.Seq[0] == b:
		ts.CurrIndex = 0
	default:
		ts.CurrIndex = -1
	}
}

// checkCapacity fails a Pending state once the remaining buffer slots
// can no longer hold the elements still to be matched.
func checkCapacity(ts *TrackState, remaining int) {
	if ts.Complete != Pending {
		return
	}
	if remaining < ts.Remaining() {
		ts.Complete = Failed
	}
}

// Timeout fails every state that is still Pending.
func Timeout(states []TrackState) {
	for i := range states {
		if states[i].Complete == Pending {
			states[i].Complete = Failed
		}
	}
}

// Settled reports whether no state is Pending.
func Settled(states []TrackState) bool {
	for _, ts := range states {
		if ts.Complete == Pending {
			return false
		}
	}
	return true
}

// AnySuccess reports whether at least one state reached Success.
func AnySuccess(states []TrackState) bool {
	for _, ts := range states {
		if ts.Complete == Success {
			return true
		}
	}
	return false
}

// Remaining is how many elements of ts are still unmatched.
func (ts TrackState) Remaining() int {
	return len(ts.Seq) - (ts.CurrIndex + 1)
}
