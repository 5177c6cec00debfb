package tracker

import (
	"testing"

	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
	"github.com/Bendr-Dev/matrix-code-game/internal/sequence"
)

// feed appends values one by one, the way the game orchestrator does.
func feed(states []TrackState, bufferCount int, vals ...matrix.ByteValue) int {
	for i, v := range vals {
		Update(states, v, i+1, bufferCount)
	}
	return len(vals)
}

func TestExactOrderSucceedsOnLastElement(t *testing.T) {
	seq := sequence.Sequence{"1C", "55", "BD"}
	states := NewStates([]sequence.Sequence{seq})

	Update(states, "1C", 1, 8)
	if states[0].Complete != Pending || states[0].CurrIndex != 0 {
		t.Fatalf("after 1: %+v", states[0])
	}
	Update(states, "55", 2, 8)
	if states[0].Complete != Pending || states[0].CurrIndex != 1 {
		t.Fatalf("after 2: %+v", states[0])
	}
	Update(states, "BD", 3, 8)
	if states[0].Complete != Success || states[0].CurrIndex != 2 {
		t.Fatalf("after 3: %+v", states[0])
	}
}

func TestScenarioShortSequenceSuccess(t *testing.T) {
	short := sequence.Sequence{"E9", "1C"}
	long := sequence.Sequence{"55", "55", "7A"}
	states := NewStates([]sequence.Sequence{short, long})

	feed(states, 8, "E9", "1C")
	if got := states[0]; got.CurrIndex != 1 || got.Complete != Success {
		t.Fatalf("short = %+v", got)
	}
	if states[1].Complete != Pending {
		t.Fatalf("long = %+v", states[1])
	}
}

func TestRepeatOfCurrentElementKeepsProgress(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB", "CC"}})
	feed(states, 8, "AA", "BB", "BB")
	if states[0].CurrIndex != 1 || states[0].Complete != Pending {
		t.Fatalf("got %+v", states[0])
	}
	Update(states, "CC", 4, 8)
	if states[0].Complete != Success {
		t.Fatalf("got %+v", states[0])
	}
}

func TestMismatchOnFirstElementRestartsAtZero(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB", "CC"}})
	feed(states, 8, "AA", "BB", "AA")
	if states[0].CurrIndex != 0 {
		t.Fatalf("expected restart at 0, got %+v", states[0])
	}
}

func TestMismatchResetsToMinusOne(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB", "CC"}})
	feed(states, 8, "AA", "BB", "DD")
	if states[0].CurrIndex != -1 || states[0].Complete != Pending {
		t.Fatalf("got %+v", states[0])
	}
}

func TestCapacityFailureFromNoProgress(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB", "CC"}})
	// 6 of 8 slots used with no progress: 2 left < 3 needed.
	feed(states, 8, "00", "00", "00", "00", "00")
	if states[0].Complete != Pending {
		t.Fatalf("failed too early: %+v", states[0])
	}
	Update(states, "00", 6, 8)
	if states[0].Complete != Failed {
		t.Fatalf("got %+v", states[0])
	}
}

func TestRemainingTracksProgress(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB", "CC"}})
	if r := states[0].Remaining(); r != 3 {
		t.Fatalf("fresh: %d", r)
	}
	feed(states, 8, "AA", "BB")
	if r := states[0].Remaining(); r != 1 {
		t.Fatalf("after two matches: %d", r)
	}
}

// A tolerated repeat keeps progress but still spends a slot.
func TestCapacityFailureOnRepeat(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB", "CC"}})
	feed(states, 4, "AA", "AA")
	if states[0].Complete != Pending || states[0].CurrIndex != 0 {
		t.Fatalf("got %+v", states[0])
	}
	Update(states, "AA", 3, 4)
	// 1 slot left, 2 still needed.
	if states[0].Complete != Failed || states[0].CurrIndex != 0 {
		t.Fatalf("got %+v", states[0])
	}
}

func TestCompletingOnLastSlotIsSuccess(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA", "BB"}})
	feed(states, 3, "00", "AA", "BB")
	if states[0].Complete != Success {
		t.Fatalf("got %+v", states[0])
	}
}

func TestTerminalStatesDoNotChange(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA"}, {"BB", "CC", "DD"}})
	Update(states, "AA", 1, 3)
	if states[0].Complete != Success {
		t.Fatalf("got %+v", states[0])
	}
	if states[1].Complete != Failed {
		t.Fatalf("expected capacity failure, got %+v", states[1])
	}
	Update(states, "BB", 2, 3)
	Timeout(states)
	if states[0].Complete != Success || states[0].CurrIndex != 0 {
		t.Fatalf("success changed: %+v", states[0])
	}
	if states[1].Complete != Failed || states[1].CurrIndex != -1 {
		t.Fatalf("failure changed: %+v", states[1])
	}
}

func TestTimeoutFailsOnlyPending(t *testing.T) {
	states := NewStates([]sequence.Sequence{{"AA"}, {"BB", "CC", "DD"}})
	Update(states, "AA", 1, 8)
	Update(states, "BB", 2, 8)
	if states[1].CurrIndex != 0 || states[1].Complete != Pending {
		t.Fatalf("setup: %+v", states[1])
	}
	Timeout(states)
	if states[0].Complete != Success {
		t.Fatalf("success changed: %+v", states[0])
	}
	if states[1].Complete != Failed {
		t.Fatalf("pending not failed: %+v", states[1])
	}
}

func TestSequencesAreIndependent(t *testing.T) {
	a := sequence.Sequence{"AA", "BB"}
	b := sequence.Sequence{"BB", "CC"}
	together := NewStates([]sequence.Sequence{a, b})
	reversed := NewStates([]sequence.Sequence{b, a})
	vals := []matrix.ByteValue{"AA", "BB", "CC"}
	feed(together, 8, vals...)
	feed(reversed, 8, vals...)
	for i := range together {
		j := len(together) - 1 - i
		if together[i].Complete != reversed[j].Complete || together[i].CurrIndex != reversed[j].CurrIndex {
			t.Fatalf("order changed outcome: %+v vs %+v", together[i], reversed[j])
		}
	}
	if together[0].Complete != Success || together[1].Complete != Success {
		t.Fatalf("got %+v", together)
	}
}

func TestSettledAndAnySuccess(t *testing.T) {
	states := []TrackState{{Complete: Success}, {Complete: Pending}}
	if Settled(states) {
		t.Fatal("pending state counted as settled")
	}
	states[1].Complete = Failed
	if !Settled(states) || !AnySuccess(states) {
		t.Fatal("expected settled with a success")
	}
	if AnySuccess([]TrackState{{Complete: Failed}}) {
		t.Fatal("no success expected")
	}
}

func TestStatusString(t *testing.T) {
	if Success.String() != "success" || Failed.String() != "failed" || Pending.String() != "pending" {
		t.Fatal("unexpected names")
	}
}
