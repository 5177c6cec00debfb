package sequence

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
)

type scripted struct {
	vals []int
	i    int
}

func (s *scripted) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func labelled(n int) []matrix.ByteValue {
	out := make([]matrix.ByteValue, n)
	for i := range out {
		out[i] = matrix.ByteValue(fmt.Sprintf("P%d", i))
	}
	return out
}

func lengths(seqs []Sequence) []int {
	out := make([]int, len(seqs))
	for i, s := range seqs {
		out[i] = len(s)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSplitOverlapsAtEndIndex(t *testing.T) {
	path := labelled(8)
	// offset 0; [0..2], no gap; [2..4], gap.
	seqs := Split(path, 2, &scripted{vals: []int{0, 1, 0, 0, 1}})
	if got := lengths(seqs); !equalInts(got, []int{3, 3}) {
		t.Fatalf("lengths = %v", got)
	}
	if seqs[0][2] != "P2" || seqs[1][0] != "P2" {
		t.Fatalf("expected shared element P2, got %v", seqs)
	}
}

func TestSplitDropsEmptyTrailingSlice(t *testing.T) {
	path := labelled(8)
	// offset 1; [1..3] gap -> 4; [4..7] gap -> 8; third slice starts past the end.
	seqs := Split(path, 3, &scripted{vals: []int{1, 1, 1, 1, 1, 1, 1}})
	if got := lengths(seqs); !equalInts(got, []int{3, 4}) {
		t.Fatalf("lengths = %v", got)
	}
}

func TestSplitTruncatesToPathBudget(t *testing.T) {
	path := labelled(8)
	// [0..2] len 3, [2..5] len 4, [5..9] clamps to [5..7] then to the 1 remaining slot.
	seqs := Split(path, 3, &scripted{vals: []int{0, 1, 0, 1, 0, 1, 0}})
	if got := lengths(seqs); !equalInts(got, []int{1, 3, 4}) {
		t.Fatalf("lengths = %v", got)
	}
	if seqs[0][0] != "P5" {
		t.Fatalf("truncated slice = %v", seqs[0])
	}
}

func TestSplitSortedAscending(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 500; i++ {
		seqs := Split(labelled(8), 3, rng)
		for j := 1; j < len(seqs); j++ {
			if len(seqs[j-1]) > len(seqs[j]) {
				t.Fatalf("not sorted: %v", lengths(seqs))
			}
		}
	}
}

func TestCreateProperties(t *testing.T) {
	for seed := uint64(0); seed < 300; seed++ {
		rng := rand.New(rand.NewPCG(seed, 99))
		m := matrix.Generate(5, rng)
		seqs, err := Create(8, m, 5, rng)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(seqs) < 2 || len(seqs) > 3 {
			t.Fatalf("seed %d: %d sequences", seed, len(seqs))
		}
		total := 0
		for j, s := range seqs {
			if len(s) == 0 {
				t.Fatalf("seed %d: empty sequence", seed)
			}
			if j > 0 && len(seqs[j-1]) > len(s) {
				t.Fatalf("seed %d: not sorted %v", seed, lengths(seqs))
			}
			total += len(s)
			for _, b := range s {
				if !inMatrix(m, b) {
					t.Fatalf("seed %d: %q not in matrix", seed, b)
				}
			}
		}
		if total > 8 {
			t.Fatalf("seed %d: total length %d > buffer", seed, total)
		}
	}
}

func TestSplitSlicesComeFromPath(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		rng := rand.New(rand.NewPCG(seed, 5))
		m := matrix.Generate(5, rng)
		p, err := matrix.DerivePath(m, 8, rng)
		if err != nil {
			continue
		}
		vals := p.Values()
		for _, s := range Split(vals, 2+rng.IntN(2), rng) {
			if !contains(vals, s) {
				t.Fatalf("seed %d: %v is not a run of %v", seed, s, vals)
			}
		}
	}
}

func TestCreateRejectsMismatchedDifficulty(t *testing.T) {
	m := matrix.Generate(4, rand.New(rand.NewPCG(1, 1)))
	if _, err := Create(8, m, 5, rand.New(rand.NewPCG(1, 1))); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateNoPath(t *testing.T) {
	m := matrix.Generate(2, rand.New(rand.NewPCG(1, 1)))
	_, err := Create(8, m, 2, rand.New(rand.NewPCG(1, 1)))
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func inMatrix(m matrix.Matrix, b matrix.ByteValue) bool {
	for _, row := range m {
		for _, v := range row {
			if v == b {
				return true
			}
		}
	}
	return false
}

// contains reports whether seq appears as a contiguous run inside path.
func contains(path []matrix.ByteValue, seq Sequence) bool {
	if len(seq) == 0 {
		return true
	}
	for i := 0; i+len(seq) <= len(path); i++ {
		match := true
		for j := range seq {
			if path[i+j] != seq[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
