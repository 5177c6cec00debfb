// internal/sequence/sequence.go
//
// Sequence generation: slices a derived matrix path into the target
// sequences the player has to reproduce.
//
// Slice policy:
//   - Bounds are clamped to the path.
//   - The combined length of all sequences never exceeds the path length;
//     a slice that would overrun that budget is truncated.
//   - Slices that end up empty are dropped, so every sequence has length >= 1.

package sequence

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Bendr-Dev/matrix-code-game/internal/matrix"
)

// MaxPathAttempts bounds how many walks Create tries before giving up.
const MaxPathAttempts = 32

var (
	// ErrTooFewSequences means clamping left fewer than two sequences.
	ErrTooFewSequences = errors.New("sequence: fewer than two sequences")
	// ErrNoPath means every path attempt was blocked.
	ErrNoPath = errors.New("sequence: could not derive a path")
)

// Sequence is one target pattern of byte values.
type Sequence []matrix.ByteValue

// Strings converts the sequence for JSON/rendering.
func (s Sequence) Strings() []string {
	out := make([]string, len(s))
	for i, b := range s {
		out[i] = string(b)
	}
	return out
}

// Split slices path into count sequences, sorted ascending by length.
//
// Starting at a random offset in {0,1}, iteration i takes
// path[offset .. offset+rand{0,1}+i+1] inclusive. The next slice starts at
// that end index, sometimes one further, leaving a gap.
func Split(path []matrix.ByteValue, count int, rng matrix.Source) []Sequence {
	offset := rng.IntN(2)
	budget := len(path)
	out := make([]Sequence, 0, count)

	for i := 0; i < count; i++ {
		end := offset + rng.IntN(2) + (i + 1)

		lo, hi := offset, end+1
		if hi > len(path) {
			hi = len(path)
		}
		if lo > hi {
			lo = hi
		}
		if hi-lo > budget {
			hi = lo + budget
		}
		if hi > lo {
			seq := make(Sequence, hi-lo)
			copy(seq, path[lo:hi])
			out = append(out, seq)
			budget -= len(seq)
		}

		offset = end
		if rng.IntN(2) == 1 {
			offset++
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return len(out[a]) < len(out[b]) })
	return out
}

// Create derives a path through m and splits it into 2 or 3 sequences.
func Create(bufferCount int, m matrix.Matrix, difficulty int, rng matrix.Source) ([]Sequence, error) {
	if m.Size() != difficulty {
		return nil, fmt.Errorf("sequence: matrix is %dx%d, difficulty %d", m.Size(), m.Size(), difficulty)
	}

	var path matrix.Path
	var err error
	for attempt := 0; attempt < MaxPathAttempts; attempt++ {
		path, err = matrix.DerivePath(m, bufferCount, rng)
		if err == nil {
			break
		}
		if !errors.Is(err, matrix.ErrPathBlocked) {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w after %d attempts: %v", ErrNoPath, MaxPathAttempts, err)
	}

	count := rng.IntN(2) + 2
	seqs := Split(path.Values(), count, rng)
	if len(seqs) < 2 {
		return nil, fmt.Errorf("%w: got %d from path of %d", ErrTooFewSequences, len(seqs), len(path))
	}
	return seqs, nil
}
