// internal/matrix/matrix.go
//
// Matrix generation.
//   - NewPool:  draws `difficulty` random byte values (duplicates allowed).
//   - Generate: fills a difficulty×difficulty grid from that pool.
//
// Quirk kept on purpose: cells are drawn from pool indexes [0, difficulty-2],
// so the last pool entry never lands in the grid. Path draws use the same range.

package matrix

const hexDigits = "0123456789ABCDEF"

// NewPool returns exactly n byte values, each built from two independent
// random hex digits in [0,15]. Collisions are not deduplicated.
func NewPool(n int, rng Source) []ByteValue {
	pool := make([]ByteValue, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, randomByte(rng))
	}
	return pool
}

// randomByte forms one two-digit uppercase hex value.
func randomByte(rng Source) ByteValue {
	hi := hexDigits[rng.IntN(16)]
	lo := hexDigits[rng.IntN(16)]
	return ByteValue([]byte{hi, lo})
}

// Generate builds a new difficulty×difficulty matrix from a fresh byte pool.
func Generate(difficulty int, rng Source) Matrix {
	if difficulty < 1 {
		return Matrix{}
	}
	pool := NewPool(difficulty, rng)
	return Fill(pool, difficulty, rng)
}

// Fill lays out a difficulty×difficulty grid drawing from pool.
func Fill(pool []ByteValue, difficulty int, rng Source) Matrix {
	span := drawSpan(difficulty)
	if span > len(pool) {
		span = len(pool)
	}
	m := make(Matrix, difficulty)
	for r := range m {
		row := make([]ByteValue, difficulty)
		for c := range row {
			row[c] = pool[rng.IntN(span)]
		}
		m[r] = row
	}
	return m
}

// drawSpan is the exclusive upper bound for pool and path index draws.
// A 1×1 grid would give an empty range; it is clamped to 1.
func drawSpan(difficulty int) int {
	if difficulty < 2 {
		return 1
	}
	return difficulty - 1
}
