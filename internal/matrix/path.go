package matrix

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrPathBlocked is returned when the fixed row or column has no unused cell
// left inside the draw range, so the walk cannot continue.
var ErrPathBlocked = errors.New("matrix: no free cell on active line")

// walkTrials is how many walks Walkable samples.
const walkTrials = 64

// DerivePath walks m alternating row-search and column-search steps and
// returns a path of exactly length cells. The first step is taken in row 0.
//
// A scratch grid marks consumed cells; m itself is never modified. Each step
// picks uniformly among the free cells of the active line within the draw
// range whose crossing line still has a free cell afterwards. The last step
// may take any free cell.
func DerivePath(m Matrix, length int, rng Source) (Path, error) {
	size := m.Size()
	span := drawSpan(size)
	if span > size {
		span = size
	}

	used := make([][]bool, size)
	for i := range used {
		used[i] = make([]bool, size)
	}
	// free cells left per row and column, inside the draw range
	rowFree := make([]int, span)
	colFree := make([]int, span)
	for i := 0; i < span; i++ {
		rowFree[i], colFree[i] = span, span
	}

	path := make(Path, 0, length)
	rowSearch := true
	row, col := -1, -1
	free := make([]int, 0, span)

	for step := 0; step < length; step++ {
		if rowSearch && row == -1 {
			row = 0
		}
		last := step == length-1
		free = free[:0]
		for i := 0; i < span; i++ {
			r, c := row, i
			crossing := colFree[i]
			if !rowSearch {
				r, c = i, col
				crossing = rowFree[i]
			}
			if used[r][c] {
				continue
			}
			if last || crossing > 1 {
				free = append(free, i)
			}
		}
		if len(free) == 0 {
			return nil, fmt.Errorf("step %d: %w", step, ErrPathBlocked)
		}
		pick := free[rng.IntN(len(free))]
		if rowSearch {
			col = pick
		} else {
			row = pick
		}
		used[row][col] = true
		rowFree[row]--
		colFree[col]--
		path = append(path, Cell{Row: row, Col: col, Value: m[row][col]})
		rowSearch = !rowSearch
	}
	return path, nil
}

// MaxPathLength is the longest alternating walk the draw range of a
// size×size grid admits. Columns, and rows other than row 0, are entered
// and left in pairs, so with an odd draw span all but one column and all
// but row 0 stay a cell short.
func MaxPathLength(size int) int {
	n := drawSpan(size)
	if n > size {
		n = size
	}
	if n%2 == 0 {
		return n * n
	}
	return n*(n-1) + 1
}

// Walkable reports whether walks of length cells on a size×size grid succeed
// at least half the time. The sample is seeded from the inputs, so the
// answer is stable.
func Walkable(size, length int) bool {
	if size < 1 || length < 1 || length > MaxPathLength(size) {
		return false
	}
	m := make(Matrix, size)
	for r := range m {
		m[r] = make([]ByteValue, size)
	}
	rng := rand.New(rand.NewPCG(uint64(size), uint64(length)))
	ok := 0
	for i := 0; i < walkTrials; i++ {
		if _, err := DerivePath(m, length, rng); err == nil {
			ok++
		}
	}
	return ok*2 >= walkTrials
}
