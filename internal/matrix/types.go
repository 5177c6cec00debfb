// internal/matrix/types.go
//
// Core type definitions for the code matrix.
// Defines:
//   - ByteValue: a two-character uppercase hex string ("00".."FF").
//   - Matrix:    the square grid shown to the player.
//   - Cell/Path: a traversal through the grid, cell by cell.
//   - Source:    the random draw used by generation.

package matrix

// ByteValue is a two-character uppercase hexadecimal string, e.g. "1C" or "E9".
type ByteValue string

// Matrix is a square, row-major grid of byte values.
// Rows and columns are 0-indexed; Matrix[row][col].
type Matrix [][]ByteValue

// Size reports the grid dimension (rows == cols).
func (m Matrix) Size() int { return len(m) }

// At returns the value at (row, col) and whether the coordinates are in range.
func (m Matrix) At(row, col int) (ByteValue, bool) {
	if row < 0 || row >= len(m) || col < 0 || col >= len(m[row]) {
		return "", false
	}
	return m[row][col], true
}

// Strings converts the grid to plain strings for JSON/rendering.
func (m Matrix) Strings() [][]string {
	out := make([][]string, len(m))
	for i, row := range m {
		out[i] = make([]string, len(row))
		for j, b := range row {
			out[i][j] = string(b)
		}
	}
	return out
}

// Cell is one consumed grid position on a path.
type Cell struct {
	Row   int       `json:"row"`
	Col   int       `json:"col"`
	Value ByteValue `json:"value"`
}

// Path is an alternating row/column traversal through a Matrix.
type Path []Cell

// Values returns the byte values along the path, in order.
func (p Path) Values() []ByteValue {
	out := make([]ByteValue, len(p))
	for i, c := range p {
		out[i] = c.Value
	}
	return out
}

// Source is the random draw used by generation.
// IntN returns a value in [0, n); *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
}
