package tui

// Screen layout, in terminal cells:
//
//	row 0      countdown
//	row 2      buffer slots
//	row 4..    grid (cellWidth columns per value), sequences to its right
const (
	gridX     = 2
	gridY     = 4
	bufferY   = 2
	cellWidth = 4
	seqGap    = 4
)

// cellOrigin returns the screen position of grid cell (row, col).
func cellOrigin(row, col int) (x, y int) {
	return gridX + col*cellWidth, gridY + row
}

// cellAt maps a screen position back to a grid cell of a size×size grid.
func cellAt(x, y, size int) (row, col int, ok bool) {
	if x < gridX || y < gridY {
		return 0, 0, false
	}
	row = y - gridY
	col = (x - gridX) / cellWidth
	if (x-gridX)%cellWidth >= 2 {
		// gap between values
		return 0, 0, false
	}
	if row >= size || col >= size {
		return 0, 0, false
	}
	return row, col, true
}

// sequencesX is the left edge of the sequence panel.
func sequencesX(size int) int {
	return gridX + size*cellWidth + seqGap
}
