package game

// SpatialCellSize is about twice the largest ordinary asteroid radius.
const SpatialCellSize = 80.0

// SpatialGrid is a uniform grid for broad-phase asteroid queries. Entries are
// indexes into State.Asteroids.
type SpatialGrid struct {
	cols, rows int
	cells      [][]int
}

// NewSpatialGrid sizes a grid for a width×height field.
func NewSpatialGrid(width, height float64) *SpatialGrid {
	cols := int(width/SpatialCellSize) + 1
	rows := int(height/SpatialCellSize) + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]int, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) bounds(x, y, radius float64) (minCX, maxCX, minCY, maxCY int) {
	minCX = int((x - radius) / SpatialCellSize)
	maxCX = int((x + radius) / SpatialCellSize)
	minCY = int((y - radius) / SpatialCellSize)
	maxCY = int((y + radius) / SpatialCellSize)
	if x-radius < 0 {
		minCX = 0
	}
	if y-radius < 0 {
		minCY = 0
	}
	if maxCX >= g.cols {
		maxCX = g.cols - 1
	}
	if maxCY >= g.rows {
		maxCY = g.rows - 1
	}
	if minCX >= g.cols {
		minCX = g.cols - 1
	}
	if minCY >= g.rows {
		minCY = g.rows - 1
	}
	if maxCX < 0 {
		maxCX = 0
	}
	if maxCY < 0 {
		maxCY = 0
	}
	return
}

// InsertCircle adds idx to all cells overlapping the circle's bounding box
func (g *SpatialGrid) InsertCircle(x, y, radius float64, idx int) {
	minCX, maxCX, minCY, maxCY := g.bounds(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			c := cy*g.cols + cx
			g.cells[c] = append(g.cells[c], idx)
		}
	}
}

// QueryBuf appends the indexes in cells overlapping the box to buf. An index
// can appear more than once when the entity spans several cells.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []int) []int {
	minCX, maxCX, minCY, maxCY := g.bounds(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}
