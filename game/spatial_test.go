package game

import "testing"

func TestSpatialGridInsertAndQuery(t *testing.T) {
	g := NewSpatialGrid(CanvasWidth, CanvasHeight)
	g.InsertCircle(100, 100, 10, 0)
	g.InsertCircle(500, 500, 10, 1)

	buf := g.QueryBuf(105, 105, 5, nil)
	if !containsIdx(buf, 0) {
		t.Error("query near (100,100) should find entity 0")
	}
	if containsIdx(buf, 1) {
		t.Error("query near (100,100) should not find entity 1")
	}

	g.Clear()
	if buf = g.QueryBuf(105, 105, 5, buf[:0]); len(buf) != 0 {
		t.Errorf("cleared grid returned %d entries", len(buf))
	}
}

func TestSpatialGridSpansCells(t *testing.T) {
	g := NewSpatialGrid(CanvasWidth, CanvasHeight)
	// Straddles the boundary between the first two columns.
	g.InsertCircle(SpatialCellSize, 40, 20, 7)

	if !containsIdx(g.QueryBuf(SpatialCellSize-15, 40, 1, nil), 7) {
		t.Error("entity should be found from the left cell")
	}
	if !containsIdx(g.QueryBuf(SpatialCellSize+15, 40, 1, nil), 7) {
		t.Error("entity should be found from the right cell")
	}
}

func TestSpatialGridClampsOutOfBounds(t *testing.T) {
	g := NewSpatialGrid(CanvasWidth, CanvasHeight)
	g.InsertCircle(-50, -50, 10, 0)
	g.InsertCircle(CanvasWidth+50, CanvasHeight+50, 10, 1)

	if !containsIdx(g.QueryBuf(0, 0, 1, nil), 0) {
		t.Error("out-of-bounds insert should clamp to the corner cell")
	}
	if !containsIdx(g.QueryBuf(CanvasWidth-1, CanvasHeight-1, 1, nil), 1) {
		t.Error("out-of-bounds insert should clamp to the far corner cell")
	}
}

func containsIdx(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
