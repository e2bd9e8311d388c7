package collide

import "math"

// SpatialIndexQuery is called once per candidate id. Returning false stops
// the query.
type SpatialIndexQuery func(id EntityID) bool

// Cell is a square of the index's grid, numbered by floor(coordinate / celldim).
type Cell struct {
	X, Y int
}

// SpatialIndexer is the broad phase used by World. It maps ids to bounding
// boxes and answers which ids may touch a box or a grid cell. Answers may
// include false positives but never miss an id whose box overlaps the query.
//
// Implemented by SpaceHash and BBTree.
type SpatialIndexer interface {
	// Insert adds id with bounding box bb. Inserting an id that is already
	// present replaces its box.
	Insert(id EntityID, bb BB)
	// Remove deletes id. Removing an absent id is a no-op.
	Remove(id EntityID)
	Contains(id EntityID) bool
	Count() int
	// Query visits every id whose box may overlap bb, each at most once.
	Query(bb BB, f SpatialIndexQuery)
	// CellOf returns the grid cell containing v.
	CellOf(v Vector) Cell
	// EachInCell visits every id whose box may overlap cell.
	EachInCell(cell Cell, f SpatialIndexQuery)
	// Clear removes every id.
	Clear()
}

// Grid coordinates are clamped to this so they stay exact in both float64
// and int.
const maxCellCoord = 1 << 52

func cellFor(v Vector, celldim float64) Cell {
	return Cell{floorInt(v.X / celldim), floorInt(v.Y / celldim)}
}

// cellSpan is the inclusive range of cells covered by a box.
type cellSpan struct {
	l, b, r, t int
}

// spanFor returns the cells bb covers. It fails when a coordinate falls off
// the grid or the span holds more than limit cells.
func spanFor(bb BB, celldim float64, limit int) (cellSpan, bool) {
	l, b := math.Floor(bb.L/celldim), math.Floor(bb.B/celldim)
	r, t := math.Floor(bb.R/celldim), math.Floor(bb.T/celldim)
	for _, c := range [...]float64{l, b, r, t} {
		if !(math.Abs(c) < maxCellCoord) {
			return cellSpan{}, false
		}
	}
	if (r-l+1)*(t-b+1) > float64(limit) {
		return cellSpan{}, false
	}
	return cellSpan{int(l), int(b), int(r), int(t)}, true
}

func (s cellSpan) contains(cell Cell) bool {
	return s.l <= cell.X && cell.X <= s.r && s.b <= cell.Y && cell.Y <= s.t
}

// coversCell reports whether bb reaches cell, rounding the way cellFor does.
func coversCell(bb BB, cell Cell, celldim float64) bool {
	x, y := float64(cell.X), float64(cell.Y)
	return math.Floor(bb.L/celldim) <= x && x <= math.Floor(bb.R/celldim) &&
		math.Floor(bb.B/celldim) <= y && y <= math.Floor(bb.T/celldim)
}

func floorInt(f float64) int {
	return int(Clamp(math.Floor(f), -maxCellCoord, maxCellCoord))
}
