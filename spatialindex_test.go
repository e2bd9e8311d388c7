package collide

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var indexers = []struct {
	name string
	new  func() SpatialIndexer
}{
	{"SpaceHash", func() SpatialIndexer { return NewSpaceHash(10, 100) }},
	{"SpaceHashTiny", func() SpatialIndexer { return NewSpaceHash(10, 1) }},
	{"BBTree", func() SpatialIndexer { return NewBBTree(10) }},
}

func collectQuery(index SpatialIndexer, bb BB) []EntityID {
	var ids []EntityID
	index.Query(bb, func(id EntityID) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func collectCell(index SpatialIndexer, v Vector) []EntityID {
	var ids []EntityID
	index.EachInCell(index.CellOf(v), func(id EntityID) bool {
		ids = append(ids, id)
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestSpatialIndex_InsertQueryRemove(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			index.Insert(0, NewBB(0, 0, 10, 10))
			index.Insert(1, NewBB(5, 5, 15, 15))
			index.Insert(2, NewBB(100, 100, 110, 110))
			index.Insert(3, NewBB(-35, -35, -25, -25))

			require.Equal(t, 4, index.Count())
			assert.True(t, index.Contains(2))
			assert.False(t, index.Contains(9))

			assert.Equal(t, []EntityID{0, 1}, collectQuery(index, NewBB(4, 4, 6, 6)))
			assert.Equal(t, []EntityID{2}, collectQuery(index, NewBB(90, 90, 100, 100)))
			assert.Equal(t, []EntityID{3}, collectQuery(index, NewBB(-30, -30, -29, -29)))
			assert.Empty(t, collectQuery(index, NewBB(50, 50, 60, 60)))

			index.Remove(1)
			index.Remove(1)
			assert.False(t, index.Contains(1))
			assert.Equal(t, 3, index.Count())
			assert.Equal(t, []EntityID{0}, collectQuery(index, NewBB(4, 4, 6, 6)))
			assert.Empty(t, collectQuery(index, NewBB(12, 12, 14, 14)))
		})
	}
}

func TestSpatialIndex_ReinsertMoves(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			index.Insert(7, NewBB(0, 0, 1, 1))
			index.Insert(7, NewBB(50, 50, 51, 51))

			assert.Equal(t, 1, index.Count())
			assert.Empty(t, collectQuery(index, NewBB(0, 0, 1, 1)))
			assert.Equal(t, []EntityID{7}, collectQuery(index, NewBB(50, 50, 51, 51)))
		})
	}
}

func TestSpatialIndex_QueryVisitsOnce(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			// spans 5x5 cells
			index.Insert(0, NewBB(0, 0, 45, 45))

			counts := map[EntityID]int{}
			index.Query(NewBB(-100, -100, 100, 100), func(id EntityID) bool {
				counts[id]++
				return true
			})
			assert.Equal(t, map[EntityID]int{0: 1}, counts)
		})
	}
}

func TestSpatialIndex_QueryStops(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			for i := 0; i < 10; i++ {
				index.Insert(EntityID(i), NewBB(0, 0, 5, 5))
			}

			calls := 0
			index.Query(NewBB(1, 1, 2, 2), func(id EntityID) bool {
				calls++
				return false
			})
			assert.Equal(t, 1, calls)

			calls = 0
			index.EachInCell(index.CellOf(Vector{1, 1}), func(id EntityID) bool {
				calls++
				return false
			})
			assert.Equal(t, 1, calls)
		})
	}
}

func TestSpatialIndex_LargeBoxInEveryCell(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			index.Insert(0, NewBB(-25, -25, 35, 35))
			index.Insert(1, NewBB(200, 200, 201, 201))

			for x := -25.0; x <= 35; x += 5 {
				for y := -25.0; y <= 35; y += 5 {
					assert.Contains(t, collectCell(index, Vector{x, y}), EntityID(0), "cell of %v,%v", x, y)
				}
			}
			assert.Equal(t, []EntityID{1}, collectCell(index, Vector{200.5, 200.5}))
			assert.Empty(t, collectCell(index, Vector{-60, 0}))
		})
	}
}

func TestSpatialIndex_Clear(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			for i := 0; i < 50; i++ {
				f := float64(i)
				index.Insert(EntityID(i), NewBB(f, f, f+3, f+3))
			}
			index.Clear()

			assert.Equal(t, 0, index.Count())
			assert.Empty(t, collectQuery(index, NewBB(-1000, -1000, 1000, 1000)))

			index.Insert(3, NewBB(0, 0, 1, 1))
			assert.Equal(t, []EntityID{3}, collectQuery(index, NewBB(0, 0, 1, 1)))
		})
	}
}

func TestSpatialIndex_ManyRandomlyRemoved(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			const n = 200
			for i := 0; i < n; i++ {
				x := float64(i%20) * 7
				y := float64(i/20) * 7
				index.Insert(EntityID(i), NewBB(x, y, x+6, y+6))
			}
			for i := 0; i < n; i += 3 {
				index.Remove(EntityID(i))
			}

			all := collectQuery(index, NewBB(-1, -1, 1000, 1000))
			for _, id := range all {
				assert.NotZero(t, id%3, "removed id %v still indexed", id)
			}
			assert.Len(t, all, n-(n+2)/3)
			assert.Equal(t, len(all), index.Count())
		})
	}
}

func TestSpatialIndex_NestedQueryVisitsOnce(t *testing.T) {
	for _, ix := range indexers {
		t.Run(ix.name, func(t *testing.T) {
			index := ix.new()
			index.Insert(0, NewBB(0, 0, 45, 45))
			index.Insert(1, NewBB(40, 40, 44, 44))

			counts := map[EntityID]int{}
			index.Query(NewBB(0, 0, 45, 45), func(id EntityID) bool {
				counts[id]++
				assert.NotEmpty(t, collectQuery(index, NewBB(41, 41, 42, 42)))
				return true
			})
			assert.Equal(t, map[EntityID]int{0: 1, 1: 1}, counts)
		})
	}
}

func TestCellFor(t *testing.T) {
	assert.Equal(t, Cell{0, 0}, cellFor(Vector{0, 9.99}, 10))
	assert.Equal(t, Cell{1, -1}, cellFor(Vector{10, -0.5}, 10))
	assert.Equal(t, Cell{-2, 3}, cellFor(Vector{-10.5, 30}, 10))
	assert.Equal(t, Cell{-maxCellCoord, maxCellCoord}, cellFor(Vector{-1e300, 1e300}, 10))
}

func TestSpanFor(t *testing.T) {
	span, ok := spanFor(NewBB(-5, 0, 25, 9.5), 10, 100)
	require.True(t, ok)
	assert.Equal(t, cellSpan{-1, 0, 2, 0}, span)
	assert.True(t, span.contains(Cell{2, 0}))
	assert.False(t, span.contains(Cell{2, 1}))

	_, ok = spanFor(NewBB(0, 0, 1000, 1000), 10, 100)
	assert.False(t, ok, "too many cells")
	_, ok = spanFor(NewBB(0, 0, 1e21, 10), 1, 1<<62)
	assert.False(t, ok, "off the grid")
}

func TestCoversCell(t *testing.T) {
	cellDim := 0.1
	v := Vector{1.7, 0.5}
	cell := cellFor(v, cellDim)
	require.Equal(t, Cell{17, 5}, cell)

	// the cell's own box starts just past v
	require.Greater(t, float64(cell.X)*cellDim, v.X)

	bb := NewBB(1, 0, v.X, 1)
	assert.True(t, coversCell(bb, cell, cellDim))
	assert.False(t, coversCell(bb, Cell{18, 5}, cellDim))
	assert.False(t, coversCell(bb, Cell{17, 20}, cellDim))
}
