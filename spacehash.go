package collide

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// SpaceHash is a hashed uniform grid. Every id is linked into the bucket of
// each cell its bounding box overlaps, so celldim should be close to the size
// of a typical entity: boxes much larger than a cell cost one link per cell.
// Boxes spanning more than maxSpanCells cells are kept aside and tested on
// every query instead.
type SpaceHash struct {
	numCells int
	celldim  float64

	table     []*SpaceHashBin
	handleSet map[EntityID]*Handle
	oversized []*Handle

	pooledBins *SpaceHashBin
}

// maxSpanCells bounds the cells walked for one box.
const maxSpanCells = 1 << 16

// NewSpaceHash creates a hash with square cells of side celldim and at least
// cells buckets.
func NewSpaceHash(celldim float64, cells int) *SpaceHash {
	numCells := nextPrime(cells)
	return &SpaceHash{
		numCells:  numCells,
		celldim:   celldim,
		table:     make([]*SpaceHashBin, numCells),
		handleSet: map[EntityID]*Handle{},
	}
}

func (hash *SpaceHash) CellDim() float64 {
	return hash.celldim
}

func (hash *SpaceHash) Count() int {
	return len(hash.handleSet)
}

func (hash *SpaceHash) Contains(id EntityID) bool {
	_, ok := hash.handleSet[id]
	return ok
}

func (hash *SpaceHash) Insert(id EntityID, bb BB) {
	if _, ok := hash.handleSet[id]; ok {
		hash.Remove(id)
	}

	hand := &Handle{id: id, bb: bb}
	hand.span, hand.linked = spanFor(bb, hash.celldim, maxSpanCells)
	hash.handleSet[id] = hand

	if hand.linked {
		hash.hashHandle(hand)
	} else {
		hash.oversized = append(hash.oversized, hand)
	}
}

func (hash *SpaceHash) Remove(id EntityID) {
	hand, ok := hash.handleSet[id]
	if !ok {
		return
	}

	delete(hash.handleSet, id)
	if !hand.linked {
		for i, other := range hash.oversized {
			if other == hand {
				hash.oversized = append(hash.oversized[:i], hash.oversized[i+1:]...)
				break
			}
		}
		return
	}

	hash.eachBucket(hand.span, func(_ Cell, idx int) bool {
		prev := &hash.table[idx]
		for bin := *prev; bin != nil; bin = bin.next {
			if bin.handle == hand {
				*prev = bin.next
				hash.recycleBin(bin)
				break
			}
			prev = &bin.next
		}
		return true
	})
}

// Query visits ids whose boxes overlap bb. A box covering several cells is
// reported only from the cell holding the lower left corner of its overlap
// with bb, so queries keep no state and may nest.
func (hash *SpaceHash) Query(bb BB, f SpatialIndexQuery) {
	for _, hand := range hash.oversized {
		if hand.bb.Intersects(bb) && !f(hand.id) {
			return
		}
	}

	span, ok := spanFor(bb, hash.celldim, maxSpanCells)
	if !ok {
		hash.queryTable(bb, f)
		return
	}

	hash.eachBucket(span, func(cell Cell, idx int) bool {
		for bin := hash.table[idx]; bin != nil; bin = bin.next {
			hand := bin.handle
			if !hand.bb.Intersects(bb) || hash.refCell(hand.bb, bb) != cell {
				continue
			}
			if !f(hand.id) {
				return false
			}
		}
		return true
	})
}

// queryTable answers a query too large for the grid by walking every bucket.
func (hash *SpaceHash) queryTable(bb BB, f SpatialIndexQuery) {
	for idx, bin := range hash.table {
		for ; bin != nil; bin = bin.next {
			hand := bin.handle
			if !hand.bb.Intersects(bb) {
				continue
			}
			ref := hash.refCell(hand.bb, bb)
			if hash.bucket(ref.X, ref.Y) != idx {
				continue
			}
			if !f(hand.id) {
				return
			}
		}
	}
}

// refCell is the cell a handle is reported from: the one holding the lower
// left corner of the overlap of a and b. It lies in both spans.
func (hash *SpaceHash) refCell(a, b BB) Cell {
	return cellFor(Vector{math.Max(a.L, b.L), math.Max(a.B, b.B)}, hash.celldim)
}

func (hash *SpaceHash) CellOf(v Vector) Cell {
	return cellFor(v, hash.celldim)
}

func (hash *SpaceHash) EachInCell(cell Cell, f SpatialIndexQuery) {
	for _, hand := range hash.oversized {
		if coversCell(hand.bb, cell, hash.celldim) && !f(hand.id) {
			return
		}
	}

	for bin := hash.table[hash.bucket(cell.X, cell.Y)]; bin != nil; bin = bin.next {
		// buckets are shared between cells, drop the neighbours' ids
		if !bin.handle.span.contains(cell) {
			continue
		}
		if !f(bin.handle.id) {
			return
		}
	}
}

func (hash *SpaceHash) Clear() {
	for i := range hash.table {
		hash.clearTableCell(i)
	}
	hash.handleSet = map[EntityID]*Handle{}
	hash.oversized = nil
}

func (hash *SpaceHash) hashHandle(hand *Handle) {
	hash.eachBucket(hand.span, func(_ Cell, idx int) bool {
		bin := hash.table[idx]
		if bin.containsHandle(hand) {
			return true
		}

		newBin := hash.getEmptyBin()
		newBin.handle = hand
		newBin.next = bin
		hash.table[idx] = newBin
		return true
	})
}

// eachBucket calls f with every cell of span and its bucket until f returns
// false. Cells that share a bucket produce repeated buckets.
func (hash *SpaceHash) eachBucket(span cellSpan, f func(cell Cell, idx int) bool) {
	for i := span.l; i <= span.r; i++ {
		for j := span.b; j <= span.t; j++ {
			if !f(Cell{i, j}, hash.bucket(i, j)) {
				return
			}
		}
	}
}

func (hash *SpaceHash) bucket(x, y int) int {
	return int(hashFunc(x, y) % uint64(hash.numCells))
}

type SpaceHashBin struct {
	handle *Handle
	next   *SpaceHashBin
}

func (bin *SpaceHashBin) containsHandle(hand *Handle) bool {
	for item := bin; item != nil; item = item.next {
		if item.handle == hand {
			return true
		}
	}

	return false
}

func hashFunc(x, y int) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(x))
	binary.LittleEndian.PutUint64(buf[8:], uint64(y))
	return xxhash.Sum64(buf[:])
}

// Handle is the single record of an id, shared by every bin that links it.
// Unlinked handles live in SpaceHash.oversized.
type Handle struct {
	id     EntityID
	bb     BB
	span   cellSpan
	linked bool
}

func (hash *SpaceHash) recycleBin(bin *SpaceHashBin) {
	bin.handle = nil
	bin.next = hash.pooledBins
	hash.pooledBins = bin
}

func (hash *SpaceHash) clearTableCell(idx int) {
	bin := hash.table[idx]
	for bin != nil {
		next := bin.next
		hash.recycleBin(bin)
		bin = next
	}

	hash.table[idx] = nil
}

func (hash *SpaceHash) getEmptyBin() *SpaceHashBin {
	bin := hash.pooledBins

	if bin != nil {
		hash.pooledBins = bin.next
		return bin
	}

	// pool is exhausted, make more
	for i := 0; i < 256; i++ {
		hash.recycleBin(&SpaceHashBin{})
	}
	return &SpaceHashBin{}
}

func nextPrime(n int) int {
	if n <= 2 {
		return 2
	}
	if n%2 == 0 {
		n++
	}
	for ; ; n += 2 {
		prime := true
		for d := 3; d*d <= n; d += 2 {
			if n%d == 0 {
				prime = false
				break
			}
		}
		if prime {
			return n
		}
	}
}

var _ SpatialIndexer = (*SpaceHash)(nil)
