package collide

import (
	"fmt"
	"math"
)

const INFINITY = math.MaxFloat64

// BB is an axis aligned bounding box stored as left, bottom, right and top.
// All tests treat the box as closed: points and boxes touching an edge count.
type BB struct {
	L, B, R, T float64
}

func NewBB(l, b, r, t float64) BB {
	return BB{L: l, B: b, R: r, T: t}
}

func NewBBForExtents(c Vector, hw, hh float64) BB {
	return BB{
		L: c.X - hw,
		B: c.Y - hh,
		R: c.X + hw,
		T: c.Y + hh,
	}
}

func NewBBForCircle(p Vector, r float64) BB {
	return NewBBForExtents(p, r, r)
}

// NewBBForCorners builds the box spanned by two arbitrary corners.
func NewBBForCorners(a, b Vector) BB {
	return BB{L: a.X, B: a.Y, R: b.X, T: b.Y}.CorrectSign()
}

func (bb BB) String() string {
	return fmt.Sprintf("[%f,%f %f,%f]", bb.L, bb.B, bb.R, bb.T)
}

// CorrectSign swaps inverted edges so that L <= R and B <= T.
func (bb BB) CorrectSign() BB {
	if bb.L > bb.R {
		bb.L, bb.R = bb.R, bb.L
	}
	if bb.B > bb.T {
		bb.B, bb.T = bb.T, bb.B
	}
	return bb
}

// Valid reports whether the box is finite and not inverted.
func (bb BB) Valid() bool {
	return bb.L <= bb.R && bb.B <= bb.T &&
		!math.IsInf(bb.L, 0) && !math.IsInf(bb.R, 0) &&
		!math.IsInf(bb.B, 0) && !math.IsInf(bb.T, 0)
}

func (a BB) Intersects(b BB) bool {
	return a.L <= b.R && b.L <= a.R && a.B <= b.T && b.B <= a.T
}

func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.B <= other.B && bb.T >= other.T
}

func (bb BB) ContainsVect(v Vector) bool {
	return bb.L <= v.X && bb.R >= v.X && bb.B <= v.Y && bb.T >= v.Y
}

func (a BB) Merge(b BB) BB {
	return BB{
		math.Min(a.L, b.L),
		math.Min(a.B, b.B),
		math.Max(a.R, b.R),
		math.Max(a.T, b.T),
	}
}

func (bb BB) Expand(v Vector) BB {
	return BB{
		math.Min(bb.L, v.X),
		math.Min(bb.B, v.Y),
		math.Max(bb.R, v.X),
		math.Max(bb.T, v.Y),
	}
}

func (bb BB) Center() Vector {
	return Vector{bb.L, bb.B}.Lerp(Vector{bb.R, bb.T}, 0.5)
}

// Dimensions returns width and height.
func (bb BB) Dimensions() Vector {
	return Vector{bb.R - bb.L, bb.T - bb.B}
}

func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.T - bb.B)
}

func (a BB) MergedArea(b BB) float64 {
	return (math.Max(a.R, b.R) - math.Min(a.L, b.L)) * (math.Max(a.T, b.T) - math.Min(a.B, b.B))
}

// SegmentQuery returns the fraction along a->b where the segment enters the
// box, or INFINITY if it misses.
func (bb BB) SegmentQuery(a, b Vector) float64 {
	delta := b.Sub(a)
	tmin := -INFINITY
	tmax := INFINITY

	if delta.X == 0 {
		if a.X < bb.L || bb.R < a.X {
			return INFINITY
		}
	} else {
		t1 := (bb.L - a.X) / delta.X
		t2 := (bb.R - a.X) / delta.X
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if delta.Y == 0 {
		if a.Y < bb.B || bb.T < a.Y {
			return INFINITY
		}
	} else {
		t1 := (bb.B - a.Y) / delta.Y
		t2 := (bb.T - a.Y) / delta.Y
		tmin = math.Max(tmin, math.Min(t1, t2))
		tmax = math.Min(tmax, math.Max(t1, t2))
	}

	if tmin <= tmax && 0 <= tmax && tmin <= 1.0 {
		return math.Max(tmin, 0.0)
	}
	return INFINITY
}

func (bb BB) IntersectsSegment(a, b Vector) bool {
	return bb.SegmentQuery(a, b) != INFINITY
}

func (bb BB) Offset(v Vector) BB {
	return BB{
		bb.L + v.X,
		bb.B + v.Y,
		bb.R + v.X,
		bb.T + v.Y,
	}
}

func (a BB) Proximity(b BB) float64 {
	return math.Abs(a.L+a.R-b.L-b.R) + math.Abs(a.B+a.T-b.B-b.T)
}
