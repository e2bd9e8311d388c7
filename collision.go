package collide

import "github.com/pkg/errors"

// Narrow-phase tests. They run only after the bounding box test has passed,
// so a test may assume the query geometry already touches bb.
type (
	PointCollisionFunc func(bb BB, v Vector) bool
	LineCollisionFunc  func(bb BB, a, b Vector) bool
	PairCollisionFunc  func(a, b BB) bool
)

// A nil entry means the shape (or pair) has no geometry test yet.
var pointCollisionFuncs = [ShapeCount]PointCollisionFunc{
	ShapeRectangle: RectangleToPoint,
	ShapeEllipse:   EllipseToPoint,
}

var lineCollisionFuncs = [ShapeCount]LineCollisionFunc{
	ShapeRectangle: RectangleToLine,
}

// Indexed by the sorted pair, lower shape first.
var pairCollisionFuncs = [ShapeCount][ShapeCount]PairCollisionFunc{
	ShapeRectangle: {
		ShapeRectangle: RectangleToRectangle,
	},
}

// RectangleToPoint is exact: a rectangle is its own bounding box.
func RectangleToPoint(bb BB, v Vector) bool {
	return true
}

// EllipseToPoint tests v against the ellipse inscribed in bb. Points on the
// outline are outside, and an ellipse with no area contains nothing.
func EllipseToPoint(bb BB, v Vector) bool {
	radii := bb.Dimensions().Mult(0.5)
	if radii.X == 0 || radii.Y == 0 {
		return false
	}

	offset := v.Sub(bb.Center())
	offset.X /= radii.X
	offset.Y /= radii.Y
	return offset.LengthSq() < 1
}

func RectangleToLine(bb BB, a, b Vector) bool {
	return true
}

func RectangleToRectangle(a, b BB) bool {
	return true
}

func collidePoint(shape Shape, bb BB, v Vector) (bool, error) {
	f := pointCollisionFuncs[shape]
	if f == nil {
		return false, errors.Wrapf(ErrUnsupportedShape, "point collision with %v", shape)
	}
	return f(bb, v), nil
}

func collideLine(shape Shape, bb BB, a, b Vector) (bool, error) {
	f := lineCollisionFuncs[shape]
	if f == nil {
		return false, errors.Wrapf(ErrUnsupportedShape, "line collision with %v", shape)
	}
	return f(bb, a, b), nil
}

func collidePair(sa Shape, a BB, sb Shape, b BB) (bool, error) {
	if sa > sb {
		sa, sb = sb, sa
		a, b = b, a
	}

	f := pairCollisionFuncs[sa][sb]
	if f == nil {
		return false, errors.Wrapf(ErrUnsupportedShape, "collision between %v and %v", sa, sb)
	}
	return f(a, b), nil
}
