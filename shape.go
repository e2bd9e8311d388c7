package collide

// Shape selects the narrow-phase geometry of an entity. The entity's BB is
// always the tight bound of that geometry.
type Shape uint8

const (
	ShapeRectangle Shape = iota
	ShapeEllipse
	ShapeDiamond
	ShapePrecise
	// ShapeCount marks a slot that holds no live entity.
	ShapeCount
)

var shapeNames = [...]string{
	ShapeRectangle: "rectangle",
	ShapeEllipse:   "ellipse",
	ShapeDiamond:   "diamond",
	ShapePrecise:   "precise",
	ShapeCount:     "none",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "invalid"
}

// Valid reports whether s may be stored on a live entity.
func (s Shape) Valid() bool {
	return s < ShapeCount
}
