package collide

// EntityID is the slot of an entity in its World. Ids are assigned densely
// from zero and never reused.
type EntityID uint32

// Entity pairs a shape with its bounding box and an opaque payload. The
// payload is never inspected by this package.
type Entity[P any] struct {
	Shape   Shape
	BB      BB
	Payload P
}

func NewEntity[P any](shape Shape, bb BB, payload P) Entity[P] {
	return Entity[P]{Shape: shape, BB: bb, Payload: payload}
}

// Live reports whether the entity holds a real shape.
func (e Entity[P]) Live() bool {
	return e.Shape.Valid()
}

// CollidesPoint reports whether v lies inside the entity. With precise unset
// the bounding box answer is returned.
func (e Entity[P]) CollidesPoint(v Vector, precise bool) (bool, error) {
	if !e.Live() {
		return false, nil
	}

	if !e.BB.ContainsVect(v) {
		return false, nil
	}

	if !precise {
		return true, nil
	}

	return collidePoint(e.Shape, e.BB, v)
}

// CollidesLine reports whether the segment a-b touches the entity.
func (e Entity[P]) CollidesLine(a, b Vector, precise bool) (bool, error) {
	if !e.Live() {
		return false, nil
	}

	if !e.BB.IntersectsSegment(a, b) {
		return false, nil
	}

	if !precise {
		return true, nil
	}

	return collideLine(e.Shape, e.BB, a, b)
}

// CollidesEntity reports whether two entities overlap. The result does not
// depend on argument order.
func (e Entity[P]) CollidesEntity(other Entity[P], precise bool) (bool, error) {
	if !e.Live() || !other.Live() {
		return false, nil
	}

	if !e.BB.Intersects(other.BB) {
		return false, nil
	}

	if !precise {
		return true, nil
	}

	return collidePair(e.Shape, e.BB, other.Shape, other.BB)
}
