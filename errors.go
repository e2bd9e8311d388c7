package collide

import "github.com/pkg/errors"

var (
	// ErrInvalidShape is returned when storing an entity whose shape is
	// ShapeCount or out of range.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrInvalidBB is returned when storing an entity whose bounding box is
	// inverted or not finite.
	ErrInvalidBB = errors.New("invalid bounding box")
	// ErrUnknownEntity is returned for ids that are out of range or removed.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrUnsupportedShape is returned when a narrow-phase test is requested
	// for a shape or shape pair that has no geometry test.
	ErrUnsupportedShape = errors.New("unsupported shape")
)
