package collide

//Draw flags
const (
	DRAW_SHAPES = 1 << 0
	DRAW_BBS    = 1 << 1
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// Drawer renders a World for debugging.
type Drawer interface {
	DrawEllipse(center Vector, radii Vector, outline, fill FColor)
	DrawPolygon(verts []Vector, outline, fill FColor)

	Flags() int
	OutlineColor() FColor
	ShapeColor(id EntityID, shape Shape) FColor
	BBColor() FColor
}

// DrawEntity draws the outline of a single entity. Shapes without exact
// geometry are drawn as their bounding box.
func DrawEntity[P any](id EntityID, entity Entity[P], options Drawer) {
	outline := options.OutlineColor()
	fill := options.ShapeColor(id, entity.Shape)
	bb := entity.BB

	switch entity.Shape {
	case ShapeRectangle, ShapePrecise:
		options.DrawPolygon(bbVerts(bb), outline, fill)
	case ShapeEllipse:
		options.DrawEllipse(bb.Center(), bb.Dimensions().Mult(0.5), outline, fill)
	case ShapeDiamond:
		c := bb.Center()
		options.DrawPolygon([]Vector{
			{c.X, bb.B},
			{bb.R, c.Y},
			{c.X, bb.T},
			{bb.L, c.Y},
		}, outline, fill)
	default:
		panic("Unknown shape type")
	}
}

func DrawWorld[P any](w *World[P], options Drawer) {
	flags := options.Flags()

	w.Each(func(id EntityID, entity Entity[P]) bool {
		if flags&DRAW_SHAPES != 0 {
			DrawEntity(id, entity, options)
		}
		if flags&DRAW_BBS != 0 {
			options.DrawPolygon(bbVerts(entity.BB), options.BBColor(), FColor{})
		}
		return true
	})
}

// counter-clockwise from the bottom left
func bbVerts(bb BB) []Vector {
	return []Vector{
		{bb.L, bb.B},
		{bb.R, bb.B},
		{bb.R, bb.T},
		{bb.L, bb.T},
	}
}
