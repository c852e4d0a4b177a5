package stage

import (
	"image"
	"math"
)

// Box is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
//
// Containment is half-open: the min edges are inside, the max edges are not,
// so boxes that share an edge tile without overlapping.
type Box struct {
	X, Y, Width, Height float64
}

// BoxFromPoints returns the box spanning (x1, y1) to (x2, y2). The corners
// may be given in any order.
func BoxFromPoints(x1, y1, x2, y2 float64) Box {
	return Box{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

// Right returns the exclusive max X edge.
func (b Box) Right() float64 { return b.X + b.Width }

// Bottom returns the exclusive max Y edge.
func (b Box) Bottom() float64 { return b.Y + b.Height }

// IsEmpty reports whether the box has no area.
func (b Box) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Contains reports whether (x, y) lies inside the box. Points on the left and
// top edges are inside; points on the right and bottom edges are not.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width &&
		y >= b.Y && y < b.Y+b.Height
}

// ContainsBox reports whether o lies entirely inside b. An empty o is
// contained by any box.
func (b Box) ContainsBox(o Box) bool {
	if o.IsEmpty() {
		return true
	}
	return o.X >= b.X && o.Right() <= b.Right() &&
		o.Y >= b.Y && o.Bottom() <= b.Bottom()
}

// Intersects reports whether b and o overlap with a non-zero area.
// Boxes that only share an edge do not intersect.
func (b Box) Intersects(o Box) bool {
	return !b.Intersect(o).IsEmpty()
}

// Intersect returns the overlapping area of b and o. Disjoint boxes yield the
// zero Box, never a box with negative width or height.
func (b Box) Intersect(o Box) Box {
	x1 := math.Max(b.X, o.X)
	y1 := math.Max(b.Y, o.Y)
	x2 := math.Min(b.Right(), o.Right())
	y2 := math.Min(b.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Box{}
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Union returns the bounding box of b and o. An empty operand is ignored.
func (b Box) Union(o Box) Box {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	x1 := math.Min(b.X, o.X)
	y1 := math.Min(b.Y, o.Y)
	x2 := math.Max(b.Right(), o.Right())
	y2 := math.Max(b.Bottom(), o.Bottom())
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Translate returns the box moved by (dx, dy).
func (b Box) Translate(dx, dy float64) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Pixels returns the pixel rectangle whose pixel centers lie inside the box.
// Pixel (i, j) has its center at (i+0.5, j+0.5).
func (b Box) Pixels() image.Rectangle {
	if b.IsEmpty() {
		return image.Rectangle{}
	}
	r := image.Rect(
		int(math.Ceil(b.X-0.5)),
		int(math.Ceil(b.Y-0.5)),
		int(math.Ceil(b.Right()-0.5)),
		int(math.Ceil(b.Bottom()-0.5)),
	)
	if r.Empty() {
		return image.Rectangle{}
	}
	return r
}

// boxFromRect converts an integer rectangle to a Box.
func boxFromRect(r image.Rectangle) Box {
	return Box{
		X:      float64(r.Min.X),
		Y:      float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}
