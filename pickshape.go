package stage

import (
	"image"
	"math"
)

// PickShape is the geometry used for hit-testing an actor, in actor-local
// coordinates. It may differ from what the actor paints.
type PickShape interface {
	// Contains reports whether the local point (x, y) is inside the shape.
	Contains(x, y float64) bool
	// Outline appends a closed polygon approximating the shape to dst.
	Outline(dst []Vec2) []Vec2
}

// circleSegments is the number of edges used to rasterize a PickCircle.
const circleSegments = 48

// PickRect is an axis-aligned rectangular pick area in local coordinates.
type PickRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle (half-open).
func (r PickRect) Contains(x, y float64) bool {
	return Box(r).Contains(x, y)
}

// Outline appends the four corners of the rectangle.
func (r PickRect) Outline(dst []Vec2) []Vec2 {
	return append(dst,
		Vec2{r.X, r.Y},
		Vec2{r.X + r.Width, r.Y},
		Vec2{r.X + r.Width, r.Y + r.Height},
		Vec2{r.X, r.Y + r.Height},
	)
}

// PickCircle is a circular pick area in local coordinates.
type PickCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c PickCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// Outline appends a regular polygon inscribed in the circle.
func (c PickCircle) Outline(dst []Vec2) []Vec2 {
	if c.Radius <= 0 {
		return dst
	}
	for i := 0; i < circleSegments; i++ {
		sin, cos := math.Sincos(2 * math.Pi * float64(i) / circleSegments)
		dst = append(dst, Vec2{c.CenterX + cos*c.Radius, c.CenterY + sin*c.Radius})
	}
	return dst
}

// PickPolygon is a convex polygon pick area in local coordinates.
// Points must define a convex polygon in either winding order.
type PickPolygon struct {
	Points []Vec2
}

// Contains reports whether (x, y) lies inside a convex polygon using cross-product sign test.
func (p PickPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 {
		return false
	}

	// Check that the point is on the same side of every edge.
	var positive, negative bool
	for i := 0; i < n; i++ {
		x1 := p.Points[i].X
		y1 := p.Points[i].Y
		j := (i + 1) % n
		x2 := p.Points[j].X
		y2 := p.Points[j].Y

		cross := (x2-x1)*(y-y1) - (y2-y1)*(x-x1)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// Outline appends the polygon's points. Degenerate polygons append nothing.
func (p PickPolygon) Outline(dst []Vec2) []Vec2 {
	if len(p.Points) < 3 {
		return dst
	}
	return append(dst, p.Points...)
}

// pathBounds returns the bounding box of a polygon.
func pathBounds(path []Vec2) Box {
	if len(path) == 0 {
		return Box{}
	}
	x1, y1 := path[0].X, path[0].Y
	x2, y2 := x1, y1
	for _, p := range path[1:] {
		x1 = math.Min(x1, p.X)
		y1 = math.Min(y1, p.Y)
		x2 = math.Max(x2, p.X)
		y2 = math.Max(y2, p.Y)
	}
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// RectFromPath reports whether path is an axis-aligned rectangle and returns
// it. Backends use this to take a fast path for the common rectangular case.
func RectFromPath(path []Vec2) (Box, bool) {
	if len(path) != 4 {
		return Box{}, false
	}
	b := pathBounds(path)
	for _, p := range path {
		onX := p.X == b.X || p.X == b.Right()
		onY := p.Y == b.Y || p.Y == b.Bottom()
		if !onX || !onY {
			return Box{}, false
		}
	}
	// Consecutive points must differ in exactly one coordinate.
	for i := range path {
		a, c := path[i], path[(i+1)%4]
		if (a.X == c.X) == (a.Y == c.Y) {
			return Box{}, false
		}
	}
	return b, true
}

// ClipPath appends path clipped to the pixel rectangle r to dst and returns
// it (Sutherland-Hodgman). The result is empty when path lies outside r.
// dst must not alias path.
func ClipPath(dst, path []Vec2, r image.Rectangle) []Vec2 {
	x1, y1 := float64(r.Min.X), float64(r.Min.Y)
	x2, y2 := float64(r.Max.X), float64(r.Max.Y)
	edges := [4]func(p Vec2) float64{
		func(p Vec2) float64 { return p.X - x1 },
		func(p Vec2) float64 { return x2 - p.X },
		func(p Vec2) float64 { return p.Y - y1 },
		func(p Vec2) float64 { return y2 - p.Y },
	}
	in := append([]Vec2(nil), path...)
	var out []Vec2
	for _, dist := range edges {
		if len(in) == 0 {
			break
		}
		out = out[:0]
		prev := in[len(in)-1]
		dp := dist(prev)
		for _, cur := range in {
			dc := dist(cur)
			if (dc >= 0) != (dp >= 0) {
				t := dp / (dp - dc)
				out = append(out, Vec2{
					X: prev.X + (cur.X-prev.X)*t,
					Y: prev.Y + (cur.Y-prev.Y)*t,
				})
			}
			if dc >= 0 {
				out = append(out, cur)
			}
			prev, dp = cur, dc
		}
		in, out = out, in
	}
	return append(dst, in...)
}
