package softbackend

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/phanxgames/stage"
)

// coverageThreshold is the mask alpha at which a pixel counts as covered:
// half of the pixel lies inside the path.
const coverageThreshold = 0x80

var opaque = image.NewUniform(color.Alpha{255})

// Target is an in-memory render target.
type Target struct {
	img      *image.RGBA
	owner    *Backend
	disposed bool

	raster  *vector.Rasterizer
	mask    *image.Alpha
	clipped []stage.Vec2
}

func (b *Backend) newTarget(w, h int) *Target {
	b.live++
	return &Target{
		img:   image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0))),
		owner: b,
	}
}

// Image returns the target's pixels. The image is premultiplied.
func (t *Target) Image() *image.RGBA { return t.img }

// Size returns the target size in pixels.
func (t *Target) Size() (w, h int) {
	return t.img.Rect.Dx(), t.img.Rect.Dy()
}

// Clear sets every pixel to c.
func (t *Target) Clear(c color.RGBA) {
	draw.Draw(t.img, t.img.Rect, image.NewUniform(c), image.Point{}, draw.Src)
}

// FillPath fills the closed polygon path restricted to clip. Axis-aligned
// rectangles take a direct path; other polygons are rasterized into a
// coverage mask over their clipped bounds.
func (t *Target) FillPath(path []stage.Vec2, clip stage.Box, c color.RGBA, blend stage.BlendMode) {
	if t.disposed || len(path) < 3 {
		return
	}
	r := clip.Pixels().Intersect(t.img.Rect)
	if r.Empty() {
		return
	}

	if box, ok := stage.RectFromPath(path); ok {
		t.fillRect(r.Intersect(box.Pixels()), c, blend)
		return
	}

	r = r.Intersect(pathPixelBounds(path))
	if r.Empty() {
		return
	}
	t.clipped = stage.ClipPath(t.clipped[:0], path, r)
	if len(t.clipped) < 3 {
		return
	}
	path = t.clipped
	w, h := r.Dx(), r.Dy()
	if t.raster == nil {
		t.raster = vector.NewRasterizer(w, h)
	} else {
		t.raster.Reset(w, h)
	}
	t.raster.DrawOp = draw.Src
	ox, oy := float64(r.Min.X), float64(r.Min.Y)
	t.raster.MoveTo(float32(path[0].X-ox), float32(path[0].Y-oy))
	for _, p := range path[1:] {
		t.raster.LineTo(float32(p.X-ox), float32(p.Y-oy))
	}
	t.raster.ClosePath()

	mb := image.Rect(0, 0, w, h)
	if t.mask == nil || t.mask.Rect != mb {
		t.mask = image.NewAlpha(mb)
	}
	t.raster.Draw(t.mask, mb, opaque, image.Point{})

	for y := 0; y < h; y++ {
		row := t.mask.Pix[y*t.mask.Stride : y*t.mask.Stride+w]
		for x, a := range row {
			if a >= coverageThreshold {
				t.setPixel(r.Min.X+x, r.Min.Y+y, c, blend)
			}
		}
	}
}

// Dispose releases the target. Later fills are ignored.
func (t *Target) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.raster = nil
	t.mask = nil
	if t.owner != nil {
		t.owner.live--
	}
}

func (t *Target) fillRect(r image.Rectangle, c color.RGBA, blend stage.BlendMode) {
	if r.Empty() {
		return
	}
	if blend == stage.BlendNone || c.A == 0xff {
		draw.Draw(t.img, r, image.NewUniform(c), image.Point{}, draw.Src)
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			t.setPixel(x, y, c, blend)
		}
	}
}

// setPixel writes c at (x, y). BlendNormal composites premultiplied
// source-over.
func (t *Target) setPixel(x, y int, c color.RGBA, blend stage.BlendMode) {
	i := t.img.PixOffset(x, y)
	p := t.img.Pix[i : i+4 : i+4]
	if blend == stage.BlendNone || c.A == 0xff {
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		return
	}
	inv := uint32(0xff - c.A)
	p[0] = c.R + uint8((uint32(p[0])*inv+0x7f)/0xff)
	p[1] = c.G + uint8((uint32(p[1])*inv+0x7f)/0xff)
	p[2] = c.B + uint8((uint32(p[2])*inv+0x7f)/0xff)
	p[3] = c.A + uint8((uint32(p[3])*inv+0x7f)/0xff)
}

// pathPixelBounds returns the pixel rectangle covering every point of path.
func pathPixelBounds(path []stage.Vec2) image.Rectangle {
	x1, y1 := path[0].X, path[0].Y
	x2, y2 := x1, y1
	for _, p := range path[1:] {
		x1 = math.Min(x1, p.X)
		y1 = math.Min(y1, p.Y)
		x2 = math.Max(x2, p.X)
		y2 = math.Max(y2, p.Y)
	}
	return image.Rect(int(math.Floor(x1)), int(math.Floor(y1)), int(math.Ceil(x2)), int(math.Ceil(y2)))
}
