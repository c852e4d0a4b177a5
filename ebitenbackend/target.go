package ebitenbackend

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/stage"
)

// whitePixel is the source for solid fills. It is the center of a 3x3 white
// image so that sampling never bleeds past its edges.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whitePixel = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whitePixel
}

// Target is an ebiten image render target.
type Target struct {
	img      *ebiten.Image
	owner    *Backend
	disposed bool

	clipped  []stage.Vec2
	vertices []ebiten.Vertex
	indices  []uint16
}

func (b *Backend) newTarget(w, h int) *Target {
	b.live++
	return &Target{
		img:   ebiten.NewImageWithOptions(image.Rect(0, 0, w, h), &ebiten.NewImageOptions{Unmanaged: true}),
		owner: b,
	}
}

// Image returns the underlying ebiten image. Its pixels are premultiplied.
func (t *Target) Image() *ebiten.Image { return t.img }

// Size returns the target size in pixels.
func (t *Target) Size() (w, h int) {
	b := t.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear sets every pixel to c.
func (t *Target) Clear(c color.RGBA) {
	if t.disposed {
		return
	}
	t.img.Fill(c)
}

// FillPath fills the closed polygon path restricted to clip. Rectangles are
// filled directly; other polygons are clipped to the pixel rectangle and
// drawn as triangles without anti-aliasing, so the GPU's pixel-center rule
// decides coverage.
func (t *Target) FillPath(path []stage.Vec2, clip stage.Box, c color.RGBA, blend stage.BlendMode) {
	if t.disposed || len(path) < 3 {
		return
	}
	r := clip.Pixels().Intersect(t.img.Bounds())
	if r.Empty() {
		return
	}

	if box, ok := stage.RectFromPath(path); ok {
		t.fillRect(r.Intersect(box.Pixels()), c, blend)
		return
	}

	t.clipped = stage.ClipPath(t.clipped[:0], path, r)
	if len(t.clipped) < 3 {
		return
	}
	var p vector.Path
	p.MoveTo(float32(t.clipped[0].X), float32(t.clipped[0].Y))
	for _, v := range t.clipped[1:] {
		p.LineTo(float32(v.X), float32(v.Y))
	}
	p.Close()

	t.vertices, t.indices = p.AppendVerticesAndIndicesForFilling(t.vertices[:0], t.indices[:0])
	t.drawTriangles(c, blend)
}

func (t *Target) fillRect(r image.Rectangle, c color.RGBA, blend stage.BlendMode) {
	if r.Empty() {
		return
	}
	if blend == stage.BlendNone {
		t.img.SubImage(r).(*ebiten.Image).Fill(c)
		return
	}
	x0, y0, x1, y1 := float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y)
	t.vertices = append(t.vertices[:0],
		ebiten.Vertex{DstX: x0, DstY: y0},
		ebiten.Vertex{DstX: x1, DstY: y0},
		ebiten.Vertex{DstX: x1, DstY: y1},
		ebiten.Vertex{DstX: x0, DstY: y1},
	)
	t.indices = append(t.indices[:0], 0, 1, 2, 0, 2, 3)
	t.drawTriangles(c, blend)
}

// drawTriangles draws the prepared vertices in the solid premultiplied color c.
func (t *Target) drawTriangles(c color.RGBA, blend stage.BlendMode) {
	cr, cg, cb, ca := float32(c.R)/0xff, float32(c.G)/0xff, float32(c.B)/0xff, float32(c.A)/0xff
	for i := range t.vertices {
		v := &t.vertices[i]
		v.SrcX, v.SrcY = 1.5, 1.5
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = cr, cg, cb, ca
	}
	op := &ebiten.DrawTrianglesOptions{
		ColorScaleMode: ebiten.ColorScaleModePremultipliedAlpha,
		FillRule:       ebiten.FillRuleNonZero,
		AntiAlias:      false,
	}
	if blend == stage.BlendNone {
		op.Blend = ebiten.BlendCopy
	}
	t.img.DrawTriangles(t.vertices, t.indices, ensureWhitePixel(), op)
}

// Dispose deallocates the image. Later fills are ignored.
func (t *Target) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true
	t.img.Deallocate()
	if t.owner != nil {
		t.owner.live--
	}
}
