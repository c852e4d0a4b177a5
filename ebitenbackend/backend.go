// Package ebitenbackend draws a stage with Ebitengine. Targets are
// *ebiten.Image values; polygons are filled with ebiten/v2/vector and
// DrawTriangles. Use Run for a ready-made window, or drive a Game from your
// own ebiten.Game.
//
// Pixel readback from an ebiten.Image is only possible once the game loop is
// running, so picking through this backend must happen from Update or Draw.
package ebitenbackend

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/stage"
)

// ErrNotRealized is returned by target operations before Realize.
var ErrNotRealized = errors.New("ebitenbackend: not realized")

// Option configures a Backend.
type Option func(*Backend)

// WithIgnoringRedrawClips makes the backend report that it ignores redraw
// clips, so every damage call on the stage becomes a full redraw.
func WithIgnoringRedrawClips(ignore bool) Option {
	return func(b *Backend) {
		b.ignoring = ignore
	}
}

// Backend renders into ebiten images. The on-screen buffer is an offscreen
// image that Game.Draw copies to the window every frame, so its contents
// survive between frames and the stage can repaint only damaged regions.
type Backend struct {
	realized bool
	ignoring bool

	width, height int
	screen        *Target

	swaps int
	live  int
}

var (
	_ stage.Backend     = (*Backend)(nil)
	_ stage.Presenter   = (*Backend)(nil)
	_ stage.PixelReader = (*Backend)(nil)
	_ stage.Resizer     = (*Backend)(nil)
)

// New creates an ebiten backend.
func New(opts ...Option) *Backend {
	b := &Backend{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Realize allocates the on-screen buffer.
func (b *Backend) Realize() error {
	if b.realized {
		return nil
	}
	b.realized = true
	b.resizeScreen()
	return nil
}

// Unrealize disposes the on-screen buffer.
func (b *Backend) Unrealize() {
	if !b.realized {
		return
	}
	if b.screen != nil {
		b.screen.Dispose()
		b.screen = nil
	}
	b.realized = false
}

// Resize recreates the on-screen buffer at w x h. Its contents are lost.
func (b *Backend) Resize(w, h int) {
	b.width, b.height = max(w, 0), max(h, 0)
	if b.realized {
		b.resizeScreen()
	}
}

func (b *Backend) resizeScreen() {
	if b.screen != nil {
		b.screen.Dispose()
		b.screen = nil
	}
	if b.width > 0 && b.height > 0 {
		b.screen = b.newTarget(b.width, b.height)
	}
}

// BeginOffscreenRender returns a new w x h unmanaged image cleared to
// transparent.
func (b *Backend) BeginOffscreenRender(w, h int) (stage.RenderTarget, error) {
	if !b.realized {
		return nil, ErrNotRealized
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("ebitenbackend: invalid target size %dx%d", w, h)
	}
	stage.Logger().Debug("ebitenbackend: offscreen target", "width", w, "height", h)
	return b.newTarget(w, h), nil
}

// ReadPixel returns the premultiplied color at (x, y).
func (b *Backend) ReadPixel(rt stage.RenderTarget, x, y int) (color.RGBA, error) {
	t, err := b.target(rt)
	if err != nil {
		return color.RGBA{}, err
	}
	if !(image.Point{x, y}).In(t.img.Bounds()) {
		return color.RGBA{}, fmt.Errorf("ebitenbackend: pixel (%d, %d) outside %v", x, y, t.img.Bounds())
	}
	return color.RGBAModel.Convert(t.img.At(x, y)).(color.RGBA), nil
}

// ReadPixels returns a copy of the target's pixels.
func (b *Backend) ReadPixels(rt stage.RenderTarget) (*image.RGBA, error) {
	t, err := b.target(rt)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(t.img.Bounds())
	t.img.ReadPixels(img.Pix)
	return img, nil
}

// IgnoringRedrawClips reports the WithIgnoringRedrawClips setting.
func (b *Backend) IgnoringRedrawClips() bool {
	return b.ignoring
}

// Onscreen returns the buffer Game.Draw presents.
func (b *Backend) Onscreen() stage.RenderTarget {
	if b.screen == nil {
		return nullTarget{}
	}
	return b.screen
}

// BufferAge is always 1: the on-screen buffer is never swapped out.
func (b *Backend) BufferAge() int {
	return 1
}

// SwapBuffers counts the frame. Presentation happens in Game.Draw.
func (b *Backend) SwapBuffers(damage []stage.Box) error {
	if !b.realized {
		return ErrNotRealized
	}
	b.swaps++
	return nil
}

// Swaps returns the number of SwapBuffers calls.
func (b *Backend) Swaps() int { return b.swaps }

// LiveTargets returns the number of targets not yet disposed, the on-screen
// buffer included.
func (b *Backend) LiveTargets() int { return b.live }

// Screen returns the on-screen image, or nil before Realize.
func (b *Backend) Screen() *ebiten.Image {
	if b.screen == nil {
		return nil
	}
	return b.screen.img
}

func (b *Backend) target(rt stage.RenderTarget) (*Target, error) {
	t, ok := rt.(*Target)
	if !ok || t == nil {
		return nil, fmt.Errorf("ebitenbackend: foreign render target %T", rt)
	}
	if t.disposed {
		return nil, errors.New("ebitenbackend: render target disposed")
	}
	return t, nil
}

// nullTarget stands in for the on-screen buffer of a zero-size stage.
type nullTarget struct{}

func (nullTarget) Size() (int, int)                                              { return 0, 0 }
func (nullTarget) Clear(color.RGBA)                                              {}
func (nullTarget) FillPath([]stage.Vec2, stage.Box, color.RGBA, stage.BlendMode) {}
func (nullTarget) Dispose()                                                      {}
