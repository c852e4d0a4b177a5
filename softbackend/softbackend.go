// Package softbackend is a CPU implementation of the stage backend contract.
// Targets are image.RGBA buffers; polygons are rasterized with
// golang.org/x/image/vector. It needs no GPU or window and is the surface
// tests and command-line tools render into.
package softbackend

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/phanxgames/stage"
)

// ErrNotRealized is returned by target operations before Realize.
var ErrNotRealized = errors.New("softbackend: not realized")

// Option configures a Backend.
type Option func(*Backend)

// WithIgnoringRedrawClips makes the backend report that it ignores redraw
// clips, so every damage call on the stage becomes a full redraw.
func WithIgnoringRedrawClips(ignore bool) Option {
	return func(b *Backend) {
		b.ignoring = ignore
	}
}

// WithBufferAge sets the back buffer age reported to the stage. 0 means
// unknown and forces full repaints; 1 models a preserved back buffer.
func WithBufferAge(age int) Option {
	return func(b *Backend) {
		b.bufferAge = max(age, 0)
	}
}

// Backend renders into memory. The zero value is not usable; call New.
type Backend struct {
	realized  bool
	ignoring  bool
	bufferAge int

	width, height int
	screen        *Target

	swaps      int
	lastDamage []stage.Box
	live       int

	offscreenErr error
	readErr      error
	swapErr      error
}

var (
	_ stage.Backend     = (*Backend)(nil)
	_ stage.Presenter   = (*Backend)(nil)
	_ stage.PixelReader = (*Backend)(nil)
	_ stage.Resizer     = (*Backend)(nil)
)

// New creates a software backend.
func New(opts ...Option) *Backend {
	b := &Backend{bufferAge: 1}
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
	b.screen = b.newTarget(b.width, b.height)
	return nil
}

// Unrealize releases the on-screen buffer.
func (b *Backend) Unrealize() {
	if !b.realized {
		return
	}
	b.screen.Dispose()
	b.screen = nil
	b.realized = false
}

// Resize sets the on-screen buffer size. Its contents are lost.
func (b *Backend) Resize(w, h int) {
	b.width, b.height = max(w, 0), max(h, 0)
	if !b.realized {
		return
	}
	if b.screen != nil {
		b.screen.Dispose()
	}
	b.screen = b.newTarget(b.width, b.height)
}

// BeginOffscreenRender returns a new w x h target cleared to transparent.
func (b *Backend) BeginOffscreenRender(w, h int) (stage.RenderTarget, error) {
	if !b.realized {
		return nil, ErrNotRealized
	}
	if b.offscreenErr != nil {
		return nil, b.offscreenErr
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("softbackend: invalid target size %dx%d", w, h)
	}
	t := b.newTarget(w, h)
	stage.Logger().Debug("softbackend: offscreen target", "width", w, "height", h)
	return t, nil
}

// ReadPixel returns the premultiplied color at (x, y).
func (b *Backend) ReadPixel(rt stage.RenderTarget, x, y int) (color.RGBA, error) {
	if b.readErr != nil {
		return color.RGBA{}, b.readErr
	}
	t, err := b.target(rt)
	if err != nil {
		return color.RGBA{}, err
	}
	if !(image.Point{x, y}).In(t.img.Rect) {
		return color.RGBA{}, fmt.Errorf("softbackend: pixel (%d, %d) outside %v", x, y, t.img.Rect)
	}
	return t.img.RGBAAt(x, y), nil
}

// ReadPixels returns a copy of the target's pixels.
func (b *Backend) ReadPixels(rt stage.RenderTarget) (*image.RGBA, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	t, err := b.target(rt)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(t.img.Rect)
	copy(img.Pix, t.img.Pix)
	return img, nil
}

// IgnoringRedrawClips reports the WithIgnoringRedrawClips setting.
func (b *Backend) IgnoringRedrawClips() bool {
	return b.ignoring
}

// Onscreen returns the buffer SwapBuffers presents.
func (b *Backend) Onscreen() stage.RenderTarget {
	if b.screen == nil {
		// A zero-size target keeps callers free of nil checks.
		return b.newTarget(0, 0)
	}
	return b.screen
}

// BufferAge returns the configured back buffer age.
func (b *Backend) BufferAge() int {
	return b.bufferAge
}

// SwapBuffers records the presented damage.
func (b *Backend) SwapBuffers(damage []stage.Box) error {
	if !b.realized {
		return ErrNotRealized
	}
	if b.swapErr != nil {
		return b.swapErr
	}
	b.swaps++
	b.lastDamage = slices.Clone(damage)
	return nil
}

// Swaps returns the number of successful SwapBuffers calls.
func (b *Backend) Swaps() int { return b.swaps }

// LastDamage returns the damage passed to the last SwapBuffers; nil means
// the whole surface.
func (b *Backend) LastDamage() []stage.Box { return b.lastDamage }

// LiveTargets returns the number of targets not yet disposed, the on-screen
// buffer included.
func (b *Backend) LiveTargets() int { return b.live }

// Screen returns the on-screen pixels, or nil before Realize.
func (b *Backend) Screen() *image.RGBA {
	if b.screen == nil {
		return nil
	}
	return b.screen.img
}

// FailOffscreen makes BeginOffscreenRender return err until called with
// nil.
func (b *Backend) FailOffscreen(err error) { b.offscreenErr = err }

// FailRead makes ReadPixel and ReadPixels return err until called with nil.
func (b *Backend) FailRead(err error) { b.readErr = err }

// FailSwap makes SwapBuffers return err until called with nil.
func (b *Backend) FailSwap(err error) { b.swapErr = err }

func (b *Backend) target(rt stage.RenderTarget) (*Target, error) {
	t, ok := rt.(*Target)
	if !ok || t == nil {
		return nil, fmt.Errorf("softbackend: foreign render target %T", rt)
	}
	if t.disposed {
		return nil, errors.New("softbackend: render target disposed")
	}
	return t, nil
}
