package stage

import (
	"image"
	"image/color"
)

// Backend is the surface contract the stage renders through. Backends own
// presentation timing; the stage only asks them for off-screen targets and
// pixel readback.
type Backend interface {
	// Realize allocates the backend's surface. The stage calls it from
	// Stage.Realize.
	Realize() error
	// Unrealize releases the surface. Targets created earlier must not be
	// used afterwards.
	Unrealize()
	// BeginOffscreenRender returns a target of at least w x h pixels.
	BeginOffscreenRender(w, h int) (RenderTarget, error)
	// ReadPixel returns the color at (x, y) of a target created by this
	// backend.
	ReadPixel(t RenderTarget, x, y int) (color.RGBA, error)
	// IgnoringRedrawClips reports that the backend promotes every redraw clip
	// to a full-stage redraw, so computing precise damage is wasted work.
	IgnoringRedrawClips() bool
}

// RenderTarget is a drawable color buffer.
type RenderTarget interface {
	Size() (w, h int)
	// Clear sets every pixel to c.
	Clear(c color.RGBA)
	// FillPath fills the closed polygon path (stage coordinates) restricted to
	// clip. A pixel is covered when its center is inside the polygon; no
	// anti-aliasing is applied. c is premultiplied.
	FillPath(path []Vec2, clip Box, c color.RGBA, blend BlendMode)
	Dispose()
}

// Presenter is implemented by backends with an on-screen surface.
type Presenter interface {
	// Onscreen returns the target presented by SwapBuffers.
	Onscreen() RenderTarget
	// BufferAge returns how many frames old the back buffer contents are,
	// or 0 if unknown.
	BufferAge() int
	// SwapBuffers presents the back buffer. damage lists the stage regions
	// that changed; nil means the whole surface.
	SwapBuffers(damage []Box) error
}

// PixelReader is implemented by backends that can read back a whole target.
type PixelReader interface {
	ReadPixels(t RenderTarget) (*image.RGBA, error)
}

// Resizer is implemented by backends whose surface follows the stage size.
type Resizer interface {
	Resize(w, h int)
}
