package stage

import (
	"image/color"
	"testing"
)

// fakeBackend is a Backend without a screen. Its targets record nothing and
// read back as background.
type fakeBackend struct {
	ignoring  bool
	realized  bool
	offscreen int
}

func (b *fakeBackend) Realize() error {
	b.realized = true
	return nil
}

func (b *fakeBackend) Unrealize() { b.realized = false }

func (b *fakeBackend) BeginOffscreenRender(w, h int) (RenderTarget, error) {
	b.offscreen++
	return &fakeTarget{w: w, h: h}, nil
}

func (b *fakeBackend) ReadPixel(RenderTarget, int, int) (color.RGBA, error) {
	return newPickColorCodec(DefaultPickColorBits, false).background(), nil
}

func (b *fakeBackend) IgnoringRedrawClips() bool { return b.ignoring }

type fakeTarget struct {
	w, h  int
	fills int
}

func (t *fakeTarget) Size() (int, int)                           { return t.w, t.h }
func (t *fakeTarget) Clear(color.RGBA)                           {}
func (t *fakeTarget) FillPath([]Vec2, Box, color.RGBA, BlendMode) { t.fills++ }
func (t *fakeTarget) Dispose()                                   {}

// newFakeStage returns a realized w x h stage on a fakeBackend, past its
// first full frame, with warmup disabled.
func newFakeStage(t *testing.T, w, h int) (*Stage, *fakeBackend) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.WarmupFrames = 0
	b := &fakeBackend{}
	s := NewStage(b, cfg)
	if err := s.Realize(); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	renderFrame(t, s)
	return s, b
}

// renderFrame commits the pending damage and fails the test on error.
func renderFrame(t *testing.T, s *Stage) FrameClipState {
	t.Helper()
	st, err := s.RenderFrame()
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	return st
}
