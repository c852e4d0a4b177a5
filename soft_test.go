package stage_test

import (
	"testing"

	"github.com/phanxgames/stage"
	"github.com/phanxgames/stage/softbackend"
)

// newSoftStage returns a realized w x h stage on the software backend with
// warmup disabled.
func newSoftStage(t *testing.T, w, h int, opts ...softbackend.Option) (*stage.Stage, *softbackend.Backend) {
	t.Helper()
	cfg := stage.DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.WarmupFrames = 0
	return newSoftStageConfig(t, cfg, opts...)
}

func newSoftStageConfig(t *testing.T, cfg stage.Config, opts ...softbackend.Option) (*stage.Stage, *softbackend.Backend) {
	t.Helper()
	b := softbackend.New(opts...)
	s := stage.NewStage(b, cfg)
	if err := s.Realize(); err != nil {
		t.Fatalf("Realize: %v", err)
	}
	return s, b
}

// mustPick picks at (x, y) and fails the test on error.
func mustPick(t *testing.T, s *stage.Stage, x, y float64, mode stage.PickMode) *stage.Actor {
	t.Helper()
	a, err := s.PickAt(x, y, mode)
	if err != nil {
		t.Fatalf("PickAt(%v, %v, %v): %v", x, y, mode, err)
	}
	return a
}

// expectPick fails the test unless the pick at (x, y) returns want.
func expectPick(t *testing.T, s *stage.Stage, x, y float64, mode stage.PickMode, want *stage.Actor) {
	t.Helper()
	got := mustPick(t, s, x, y, mode)
	if got != want {
		t.Errorf("PickAt(%v, %v, %v) = %s, want %s", x, y, mode, actorName(got), actorName(want))
	}
}

func mustRender(t *testing.T, s *stage.Stage) stage.FrameClipState {
	t.Helper()
	st, err := s.RenderFrame()
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	return st
}

func actorName(a *stage.Actor) string {
	if a == nil {
		return "<nil>"
	}
	return a.Name
}

func reactiveRect(name string, x, y, w, h float64) *stage.Actor {
	a := stage.NewRectangle(name, x, y, w, h, stage.ColorWhite)
	a.SetReactive(true)
	return a
}
