package stage

import (
	"fmt"
	"math"
	"time"
)

// PickAt returns the topmost actor at stage coordinates (x, y) that passes
// mode. It returns nil with a nil error when the point hits the background
// or lies outside the stage.
//
// The pick buffer from the previous call is reused when it was rendered for
// the same mode and nothing has been damaged since. Otherwise a pick render
// pass rasterizes every candidate actor in paint order with its own pick id
// color.
//
// Picks resolve at pixel granularity: the point samples pixel
// (floor(x), floor(y)), and an actor owns a pixel when the pixel's center
// lies inside its shape. Near an edge that is not on a pixel boundary, a
// point inside one actor can report its neighbor, and an actor covering no
// pixel center is never picked.
//
// ErrUnready is returned when the stage is not realized or has zero size.
// Backend failures are logged and reported as nothing picked.
func (s *Stage) PickAt(x, y float64, mode PickMode) (*Actor, error) {
	if !s.realized || s.width <= 0 || s.height <= 0 {
		return nil, ErrUnready
	}
	if mode != PickReactive && mode != PickAll {
		return nil, fmt.Errorf("stage: unknown pick mode %d", mode)
	}
	if !(x >= 0 && x < float64(s.width) && y >= 0 && y < float64(s.height)) {
		return nil, nil
	}

	if s.pick.usable(mode, s.clip) {
		s.pickStats.Reuses++
	} else if err := s.renderPickBuffer(mode); err != nil {
		s.pickFailed(err)
		return nil, nil
	}

	c, err := s.backend.ReadPixel(s.pick.target, int(math.Floor(x)), int(math.Floor(y)))
	if err != nil {
		s.pickFailed(backendError("read pixel", err))
		return nil, nil
	}
	return s.pick.resolve(s.codec.decode(c)), nil
}

// ActorAt is PickAt without the error. It returns nil when the stage is not
// ready.
func (s *Stage) ActorAt(x, y float64, mode PickMode) *Actor {
	a, _ := s.PickAt(x, y, mode)
	return a
}

// PickStats returns pick pipeline counters.
func (s *Stage) PickStats() PickStats {
	return s.pickStats
}

func (s *Stage) pickFailed(err error) {
	s.pick.invalidate()
	s.pickStats.Failures++
	Logger().Warn("stage: pick failed", "err", err)
}

// renderPickBuffer runs a pick render pass for mode into the cached target.
func (s *Stage) renderPickBuffer(mode PickMode) error {
	b := &s.pick
	b.invalidate()
	target, err := b.ensureTarget(s.backend, s.width, s.height)
	if err != nil {
		return err
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	b.resetArena()
	target.Clear(s.codec.background())
	capacity := s.codec.capacity()
	skipped := 0

	s.root.walk(0, 0, s.clip.StageBox(), 1, func(v *visit) {
		notePaint(v)
		a := v.actor
		if a == s.root || v.alloc.IsEmpty() {
			return
		}
		if mode == PickReactive && !a.reactive {
			return
		}
		fill := v.clip
		if a.pickShape != nil && a.hasClip {
			fill = fill.Intersect(v.alloc)
		}
		if fill.IsEmpty() {
			return
		}
		path := a.PickShape().Outline(s.pathBuf[:0])
		if len(path) < 3 {
			return
		}
		for i := range path {
			path[i].X += v.alloc.X
			path[i].Y += v.alloc.Y
		}
		s.pathBuf = path
		if uint32(len(b.actors)) >= capacity {
			skipped++
			return
		}
		b.actors = append(b.actors, a)
		target.FillPath(path, fill, s.codec.encode(uint32(len(b.actors))), BlendNone)
	})

	if skipped > 0 {
		Logger().Warn("stage: pick id overflow",
			"mode", mode.String(), "capacity", capacity, "skipped", skipped)
	}

	b.mode = mode
	b.generation = s.clip.Generation()
	b.valid = true

	s.pickStats.Passes++
	s.pickStats.Candidates = len(b.actors)
	s.pickStats.Skipped = skipped
	if s.debug {
		s.pickStats.LastPass = time.Since(t0)
		s.debugLogPick()
	}
	return nil
}
