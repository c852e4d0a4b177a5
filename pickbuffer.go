package stage

import "time"

// pickBuffer is the cached result of a pick render pass: a target holding
// one flat color per candidate actor, and the arena mapping pick ids back to
// actors. Only the stage writes and reads it.
type pickBuffer struct {
	target        RenderTarget
	width, height int

	mode PickMode
	// actors is the arena for the pass that produced target. Pick id n is
	// actors[n-1]; id 0 is the background.
	actors []*Actor
	// generation is the RedrawClip generation the pass was rendered at.
	generation uint64
	valid      bool
}

// usable reports whether the buffer can answer a pick in mode without a new
// render pass.
func (b *pickBuffer) usable(mode PickMode, clip *RedrawClip) bool {
	return b.valid && b.target != nil && b.mode == mode && clip.IsBufferValid(b.generation)
}

// invalidate forces the next pick to render. The target is kept for reuse.
func (b *pickBuffer) invalidate() {
	b.valid = false
}

// release frees the target and forgets the arena.
func (b *pickBuffer) release() {
	if b.target != nil {
		b.target.Dispose()
		b.target = nil
	}
	b.width, b.height = 0, 0
	b.resetArena()
	b.valid = false
}

func (b *pickBuffer) resetArena() {
	clear(b.actors)
	b.actors = b.actors[:0]
}

// ensureTarget returns a target of exactly w x h, recreating it when the
// size changed.
func (b *pickBuffer) ensureTarget(backend Backend, w, h int) (RenderTarget, error) {
	if b.target != nil && (b.width != w || b.height != h) {
		b.target.Dispose()
		b.target = nil
	}
	if b.target == nil {
		t, err := backend.BeginOffscreenRender(w, h)
		if err != nil {
			return nil, backendError("begin offscreen render", err)
		}
		b.target, b.width, b.height = t, w, h
	}
	return b.target, nil
}

// resolve returns the actor for a decoded pick id, or nil for the
// background and for ids outside the arena.
func (b *pickBuffer) resolve(id uint32) *Actor {
	if id == 0 || int(id) > len(b.actors) {
		return nil
	}
	return b.actors[id-1]
}

// PickStats counts pick pipeline work since the stage was created.
type PickStats struct {
	// Passes is the number of pick render passes.
	Passes uint64
	// Reuses is the number of picks answered from the cached buffer.
	Reuses uint64
	// Failures is the number of picks degraded by a backend failure.
	Failures uint64
	// Candidates is the number of actors rasterized by the last pass.
	Candidates int
	// Skipped is the number of candidates the last pass could not encode.
	Skipped int
	// LastPass is the duration of the last pass.
	LastPass time.Duration
}
