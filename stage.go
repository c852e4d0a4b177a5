package stage

import (
	"fmt"
	"time"
)

// EntityStore is the interface for optional ECS integration.
// When set on a Stage, interaction events are forwarded to the ECS.
type EntityStore interface {
	EmitEvent(event InteractionEvent)
}

// InteractionEvent carries interaction data for the ECS bridge.
type InteractionEvent struct {
	Type      EventType
	EntityID  uint32
	StageX    float64
	StageY    float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	StartX float64
	StartY float64
	DeltaX float64
	DeltaY float64
}

// Stage is the top-level object that owns the actor tree, the redraw clip
// accumulator, the pick buffer and input state. Everything on a Stage runs
// on one goroutine.
type Stage struct {
	root    *Actor
	backend Backend
	cfg     Config
	store   EntityStore
	debug   bool

	width, height int
	realized      bool
	background    Color

	clip      *RedrawClip
	pick      pickBuffer
	codec     pickColorCodec
	pickStats PickStats
	pathBuf   []Vec2

	// Input state
	handlers     handlerRegistry
	captured     [MaxPointers]*Actor
	pointers     [MaxPointers]pointerState
	dragDeadZone float64
	injectQueue  []PointerEvent
	testRunner   *TestRunner
}

// NewStage creates an unrealized stage drawing through backend. Call
// Realize before picking or rendering.
func NewStage(backend Backend, cfg Config) *Stage {
	if backend == nil {
		panic("stage: nil backend")
	}
	s := &Stage{
		backend:      backend,
		cfg:          cfg,
		width:        max(cfg.Width, 0),
		height:       max(cfg.Height, 0),
		background:   Color{0, 0, 0, 1},
		codec:        newPickColorCodec(cfg.PickColorBits, cfg.DebugPickColors),
		dragDeadZone: cfg.DragDeadZone,
	}
	s.root = NewGroup("stage")
	s.root.stage = s
	s.root.width, s.root.height = float64(s.width), float64(s.height)
	s.clip = NewRedrawClip(s.width, s.height, cfg)
	s.clip.SetIgnoringRedrawClips(backend.IgnoringRedrawClips)
	if cfg.Debug {
		s.SetDebugMode(true)
	}
	return s
}

// Root returns the stage's root actor. The root is never picked.
func (s *Stage) Root() *Actor {
	return s.root
}

// Backend returns the backend the stage draws through.
func (s *Stage) Backend() Backend {
	return s.backend
}

// Config returns the configuration the stage was created with.
func (s *Stage) Config() Config {
	return s.cfg
}

// RedrawClip returns the stage's damage accumulator.
func (s *Stage) RedrawClip() *RedrawClip {
	return s.clip
}

// Size returns the stage size in pixels.
func (s *Stage) Size() (width, height int) {
	return s.width, s.height
}

// IsRealized reports whether Realize succeeded and Unrealize has not been
// called since.
func (s *Stage) IsRealized() bool {
	return s.realized
}

// Realize allocates the backend surface. Cached pick renders are discarded
// and the next frame redraws the whole stage.
func (s *Stage) Realize() error {
	if s.realized {
		return nil
	}
	if err := s.backend.Realize(); err != nil {
		return fmt.Errorf("realize: %w", backendError("realize", err))
	}
	s.realized = true
	if r, ok := s.backend.(Resizer); ok {
		r.Resize(s.width, s.height)
	}
	s.pick.release()
	s.clip.Reset()
	s.clip.AddFullDamage()
	return nil
}

// Unrealize releases the pick buffer and the backend surface.
func (s *Stage) Unrealize() {
	if !s.realized {
		return
	}
	s.pick.release()
	s.clip.Reset()
	s.resetPointers()
	s.backend.Unrealize()
	s.realized = false
}

// Resize changes the stage size. The pick target is recreated on the next
// pick and the whole stage is damaged.
func (s *Stage) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if s.width == width && s.height == height {
		return
	}
	s.width, s.height = width, height
	s.root.width, s.root.height = float64(width), float64(height)
	s.clip.SetStageSize(width, height)
	s.pick.invalidate()
	if s.realized {
		if r, ok := s.backend.(Resizer); ok {
			r.Resize(width, height)
		}
	}
	s.clip.AddFullDamage()
}

// SetBackgroundColor sets the color painted behind the root.
func (s *Stage) SetBackgroundColor(c Color) {
	if s.background == c {
		return
	}
	s.background = c
	s.clip.AddFullDamage()
}

// QueueRedraw damages the whole stage.
func (s *Stage) QueueRedraw() {
	s.clip.AddFullDamage()
}

// Update advances the test runner and consumes at most one injected pointer
// event. It reports whether an injected event was consumed, in which case
// the caller should skip real pointer input for this frame.
func (s *Stage) Update() bool {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}
	return s.processInjectedInput()
}

// RenderFrame commits the pending damage and, on backends that present to
// a screen, repaints the damaged area and swaps buffers. It returns the
// committed clip state; an empty state means nothing was painted.
func (s *Stage) RenderFrame() (FrameClipState, error) {
	if !s.realized || s.width <= 0 || s.height <= 0 {
		return FrameClipState{}, ErrUnready
	}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.clip.BeginFrame()
	st := s.clip.CommitFrame()
	if st.IsEmpty() {
		return st, nil
	}

	p, ok := s.backend.(Presenter)
	if !ok {
		// Nothing to draw into; keep paint boxes current so later damage
		// stays bounded.
		s.root.walk(0, 0, s.clip.StageBox(), 1, notePaint)
		return st, nil
	}

	paintClip := s.clip.StageBox()
	if !st.Full {
		if rc, ok := s.clip.RepairClip(p.BufferAge()); ok {
			paintClip = rc
		}
	}
	s.paint(p.Onscreen(), paintClip)

	var damage []Box
	if !st.Full {
		damage = st.Regions
	}
	if err := p.SwapBuffers(damage); err != nil {
		s.clip.DirtyBackBuffer()
		return st, fmt.Errorf("render frame: %w", backendError("swap buffers", err))
	}

	if s.debug {
		s.debugLogFrame(st, paintClip, time.Since(t0))
	}
	return st, nil
}

// SetEntityStore sets the optional ECS bridge.
func (s *Stage) SetEntityStore(store EntityStore) {
	s.store = store
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-actor
// access panics, tree depth and child count warnings are logged, and pick
// and frame statistics are logged at debug level.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Stage debug flag so that actor
// operations (which lack a Stage pointer) can check it cheaply. Only valid
// with a single Stage; multiple Stages with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool
