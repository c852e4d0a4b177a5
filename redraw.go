package stage

// RedrawState is the state of a RedrawClip within the current frame.
type RedrawState uint8

const (
	RedrawClean          RedrawState = iota // no damage since the last commit
	RedrawAccumulating                      // bounded damage has been added
	RedrawFullInvalidate                    // the whole stage must be redrawn
)

// String returns the state name.
func (s RedrawState) String() string {
	switch s {
	case RedrawClean:
		return "clean"
	case RedrawAccumulating:
		return "accumulating"
	case RedrawFullInvalidate:
		return "full"
	default:
		return "unknown"
	}
}

// FrameClipState describes the damage committed for one frame.
type FrameClipState struct {
	// Frame is the 1-based number of the committed frame.
	Frame uint64
	// Full reports that the whole stage must be redrawn. Regions is nil and
	// Bounds covers the stage.
	Full bool
	// Bounds is the bounding box of all damage.
	Bounds Box
	// Regions lists damage in the order it was added.
	Regions []Box
}

// IsEmpty reports that nothing needs to be redrawn.
func (f FrameClipState) IsEmpty() bool {
	return !f.Full && f.Bounds.IsEmpty()
}

// RedrawClip accumulates the stage regions that changed since the last
// committed frame and decides whether cached renders are still valid.
//
// Bounded damage narrows the redraw to the union of the added regions. A
// single unbounded contribution forces the whole stage for the rest of the
// frame; later bounded damage does not narrow it back.
type RedrawClip struct {
	state      RedrawState
	stageBox   Box
	regions    []Box
	bounds     Box
	generation uint64
	frame      uint64
	inFrame    bool
	maxRegions int
	warmup     int

	// history holds committed bounds, newest first, for back buffer repair.
	history    []Box
	historyLen int

	ignoring func() bool
	last     FrameClipState
}

// NewRedrawClip creates an accumulator for a w x h stage.
func NewRedrawClip(w, h int, cfg Config) *RedrawClip {
	r := &RedrawClip{
		maxRegions: cfg.MaxDamageRegions,
		warmup:     cfg.WarmupFrames,
		historyLen: cfg.ClipHistoryLength,
	}
	if r.maxRegions < 1 {
		r.maxRegions = DefaultMaxDamageRegions
	}
	if r.historyLen < 1 {
		r.historyLen = DefaultClipHistoryLength
	}
	r.history = make([]Box, 0, r.historyLen)
	r.SetStageSize(w, h)
	return r
}

// SetIgnoringRedrawClips installs the backend capability query. When it
// reports true every damage call becomes a full-stage invalidation.
func (r *RedrawClip) SetIgnoringRedrawClips(fn func() bool) {
	r.ignoring = fn
}

// SetStageSize updates the stage box. Stored history no longer matches the
// surface and is discarded.
func (r *RedrawClip) SetStageSize(w, h int) {
	r.stageBox = Box{Width: float64(max(w, 0)), Height: float64(max(h, 0))}
	r.history = r.history[:0]
}

// StageBox returns the box damage is clipped to.
func (r *RedrawClip) StageBox() Box { return r.stageBox }

// State returns the current state.
func (r *RedrawClip) State() RedrawState { return r.state }

// Generation returns a counter that increases with every accepted damage
// call. Cached renders record it to detect later changes.
func (r *RedrawClip) Generation() uint64 { return r.generation }

// Frame returns the number of committed frames.
func (r *RedrawClip) Frame() uint64 { return r.frame }

// LastFrame returns the state returned by the most recent CommitFrame.
func (r *RedrawClip) LastFrame() FrameClipState { return r.last }

// Bounds returns the bounding box of the pending damage.
func (r *RedrawClip) Bounds() Box {
	if r.state == RedrawFullInvalidate {
		return r.stageBox
	}
	return r.bounds
}

// IgnoringRedrawClips reports that further bounded damage would be promoted
// to a full redraw, either because the frame is already full or because the
// backend gave up tracking clips.
func (r *RedrawClip) IgnoringRedrawClips() bool {
	return r.state == RedrawFullInvalidate || (r.ignoring != nil && r.ignoring())
}

// WantsBoundedDamage reports whether computing a precise damage box is
// worthwhile.
func (r *RedrawClip) WantsBoundedDamage() bool {
	return !r.IgnoringRedrawClips()
}

// BeginFrame marks the start of painting a frame. Damage already pending
// belongs to this frame; damage added before CommitFrame is included too.
func (r *RedrawClip) BeginFrame() {
	r.inFrame = true
}

// InFrame reports whether BeginFrame was called without a matching commit.
func (r *RedrawClip) InFrame() bool { return r.inFrame }

// AddDamage records a changed stage region. Regions are clipped to the stage;
// empty results are ignored.
func (r *RedrawClip) AddDamage(region Box) {
	region = region.Intersect(r.stageBox)
	if region.IsEmpty() {
		return
	}
	r.generation++
	if r.state == RedrawFullInvalidate {
		return
	}
	if r.ignoring != nil && r.ignoring() {
		r.promote()
		return
	}
	r.regions = append(r.regions, region)
	r.bounds = r.bounds.Union(region)
	if len(r.regions) > r.maxRegions {
		r.regions = append(r.regions[:0], r.bounds)
	}
	r.state = RedrawAccumulating
}

// AddFullDamage records a change that cannot be bounded. The rest of the
// frame is a full-stage redraw.
func (r *RedrawClip) AddFullDamage() {
	r.generation++
	r.promote()
}

func (r *RedrawClip) promote() {
	r.state = RedrawFullInvalidate
	r.regions = r.regions[:0]
	r.bounds = Box{}
}

// IsBufferValid reports whether a render made at generation is still
// current: the accumulator is clean and no damage was added since.
func (r *RedrawClip) IsBufferValid(generation uint64) bool {
	return r.state == RedrawClean && generation == r.generation
}

// CommitFrame ends the frame, returns what it must redraw and resets the
// accumulator to clean.
func (r *RedrawClip) CommitFrame() FrameClipState {
	r.frame++
	st := FrameClipState{Frame: r.frame}

	switch r.state {
	case RedrawAccumulating:
		if r.frame <= uint64(r.warmup) {
			st.Full = true
			st.Bounds = r.stageBox
			break
		}
		st.Bounds = r.bounds
		st.Regions = append([]Box(nil), r.regions...)
	case RedrawFullInvalidate:
		st.Full = true
		st.Bounds = r.stageBox
	}

	if st.Full {
		r.history = r.history[:0]
	} else if !st.Bounds.IsEmpty() {
		r.pushHistory(st.Bounds)
	}

	r.state = RedrawClean
	r.regions = r.regions[:0]
	r.bounds = Box{}
	r.inFrame = false
	r.last = st
	return st
}

func (r *RedrawClip) pushHistory(b Box) {
	if len(r.history) < r.historyLen {
		r.history = append(r.history, Box{})
	}
	copy(r.history[1:], r.history[:len(r.history)-1])
	r.history[0] = b
}

// RepairClip returns the region that must be redrawn to bring a back buffer
// that is age frames old up to date. It reports false when the history is
// too short, in which case the whole stage must be redrawn.
func (r *RedrawClip) RepairClip(age int) (Box, bool) {
	if age < 1 || age > len(r.history) {
		return Box{}, false
	}
	clip := r.history[0]
	for i := 1; i < age; i++ {
		clip = clip.Union(r.history[i])
	}
	return clip, true
}

// HistoryLen returns the number of remembered committed clips.
func (r *RedrawClip) HistoryLen() int { return len(r.history) }

// DirtyBackBuffer discards the clip history because the back buffer
// contents are unknown.
func (r *RedrawClip) DirtyBackBuffer() {
	r.history = r.history[:0]
}

// Reset discards pending damage and history and invalidates every cached
// render.
func (r *RedrawClip) Reset() {
	r.generation++
	r.state = RedrawClean
	r.regions = r.regions[:0]
	r.bounds = Box{}
	r.inFrame = false
	r.history = r.history[:0]
}
