package stage

import (
	"fmt"
	"time"
)

// debugLogPick logs statistics of the last pick render pass.
func (s *Stage) debugLogPick() {
	if !s.debug {
		return
	}
	st := s.pickStats
	Logger().Debug("stage: pick pass",
		"mode", s.pick.mode.String(),
		"generation", s.pick.generation,
		"candidates", st.Candidates,
		"skipped", st.Skipped,
		"passes", st.Passes,
		"reuses", st.Reuses,
		"duration", st.LastPass)
}

// debugLogFrame logs what a frame committed and repainted.
func (s *Stage) debugLogFrame(st FrameClipState, painted Box, d time.Duration) {
	if !s.debug {
		return
	}
	Logger().Debug("stage: frame",
		"frame", st.Frame,
		"full", st.Full,
		"regions", len(st.Regions),
		"bounds", st.Bounds,
		"painted", painted,
		"duration", d)
}

// debugCheckDisposed panics with a descriptive message when a disposed actor
// is used in a tree operation. Only called in debug mode.
func debugCheckDisposed(a *Actor, op string) {
	if a.disposed {
		panic(fmt.Sprintf("stage debug: %s on disposed actor %q", op, a.Name))
	}
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func debugCheckTreeDepth(a *Actor) {
	depth := 0
	for p := a; p != nil; p = p.Parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		Logger().Warn("stage: tree too deep",
			"depth", depth, "threshold", debugMaxTreeDepth, "actor", a.Name)
	}
}

// debugCheckChildCount warns if an actor has more than 1000 children.
const debugMaxChildCount = 1000

func debugCheckChildCount(a *Actor) {
	if len(a.children) > debugMaxChildCount {
		Logger().Warn("stage: too many children",
			"actor", a.Name, "children", len(a.children), "threshold", debugMaxChildCount)
	}
}
