package stage

import (
	"encoding/json"
	"fmt"
)

// scriptStep is one entry of a JSON test script. Which fields matter
// depends on Action:
//
//	click, hover  x, y
//	drag          fromX, fromY, toX, toY, frames (at least 2)
//	wait          frames
//	expect        x, y, mode, expect (actor name; empty means nothing)
//	dump          label
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Expect string  `json:"expect,omitempty"`
}

// scriptAction runs one compiled step against the stage.
type scriptAction func(r *TestRunner, s *Stage)

// TestRunner replays a script of injected input, pick assertions and pick
// dumps, one step per Stage.Update. Attach it with SetTestRunner.
type TestRunner struct {
	actions  []scriptAction
	next     int
	idle     int
	done     bool
	failures []string
}

// LoadTestScript parses a JSON test script of the form
// {"steps": [{"action": "click", "x": 10, "y": 20}, ...]}.
// Unknown actions and pick modes are rejected here rather than at run time.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptStep `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	actions := make([]scriptAction, len(script.Steps))
	for i, st := range script.Steps {
		a, err := compileStep(st)
		if err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
		actions[i] = a
	}
	return &TestRunner{actions: actions}, nil
}

func compileStep(st scriptStep) (scriptAction, error) {
	switch st.Action {
	case "click":
		return func(_ *TestRunner, s *Stage) { s.InjectClick(st.X, st.Y) }, nil
	case "hover":
		return func(_ *TestRunner, s *Stage) { s.InjectHover(st.X, st.Y) }, nil
	case "drag":
		frames := max(st.Frames, 2)
		return func(_ *TestRunner, s *Stage) {
			s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, frames)
		}, nil
	case "wait":
		// The frame running the step is the first one waited.
		idle := max(st.Frames-1, 0)
		return func(r *TestRunner, _ *Stage) { r.idle = idle }, nil
	case "expect":
		mode, ok := ParsePickMode(st.Mode)
		if !ok {
			return nil, fmt.Errorf("unknown pick mode %q", st.Mode)
		}
		return func(r *TestRunner, s *Stage) { r.expect(s, st.X, st.Y, mode, st.Expect) }, nil
	case "dump":
		return func(r *TestRunner, s *Stage) {
			if _, err := s.WritePickDump(st.Label); err != nil {
				r.failf("dump %q: %v", st.Label, err)
			}
		}, nil
	}
	return nil, fmt.Errorf("unknown action %q", st.Action)
}

func (r *TestRunner) expect(s *Stage, x, y float64, mode PickMode, want string) {
	a, err := s.PickAt(x, y, mode)
	switch {
	case err != nil:
		r.failf("expect %q at (%v, %v): %v", want, x, y, err)
	case a == nil && want != "":
		r.failf("expect %q at (%v, %v): nothing picked", want, x, y)
	case a != nil && a.Name != want:
		r.failf("expect %q at (%v, %v): picked %q", want, x, y, a.Name)
	}
}

// SetTestRunner attaches runner to the stage; nil detaches it.
func (s *Stage) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run and its injected input drained.
func (r *TestRunner) Done() bool { return r.done }

// Failures describes every failed expect or dump step, in order.
func (r *TestRunner) Failures() []string { return r.failures }

func (r *TestRunner) failf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.failures = append(r.failures, msg)
	Logger().Warn("stage: test step failed", "step", r.next, "msg", msg)
}

// step is called once per Stage.Update. Injected input from an earlier step
// drains before the next step runs.
func (r *TestRunner) step(s *Stage) {
	switch {
	case r.done, len(s.injectQueue) > 0:
		return
	case r.idle > 0:
		r.idle--
		return
	case r.next >= len(r.actions):
		r.done = true
		return
	}

	r.next++
	r.actions[r.next-1](r, s)

	if r.next == len(r.actions) && r.idle == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
