package stage

import (
	"strings"
	"testing"
)

// --- Tree ---

func TestAddChildOrderAndParent(t *testing.T) {
	root := NewGroup("root")
	a := NewRectangle("a", 0, 0, 10, 10, ColorWhite)
	b := NewRectangle("b", 0, 0, 10, 10, ColorWhite)
	c := NewRectangle("c", 0, 0, 10, 10, ColorWhite)
	root.AddChild(a)
	root.AddChild(b)
	root.AddChildAt(c, 1)

	want := []*Actor{a, c, b}
	if root.NumChildren() != len(want) {
		t.Fatalf("NumChildren = %d, want %d", root.NumChildren(), len(want))
	}
	for i, w := range want {
		if root.ChildAt(i) != w {
			t.Errorf("ChildAt(%d) = %q, want %q", i, root.ChildAt(i).Name, w.Name)
		}
		if w.Parent != root {
			t.Errorf("%q.Parent = %v, want root", w.Name, w.Parent)
		}
	}
}

func TestAddChildReparents(t *testing.T) {
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	child := NewRectangle("child", 0, 0, 1, 1, ColorWhite)
	p1.AddChild(child)
	p2.AddChild(child)
	if p1.NumChildren() != 0 {
		t.Error("child should have been removed from its old parent")
	}
	if child.Parent != p2 {
		t.Error("child.Parent should be the new parent")
	}
}

func TestAddChildAtBadIndexLeavesTreeAlone(t *testing.T) {
	s, _ := newFakeStage(t, 100, 100)
	p1 := NewGroup("p1")
	p2 := NewGroup("p2")
	c := NewRectangle("c", 0, 0, 10, 10, ColorWhite)
	s.Root().AddChild(p1)
	s.Root().AddChild(p2)
	p1.AddChild(c)
	renderFrame(t, s)

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatal("expected panic for index 5")
			}
		}()
		p2.AddChildAt(c, 5)
	}()

	if c.Parent != p1 || p1.NumChildren() != 1 || p2.NumChildren() != 0 {
		t.Errorf("after panic: c.Parent = %v, p1 has %d, p2 has %d; want c still in p1",
			c.Parent, p1.NumChildren(), p2.NumChildren())
	}
	if st := s.clip.State(); st != RedrawClean {
		t.Errorf("State = %v, want no damage from a rejected insert", st)
	}
}

func TestAddChildAtMovesWithinParent(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	c := NewGroup("c")
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	// Three children, so index 2 is the end once a has been removed.
	root.AddChildAt(a, 2)
	if got := childNames(root); got != "b,c,a" {
		t.Errorf("order = %s, want b,c,a", got)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("index 3 of a three-child parent should panic")
		}
		if root.NumChildren() != 3 || a.Parent != root {
			t.Errorf("a was detached by a rejected move")
		}
	}()
	root.AddChildAt(a, 3)
}

func TestAddChildPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		msg  string
	}{
		{"nil child", func() { NewGroup("a").AddChild(nil) }, "nil child"},
		{"cycle", func() {
			a := NewGroup("a")
			b := NewGroup("b")
			a.AddChild(b)
			b.AddChild(a)
		}, "cycle"},
		{"self", func() {
			a := NewGroup("a")
			a.AddChild(a)
		}, "cycle"},
		{"stage root", func() {
			s := NewStage(&fakeBackend{}, DefaultConfig())
			NewGroup("a").AddChild(s.Root())
		}, "stage root"},
		{"index out of range", func() {
			NewGroup("a").AddChildAt(NewGroup("b"), 2)
		}, "out of range"},
		{"remove foreign child", func() {
			NewGroup("a").RemoveChild(NewGroup("b"))
		}, "not this actor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if r == nil {
					t.Fatal("expected panic")
				}
				if msg, _ := r.(string); !strings.Contains(msg, tt.msg) {
					t.Errorf("panic %q does not mention %q", r, tt.msg)
				}
			}()
			tt.fn()
		})
	}
}

func TestRemoveChildren(t *testing.T) {
	root := NewGroup("root")
	a := NewGroup("a")
	b := NewGroup("b")
	root.AddChild(a)
	root.AddChild(b)

	if got := root.RemoveChildAt(0); got != a {
		t.Errorf("RemoveChildAt(0) = %q, want a", got.Name)
	}
	if a.Parent != nil {
		t.Error("removed child should have no parent")
	}
	root.AddChild(a)
	root.RemoveChildren()
	if root.NumChildren() != 0 || a.Parent != nil || b.Parent != nil {
		t.Error("RemoveChildren should detach every child")
	}
	a.RemoveFromParent() // no-op
}

func TestSetChildIndex(t *testing.T) {
	root := NewGroup("root")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)

	root.SetChildIndex(a, 2)
	if names := childNames(root); names != "b,c,a" {
		t.Errorf("order = %s, want b,c,a", names)
	}
	root.SetChildIndex(a, 0)
	if names := childNames(root); names != "a,b,c" {
		t.Errorf("order = %s, want a,b,c", names)
	}
}

func TestPaintChildrenZIndex(t *testing.T) {
	root := NewGroup("root")
	a, b, c := NewGroup("a"), NewGroup("b"), NewGroup("c")
	root.AddChild(a)
	root.AddChild(b)
	root.AddChild(c)
	a.SetZIndex(5)
	c.SetZIndex(-1)

	var names []string
	for _, ch := range root.paintChildren() {
		names = append(names, ch.Name)
	}
	if got := strings.Join(names, ","); got != "c,b,a" {
		t.Errorf("paint order = %s, want c,b,a", got)
	}
	// Insertion order is untouched.
	if got := childNames(root); got != "a,b,c" {
		t.Errorf("children = %s, want a,b,c", got)
	}
}

func TestDispose(t *testing.T) {
	s := NewStage(&fakeBackend{}, DefaultConfig())
	parent := NewGroup("parent")
	child := NewRectangle("child", 0, 0, 1, 1, ColorWhite)
	parent.AddChild(child)
	s.Root().AddChild(parent)

	parent.Dispose()
	if !parent.IsDisposed() || !child.IsDisposed() {
		t.Error("Dispose should mark the subtree disposed")
	}
	if s.Root().NumChildren() != 0 {
		t.Error("disposed actor should be removed from its parent")
	}
	s.Root().Dispose()
	if s.Root().IsDisposed() {
		t.Error("the stage root cannot be disposed")
	}
}

func TestDebugDisposedPanics(t *testing.T) {
	s := NewStage(&fakeBackend{}, DefaultConfig())
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	a := NewGroup("a")
	a.Dispose()
	defer func() {
		if recover() == nil {
			t.Error("expected panic adding a disposed actor in debug mode")
		}
	}()
	s.Root().AddChild(a)
}

// --- Coordinates and mapping ---

func TestActorCoordinates(t *testing.T) {
	root := NewGroup("root")
	panel := NewGroup("panel")
	panel.SetPosition(100, 50)
	btn := NewRectangle("btn", 10, 20, 30, 40, ColorWhite)
	root.AddChild(panel)
	panel.AddChild(btn)

	if got, want := btn.AllocationBox(), (Box{110, 70, 30, 40}); got != want {
		t.Errorf("AllocationBox = %+v, want %+v", got, want)
	}
	if x, y := btn.StageToLocal(115, 75); x != 5 || y != 5 {
		t.Errorf("StageToLocal = (%v, %v), want (5, 5)", x, y)
	}
	if x, y := btn.LocalToStage(5, 5); x != 115 || y != 75 {
		t.Errorf("LocalToStage = (%v, %v), want (115, 75)", x, y)
	}
}

func TestIsMapped(t *testing.T) {
	s := NewStage(&fakeBackend{}, DefaultConfig())
	parent := NewGroup("parent")
	child := NewGroup("child")
	parent.AddChild(child)

	if child.IsMapped() {
		t.Error("detached actor should not be mapped")
	}
	s.Root().AddChild(parent)
	if !child.IsMapped() || child.Stage() != s {
		t.Error("attached visible actor should be mapped")
	}
	parent.Hide()
	if child.IsMapped() {
		t.Error("child of a hidden parent should not be mapped")
	}
	if child.Stage() != s {
		t.Error("Stage() does not depend on visibility")
	}
}

func TestSetSizeClampsNegative(t *testing.T) {
	a := NewGroup("a")
	a.SetSize(-5, 10)
	if w, h := a.Size(); w != 0 || h != 10 {
		t.Errorf("Size = (%v, %v), want (0, 10)", w, h)
	}
}

func TestPickShapeDefault(t *testing.T) {
	a := NewRectangle("a", 5, 5, 20, 10, ColorWhite)
	if a.HasCustomPickShape() {
		t.Error("new actor should not have a custom pick shape")
	}
	if got, want := a.PickShape(), (PickRect{Width: 20, Height: 10}); got != want {
		t.Errorf("PickShape = %+v, want %+v", got, want)
	}
	a.SetPickShape(PickCircle{CenterX: 10, CenterY: 5, Radius: 5})
	if !a.HasCustomPickShape() {
		t.Error("HasCustomPickShape should be true after SetPickShape")
	}
}

// --- Damage ---

func TestAddUnpaintedActorDamagesWholeStage(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	s.Root().AddChild(NewRectangle("a", 10, 10, 20, 20, ColorWhite))
	if s.clip.State() != RedrawFullInvalidate {
		t.Errorf("State = %v, want full: the new actor's extent is unknown", s.clip.State())
	}
}

func TestMoveDamagesOldAndNewArea(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	a.SetPosition(50, 50)
	if s.clip.State() != RedrawAccumulating {
		t.Fatalf("State = %v, want accumulating", s.clip.State())
	}
	if got, want := s.clip.Bounds(), (Box{10, 10, 60, 60}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}

	st := renderFrame(t, s)
	if st.Full || st.Bounds != (Box{10, 10, 60, 60}) {
		t.Errorf("committed %+v", st)
	}

	// The next move starts from the painted position.
	a.SetPosition(60, 50)
	if got, want := s.clip.Bounds(), (Box{50, 50, 30, 20}); got != want {
		t.Errorf("Bounds after second move = %+v, want %+v", got, want)
	}
}

func TestColorDamagesOwnAreaOnly(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	parent := NewRectangle("parent", 10, 10, 20, 20, ColorWhite)
	parent.AddChild(NewRectangle("child", 100, 100, 20, 20, ColorWhite))
	s.Root().AddChild(parent)
	renderFrame(t, s)

	parent.SetColor(Color{R: 1, A: 1})
	if got, want := s.clip.Bounds(), (Box{10, 10, 20, 20}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestHideShowDamageBounded(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	a.Hide()
	if got, want := s.clip.Bounds(), (Box{10, 10, 20, 20}); got != want {
		t.Errorf("Hide: Bounds = %+v, want %+v", got, want)
	}
	renderFrame(t, s)

	a.Show()
	if s.clip.State() != RedrawAccumulating {
		t.Errorf("Show: State = %v, want accumulating", s.clip.State())
	}
	if got, want := s.clip.Bounds(), (Box{10, 10, 20, 20}); got != want {
		t.Errorf("Show: Bounds = %+v, want %+v", got, want)
	}
}

func TestClipChangeDamagesBothExtents(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 0, 0, 100, 100, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	a.SetClip(Box{10, 10, 20, 20})
	if got, want := s.clip.Bounds(), (Box{0, 0, 100, 100}); got != want {
		t.Errorf("SetClip: Bounds = %+v, want %+v", got, want)
	}
	renderFrame(t, s)

	a.SetClip(Box{50, 50, 10, 10})
	if got, want := s.clip.Bounds(), (Box{10, 10, 50, 50}); got != want {
		t.Errorf("moved clip: Bounds = %+v, want %+v", got, want)
	}
	renderFrame(t, s)

	a.RemoveClip()
	if got, want := s.clip.Bounds(), (Box{0, 0, 100, 100}); got != want {
		t.Errorf("RemoveClip: Bounds = %+v, want %+v", got, want)
	}
}

func TestOpacityDamage(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	a.SetOpacity(0)
	if got, want := s.clip.Bounds(), (Box{10, 10, 20, 20}); got != want {
		t.Errorf("fade out: Bounds = %+v, want %+v", got, want)
	}
	renderFrame(t, s)

	a.SetOpacity(128)
	if got, want := s.clip.Bounds(), (Box{10, 10, 20, 20}); got != want {
		t.Errorf("fade in: Bounds = %+v, want %+v", got, want)
	}
}

func TestRemoveDamagesLastPaintedArea(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 30, 40, 10, 10, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	a.RemoveFromParent()
	if got, want := s.clip.Bounds(), (Box{30, 40, 10, 10}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestReactiveChangeDoesNotDamage(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	if _, err := s.PickAt(15, 15, PickReactive); err != nil {
		t.Fatal(err)
	}
	a.SetReactive(true)
	a.SetPickShape(PickCircle{CenterX: 10, CenterY: 10, Radius: 10})
	if s.clip.State() != RedrawClean {
		t.Errorf("State = %v, want clean", s.clip.State())
	}
	if s.pick.valid {
		t.Error("reactive and pick shape changes must invalidate the pick buffer")
	}
}

func TestUnmappedChangesDoNotDamage(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	parent := NewGroup("parent")
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	parent.AddChild(a)
	s.Root().AddChild(parent)
	parent.Hide()
	renderFrame(t, s)

	gen := s.clip.Generation()
	a.SetPosition(50, 50)
	a.SetColor(Color{G: 1, A: 1})
	a.SetClip(Box{0, 0, 5, 5})
	if s.clip.State() != RedrawClean || s.clip.Generation() != gen {
		t.Error("changes under a hidden parent must not damage the stage")
	}

	detached := NewRectangle("detached", 0, 0, 10, 10, ColorWhite)
	detached.SetPosition(5, 5)
	if s.clip.State() != RedrawClean {
		t.Error("changes to a detached actor must not damage the stage")
	}
}

func TestAncestorClipLimitsDamage(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	parent := NewGroup("parent")
	parent.SetPosition(20, 20)
	parent.SetClip(Box{0, 0, 30, 30})
	a := NewRectangle("a", 0, 0, 100, 100, ColorWhite)
	parent.AddChild(a)
	s.Root().AddChild(parent)
	renderFrame(t, s)

	a.SetColor(Color{B: 1, A: 1})
	if got, want := s.clip.Bounds(), (Box{20, 20, 30, 30}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

func TestIgnoringBackendForcesFullDamage(t *testing.T) {
	s, b := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	b.ignoring = true
	a.SetPosition(20, 20)
	if s.clip.State() != RedrawFullInvalidate {
		t.Errorf("State = %v, want full", s.clip.State())
	}
}

func TestZIndexChangeDamagesSubtree(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	a := NewRectangle("a", 10, 10, 20, 20, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	a.SetZIndex(3)
	if got, want := s.clip.Bounds(), (Box{10, 10, 20, 20}); got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
}

// --- Pick pass with a fake backend ---

func TestPickPassCandidates(t *testing.T) {
	s, _ := newFakeStage(t, 200, 200)
	reactive := NewRectangle("reactive", 0, 0, 10, 10, ColorWhite)
	reactive.SetReactive(true)
	s.Root().AddChild(reactive)
	s.Root().AddChild(NewRectangle("plain", 20, 0, 10, 10, ColorWhite))
	hidden := NewRectangle("hidden", 40, 0, 10, 10, ColorWhite)
	hidden.SetReactive(true)
	hidden.Hide()
	s.Root().AddChild(hidden)
	s.Root().AddChild(NewGroup("group"))
	clipped := NewRectangle("clipped", 60, 0, 10, 10, ColorWhite)
	clipped.SetClip(Box{1000, 1000, 5, 5})
	s.Root().AddChild(clipped)

	if _, err := s.PickAt(1, 1, PickAll); err != nil {
		t.Fatal(err)
	}
	if got := s.PickStats().Candidates; got != 2 {
		t.Errorf("PickAll candidates = %d, want 2 (reactive, plain)", got)
	}
	if _, err := s.PickAt(1, 1, PickReactive); err != nil {
		t.Fatal(err)
	}
	if got := s.PickStats().Candidates; got != 1 {
		t.Errorf("PickReactive candidates = %d, want 1", got)
	}
}

func TestPickBufferReuse(t *testing.T) {
	s, b := newFakeStage(t, 100, 100)
	a := NewRectangle("a", 0, 0, 10, 10, ColorWhite)
	s.Root().AddChild(a)
	renderFrame(t, s)

	pick := func() {
		t.Helper()
		if _, err := s.PickAt(5, 5, PickAll); err != nil {
			t.Fatal(err)
		}
	}

	pick()
	pick()
	if st := s.PickStats(); st.Passes != 1 || st.Reuses != 1 {
		t.Fatalf("stats = %+v, want 1 pass and 1 reuse", st)
	}
	if b.offscreen != 1 {
		t.Errorf("offscreen targets = %d, want 1", b.offscreen)
	}

	// Damage invalidates the buffer. A pass rendered while the damage is
	// pending becomes reusable once the frame commits.
	a.SetPosition(1, 1)
	pick()
	renderFrame(t, s)
	pick()
	if st := s.PickStats(); st.Passes != 2 || st.Reuses != 2 {
		t.Errorf("stats = %+v, want 2 passes and 2 reuses", st)
	}
	if b.offscreen != 1 {
		t.Errorf("the target should be kept across passes, got %d allocations", b.offscreen)
	}

	// A mode switch always renders.
	if _, err := s.PickAt(5, 5, PickReactive); err != nil {
		t.Fatal(err)
	}
	if st := s.PickStats(); st.Passes != 3 {
		t.Errorf("Passes = %d after mode switch, want 3", st.Passes)
	}

	// Resizing reallocates the target.
	s.Resize(50, 50)
	renderFrame(t, s)
	pick()
	if b.offscreen != 2 {
		t.Errorf("offscreen targets = %d after resize, want 2", b.offscreen)
	}
}

func childNames(a *Actor) string {
	names := make([]string, 0, a.NumChildren())
	for _, c := range a.Children() {
		names = append(names, c.Name)
	}
	return strings.Join(names, ",")
}
