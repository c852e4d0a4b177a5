package stage

// PointerContext carries pointer event data.
type PointerContext struct {
	Actor     *Actor
	EntityID  uint32
	UserData  any
	StageX    float64
	StageY    float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// ClickContext carries click event data.
type ClickContext struct {
	Actor     *Actor
	EntityID  uint32
	UserData  any
	StageX    float64
	StageY    float64
	LocalX    float64
	LocalY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// DragContext carries drag event data.
type DragContext struct {
	Actor     *Actor
	EntityID  uint32
	UserData  any
	StageX    float64
	StageY    float64
	LocalX    float64
	LocalY    float64
	StartX    float64
	StartY    float64
	DeltaX    float64
	DeltaY    float64
	Button    MouseButton
	PointerID int
	Modifiers KeyModifiers
}

// actorIDCounter is a plain counter (no atomic, the tree is single-threaded).
var actorIDCounter uint32

func nextActorID() uint32 {
	actorIDCounter++
	return actorIDCounter
}

// Actor is a node of the stage tree. A single flat struct is used for all
// actor types; the pick pipeline reads it only through its accessors.
//
// Geometry, visibility, opacity, color and clip are changed through setters
// so that the stage learns which area of the screen changed.
type Actor struct {
	// Identity
	ID   uint32
	Name string
	Type ActorType

	// Hierarchy
	Parent   *Actor
	children []*Actor

	// Geometry relative to the parent's origin.
	x, y          float64
	width, height float64

	visible  bool
	opacity  uint8
	reactive bool
	color    Color

	clip    Box
	hasClip bool

	pickShape PickShape

	// Ordering
	ZIndex int

	// Metadata
	UserData any
	EntityID uint32

	// Per-actor callbacks (nil by default)
	OnPointerDown  func(PointerContext)
	OnPointerUp    func(PointerContext)
	OnPointerMove  func(PointerContext)
	OnPointerEnter func(PointerContext)
	OnPointerLeave func(PointerContext)
	OnClick        func(ClickContext)
	OnDragStart    func(DragContext)
	OnDrag         func(DragContext)
	OnDragEnd      func(DragContext)

	// lastPaintBox is where the actor was painted in the last frame or pick
	// pass, in stage coordinates.
	lastPaintBox Box
	hasPaintBox  bool

	// stage is set on the root actor only.
	stage *Stage

	// Internal
	disposed       bool
	childrenSorted bool
	sortedChildren []*Actor
}

func actorDefaults(a *Actor) {
	a.ID = nextActorID()
	a.visible = true
	a.opacity = 255
	a.color = ColorWhite
	a.childrenSorted = true
}

// NewGroup creates a group actor with no visual output of its own. Groups
// have zero size by default and are therefore never picked themselves.
func NewGroup(name string) *Actor {
	a := &Actor{Name: name, Type: ActorTypeGroup}
	actorDefaults(a)
	return a
}

// NewRectangle creates a solid rectangle actor at (x, y) relative to its
// parent.
func NewRectangle(name string, x, y, width, height float64, c Color) *Actor {
	a := &Actor{
		Name:   name,
		Type:   ActorTypeRectangle,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
	actorDefaults(a)
	a.color = c
	return a
}

// --- Accessors ---

// Position returns the actor's position relative to its parent.
func (a *Actor) Position() (x, y float64) { return a.x, a.y }

// Size returns the actor's allocated size.
func (a *Actor) Size() (width, height float64) { return a.width, a.height }

// Visible reports the actor's own visibility flag.
func (a *Actor) Visible() bool { return a.visible }

// Opacity returns the actor's own opacity in [0, 255].
func (a *Actor) Opacity() uint8 { return a.opacity }

// Reactive reports whether the actor receives input events.
func (a *Actor) Reactive() bool { return a.reactive }

// Color returns the actor's paint color.
func (a *Actor) Color() Color { return a.color }

// Clip returns the clip box in actor-local coordinates.
func (a *Actor) Clip() (Box, bool) { return a.clip, a.hasClip }

// PickShape returns the shape used for picking. Actors without a custom
// shape are picked by their allocation.
func (a *Actor) PickShape() PickShape {
	if a.pickShape != nil {
		return a.pickShape
	}
	return PickRect{Width: a.width, Height: a.height}
}

// HasCustomPickShape reports whether SetPickShape installed a shape.
func (a *Actor) HasCustomPickShape() bool { return a.pickShape != nil }

// Origin returns the actor's top-left corner in stage coordinates.
func (a *Actor) Origin() (x, y float64) {
	for p := a; p != nil; p = p.Parent {
		x += p.x
		y += p.y
	}
	return x, y
}

// AllocationBox returns the actor's allocation in stage coordinates.
func (a *Actor) AllocationBox() Box {
	x, y := a.Origin()
	return Box{X: x, Y: y, Width: a.width, Height: a.height}
}

// StageToLocal converts stage coordinates to actor-local coordinates.
func (a *Actor) StageToLocal(sx, sy float64) (x, y float64) {
	ox, oy := a.Origin()
	return sx - ox, sy - oy
}

// LocalToStage converts actor-local coordinates to stage coordinates.
func (a *Actor) LocalToStage(x, y float64) (sx, sy float64) {
	ox, oy := a.Origin()
	return x + ox, y + oy
}

// Stage returns the stage the actor is attached to, or nil.
func (a *Actor) Stage() *Stage {
	p := a
	for p.Parent != nil {
		p = p.Parent
	}
	return p.stage
}

// IsMapped reports whether the actor is attached to a stage and it and all
// of its ancestors are visible.
func (a *Actor) IsMapped() bool {
	return a.mappedStage() != nil
}

func (a *Actor) mappedStage() *Stage {
	p := a
	for {
		if !p.visible {
			return nil
		}
		if p.Parent == nil {
			return p.stage
		}
		p = p.Parent
	}
}

// --- Setters ---

// SetPosition moves the actor relative to its parent.
func (a *Actor) SetPosition(x, y float64) {
	if a.x == x && a.y == y {
		return
	}
	a.queueGeometryDamage()
	a.x, a.y = x, y
	a.queueGeometryDamage()
}

// SetSize changes the actor's allocated size. Negative sizes are clamped
// to zero.
func (a *Actor) SetSize(width, height float64) {
	width, height = max(width, 0), max(height, 0)
	if a.width == width && a.height == height {
		return
	}
	a.queueGeometryDamage()
	a.width, a.height = width, height
	a.queueGeometryDamage()
}

// SetGeometry sets position and size at once.
func (a *Actor) SetGeometry(b Box) {
	w, h := max(b.Width, 0), max(b.Height, 0)
	if a.x == b.X && a.y == b.Y && a.width == w && a.height == h {
		return
	}
	a.queueGeometryDamage()
	a.x, a.y, a.width, a.height = b.X, b.Y, w, h
	a.queueGeometryDamage()
}

// Show makes the actor visible.
func (a *Actor) Show() {
	if a.visible {
		return
	}
	a.visible = true
	a.queueMapDamage()
}

// Hide makes the actor and its subtree invisible. Hidden actors are never
// painted or picked.
func (a *Actor) Hide() {
	if !a.visible {
		return
	}
	a.queueMapDamage()
	a.visible = false
}

// SetVisible calls Show or Hide.
func (a *Actor) SetVisible(v bool) {
	if v {
		a.Show()
	} else {
		a.Hide()
	}
}

// SetOpacity sets the actor's opacity. An actor with opacity 0 is skipped
// together with its subtree.
func (a *Actor) SetOpacity(o uint8) {
	if a.opacity == o {
		return
	}
	if a.opacity != 0 {
		a.queueGeometryDamage()
	}
	a.opacity = o
	a.queueGeometryDamage()
}

// SetColor sets the paint color.
func (a *Actor) SetColor(c Color) {
	if a.color == c {
		return
	}
	a.color = c
	a.queueOwnDamage()
}

// SetClip restricts painting and picking of the actor and its subtree to
// the clip box, given in actor-local coordinates.
func (a *Actor) SetClip(clip Box) {
	if a.hasClip && a.clip == clip {
		return
	}
	a.queueGeometryDamage()
	a.clip, a.hasClip = clip, true
	a.queueGeometryDamage()
}

// RemoveClip removes the clip box.
func (a *Actor) RemoveClip() {
	if !a.hasClip {
		return
	}
	a.hasClip = false
	a.clip = Box{}
	a.queueGeometryDamage()
}

// SetReactive sets whether the actor receives input events. The screen does
// not change, but reactive-only pick results may.
func (a *Actor) SetReactive(r bool) {
	if a.reactive == r {
		return
	}
	a.reactive = r
	a.invalidatePick()
}

// SetPickShape installs a custom pick shape in actor-local coordinates. Pass
// nil to pick by the allocation again.
func (a *Actor) SetPickShape(s PickShape) {
	a.pickShape = s
	a.invalidatePick()
}

// SetZIndex sets the actor's ZIndex and marks the parent's children as
// unsorted. Higher values paint later and win picks on overlap.
func (a *Actor) SetZIndex(z int) {
	if a.ZIndex == z {
		return
	}
	a.ZIndex = z
	if a.Parent != nil {
		a.Parent.childrenSorted = false
	}
	a.queueGeometryDamage()
}

// --- Tree manipulation ---

// AddChild appends child to this actor's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this actor (cycle).
func (a *Actor) AddChild(child *Actor) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(a, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, a) {
		panic("stage: adding child would create a cycle")
	}
	if child.stage != nil {
		panic("stage: cannot add a stage root as a child")
	}
	if child.Parent != nil {
		child.Parent.detach(child)
	}
	child.Parent = a
	a.children = append(a.children, child)
	a.childrenSorted = false
	child.queueMapDamage()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(a)
	}
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild. When child already
// belongs to a, index is its position among the remaining children, so
// len(a.Children())-1 moves it to the end. An out-of-range index panics
// before anything is detached.
func (a *Actor) AddChildAt(child *Actor, index int) {
	if child == nil {
		panic("stage: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(a, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, a) {
		panic("stage: adding child would create a cycle")
	}
	if child.stage != nil {
		panic("stage: cannot add a stage root as a child")
	}
	// The index counts children after child has left its current parent.
	limit := len(a.children)
	if child.Parent == a {
		limit--
	}
	if index < 0 || index > limit {
		panic("stage: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.detach(child)
	}
	child.Parent = a
	a.children = append(a.children, nil)
	copy(a.children[index+1:], a.children[index:])
	a.children[index] = child
	a.childrenSorted = false
	child.queueMapDamage()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(a)
	}
}

// RemoveChild detaches child from this actor.
// Panics if child.Parent != a.
func (a *Actor) RemoveChild(child *Actor) {
	if globalDebug {
		debugCheckDisposed(a, "RemoveChild (parent)")
		debugCheckDisposed(child, "RemoveChild (child)")
	}
	if child.Parent != a {
		panic("stage: child's parent is not this actor")
	}
	a.detach(child)
}

// RemoveChildAt removes and returns the child at the given index.
func (a *Actor) RemoveChildAt(index int) *Actor {
	if globalDebug {
		debugCheckDisposed(a, "RemoveChildAt")
	}
	if index < 0 || index >= len(a.children) {
		panic("stage: child index out of range")
	}
	child := a.children[index]
	a.detach(child)
	return child
}

// RemoveFromParent detaches this actor from its parent.
// No-op if this actor has no parent.
func (a *Actor) RemoveFromParent() {
	if a.Parent == nil {
		return
	}
	a.Parent.RemoveChild(a)
}

// RemoveChildren detaches all children from this actor.
// Children are NOT disposed.
func (a *Actor) RemoveChildren() {
	for _, child := range a.children {
		child.queueMapDamage()
		child.Parent = nil
	}
	clear(a.children)
	a.children = a.children[:0]
	a.childrenSorted = true
}

// Children returns the child list. The returned slice MUST NOT be mutated by
// the caller.
func (a *Actor) Children() []*Actor {
	return a.children
}

// NumChildren returns the number of children.
func (a *Actor) NumChildren() int {
	return len(a.children)
}

// ChildAt returns the child at the given index.
func (a *Actor) ChildAt(index int) *Actor {
	return a.children[index]
}

// SetChildIndex moves child to a new index among its siblings.
func (a *Actor) SetChildIndex(child *Actor, index int) {
	if child.Parent != a {
		panic("stage: child's parent is not this actor")
	}
	nc := len(a.children)
	if index < 0 || index >= nc {
		panic("stage: child index out of range")
	}
	oldIndex := -1
	for i, c := range a.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(a.children[oldIndex:], a.children[oldIndex+1:index+1])
	} else {
		copy(a.children[index+1:], a.children[index:oldIndex])
	}
	a.children[index] = child
	a.childrenSorted = false
	child.queueGeometryDamage()
}

// --- Disposal ---

// Dispose removes this actor from its parent, marks it as disposed,
// and recursively disposes all descendants. The stage root cannot be
// disposed.
func (a *Actor) Dispose() {
	if a.disposed || a.stage != nil {
		return
	}
	a.RemoveFromParent()
	a.dispose()
}

func (a *Actor) dispose() {
	a.disposed = true
	a.ID = 0
	for _, child := range a.children {
		child.Parent = nil
		child.dispose()
	}
	a.children = nil
	a.sortedChildren = nil
	a.Parent = nil
	a.pickShape = nil
	a.UserData = nil
	a.OnPointerDown = nil
	a.OnPointerUp = nil
	a.OnPointerMove = nil
	a.OnPointerEnter = nil
	a.OnPointerLeave = nil
	a.OnClick = nil
	a.OnDragStart = nil
	a.OnDrag = nil
	a.OnDragEnd = nil
}

// IsDisposed returns true if this actor has been disposed.
func (a *Actor) IsDisposed() bool {
	return a.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of actor.
func isAncestor(candidate, actor *Actor) bool {
	for p := actor; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// detach reports the child's area as damaged and unlinks it.
func (a *Actor) detach(child *Actor) {
	child.queueMapDamage()
	a.removeChildByPtr(child)
	child.Parent = nil
	a.childrenSorted = false
}

// removeChildByPtr removes child from a.children without clearing
// child.Parent. Uses copy+nil to avoid retaining a dangling pointer in the
// backing array.
func (a *Actor) removeChildByPtr(child *Actor) {
	for i, c := range a.children {
		if c == child {
			copy(a.children[i:], a.children[i+1:])
			a.children[len(a.children)-1] = nil
			a.children = a.children[:len(a.children)-1]
			return
		}
	}
}

// paintChildren returns the children in paint order: ZIndex ascending,
// insertion order among equal ZIndex.
func (a *Actor) paintChildren() []*Actor {
	if len(a.children) == 0 {
		return nil
	}
	if !a.childrenSorted {
		a.rebuildSortedChildren()
	}
	if a.sortedChildren != nil {
		return a.sortedChildren
	}
	return a.children
}

// rebuildSortedChildren rebuilds the ZIndex-sorted traversal order.
// Uses insertion sort: zero allocations, stable, and O(n) when the children
// are already sorted.
func (a *Actor) rebuildSortedChildren() {
	nc := len(a.children)
	if cap(a.sortedChildren) < nc {
		a.sortedChildren = make([]*Actor, nc)
	}
	a.sortedChildren = a.sortedChildren[:nc]
	copy(a.sortedChildren, a.children)
	for i := 1; i < nc; i++ {
		key := a.sortedChildren[i]
		j := i - 1
		for j >= 0 && a.sortedChildren[j].ZIndex > key.ZIndex {
			a.sortedChildren[j+1] = a.sortedChildren[j]
			j--
		}
		a.sortedChildren[j+1] = key
	}
	a.childrenSorted = true
}
