package stage

import "math"

// MaxPointers bounds pointer ids: 0 is the mouse, 1-9 are touches.
const MaxPointers = 10

// PointerEvent is one sample of a pointer's state in stage coordinates.
// Backends produce one per pointer per frame; the stage derives down, up,
// move, enter, leave, click and drag events from consecutive samples.
type PointerEvent struct {
	PointerID int
	X, Y      float64
	Pressed   bool
	Button    MouseButton
	Modifiers KeyModifiers
}

type pointerState struct {
	down       bool
	startX     float64
	startY     float64
	lastX      float64
	lastY      float64
	hitActor   *Actor
	hoverActor *Actor
	dragging   bool
	button     MouseButton // button captured at press time
}

// --- Handler registry ---

type handler[C any] struct {
	id uint32
	fn func(C)
}

type handlerList[C any] []handler[C]

func (l handlerList[C]) fire(ctx C) {
	for _, h := range l {
		h.fn(ctx)
	}
}

func (l handlerList[C]) without(id uint32) handlerList[C] {
	for i := range l {
		if l[i].id == id {
			copy(l[i:], l[i+1:])
			l[len(l)-1] = handler[C]{}
			return l[:len(l)-1]
		}
	}
	return l
}

type handlerRegistry struct {
	pointerDown  handlerList[PointerContext]
	pointerUp    handlerList[PointerContext]
	pointerMove  handlerList[PointerContext]
	pointerEnter handlerList[PointerContext]
	pointerLeave handlerList[PointerContext]
	click        handlerList[ClickContext]
	dragStart    handlerList[DragContext]
	drag         handlerList[DragContext]
	dragEnd      handlerList[DragContext]
	nextID       uint32
}

// CallbackHandle allows removing a registered stage-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	r := h.reg
	switch h.event {
	case EventPointerDown:
		r.pointerDown = r.pointerDown.without(h.id)
	case EventPointerUp:
		r.pointerUp = r.pointerUp.without(h.id)
	case EventPointerMove:
		r.pointerMove = r.pointerMove.without(h.id)
	case EventPointerEnter:
		r.pointerEnter = r.pointerEnter.without(h.id)
	case EventPointerLeave:
		r.pointerLeave = r.pointerLeave.without(h.id)
	case EventClick:
		r.click = r.click.without(h.id)
	case EventDragStart:
		r.dragStart = r.dragStart.without(h.id)
	case EventDrag:
		r.drag = r.drag.without(h.id)
	case EventDragEnd:
		r.dragEnd = r.dragEnd.without(h.id)
	}
}

func register[C any](r *handlerRegistry, list *handlerList[C], event EventType, fn func(C)) CallbackHandle {
	r.nextID++
	*list = append(*list, handler[C]{id: r.nextID, fn: fn})
	return CallbackHandle{id: r.nextID, reg: r, event: event}
}

// --- Stage-level event registration ---

// OnPointerDown registers a stage-level callback for pointer down events.
func (s *Stage) OnPointerDown(fn func(PointerContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.pointerDown, EventPointerDown, fn)
}

// OnPointerUp registers a stage-level callback for pointer up events.
func (s *Stage) OnPointerUp(fn func(PointerContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.pointerUp, EventPointerUp, fn)
}

// OnPointerMove registers a stage-level callback for hover moves.
func (s *Stage) OnPointerMove(fn func(PointerContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.pointerMove, EventPointerMove, fn)
}

// OnPointerEnter registers a stage-level callback fired when the pointer
// moves over a new actor.
func (s *Stage) OnPointerEnter(fn func(PointerContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.pointerEnter, EventPointerEnter, fn)
}

// OnPointerLeave registers a stage-level callback fired when the pointer
// leaves an actor.
func (s *Stage) OnPointerLeave(fn func(PointerContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.pointerLeave, EventPointerLeave, fn)
}

// OnClick registers a stage-level callback for click events.
func (s *Stage) OnClick(fn func(ClickContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.click, EventClick, fn)
}

// OnDragStart registers a stage-level callback for drag start events.
func (s *Stage) OnDragStart(fn func(DragContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.dragStart, EventDragStart, fn)
}

// OnDrag registers a stage-level callback for drag events.
func (s *Stage) OnDrag(fn func(DragContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.drag, EventDrag, fn)
}

// OnDragEnd registers a stage-level callback for drag end events.
func (s *Stage) OnDragEnd(fn func(DragContext)) CallbackHandle {
	return register(&s.handlers, &s.handlers.dragEnd, EventDragEnd, fn)
}

// CapturePointer routes all events for pointerID to the given actor.
func (s *Stage) CapturePointer(pointerID int, a *Actor) {
	if pointerID >= 0 && pointerID < MaxPointers {
		s.captured[pointerID] = a
	}
}

// ReleasePointer stops routing events for pointerID to a captured actor.
func (s *Stage) ReleasePointer(pointerID int) {
	if pointerID >= 0 && pointerID < MaxPointers {
		s.captured[pointerID] = nil
	}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (s *Stage) SetDragDeadZone(pixels float64) {
	s.dragDeadZone = pixels
}

// --- Pointer state machine ---

// HandlePointer feeds one pointer sample through the state machine. The
// target is the captured actor, or the topmost reactive actor under the
// pointer; non-reactive actors never receive input.
func (s *Stage) HandlePointer(ev PointerEvent) {
	if ev.PointerID < 0 || ev.PointerID >= MaxPointers {
		return
	}
	id := ev.PointerID
	ps := &s.pointers[id]
	x, y := ev.X, ev.Y
	mods := ev.Modifiers

	if ps.hoverActor != nil && ps.hoverActor.disposed {
		ps.hoverActor = nil
	}
	if ps.hitActor != nil && ps.hitActor.disposed {
		ps.hitActor = nil
	}

	target := s.captured[id]
	if target != nil && target.disposed {
		s.captured[id] = nil
		target = nil
	}
	if target == nil {
		target = s.ActorAt(x, y, PickReactive)
	}

	if target != ps.hoverActor {
		if ps.hoverActor != nil {
			s.firePointer(EventPointerLeave, ps.hoverActor, id, x, y, ev.Button, mods)
		}
		if target != nil {
			s.firePointer(EventPointerEnter, target, id, x, y, ev.Button, mods)
		}
		ps.hoverActor = target
	}

	switch {
	case ev.Pressed && !ps.down:
		ps.down = true
		ps.button = ev.Button
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.hitActor = target
		ps.dragging = false
		s.firePointer(EventPointerDown, target, id, x, y, ps.button, mods)

	case !ev.Pressed && ps.down:
		if ps.dragging {
			s.fireDrag(EventDragEnd, ps.hitActor, id, x, y, ps.startX, ps.startY,
				x-ps.lastX, y-ps.lastY, ps.button, mods)
		} else if ps.hitActor != nil && ps.hitActor == target {
			s.fireClick(target, id, x, y, ps.button, mods)
		}
		s.firePointer(EventPointerUp, target, id, x, y, ps.button, mods)

		s.captured[id] = nil
		ps.down = false
		ps.hitActor = nil
		ps.dragging = false

	case ev.Pressed && ps.down:
		if x != ps.lastX || y != ps.lastY {
			if !ps.dragging {
				dx := x - ps.startX
				dy := y - ps.startY
				if math.Hypot(dx, dy) > s.dragDeadZone {
					ps.dragging = true
					s.fireDrag(EventDragStart, ps.hitActor, id, x, y, ps.startX, ps.startY,
						x-ps.startX, y-ps.startY, ps.button, mods)
				}
			}
			if ps.dragging {
				s.fireDrag(EventDrag, ps.hitActor, id, x, y, ps.startX, ps.startY,
					x-ps.lastX, y-ps.lastY, ps.button, mods)
			}
		}
		ps.lastX, ps.lastY = x, y

	default:
		if x != ps.lastX || y != ps.lastY {
			s.firePointer(EventPointerMove, target, id, x, y, ev.Button, mods)
			ps.lastX, ps.lastY = x, y
		}
	}
}

// resetPointers forgets pressed buttons, hover targets and captures.
func (s *Stage) resetPointers() {
	for i := range s.pointers {
		s.pointers[i] = pointerState{}
		s.captured[i] = nil
	}
}

// --- Event dispatch ---

func (s *Stage) firePointer(event EventType, a *Actor, pointerID int, x, y float64, button MouseButton, mods KeyModifiers) {
	ctx := PointerContext{
		Actor: a, StageX: x, StageY: y,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if a != nil {
		ctx.LocalX, ctx.LocalY = a.StageToLocal(x, y)
		ctx.EntityID = a.EntityID
		ctx.UserData = a.UserData
	}

	var list handlerList[PointerContext]
	var cb func(PointerContext)
	switch event {
	case EventPointerDown:
		list = s.handlers.pointerDown
		if a != nil {
			cb = a.OnPointerDown
		}
	case EventPointerUp:
		list = s.handlers.pointerUp
		if a != nil {
			cb = a.OnPointerUp
		}
	case EventPointerMove:
		list = s.handlers.pointerMove
		if a != nil {
			cb = a.OnPointerMove
		}
	case EventPointerEnter:
		list = s.handlers.pointerEnter
		if a != nil {
			cb = a.OnPointerEnter
		}
	case EventPointerLeave:
		list = s.handlers.pointerLeave
		if a != nil {
			cb = a.OnPointerLeave
		}
	}
	// Stage-level handlers first, then the per-actor callback.
	list.fire(ctx)
	if cb != nil {
		cb(ctx)
	}
	s.emitInteractionEvent(event, a, x, y, ctx.LocalX, ctx.LocalY, button, mods, DragContext{})
}

func (s *Stage) fireClick(a *Actor, pointerID int, x, y float64, button MouseButton, mods KeyModifiers) {
	ctx := ClickContext{
		Actor: a, EntityID: a.EntityID, UserData: a.UserData,
		StageX: x, StageY: y,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	ctx.LocalX, ctx.LocalY = a.StageToLocal(x, y)
	s.handlers.click.fire(ctx)
	if a.OnClick != nil {
		a.OnClick(ctx)
	}
	s.emitInteractionEvent(EventClick, a, x, y, ctx.LocalX, ctx.LocalY, button, mods, DragContext{})
}

func (s *Stage) fireDrag(event EventType, a *Actor, pointerID int, x, y, startX, startY, deltaX, deltaY float64, button MouseButton, mods KeyModifiers) {
	ctx := DragContext{
		Actor: a, StageX: x, StageY: y,
		StartX: startX, StartY: startY, DeltaX: deltaX, DeltaY: deltaY,
		Button: button, PointerID: pointerID, Modifiers: mods,
	}
	if a != nil {
		ctx.LocalX, ctx.LocalY = a.StageToLocal(x, y)
		ctx.EntityID = a.EntityID
		ctx.UserData = a.UserData
	}

	var list handlerList[DragContext]
	var cb func(DragContext)
	switch event {
	case EventDragStart:
		list = s.handlers.dragStart
		if a != nil {
			cb = a.OnDragStart
		}
	case EventDrag:
		list = s.handlers.drag
		if a != nil {
			cb = a.OnDrag
		}
	case EventDragEnd:
		list = s.handlers.dragEnd
		if a != nil {
			cb = a.OnDragEnd
		}
	}
	list.fire(ctx)
	if cb != nil {
		cb(ctx)
	}
	s.emitInteractionEvent(event, a, x, y, ctx.LocalX, ctx.LocalY, button, mods, ctx)
}

// --- ECS bridge ---

func (s *Stage) emitInteractionEvent(event EventType, a *Actor, x, y, lx, ly float64,
	button MouseButton, mods KeyModifiers, drag DragContext) {
	if s.store == nil || a == nil || a.EntityID == 0 {
		return
	}
	s.store.EmitEvent(InteractionEvent{
		Type:      event,
		EntityID:  a.EntityID,
		StageX:    x,
		StageY:    y,
		LocalX:    lx,
		LocalY:    ly,
		Button:    button,
		Modifiers: mods,
		StartX:    drag.StartX,
		StartY:    drag.StartY,
		DeltaX:    drag.DeltaX,
		DeltaY:    drag.DeltaY,
	})
}
