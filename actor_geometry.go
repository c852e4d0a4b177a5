package stage

// visit is one step of a paint-order traversal.
type visit struct {
	actor *Actor
	// alloc is the actor's allocation in stage coordinates.
	alloc Box
	// clip is the stage area the actor may touch: the stage box narrowed by
	// every clip on the path from the root, its own clip included.
	clip Box
	// alpha is the accumulated opacity in [0, 1].
	alpha float64
}

// paintBox returns the stage area the actor paints itself, excluding
// children.
func (v *visit) paintBox() Box {
	if v.actor.Type == ActorTypeGroup {
		return Box{}
	}
	return v.alloc.Intersect(v.clip)
}

// walk visits a and its descendants in paint order: parents before
// children, children in ZIndex order. Hidden actors and actors with opacity
// 0 are skipped along with their subtrees.
func (a *Actor) walk(ox, oy float64, clip Box, alpha float64, fn func(v *visit)) {
	if !a.visible || a.opacity == 0 {
		return
	}
	v := visit{
		actor: a,
		alloc: Box{X: ox + a.x, Y: oy + a.y, Width: a.width, Height: a.height},
		clip:  clip,
		alpha: alpha * float64(a.opacity) / 255,
	}
	if a.hasClip {
		v.clip = v.clip.Intersect(a.clip.Translate(v.alloc.X, v.alloc.Y))
	}
	fn(&v)
	for _, child := range a.paintChildren() {
		child.walk(v.alloc.X, v.alloc.Y, v.clip, v.alpha, fn)
	}
}

// walkFrom runs walk starting at a with the origin, clip and opacity its
// ancestors give it. bounds is the outermost clip, normally the stage box.
func (a *Actor) walkFrom(bounds Box, fn func(v *visit)) {
	var chain []*Actor
	for p := a.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}
	var ox, oy float64
	clip := bounds
	alpha := 1.0
	for i := len(chain) - 1; i >= 0; i-- {
		p := chain[i]
		ox += p.x
		oy += p.y
		if p.hasClip {
			clip = clip.Intersect(p.clip.Translate(ox, oy))
		}
		alpha *= float64(p.opacity) / 255
	}
	if alpha == 0 {
		return
	}
	a.walk(ox, oy, clip, alpha, fn)
}

// notePaint records where a visited actor was painted.
func notePaint(v *visit) {
	v.actor.lastPaintBox = v.paintBox()
	v.actor.hasPaintBox = true
}

// queueOwnDamage reports the actor's own paint area, without children.
func (a *Actor) queueOwnDamage() {
	s := a.mappedStage()
	if s == nil {
		return
	}
	if !s.clip.WantsBoundedDamage() {
		s.clip.AddFullDamage()
		return
	}
	var box Box
	a.walkFrom(s.clip.StageBox(), func(v *visit) {
		if v.actor == a {
			box = v.paintBox().Union(a.lastPaintBox)
		}
	})
	s.clip.AddDamage(box)
}

// queueGeometryDamage reports the area the subtree covers now and where it
// was last painted. Called on both sides of a geometry change.
func (a *Actor) queueGeometryDamage() {
	s := a.mappedStage()
	if s == nil {
		return
	}
	if !s.clip.WantsBoundedDamage() {
		s.clip.AddFullDamage()
		return
	}
	var box Box
	a.walkFrom(s.clip.StageBox(), func(v *visit) {
		box = box.Union(v.paintBox())
		if v.actor.hasPaintBox {
			box = box.Union(v.actor.lastPaintBox)
		}
	})
	s.clip.AddDamage(box)
}

// queueMapDamage reports the subtree's area when it appears or disappears.
// If any actor in the subtree has never been painted its previous extent is
// unknown and the whole stage is damaged.
func (a *Actor) queueMapDamage() {
	s := a.mappedStage()
	if s == nil {
		return
	}
	if !s.clip.WantsBoundedDamage() {
		s.clip.AddFullDamage()
		return
	}
	var box Box
	known := true
	a.walkFrom(s.clip.StageBox(), func(v *visit) {
		if !v.actor.hasPaintBox {
			known = false
			return
		}
		box = box.Union(v.paintBox()).Union(v.actor.lastPaintBox)
	})
	if !known {
		s.clip.AddFullDamage()
		return
	}
	s.clip.AddDamage(box)
}

// invalidatePick discards the stage's pick buffer without damaging the
// screen.
func (a *Actor) invalidatePick() {
	if s := a.mappedStage(); s != nil {
		s.pick.invalidate()
	}
}
