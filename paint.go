package stage

// paint redraws the part of the stage inside clip into target: the
// background first, then every mapped rectangle in paint order with its
// accumulated opacity.
func (s *Stage) paint(target RenderTarget, clip Box) {
	clip = clip.Intersect(s.clip.StageBox())
	if clip.IsEmpty() {
		return
	}
	s.pathBuf = PickRect(clip).Outline(s.pathBuf[:0])
	target.FillPath(s.pathBuf, clip, s.background.Premultiplied(255), BlendNone)

	s.root.walk(0, 0, s.clip.StageBox(), 1, func(v *visit) {
		notePaint(v)
		a := v.actor
		if a.Type != ActorTypeRectangle {
			return
		}
		box := v.paintBox().Intersect(clip)
		if box.IsEmpty() {
			return
		}
		c := a.color.Premultiplied(uint8(v.alpha*255 + 0.5))
		if c.A == 0 {
			return
		}
		s.pathBuf = PickRect(v.alloc).Outline(s.pathBuf[:0])
		target.FillPath(s.pathBuf, box, c, BlendNormal)
	})
}
