package stage

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenGroup animates up to 4 values of an Actor together. Create one via
// TweenPosition, TweenSize, TweenColor or TweenOpacity and call Update(dt)
// each frame. Values are applied through the actor's setters, so every step
// queues redraw damage and invalidates the pick buffer like any other
// change. If the target actor is disposed, the group stops immediately.
//
// There is no global animation manager; callers run Update themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	values [4]float64
	apply  func(v *[4]float64)
	target *Actor
	Done   bool
}

func newTweenGroup(a *Actor, duration float32, fn ease.TweenFunc, from, to []float64, apply func(v *[4]float64)) *TweenGroup {
	g := &TweenGroup{count: len(from), target: a, apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.values[i] = from[i]
	}
	return g
}

// Update advances all tweens by dt seconds and applies the new values. If the
// target actor has been disposed, Done is set and nothing is written.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}
	if g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.values[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
	g.apply(&g.values)
}

// TweenPosition animates the actor's position to (toX, toY).
func TweenPosition(a *Actor, toX, toY float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	x, y := a.Position()
	return newTweenGroup(a, duration, fn, []float64{x, y}, []float64{toX, toY}, func(v *[4]float64) {
		a.SetPosition(v[0], v[1])
	})
}

// TweenSize animates the actor's allocation size. A default pick shape
// follows the new size.
func TweenSize(a *Actor, toW, toH float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	w, h := a.Size()
	return newTweenGroup(a, duration, fn, []float64{w, h}, []float64{toW, toH}, func(v *[4]float64) {
		a.SetSize(v[0], v[1])
	})
}

// TweenColor animates all four components of the actor's color.
func TweenColor(a *Actor, to Color, duration float32, fn ease.TweenFunc) *TweenGroup {
	c := a.Color()
	return newTweenGroup(a, duration, fn,
		[]float64{c.R, c.G, c.B, c.A},
		[]float64{to.R, to.G, to.B, to.A},
		func(v *[4]float64) {
			a.SetColor(Color{R: v[0], G: v[1], B: v[2], A: v[3]})
		})
}

// TweenOpacity animates the actor's opacity. Reaching 0 removes the actor
// and its subtree from painting and picking.
func TweenOpacity(a *Actor, to uint8, duration float32, fn ease.TweenFunc) *TweenGroup {
	return newTweenGroup(a, duration, fn, []float64{float64(a.Opacity())}, []float64{float64(to)}, func(v *[4]float64) {
		a.SetOpacity(uint8(math.Round(min(max(v[0], 0), 255))))
	})
}
