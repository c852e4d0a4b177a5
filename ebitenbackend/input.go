package ebitenbackend

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/stage"
)

// fpsRect is the backdrop behind the FPS counter; 100x32 fits two lines of
// debug text.
var fpsRect = image.Rect(0, 0, 100, 32)

// readModifiers reads the current keyboard modifier state.
func readModifiers() stage.KeyModifiers {
	var mods stage.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= stage.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= stage.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= stage.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= stage.ModMeta
	}
	return mods
}

// processMouse feeds the mouse as pointer 0.
func (g *Game) processMouse(mods stage.KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	ev := stage.PointerEvent{
		PointerID: 0,
		X:         float64(mx),
		Y:         float64(my),
		Modifiers: mods,
	}
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		ev.Pressed, ev.Button = true, stage.MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		ev.Pressed, ev.Button = true, stage.MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		ev.Pressed, ev.Button = true, stage.MouseButtonMiddle
	}
	g.stage.HandlePointer(ev)
}

// processTouches feeds active touches as pointers 1-9 and releases slots
// whose touch ended.
func (g *Game) processTouches(mods stage.KeyModifiers) {
	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])

	var active [stage.MaxPointers]bool
	for _, tid := range g.touchIDs {
		slot := g.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		ev := stage.PointerEvent{
			PointerID: slot,
			X:         float64(tx),
			Y:         float64(ty),
			Pressed:   true,
			Button:    stage.MouseButtonLeft,
			Modifiers: mods,
		}
		g.lastTouch[slot] = ev
		g.stage.HandlePointer(ev)
	}

	for i := 1; i < stage.MaxPointers; i++ {
		if !g.touchUsed[i] || active[i] {
			continue
		}
		ev := g.lastTouch[i]
		ev.Pressed = false
		ev.Modifiers = mods
		g.stage.HandlePointer(ev)
		g.touchUsed[i] = false
		g.touchMap[i] = 0
	}
}

// touchSlot maps a touch to a pointer slot (1-9), allocating one for new
// touches. It returns -1 when every slot is taken.
func (g *Game) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < stage.MaxPointers; i++ {
		if g.touchUsed[i] && g.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < stage.MaxPointers; i++ {
		if !g.touchUsed[i] {
			g.touchUsed[i] = true
			g.touchMap[i] = tid
			return i
		}
	}
	return -1
}
