package stage

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is handed to a RenderTarget.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default actor color.
var ColorWhite = Color{1, 1, 1, 1}

// Premultiplied converts the color to a premultiplied color.RGBA after scaling
// its alpha by opacity (0-255).
func (c Color) Premultiplied(opacity uint8) color.RGBA {
	a := clamp01(c.A) * float64(opacity) / 255
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec2 is a 2D vector used for positions, offsets and path points.
type Vec2 struct {
	X, Y float64
}

// BlendMode selects how a fill combines with the pixels already in a target.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendNone                    // opaque copy (skip blending)
)

// ActorType distinguishes painting behavior for an Actor.
type ActorType uint8

const (
	ActorTypeGroup     ActorType = iota // container with no visual output of its own
	ActorTypeRectangle                  // solid color rectangle filling its allocation
)

// PickMode selects which actors a pick considers.
type PickMode uint8

const (
	PickReactive PickMode = iota // only actors with Reactive() == true
	PickAll                      // every mapped actor
)

// String returns "reactive" or "all".
func (m PickMode) String() string {
	switch m {
	case PickReactive:
		return "reactive"
	case PickAll:
		return "all"
	default:
		return "unknown"
	}
}

// ParsePickMode parses the names returned by PickMode.String.
func ParsePickMode(s string) (PickMode, bool) {
	switch s {
	case "reactive", "reactive-only", "":
		return PickReactive, true
	case "all":
		return PickAll, true
	default:
		return PickReactive, false
	}
}

// EventType identifies a kind of interaction event.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves (hover, no button)
	EventClick                         // fires on press then release over the same actor
	EventDragStart                     // fires when movement exceeds the drag dead zone
	EventDrag                          // fires each frame while dragging
	EventDragEnd                       // fires when the pointer is released after dragging
	EventPointerEnter                  // fires when the pointer enters an actor
	EventPointerLeave                  // fires when the pointer leaves an actor
)

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)
