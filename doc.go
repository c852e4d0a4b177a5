// Package stage is the picking and redraw-clip core of a retained-mode 2D
// scene graph.
//
// A [Stage] owns a tree of [Actor]s, a [RedrawClip] that accumulates the
// screen damage caused by tree changes, and an off-screen pick buffer that
// answers "which actor is at (x, y)?" by rendering every actor in a unique
// color and reading one pixel back. The pick buffer is reused across
// queries until the tree changes, the filter mode changes, or the stage is
// resized.
//
// Rendering goes through a [Backend]. Two are provided: softbackend draws
// into memory and needs no GPU, and ebitenbackend draws with [Ebitengine]
// and can run a window for you:
//
//	cfg := stage.DefaultConfig()
//	s := stage.NewStage(ebitenbackend.New(), cfg)
//	// ... add actors ...
//	ebitenbackend.Run(s, ebitenbackend.RunConfig{
//		Title: "My Stage", Width: 640, Height: 480,
//	})
//
// # Actors
//
// Every element is an [Actor]. Actors form a tree rooted at [Stage.Root];
// a child's allocation is relative to its parent. The last child paints on
// top and wins picks on overlap; [Actor.ZIndex] refines sibling order.
//
//	panel := stage.NewGroup("panel")
//	panel.SetGeometry(stage.Box{X: 20, Y: 20, Width: 200, Height: 100})
//	s.Root().AddChild(panel)
//
//	btn := stage.NewRectangle("ok", 10, 10, 80, 30, stage.Color{R: 0.3, G: 0.7, B: 1, A: 1})
//	btn.SetReactive(true)
//	panel.AddChild(btn)
//
// Geometry, visibility, opacity, color and clip change through setters so
// the stage can damage exactly the area that changed.
//
// # Picking
//
// [Stage.PickAt] returns the topmost actor under a point. [PickReactive]
// considers reactive actors only; [PickAll] considers every visible actor.
// Hidden actors and actors with opacity 0 are never picked, and clips are
// honored. Backend failures degrade to "nothing picked".
//
// # Redraw clips
//
// [Stage.RenderFrame] commits the accumulated damage, repaints only the
// damaged area (widened by the back buffer's age), and presents it. Backends
// that ignore clips turn every damage call into a full redraw.
//
// # Animation
//
// [TweenPosition], [TweenSize], [TweenColor] and [TweenOpacity] interpolate
// an actor's properties through the same setters, so animated actors damage
// and invalidate picks like any other change. Call [TweenGroup.Update] once
// per tick.
//
// # Input
//
// Pointer samples fed to [Stage.HandlePointer] become down, up, move, enter,
// leave, click and drag callbacks on the reactive actor under the pointer.
// Synthetic input ([Stage.InjectClick], [Stage.InjectDrag]) and JSON test
// scripts ([LoadTestScript]) drive the same path, and interaction events can
// be forwarded to an ECS through [EntityStore] (see the ecs module for a
// [Donburi] adapter).
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package stage
