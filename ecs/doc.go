// Package ecs connects a stage to a [Donburi] world.
//
// [NewDonburiStore] turns the stage's interaction events (pointer, click,
// drag) into typed Donburi events on [InteractionEventType]. Only actors with
// a non-zero EntityID produce events. [WithEventTypes] narrows what gets
// published, for example to drop hover traffic.
//
// [EntityAt] answers "which entity is under this point" with a reactive
// pick, for systems that poll instead of subscribing.
//
//	store := ecs.NewDonburiStore(world, ecs.WithEventTypes(stage.EventClick))
//	s.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
