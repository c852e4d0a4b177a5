package ecs

import (
	"github.com/phanxgames/stage"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type for stage interaction events.
// Subscribe to it in ECS systems to receive pointer, click and drag events
// for actors that carry an EntityID.
var InteractionEventType = events.NewEventType[stage.InteractionEvent]()

// StoreOption configures a store created by NewDonburiStore.
type StoreOption func(*donburiStore)

// WithEventTypes restricts publishing to the listed event types. Without it
// every interaction event is published.
func WithEventTypes(types ...stage.EventType) StoreOption {
	return func(s *donburiStore) {
		for _, t := range types {
			s.mask |= 1 << t
		}
	}
}

type donburiStore struct {
	world donburi.World
	mask  uint32
}

// NewDonburiStore creates an EntityStore backed by a Donburi world. Events
// are queued on InteractionEventType and delivered by ProcessEvents.
func NewDonburiStore(world donburi.World, opts ...StoreOption) stage.EntityStore {
	s := &donburiStore{world: world}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *donburiStore) EmitEvent(event stage.InteractionEvent) {
	if s.mask != 0 && s.mask&(1<<event.Type) == 0 {
		return
	}
	InteractionEventType.Publish(s.world, event)
}

// EntityAt returns the EntityID of the topmost reactive actor at stage
// coordinates (x, y), or 0 when nothing is there or the actor has no
// entity. It goes through the same pick pipeline as pointer input, so a
// non-reactive cover never hides the entity below it.
func EntityAt(s *stage.Stage, x, y float64) uint32 {
	a := s.ActorAt(x, y, stage.PickReactive)
	if a == nil {
		return 0
	}
	return a.EntityID
}
