// Package ecs provides ECS adapters for guidemask.
package ecs

import (
	"github.com/phanxgames/guidemask"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// GuideEventType is the Donburi event type for guide events.
// Subscribe to this in your ECS systems to react to guides being shown,
// degraded, clicked through or dismissed.
var GuideEventType = events.NewEventType[guidemask.GuideEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventStore backed by a Donburi world.
// Guide events are published to GuideEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) guidemask.EventStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event guidemask.GuideEvent) {
	GuideEventType.Publish(s.world, event)
}
