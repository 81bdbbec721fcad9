// Package ecs provides ECS adapters for guidemask's guide events.
//
// The primary adapter is [NewDonburiStore], which bridges guide events
// (shown, degraded, target clicked, dismissed) into a [Donburi] world as
// typed events. Subscribe to [GuideEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEventStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
