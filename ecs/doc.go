// Package ecs provides ECS adapters for reflow grid events.
//
// [NewDonburiStore] bridges grid events (drag start, reorder, drag end, tile
// added and removed) into a [Donburi] world as typed events. Subscribe to
// [GridEventType] in your ECS systems to receive them.
//
// [NewMirrorStore] additionally keeps one entity per tile carrying a
// [TileData] component whose Slot follows the grid's ordering, so systems can
// query tile placement without holding the grid.
//
// Usage:
//
//	store := ecs.NewMirrorStore(world)
//	grid.SetEventStore(store) // before grid.Start
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
