// Package reflow is a drag-to-reorder engine for fixed-column tile grids.
//
// A user drags one tile; the remaining tiles slide to their new slots along
// short curved trajectories, the way home-screen icons rearrange. The package
// owns the ordering and the motion. Everything visual is delegated to a
// host through the [Surface] interface: measuring elements, moving them,
// styling them, reading the pointer and scheduling frames.
//
// # Quick start
//
// Implement [Surface] (or use one of the hosts in reflow/ebitenhost and
// reflow/termhost), then:
//
//	grid := reflow.NewGrid(reflow.Config{Container: "icons", Columns: 4}, surface)
//	if err := grid.Start(); err != nil {
//		log.Fatal(err)
//	}
//
// Start resolves the container, lays the tiles out and asks the surface for
// the first tick; every tick re-requests the next. Hosts that own their frame
// loop can instead call [Grid.Tick] with a millisecond timestamp.
//
// # Ordering
//
// The [Order] keeps a permutation from slots to tiles. While a tile is
// dragged, the slot under its center becomes the destination and
// [Order.Reconcile] rotates the tiles between the old and new anchor slot,
// scheduling a [MoveTo] on each one that shifted. Destinations outside the
// grid are ignored.
//
// # Animation
//
// Each [Tile] has a [Queue] of [Task] values. Only the current task is
// updated, and a task that errors or panics is abandoned without disturbing
// other tiles. All tasks of a grid read the same [Clock], set once per tick.
//
// # Events
//
// Register callbacks with [Grid.OnDragStart], [Grid.OnReorder] and
// [Grid.OnDragEnd], or forward every [GridEvent] to an [EventStore] (see
// reflow/ecs for a Donburi adapter).
package reflow
