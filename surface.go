package reflow

// TickFunc receives the host's frame time in milliseconds. The clock must be
// monotonic.
type TickFunc func(nowMs float64)

// Surface is everything the grid needs from its host environment. Hosts
// decide what a container and a handle are; the grid only passes them back.
type Surface interface {
	// Resolve returns the tile handles found in the named container. An error
	// (typically wrapping ErrContainerNotFound) aborts Grid.Start.
	Resolve(container string) ([]Handle, error)
	// Measure returns the intrinsic size of a tile element.
	Measure(h Handle) Size
	// ApplyTransform moves the element to (x, y) relative to the container.
	ApplyTransform(h Handle, x, y float64)
	// SetVisualState is an optional styling hook.
	SetVisualState(h Handle, state VisualState)
	// AttachPointer returns the pointer source for the container.
	AttachPointer() PointerSource
	// RequestTick schedules fn for the next frame.
	RequestTick(fn TickFunc)
}
