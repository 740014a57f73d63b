package reflow

import "github.com/google/uuid"

// EventStore is the interface for optional ECS integration. When set on a
// Grid, every grid event is forwarded to it.
type EventStore interface {
	EmitEvent(event GridEvent)
}

// GridEvent describes one change to the grid.
type GridEvent struct {
	Type   EventType
	TileID uuid.UUID
	// From and To are the linear slot indices before and after the change.
	// Both are -1 when not meaningful for the event type.
	From, To int
	// Ordering is a snapshot of the permutation after the change.
	Ordering []int
}

// EventContext is passed to grid callbacks.
type EventContext struct {
	Grid *Grid
	Tile *Tile
	From int
	To   int
}

type eventHandler struct {
	id uint32
	fn func(EventContext)
}

type handlerRegistry struct {
	dragStart   []eventHandler
	reorder     []eventHandler
	dragEnd     []eventHandler
	tileAdded   []eventHandler
	tileRemoved []eventHandler
	nextID      uint32
}

func (r *handlerRegistry) list(event EventType) *[]eventHandler {
	switch event {
	case EventDragStart:
		return &r.dragStart
	case EventReorder:
		return &r.reorder
	case EventDragEnd:
		return &r.dragEnd
	case EventTileAdded:
		return &r.tileAdded
	case EventTileRemoved:
		return &r.tileRemoved
	}
	return nil
}

func (r *handlerRegistry) add(event EventType, fn func(EventContext)) CallbackHandle {
	r.nextID++
	id := r.nextID
	l := r.list(event)
	*l = append(*l, eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: r, event: event}
}

// CallbackHandle allows removing a registered grid callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	l := h.reg.list(h.event)
	if l == nil {
		return
	}
	s := *l
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			*l = s[:len(s)-1]
			return
		}
	}
}

// OnDragStart registers a callback fired when a tile lifts off its slot.
func (g *Grid) OnDragStart(fn func(EventContext)) CallbackHandle {
	return g.handlers.add(EventDragStart, fn)
}

// OnReorder registers a callback fired whenever a drag changes the ordering.
func (g *Grid) OnReorder(fn func(EventContext)) CallbackHandle {
	return g.handlers.add(EventReorder, fn)
}

// OnDragEnd registers a callback fired when the dragged tile is released.
func (g *Grid) OnDragEnd(fn func(EventContext)) CallbackHandle {
	return g.handlers.add(EventDragEnd, fn)
}

// OnTileAdded registers a callback fired after a tile joins the grid.
func (g *Grid) OnTileAdded(fn func(EventContext)) CallbackHandle {
	return g.handlers.add(EventTileAdded, fn)
}

// OnTileRemoved registers a callback fired after a tile leaves the grid.
func (g *Grid) OnTileRemoved(fn func(EventContext)) CallbackHandle {
	return g.handlers.add(EventTileRemoved, fn)
}

// SetEventStore sets the optional ECS bridge.
func (g *Grid) SetEventStore(store EventStore) {
	g.store = store
}

func (g *Grid) fire(event EventType, tile *Tile, from, to int) {
	ctx := EventContext{Grid: g, Tile: tile, From: from, To: to}
	if l := g.handlers.list(event); l != nil {
		for _, h := range *l {
			h.fn(ctx)
		}
	}
	var id uuid.UUID
	if tile != nil {
		id = tile.ID
	}
	g.emit(GridEvent{Type: event, TileID: id, From: from, To: to})
}

// emit forwards e to the event store with a snapshot of the ordering.
func (g *Grid) emit(e GridEvent) {
	if g.store == nil {
		return
	}
	e.Ordering = g.order.Ordering()
	g.store.EmitEvent(e)
}
