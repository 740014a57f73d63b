package reflow

import "math"

// Vec2 is a 2D vector used for positions, offsets and pointer deltas
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Size is a width/height pair in pixels.
type Size struct {
	Width, Height float64
}

// IsZero reports whether either dimension is zero.
func (s Size) IsZero() bool {
	return s.Width == 0 || s.Height == 0
}

// Margin is the gap added to the right and below every cell.
type Margin struct {
	Right  float64 `toml:"right"`
	Bottom float64 `toml:"bottom"`
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left of the grid container, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width*0.5, Y: r.Y + r.Height*0.5}
}

// Slot is a grid position expressed as row and column.
type Slot struct {
	Row, Col int
}

// SlotFromIndex converts a linear slot index into a row/column pair for a
// grid with the given column count.
func SlotFromIndex(index, columns int) Slot {
	col := index % columns
	return Slot{Row: (index - col) / columns, Col: col}
}

// Index returns the linear slot index for a grid with the given column count.
func (s Slot) Index(columns int) int {
	return s.Row*columns + s.Col
}

// SlotAt returns the slot containing point p for cells of the given size.
// Negative coordinates map to negative rows/columns.
func SlotAt(p Vec2, cell Size) Slot {
	if cell.IsZero() {
		return Slot{}
	}
	return Slot{
		Row: int(math.Floor(p.Y / cell.Height)),
		Col: int(math.Floor(p.X / cell.Width)),
	}
}

// VisualState is the feedback state a host may render for a tile.
type VisualState uint8

const (
	VisualNone     VisualState = iota // resting
	VisualPressed                     // pointer held over the tile, no drag yet
	VisualDragging                    // tile follows the pointer
)

// String returns the lowercase state name.
func (v VisualState) String() string {
	switch v {
	case VisualPressed:
		return "pressed"
	case VisualDragging:
		return "dragging"
	default:
		return "none"
	}
}

// DragState is the drag controller's state.
type DragState uint8

const (
	StateIdle     DragState = iota // no pointer interaction
	StatePressed                   // pressed over a tile, below drag threshold
	StateDragging                  // a tile is airborne
)

// String returns the state name.
func (d DragState) String() string {
	switch d {
	case StatePressed:
		return "pressed"
	case StateDragging:
		return "dragging"
	default:
		return "idle"
	}
}

// EventType identifies a kind of grid event.
type EventType uint8

const (
	EventDragStart   EventType = iota // a tile lifted off its slot
	EventReorder                      // the permutation changed during a drag
	EventDragEnd                      // the dragged tile was released
	EventTileAdded                    // a tile joined the grid
	EventTileRemoved                  // a tile left the grid
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventDragStart:
		return "dragstart"
	case EventReorder:
		return "reorder"
	case EventDragEnd:
		return "dragend"
	case EventTileAdded:
		return "added"
	case EventTileRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
