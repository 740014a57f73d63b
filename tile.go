package reflow

import "github.com/google/uuid"

// Handle is the host's reference to the visual element behind a tile.
type Handle any

// Tile is one reorderable unit of the grid. Position is owned by the tile's
// animation queue except while the tile is being dragged.
type Tile struct {
	ID       uuid.UUID
	Handle   Handle
	Position Vec2
	Size     Size
	Queue    *Queue
	UserData any
}

func newTile(h Handle, size Size, clock *Clock) *Tile {
	t := &Tile{ID: uuid.New(), Handle: h, Size: size}
	t.Queue = newQueue(t, clock)
	return t
}

// Bounds returns the tile's rectangle at its current position using the
// given cell footprint.
func (t *Tile) Bounds(cell Size) Rect {
	return Rect{X: t.Position.X, Y: t.Position.Y, Width: cell.Width, Height: cell.Height}
}

// Animate replaces whatever the tile was doing with a single move to target.
func (t *Tile) Animate(target Vec2, durationMs, curve float64) {
	t.Queue.Clear()
	m := NewMoveTo(target, durationMs)
	m.CurveFactor = curve
	t.Queue.Add(m)
}
