package reflow

import "math"

// DefaultDragThreshold is the pointer speed, in pixels per tick, a press must
// exceed before it turns into a drag. It keeps plain clicks from lifting tiles.
const DefaultDragThreshold = 1.5

// PointerSample is one reading of the pointer, relative to the container origin.
type PointerSample struct {
	X, Y    float64
	Pressed bool
}

// PointerSource yields the pointer's state once per tick.
type PointerSource interface {
	Sample() PointerSample
}

// PointerState is the tracked pointer for the current tick.
type PointerState struct {
	X, Y    float64
	DX, DY  float64
	Speed   float64
	Pressed bool
	// JustPressed is true on the first tick of a press.
	JustPressed bool
}

// PointerTracker derives per-tick deltas and speed from raw samples. The
// first sample seeds the previous position, so it never reports a jump.
type PointerTracker struct {
	state  PointerState
	prevX  float64
	prevY  float64
	seeded bool
}

// Track folds a new sample into the tracker and returns the updated state.
func (p *PointerTracker) Track(s PointerSample) PointerState {
	if !p.seeded {
		p.prevX, p.prevY = s.X, s.Y
		p.seeded = true
	}
	wasPressed := p.state.Pressed

	p.state.X, p.state.Y = s.X, s.Y
	p.state.DX = s.X - p.prevX
	p.state.DY = s.Y - p.prevY
	p.state.Speed = math.Sqrt(p.state.DX*p.state.DX + p.state.DY*p.state.DY)
	p.state.Pressed = s.Pressed
	p.state.JustPressed = s.Pressed && !wasPressed

	p.prevX, p.prevY = s.X, s.Y
	return p.state
}

// State returns the last tracked state.
func (p *PointerTracker) State() PointerState { return p.state }

// hitTest returns the first tile in storage order whose cell rectangle
// contains (x, y), or nil.
func hitTest(tiles []*Tile, cell Size, x, y float64) *Tile {
	for _, t := range tiles {
		if t.Bounds(cell).Contains(x, y) {
			return t
		}
	}
	return nil
}
