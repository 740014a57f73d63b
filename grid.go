package reflow

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Grid is the drag controller: it owns the order model and the render clock,
// consumes one pointer sample per tick, lifts and drops tiles, and advances
// every resting tile's animations. A Grid is single-threaded; call every
// method from the goroutine that drives Tick.
type Grid struct {
	cfg     Config
	surface Surface
	logger  *log.Logger
	debug   bool

	clock   Clock
	order   *Order
	item    Size
	pointer PointerSource
	tracker PointerTracker

	state   DragState
	pressed *Tile
	dragged *Tile
	offset  Vec2
	origin  int

	started bool
	running bool

	handlers handlerRegistry
	store    EventStore
	stats    tickStats
}

// NewGrid creates a grid bound to surface. Construction never fails; the
// container is resolved by Start.
func NewGrid(cfg Config, surface Surface) *Grid {
	cfg = cfg.withDefaults()
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix: "reflow",
			Level:  log.InfoLevel,
		})
	}
	g := &Grid{
		cfg:     cfg,
		surface: surface,
		logger:  logger,
		order:   NewOrder(cfg.Columns),
		origin:  -1,
	}
	g.order.SetMotion(cfg.DurationMs, cfg.CurveFactor)
	g.SetDebugMode(cfg.Debug)
	return g
}

// Start resolves the container, creates a tile for every element found,
// applies the initial ordering, attaches the pointer and requests the first
// tick. Configuration problems are returned as *ConfigError.
func (g *Grid) Start() error {
	if g.started {
		return ErrAlreadyStarted
	}
	if err := g.cfg.Validate(); err != nil {
		return err
	}
	handles, err := g.surface.Resolve(g.cfg.Container)
	if err != nil {
		return &ConfigError{Field: "container", Err: err}
	}
	if g.cfg.Ordering != nil && len(g.cfg.Ordering) != len(handles)+g.order.Len() {
		return &ConfigError{Field: "ordering", Err: ErrInvalidOrdering}
	}

	for _, h := range handles {
		g.Add(h)
	}
	if g.cfg.Ordering != nil {
		if err := g.order.SetOrdering(g.cfg.Ordering); err != nil {
			return &ConfigError{Field: "ordering", Err: err}
		}
		g.applyTransforms()
		g.emit(GridEvent{Type: EventReorder, From: -1, To: -1})
	}

	g.pointer = g.surface.AttachPointer()
	g.started = true
	g.running = true
	g.logger.Debug("grid started", "container", g.cfg.Container, "tiles", g.order.Len(), "columns", g.order.Columns())
	g.surface.RequestTick(g.loop)
	return nil
}

// Stop ends the tick loop after the current tick. The grid keeps its state.
func (g *Grid) Stop() {
	g.running = false
}

func (g *Grid) loop(now float64) {
	if !g.running {
		return
	}
	g.Tick(now)
	if g.running {
		g.surface.RequestTick(g.loop)
	}
}

// Tick runs one frame at time now (milliseconds): the clock is set, the
// pointer sampled, the drag state machine stepped (including any reorder),
// then every tile not under the pointer advances its animation and all tiles
// are pushed to the surface. Hosts that own their loop may call Tick directly
// instead of going through Start's RequestTick chain.
func (g *Grid) Tick(now float64) {
	var t0 time.Time
	if g.debug {
		t0 = time.Now()
	}

	g.clock.Set(now)
	g.ensureCellSize()

	if g.pointer != nil {
		g.step(g.tracker.Track(g.pointer.Sample()))
	}

	for _, t := range g.order.Tiles() {
		if t != g.dragged && t.Queue.Update() {
			g.stats.animated++
		}
	}
	g.applyTransforms()

	g.stats.scheduled = g.order.ResetStats()
	if g.debug {
		g.stats.tickTime = time.Since(t0)
		g.debugLog(g.stats)
	}
	g.stats = tickStats{}
}

// step runs the drag state machine for one pointer reading.
func (g *Grid) step(p PointerState) {
	switch g.state {
	case StateIdle:
		if !p.JustPressed {
			return
		}
		hit := hitTest(g.order.Tiles(), g.item, p.X, p.Y)
		if hit == nil {
			return
		}
		g.state = StatePressed
		g.pressed = hit
		g.surface.SetVisualState(hit.Handle, VisualPressed)
		if p.Speed > g.cfg.DragThreshold {
			g.startDrag(p)
		}

	case StatePressed:
		if !p.Pressed {
			g.surface.SetVisualState(g.pressed.Handle, VisualNone)
			g.pressed = nil
			g.state = StateIdle
			return
		}
		if p.Speed > g.cfg.DragThreshold {
			g.startDrag(p)
		}

	case StateDragging:
		if !p.Pressed {
			g.stopDrag()
			return
		}
		g.track(p)
	}
}

func (g *Grid) startDrag(p PointerState) {
	t := g.pressed
	slot := g.order.SlotOf(t)
	if slot < 0 || g.order.CellSize().IsZero() {
		return
	}
	g.offset = Vec2{X: p.X - t.Position.X, Y: p.Y - t.Position.Y}
	t.Queue.Clear()
	g.order.Anchor(slot)

	g.dragged = t
	g.pressed = nil
	g.origin = slot
	g.state = StateDragging
	g.surface.SetVisualState(t.Handle, VisualDragging)
	g.fire(EventDragStart, t, slot, slot)

	g.track(p)
}

// track pins the dragged tile under the pointer and reconciles the order with
// the slot under the tile's center.
func (g *Grid) track(p PointerState) {
	t := g.dragged
	t.Position = Vec2{X: p.X - g.offset.X, Y: p.Y - g.offset.Y}

	cell := g.order.CellSize()
	center := Rect{X: t.Position.X, Y: t.Position.Y, Width: cell.Width, Height: cell.Height}.Center()
	dest := SlotAt(center, cell)

	before, _ := g.order.AnchorSlot()
	if g.order.Reconcile(dest) {
		g.stats.reorders++
		cols := g.order.Columns()
		g.fire(EventReorder, t, before.Index(cols), dest.Index(cols))
	}
}

// stopDrag drops the dragged tile: it animates back onto its anchor slot and
// the drag session is discarded.
func (g *Grid) stopDrag() {
	t := g.dragged
	slot, _ := g.order.Release()
	idx := slot.Index(g.order.Columns())
	t.Animate(g.order.RestPosition(idx), g.cfg.DurationMs, g.cfg.CurveFactor)
	g.surface.SetVisualState(t.Handle, VisualNone)

	origin := g.origin
	g.endSession()
	g.fire(EventDragEnd, t, origin, idx)
}

func (g *Grid) endSession() {
	g.order.Release()
	g.dragged = nil
	g.pressed = nil
	g.offset = Vec2{}
	g.origin = -1
	g.state = StateIdle
}

// Add measures h, creates its tile and appends it to the next free slot.
func (g *Grid) Add(h Handle) *Tile {
	t := newTile(h, g.surface.Measure(h), &g.clock)
	t.Queue.OnError = g.taskFailed
	slot := g.order.Add(t)
	g.ensureCellSize()
	g.surface.ApplyTransform(h, t.Position.X, t.Position.Y)
	g.fire(EventTileAdded, t, -1, slot)
	return t
}

// Remove takes t out of the grid and reflows the tiles after it. Removing
// the dragged tile ends the drag without a drop animation.
func (g *Grid) Remove(t *Tile) bool {
	slot := g.order.SlotOf(t)
	if slot < 0 {
		return false
	}
	switch t {
	case g.dragged:
		g.endSession()
	case g.pressed:
		g.pressed = nil
		g.state = StateIdle
	}
	g.order.Remove(t)
	g.fire(EventTileRemoved, t, slot, -1)
	return true
}

// ensureCellSize establishes the cell footprint from the first tile the first
// time it measures non-zero. Tiles that measured zero are re-measured.
func (g *Grid) ensureCellSize() {
	if !g.order.CellSize().IsZero() || g.order.Len() == 0 {
		return
	}
	for _, t := range g.order.Tiles() {
		if t.Size.IsZero() {
			t.Size = g.surface.Measure(t.Handle)
		}
	}
	first := g.order.Tiles()[0].Size
	if first.IsZero() {
		return
	}
	g.item = first
	g.order.SetCellSize(Size{
		Width:  first.Width + g.cfg.Margin.Right,
		Height: first.Height + g.cfg.Margin.Bottom,
	})
}

func (g *Grid) applyTransforms() {
	for _, t := range g.order.Tiles() {
		g.surface.ApplyTransform(t.Handle, t.Position.X, t.Position.Y)
	}
}

func (g *Grid) taskFailed(err *TaskError) {
	g.stats.failed++
	g.logger.Warn("animation task failed", "tile", err.Tile.ID, "phase", err.Phase, "err", err.Err)
}

// Order returns the grid's order model.
func (g *Grid) Order() *Order { return g.order }

// Ordering returns a copy of the slot → tile index permutation.
func (g *Grid) Ordering() []int { return g.order.Ordering() }

// Tiles returns the tiles in storage order. The returned slice MUST NOT be
// mutated.
func (g *Grid) Tiles() []*Tile { return g.order.Tiles() }

// State returns the drag controller state.
func (g *Grid) State() DragState { return g.state }

// Dragged returns the airborne tile, or nil.
func (g *Grid) Dragged() *Tile { return g.dragged }

// Clock returns the render clock shared by every tile's animations.
func (g *Grid) Clock() *Clock { return &g.clock }

// Config returns the effective configuration.
func (g *Grid) Config() Config { return g.cfg }
