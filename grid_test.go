package reflow

import (
	"bytes"
	"errors"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type recordingStore struct {
	events []GridEvent
}

func (r *recordingStore) EmitEvent(e GridEvent) { r.events = append(r.events, e) }

// newTestGrid starts a 6-column grid of n 100x100 boxes driven by an
// injected pointer.
func newTestGrid(t *testing.T, n int, cfg Config) (*Grid, *HeadlessSurface, *InjectedPointer, []*HeadlessBox) {
	t.Helper()
	ptr := &InjectedPointer{}
	surface := NewHeadlessSurface(ptr)
	boxes := surface.AddBoxes("icons", n, Size{Width: 100, Height: 100})
	cfg.Container = "icons"
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	g := NewGrid(cfg, surface)
	if err := g.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return g, surface, ptr, boxes
}

func TestGridStartLaysOutTiles(t *testing.T) {
	g, _, _, boxes := newTestGrid(t, 8, Config{})

	if g.Order().Columns() != DefaultColumns {
		t.Fatalf("Columns() = %d, want %d", g.Order().Columns(), DefaultColumns)
	}
	want := []Vec2{{0, 0}, {100, 0}, {200, 0}, {300, 0}, {400, 0}, {500, 0}, {0, 100}, {100, 100}}
	for i, b := range boxes {
		if b.X != want[i].X || b.Y != want[i].Y {
			t.Errorf("box %d at (%v, %v), want %+v", i, b.X, b.Y, want[i])
		}
		if b.Writes == 0 {
			t.Errorf("box %d never received a transform", i)
		}
	}
}

func TestGridStartMissingContainer(t *testing.T) {
	surface := NewHeadlessSurface(nil)
	g := NewGrid(Config{Container: "nope", Logger: log.New(io.Discard)}, surface)

	err := g.Start()
	if !errors.Is(err, ErrContainerNotFound) {
		t.Fatalf("Start() = %v, want ErrContainerNotFound", err)
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "container" {
		t.Errorf("expected *ConfigError on container, got %T %v", err, err)
	}
}

func TestGridStartTwice(t *testing.T) {
	g, _, _, _ := newTestGrid(t, 2, Config{})
	if err := g.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Start() = %v, want ErrAlreadyStarted", err)
	}
}

func TestGridStartOrderingLengthMismatch(t *testing.T) {
	surface := NewHeadlessSurface(nil)
	surface.AddBoxes("icons", 3, Size{Width: 10, Height: 10})
	g := NewGrid(Config{Container: "icons", Ordering: []int{1, 0}, Logger: log.New(io.Discard)}, surface)

	if err := g.Start(); !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("Start() = %v, want ErrInvalidOrdering", err)
	}
}

func TestGridInitialOrdering(t *testing.T) {
	g, _, _, boxes := newTestGrid(t, 3, Config{Ordering: []int{2, 0, 1}})

	if got := g.Ordering(); !slices.Equal(got, []int{2, 0, 1}) {
		t.Fatalf("Ordering() = %v", got)
	}
	if boxes[2].X != 0 || boxes[0].X != 100 || boxes[1].X != 200 {
		t.Errorf("boxes at x=%v,%v,%v; want 100,200,0", boxes[0].X, boxes[1].X, boxes[2].X)
	}
}

func TestGridLazyCellSize(t *testing.T) {
	ptr := &InjectedPointer{}
	surface := NewHeadlessSurface(ptr)
	boxes := surface.AddBoxes("icons", 7, Size{})
	g := NewGrid(Config{Container: "icons", Margin: Margin{Right: 10, Bottom: 5}, Logger: log.New(io.Discard)}, surface)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}
	if boxes[1].X != 0 {
		t.Fatalf("unmeasured box should sit at origin, got x=%v", boxes[1].X)
	}

	for _, b := range boxes {
		b.Size = Size{Width: 50, Height: 50}
	}
	surface.Advance(1)

	if got := g.Order().CellSize(); got != (Size{Width: 60, Height: 55}) {
		t.Fatalf("CellSize() = %+v, want 60x55", got)
	}
	if boxes[1].X != 60 || boxes[6].Y != 55 {
		t.Errorf("box1.x=%v box6.y=%v, want 60 and 55", boxes[1].X, boxes[6].Y)
	}
}

func TestGridClickDoesNotDrag(t *testing.T) {
	g, surface, ptr, boxes := newTestGrid(t, 4, Config{})

	ptr.Click(50, 50)
	surface.Advance(1)
	if g.State() != StatePressed {
		t.Fatalf("State() = %v, want pressed", g.State())
	}
	if boxes[0].State != VisualPressed {
		t.Errorf("box 0 visual = %v, want pressed", boxes[0].State)
	}

	surface.Advance(1)
	if g.State() != StateIdle {
		t.Errorf("State() = %v, want idle after release", g.State())
	}
	if boxes[0].State != VisualNone {
		t.Errorf("box 0 visual = %v, want none", boxes[0].State)
	}
	if got := g.Ordering(); !slices.Equal(got, identity(4)) {
		t.Errorf("Ordering() = %v, click must not reorder", got)
	}
}

func TestGridPressOnEmptySpaceStaysIdle(t *testing.T) {
	g, surface, ptr, _ := newTestGrid(t, 2, Config{})

	ptr.Press(450, 450)
	ptr.Move(470, 450)
	surface.Advance(2)
	if g.State() != StateIdle {
		t.Errorf("State() = %v, want idle", g.State())
	}
}

func TestGridDragReorders(t *testing.T) {
	g, surface, ptr, boxes := newTestGrid(t, 6, Config{})

	var seen []string
	g.OnDragStart(func(ctx EventContext) { seen = append(seen, "start") })
	g.OnReorder(func(ctx EventContext) {
		seen = append(seen, "reorder")
		if ctx.From != 0 || ctx.To != 3 {
			t.Errorf("reorder %d→%d, want 0→3", ctx.From, ctx.To)
		}
	})
	g.OnDragEnd(func(ctx EventContext) {
		seen = append(seen, "end")
		if ctx.Tile.Handle != boxes[0] || ctx.From != 0 || ctx.To != 3 {
			t.Errorf("dragend %d→%d on %v", ctx.From, ctx.To, ctx.Tile.Handle)
		}
	})

	ptr.Press(50, 50)
	ptr.Move(60, 50)
	surface.Advance(2)
	if g.State() != StateDragging {
		t.Fatalf("State() = %v, want dragging", g.State())
	}
	if boxes[0].State != VisualDragging {
		t.Errorf("box 0 visual = %v, want dragging", boxes[0].State)
	}
	if boxes[0].X != 10 {
		t.Errorf("dragged box x = %v, want 10 (pointer minus grab offset)", boxes[0].X)
	}

	ptr.Move(350, 50)
	surface.Advance(1)
	if got := g.Ordering(); !slices.Equal(got, []int{1, 2, 3, 0, 4, 5}) {
		t.Fatalf("Ordering() = %v, want [1 2 3 0 4 5]", got)
	}
	if boxes[0].X != 300 {
		t.Errorf("dragged box x = %v, want 300", boxes[0].X)
	}

	ptr.Release(350, 50)
	surface.Advance(40)

	if g.State() != StateIdle || g.Dragged() != nil {
		t.Fatalf("drag session not discarded: state %v", g.State())
	}
	wantX := []float64{300, 0, 100, 200, 400, 500}
	for i, b := range boxes {
		if b.X != wantX[i] || b.Y != 0 {
			t.Errorf("box %d at (%v, %v), want (%v, 0)", i, b.X, b.Y, wantX[i])
		}
	}
	if boxes[0].State != VisualNone {
		t.Errorf("box 0 visual = %v, want none", boxes[0].State)
	}
	if !slices.Equal(seen, []string{"start", "reorder", "end"}) {
		t.Errorf("events = %v", seen)
	}
}

func TestGridDragAcrossRows(t *testing.T) {
	g, surface, ptr, boxes := newTestGrid(t, 12, Config{Columns: 4})

	ptr.Press(150, 50)
	ptr.Move(160, 60)
	ptr.Move(150, 250)
	ptr.Release(150, 250)
	surface.Advance(40)

	got := g.Ordering()
	want := []int{0, 2, 3, 4, 5, 6, 7, 8, 9, 1, 10, 11}
	if !slices.Equal(got, want) {
		t.Fatalf("Ordering() = %v, want %v", got, want)
	}
	if boxes[1].X != 100 || boxes[1].Y != 200 {
		t.Errorf("dragged box at (%v, %v), want (100, 200)", boxes[1].X, boxes[1].Y)
	}
	if boxes[4].X != 300 || boxes[4].Y != 0 {
		t.Errorf("box 4 at (%v, %v), want (300, 0)", boxes[4].X, boxes[4].Y)
	}
}

func TestGridDragOutsideGridKeepsOrder(t *testing.T) {
	g, surface, ptr, boxes := newTestGrid(t, 6, Config{})

	ptr.Press(50, 50)
	ptr.Move(60, 50)
	ptr.Move(-300, 50)
	ptr.Move(-300, -400)
	surface.Advance(4)
	if got := g.Ordering(); !slices.Equal(got, identity(6)) {
		t.Fatalf("Ordering() = %v, want identity", got)
	}

	ptr.Release(-300, -400)
	surface.Advance(60)
	if boxes[0].X != 0 || boxes[0].Y != 0 {
		t.Errorf("box 0 at (%v, %v), want back at origin", boxes[0].X, boxes[0].Y)
	}
}

func TestGridFailingTaskDoesNotStallOthers(t *testing.T) {
	var buf bytes.Buffer
	g, surface, _, boxes := newTestGrid(t, 3, Config{Logger: log.New(&buf)})

	broken := &countingTask{updateErr: errors.New("kaput")}
	g.Tiles()[0].Queue.Add(broken)
	g.Tiles()[1].Animate(Vec2{X: 100, Y: 300}, 100, DefaultCurveFactor)

	surface.Advance(20)

	if broken.updates != 1 {
		t.Errorf("broken.updates = %d, want 1", broken.updates)
	}
	if boxes[1].X != 100 || boxes[1].Y != 300 {
		t.Errorf("box 1 at (%v, %v), want (100, 300)", boxes[1].X, boxes[1].Y)
	}
	if !strings.Contains(buf.String(), "animation task failed") {
		t.Errorf("expected the failure to be logged, got %q", buf.String())
	}
}

func TestGridRemoveWhileDragging(t *testing.T) {
	g, surface, ptr, _ := newTestGrid(t, 5, Config{})

	ptr.Press(50, 50)
	ptr.Move(60, 50)
	surface.Advance(2)
	dragged := g.Dragged()
	if dragged == nil {
		t.Fatal("expected a drag")
	}

	var removed int
	g.OnTileRemoved(func(ctx EventContext) { removed = ctx.From })
	if !g.Remove(dragged) {
		t.Fatal("Remove returned false")
	}
	if g.State() != StateIdle || g.Dragged() != nil {
		t.Errorf("drag should end when its tile is removed")
	}
	if removed != 0 {
		t.Errorf("removed from slot %d, want 0", removed)
	}
	if got := g.Ordering(); !slices.Equal(got, identity(4)) {
		t.Errorf("Ordering() = %v, want identity of 4", got)
	}

	// The pointer is still held; nothing should lift until a new press.
	ptr.Move(200, 50)
	surface.Advance(2)
	if g.State() != StateIdle {
		t.Errorf("State() = %v, want idle", g.State())
	}
}

func TestGridAddAfterStart(t *testing.T) {
	g, surface, _, _ := newTestGrid(t, 6, Config{})
	extra := surface.AddBoxes("spare", 1, Size{Width: 100, Height: 100})[0]

	tile := g.Add(extra)
	if got := g.Order().SlotOf(tile); got != 6 {
		t.Fatalf("SlotOf(new) = %d, want 6", got)
	}
	if extra.X != 0 || extra.Y != 100 {
		t.Errorf("new box at (%v, %v), want (0, 100)", extra.X, extra.Y)
	}
}

func TestGridEventStore(t *testing.T) {
	g, surface, ptr, _ := newTestGrid(t, 3, Config{})
	store := &recordingStore{}
	g.SetEventStore(store)

	ptr.Press(50, 50)
	ptr.Move(60, 50)
	ptr.Move(150, 50)
	ptr.Release(150, 50)
	surface.Advance(4)

	var types []EventType
	for _, e := range store.events {
		types = append(types, e.Type)
	}
	if !slices.Equal(types, []EventType{EventDragStart, EventReorder, EventDragEnd}) {
		t.Fatalf("event types = %v", types)
	}
	last := store.events[len(store.events)-1]
	if last.TileID != g.Tiles()[0].ID {
		t.Error("dragend should carry the dragged tile's ID")
	}
	if !slices.Equal(last.Ordering, []int{1, 0, 2}) {
		t.Errorf("Ordering snapshot = %v, want [1 0 2]", last.Ordering)
	}
}

func TestGridCallbackHandleRemove(t *testing.T) {
	g, surface, ptr, _ := newTestGrid(t, 3, Config{})

	var count int
	h := g.OnDragStart(func(EventContext) { count++ })
	h.Remove()

	ptr.Press(50, 50)
	ptr.Move(60, 50)
	surface.Advance(2)
	if count != 0 {
		t.Errorf("removed callback fired %d times", count)
	}
}

func TestGridStopHaltsLoop(t *testing.T) {
	g, surface, _, boxes := newTestGrid(t, 2, Config{})
	surface.Advance(3)
	writes := boxes[0].Writes

	g.Stop()
	surface.Advance(5)
	if boxes[0].Writes != writes {
		t.Errorf("Writes = %d, want %d after Stop", boxes[0].Writes, writes)
	}
}

func TestGridDebugModeLogsStats(t *testing.T) {
	var buf bytes.Buffer
	g, surface, ptr, _ := newTestGrid(t, 3, Config{Logger: log.New(&buf)})
	g.SetDebugMode(true)

	ptr.Press(50, 50)
	ptr.Move(60, 50)
	ptr.Move(150, 50)
	surface.Advance(3)

	if !strings.Contains(buf.String(), "tick") {
		t.Errorf("expected per-tick stats in debug log, got %q", buf.String())
	}
}
