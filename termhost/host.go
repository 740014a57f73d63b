// Package termhost runs a reflow grid in a terminal using tcell. Tiles are
// drawn as blocks of cells and dragged with the mouse; grid units are
// terminal cells.
package termhost

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/phanxgames/reflow"
)

// FrameInterval is the redraw period of Run.
const FrameInterval = 16 * time.Millisecond

// Box is a block of cells drawn by the host.
type Box struct {
	Label  string
	Width  int
	Height int
	Color  tcell.Color

	x, y  float64
	state reflow.VisualState
}

// Cell returns the top-left cell the box is drawn at, relative to the
// container origin.
func (b *Box) Cell() (x, y int) {
	return int(math.Round(b.x)), int(math.Round(b.y))
}

// State returns the box's visual state.
func (b *Box) State() reflow.VisualState { return b.state }

var palette = []tcell.Color{
	tcell.ColorRed,
	tcell.ColorGreen,
	tcell.ColorYellow,
	tcell.ColorBlue,
	tcell.ColorPurple,
	tcell.ColorTeal,
}

// Boxes creates n labelled boxes of width×height cells.
func Boxes(n, width, height int) []*Box {
	boxes := make([]*Box, n)
	for i := range boxes {
		boxes[i] = &Box{
			Label:  fmt.Sprintf("%d", i+1),
			Width:  width,
			Height: height,
			Color:  palette[i%len(palette)],
		}
	}
	return boxes
}

// Host draws boxes on a tcell screen and feeds mouse input to the grid.
type Host struct {
	screen     tcell.Screen
	logger     *log.Logger
	originX    int
	originY    int
	containers map[string][]*Box
	order      []*Box

	tick    reflow.TickFunc
	mouse   mouse
	pointer reflow.PointerSource
}

// New creates a host drawing on an initialized screen.
func New(screen tcell.Screen, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Default()
	}
	return &Host{
		screen:     screen,
		logger:     logger,
		originX:    2,
		originY:    1,
		containers: make(map[string][]*Box),
	}
}

// Open initializes the terminal with mouse reporting and returns a host on
// it. Close restores the terminal.
func Open(logger *log.Logger) (*Host, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("termhost: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("termhost: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()
	return New(screen, logger), nil
}

// Close finalizes the screen.
func (h *Host) Close() {
	h.screen.Fini()
}

// SetOrigin moves the container's top-left cell.
func (h *Host) SetOrigin(x, y int) {
	h.originX, h.originY = x, y
}

// AddContainer registers boxes under name.
func (h *Host) AddContainer(name string, boxes ...*Box) {
	h.containers[name] = append(h.containers[name], boxes...)
	h.order = append(h.order, boxes...)
}

func (h *Host) Resolve(container string) ([]reflow.Handle, error) {
	boxes, ok := h.containers[container]
	if !ok {
		return nil, fmt.Errorf("terminal host %q: %w", container, reflow.ErrContainerNotFound)
	}
	handles := make([]reflow.Handle, len(boxes))
	for i, b := range boxes {
		handles[i] = b
	}
	return handles, nil
}

func (h *Host) Measure(handle reflow.Handle) reflow.Size {
	b, ok := handle.(*Box)
	if !ok {
		return reflow.Size{}
	}
	return reflow.Size{Width: float64(b.Width), Height: float64(b.Height)}
}

func (h *Host) ApplyTransform(handle reflow.Handle, x, y float64) {
	if b, ok := handle.(*Box); ok {
		b.x, b.y = x, y
	}
}

func (h *Host) SetVisualState(handle reflow.Handle, state reflow.VisualState) {
	if b, ok := handle.(*Box); ok {
		b.state = state
	}
}

// SetPointer replaces the mouse with another pointer source, such as a
// reflow.ScriptRunner. Call it before the grid starts.
func (h *Host) SetPointer(p reflow.PointerSource) { h.pointer = p }

func (h *Host) AttachPointer() reflow.PointerSource {
	if h.pointer != nil {
		return h.pointer
	}
	return &h.mouse
}

func (h *Host) RequestTick(fn reflow.TickFunc) { h.tick = fn }

// HandleEvent folds one terminal event into the host. It returns false when
// the user asked to quit.
func (h *Host) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		h.mouse.update(x-h.originX, y-h.originY, ev.Buttons()&tcell.Button1 != 0)
	case *tcell.EventResize:
		h.screen.Sync()
	}
	return true
}

// Step runs the pending tick at time now (milliseconds) and redraws.
func (h *Host) Step(now float64) {
	if fn := h.tick; fn != nil {
		h.tick = nil
		fn(now)
	}
	h.Draw()
}

// Draw paints every box. Lifted boxes are drawn last.
func (h *Host) Draw() {
	h.screen.Clear()
	var lifted []*Box
	for _, b := range h.order {
		if b.state != reflow.VisualNone {
			lifted = append(lifted, b)
			continue
		}
		h.drawBox(b)
	}
	for _, b := range lifted {
		h.drawBox(b)
	}
	h.screen.Show()
}

func (h *Host) drawBox(b *Box) {
	cx, cy := b.Cell()
	x0, y0 := h.originX+cx, h.originY+cy

	style := tcell.StyleDefault.Background(b.Color).Foreground(tcell.ColorBlack)
	fillRune := ' '
	switch b.state {
	case reflow.VisualPressed:
		style = style.Dim(true)
	case reflow.VisualDragging:
		style = style.Bold(true)
		fillRune = '░'
	}

	for dy := 0; dy < b.Height; dy++ {
		for dx := 0; dx < b.Width; dx++ {
			h.screen.SetContent(x0+dx, y0+dy, fillRune, nil, style)
		}
	}
	row := y0 + b.Height/2
	for i, r := range []rune(b.Label) {
		if i+1 >= b.Width {
			break
		}
		h.screen.SetContent(x0+1+i, row, r, nil, style)
	}
}

// Run drives the host until ctx is cancelled or the user quits. Terminal
// events are read on their own goroutine; ticks and redraws happen on the
// caller's goroutine at FrameInterval.
func (h *Host) Run(ctx context.Context) error {
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !h.HandleEvent(ev) {
				h.logger.Debug("quit requested")
				return nil
			}
		case <-ticker.C:
			h.Step(float64(time.Since(start).Microseconds()) / 1000)
		}
	}
}

// mouse is the pointer source fed by terminal mouse events. A press that is
// released before the next tick is still reported for one sample.
type mouse struct {
	x, y    int
	pressed bool
	latched bool
}

func (m *mouse) update(x, y int, pressed bool) {
	m.x, m.y = x, y
	if pressed && !m.pressed {
		m.latched = true
	}
	m.pressed = pressed
}

func (m *mouse) Sample() reflow.PointerSample {
	s := reflow.PointerSample{X: float64(m.x), Y: float64(m.y), Pressed: m.pressed || m.latched}
	m.latched = false
	return s
}
