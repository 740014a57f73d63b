// Package ebitenhost runs a reflow grid in an Ebitengine window.
//
// A Host is both a [reflow.Surface] and an [ebiten.Game]: every Update runs
// the tick the grid requested, and Draw paints each box as a filled
// rectangle at the position the grid last applied.
//
//	host := ebitenhost.New(640, 480)
//	host.AddContainer("icons", ebitenhost.Boxes(12, 64, 64)...)
//	grid := reflow.NewGrid(reflow.Config{Container: "icons", Columns: 4}, host)
//	if err := grid.Start(); err != nil {
//		log.Fatal(err)
//	}
//	if err := host.Run("reflow"); err != nil {
//		log.Fatal(err)
//	}
package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/reflow"
)

// Box is a rectangular element drawn by the host.
type Box struct {
	Label  string
	Width  float64
	Height float64
	Color  color.RGBA

	x, y  float64
	state reflow.VisualState
}

// Position returns where the grid last placed the box, relative to the
// container origin.
func (b *Box) Position() (x, y float64) { return b.x, b.y }

// State returns the box's visual state.
func (b *Box) State() reflow.VisualState { return b.state }

// Boxes creates n labelled boxes of the given size with rotating colors.
func Boxes(n int, width, height float64) []*Box {
	boxes := make([]*Box, n)
	for i := range boxes {
		boxes[i] = &Box{
			Label:  strconv.Itoa(i + 1),
			Width:  width,
			Height: height,
			Color:  palette[i%len(palette)],
		}
	}
	return boxes
}

var palette = []color.RGBA{
	{R: 0xe0, G: 0x6c, B: 0x75, A: 0xff},
	{R: 0x98, G: 0xc3, B: 0x79, A: 0xff},
	{R: 0xe5, G: 0xc0, B: 0x7b, A: 0xff},
	{R: 0x61, G: 0xaf, B: 0xef, A: 0xff},
	{R: 0xc6, G: 0x78, B: 0xdd, A: 0xff},
	{R: 0x56, G: 0xb6, B: 0xc2, A: 0xff},
}

var (
	background   = color.RGBA{R: 0x28, G: 0x2c, B: 0x34, A: 0xff}
	outline      = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelPadding = 4
)

// Host is an Ebitengine window hosting reflow grids.
type Host struct {
	// ShowFPS draws an FPS/TPS counter in the top-right corner.
	ShowFPS bool
	// ScreenshotDir receives captures queued with Screenshot or taken with
	// F12. Empty means DefaultScreenshotDir.
	ScreenshotDir string

	width, height int
	logger        *log.Logger
	origin        reflow.Vec2
	containers    map[string][]*Box
	order         []*Box

	tick        reflow.TickFunc
	frames      int
	pointer     reflow.PointerSource
	overlay     overlay
	screenshots []string
}

// New creates a host with the given logical screen size.
func New(width, height int) *Host {
	h := &Host{
		width:      width,
		height:     height,
		logger:     log.Default(),
		containers: make(map[string][]*Box),
		origin:     reflow.Vec2{X: 16, Y: 16},
	}
	h.pointer = &cursor{host: h}
	return h
}

// SetLogger sets the logger used for screenshot results.
func (h *Host) SetLogger(logger *log.Logger) { h.logger = logger }

// SetOrigin moves the container origin on screen. Pointer coordinates are
// reported relative to it.
func (h *Host) SetOrigin(x, y float64) {
	h.origin = reflow.Vec2{X: x, Y: y}
}

// AddContainer registers boxes under name.
func (h *Host) AddContainer(name string, boxes ...*Box) {
	h.containers[name] = append(h.containers[name], boxes...)
	h.order = append(h.order, boxes...)
}

// Resolve implements reflow.Surface.
func (h *Host) Resolve(container string) ([]reflow.Handle, error) {
	boxes, ok := h.containers[container]
	if !ok {
		return nil, fmt.Errorf("ebiten host %q: %w", container, reflow.ErrContainerNotFound)
	}
	handles := make([]reflow.Handle, len(boxes))
	for i, b := range boxes {
		handles[i] = b
	}
	return handles, nil
}

// Measure implements reflow.Surface.
func (h *Host) Measure(handle reflow.Handle) reflow.Size {
	b, ok := handle.(*Box)
	if !ok {
		return reflow.Size{}
	}
	return reflow.Size{Width: b.Width, Height: b.Height}
}

// ApplyTransform implements reflow.Surface.
func (h *Host) ApplyTransform(handle reflow.Handle, x, y float64) {
	if b, ok := handle.(*Box); ok {
		b.x, b.y = x, y
	}
}

// SetVisualState implements reflow.Surface.
func (h *Host) SetVisualState(handle reflow.Handle, state reflow.VisualState) {
	if b, ok := handle.(*Box); ok {
		b.state = state
	}
}

// SetPointer replaces the mouse with another pointer source, such as a
// reflow.ScriptRunner. Call it before the grid starts.
func (h *Host) SetPointer(p reflow.PointerSource) { h.pointer = p }

// AttachPointer implements reflow.Surface. Unless replaced, the pointer reads
// the mouse, or the first touch when the left button is up.
func (h *Host) AttachPointer() reflow.PointerSource { return h.pointer }

// RequestTick implements reflow.Surface. The callback runs on the next Update.
func (h *Host) RequestTick(fn reflow.TickFunc) { h.tick = fn }

// Now returns the host clock in milliseconds. It advances by one tick period
// per Update so animation timing does not depend on wall-clock jitter.
func (h *Host) Now() float64 {
	return float64(h.frames) * 1000 / float64(ebiten.TPS())
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		h.Screenshot("f12")
	}
	if h.ShowFPS {
		h.overlay.update(1 / float64(ebiten.TPS()))
	}
	h.frames++
	h.runTick(h.Now())
	return nil
}

func (h *Host) runTick(now float64) {
	fn := h.tick
	if fn == nil {
		return
	}
	h.tick = nil
	fn(now)
}

// Draw implements ebiten.Game. Lifted boxes are painted last so they stay on
// top of the tiles sliding underneath.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	for _, b := range h.drawOrder() {
		h.drawBox(screen, b)
	}
	if h.ShowFPS {
		h.overlay.draw(screen)
	}
	h.flushScreenshots(screen)
}

func (h *Host) drawOrder() []*Box {
	out := make([]*Box, 0, len(h.order))
	var lifted []*Box
	for _, b := range h.order {
		if b.state == reflow.VisualNone {
			out = append(out, b)
		} else {
			lifted = append(lifted, b)
		}
	}
	return append(out, lifted...)
}

func (h *Host) drawBox(screen *ebiten.Image, b *Box) {
	x := float32(h.origin.X + b.x)
	y := float32(h.origin.Y + b.y)
	w, hh := float32(b.Width), float32(b.Height)

	vector.DrawFilledRect(screen, x, y, w, hh, fill(b), false)
	if b.state == reflow.VisualDragging {
		vector.StrokeRect(screen, x, y, w, hh, 2, outline, false)
	}
	ebitenutil.DebugPrintAt(screen, b.Label, int(x)+labelPadding, int(y)+labelPadding)
}

// fill returns the box color adjusted for its visual state.
func fill(b *Box) color.RGBA {
	c := b.Color
	switch b.state {
	case reflow.VisualPressed:
		return scale(c, 0.8)
	case reflow.VisualDragging:
		return lighten(c, 0.25)
	}
	return c
}

func scale(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{R: uint8(float64(c.R) * f), G: uint8(float64(c.G) * f), B: uint8(float64(c.B) * f), A: c.A}
}

func lighten(c color.RGBA, f float64) color.RGBA {
	l := func(v uint8) uint8 { return v + uint8(float64(0xff-v)*f) }
	return color.RGBA{R: l(c.R), G: l(c.G), B: l(c.B), A: c.A}
}

// Layout implements ebiten.Game.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	return h.width, h.height
}

// Run opens the window and blocks until it is closed or Escape is pressed.
func (h *Host) Run(title string) error {
	ebiten.SetWindowSize(h.width, h.height)
	ebiten.SetWindowTitle(title)
	if err := ebiten.RunGame(h); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// cursor samples the mouse, falling back to the first active touch.
type cursor struct {
	host    *Host
	touches []ebiten.TouchID
}

func (c *cursor) Sample() reflow.PointerSample {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if !pressed {
		c.touches = ebiten.AppendTouchIDs(c.touches[:0])
		if len(c.touches) > 0 {
			mx, my = ebiten.TouchPosition(c.touches[0])
			pressed = true
		}
	}
	return c.host.relative(mx, my, pressed)
}

// relative converts screen coordinates to container coordinates.
func (h *Host) relative(x, y int, pressed bool) reflow.PointerSample {
	return reflow.PointerSample{
		X:       float64(x) - h.origin.X,
		Y:       float64(y) - h.origin.Y,
		Pressed: pressed,
	}
}
