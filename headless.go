package reflow

import (
	"fmt"
	"sort"
)

// HeadlessBox is the element type of a HeadlessSurface.
type HeadlessBox struct {
	Name   string
	Size   Size
	X, Y   float64
	State  VisualState
	Writes int // number of ApplyTransform calls received
}

// HeadlessSurface is an in-memory Surface. It keeps containers of boxes,
// records every transform and state change, and runs ticks only when Advance
// is called. Useful for tests and for scripted runs without a window.
type HeadlessSurface struct {
	containers map[string][]*HeadlessBox
	pointer    PointerSource
	next       TickFunc
	now        float64
	frame      float64
}

// NewHeadlessSurface creates a surface whose pointer readings come from
// pointer. A nil pointer yields a fresh InjectedPointer.
func NewHeadlessSurface(pointer PointerSource) *HeadlessSurface {
	if pointer == nil {
		pointer = &InjectedPointer{}
	}
	return &HeadlessSurface{
		containers: make(map[string][]*HeadlessBox),
		pointer:    pointer,
		frame:      1000.0 / 60,
	}
}

// AddBoxes creates n boxes of the given size in the named container.
func (s *HeadlessSurface) AddBoxes(container string, n int, size Size) []*HeadlessBox {
	boxes := make([]*HeadlessBox, n)
	for i := range boxes {
		boxes[i] = &HeadlessBox{
			Name: fmt.Sprintf("%s-%d", container, len(s.containers[container])+i),
			Size: size,
		}
	}
	s.containers[container] = append(s.containers[container], boxes...)
	return boxes
}

// Containers returns the sorted container names.
func (s *HeadlessSurface) Containers() []string {
	names := make([]string, 0, len(s.containers))
	for name := range s.containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the boxes of the named container.
func (s *HeadlessSurface) Resolve(container string) ([]Handle, error) {
	boxes, ok := s.containers[container]
	if !ok {
		return nil, fmt.Errorf("headless %q: %w", container, ErrContainerNotFound)
	}
	handles := make([]Handle, len(boxes))
	for i, b := range boxes {
		handles[i] = b
	}
	return handles, nil
}

func (s *HeadlessSurface) Measure(h Handle) Size {
	if b, ok := h.(*HeadlessBox); ok {
		return b.Size
	}
	return Size{}
}

func (s *HeadlessSurface) ApplyTransform(h Handle, x, y float64) {
	if b, ok := h.(*HeadlessBox); ok {
		b.X, b.Y = x, y
		b.Writes++
	}
}

func (s *HeadlessSurface) SetVisualState(h Handle, state VisualState) {
	if b, ok := h.(*HeadlessBox); ok {
		b.State = state
	}
}

func (s *HeadlessSurface) AttachPointer() PointerSource { return s.pointer }

func (s *HeadlessSurface) RequestTick(fn TickFunc) { s.next = fn }

// SetFrameDuration sets how far the clock moves per Advance step, in ms.
func (s *HeadlessSurface) SetFrameDuration(ms float64) { s.frame = ms }

// Now returns the surface clock in milliseconds.
func (s *HeadlessSurface) Now() float64 { return s.now }

// Advance runs n frames, moving the clock one frame duration before each.
// It stops early when nothing requested a tick.
func (s *HeadlessSurface) Advance(n int) {
	for i := 0; i < n; i++ {
		fn := s.next
		if fn == nil {
			return
		}
		s.next = nil
		s.now += s.frame
		fn(s.now)
	}
}
