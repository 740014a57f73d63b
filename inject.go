package reflow

// InjectedPointer is a PointerSource fed by queued synthetic samples. Each
// call to Sample consumes one queued sample; when the queue is empty the last
// sample is repeated, so a held press stays held.
type InjectedPointer struct {
	queue []PointerSample
	last  PointerSample
}

// Pending returns the number of queued samples not yet consumed.
func (p *InjectedPointer) Pending() int { return len(p.queue) }

// Press queues a press at (x, y).
func (p *InjectedPointer) Press(x, y float64) {
	p.queue = append(p.queue, PointerSample{X: x, Y: y, Pressed: true})
}

// Move queues a move to (x, y) with the button held.
func (p *InjectedPointer) Move(x, y float64) {
	p.queue = append(p.queue, PointerSample{X: x, Y: y, Pressed: true})
}

// Hover queues a move to (x, y) with the button up.
func (p *InjectedPointer) Hover(x, y float64) {
	p.queue = append(p.queue, PointerSample{X: x, Y: y})
}

// Release queues a release at (x, y).
func (p *InjectedPointer) Release(x, y float64) {
	p.queue = append(p.queue, PointerSample{X: x, Y: y})
}

// Click queues a press followed by a release at the same point. Consumes two
// ticks.
func (p *InjectedPointer) Click(x, y float64) {
	p.Press(x, y)
	p.Release(x, y)
}

// Drag queues a full drag: press at (fromX, fromY), frames-2 linearly
// interpolated moves, and a release at (toX, toY). The sequence consumes
// frames ticks; the minimum is 2.
func (p *InjectedPointer) Drag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	p.Press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		p.Move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	p.Release(toX, toY)
}

// Sample pops the next queued sample.
func (p *InjectedPointer) Sample() PointerSample {
	if len(p.queue) == 0 {
		return p.last
	}
	s := p.queue[0]
	copy(p.queue, p.queue[1:])
	p.queue = p.queue[:len(p.queue)-1]
	p.last = s
	return s
}
