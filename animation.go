package reflow

import (
	"fmt"

	"github.com/tanema/gween/ease"
)

// DefaultCurveFactor stretches the vertical leg of a MoveTo so Y lags X and
// the trajectory bends.
const DefaultCurveFactor = 0.6

// Clock is the render clock shared by every task of one grid. It is set once
// per tick, before any task reads it.
type Clock struct {
	now float64
}

// Now returns the current tick time in milliseconds.
func (c *Clock) Now() float64 { return c.now }

// Set records the tick time. Hosts normally go through Grid.Tick instead.
func (c *Clock) Set(ms float64) { c.now = ms }

// TaskContext is handed to every task lifecycle call.
type TaskContext struct {
	Now  float64 // tick time in milliseconds
	Tile *Tile   // tile whose position the task drives
}

// Task is one timed transition on a tile. Init captures starting values,
// Update reports true once complete, Stop releases anything the task holds.
// Embed BaseTask to get no-op Init and Stop.
type Task interface {
	Init(ctx TaskContext) error
	Update(ctx TaskContext) (bool, error)
	Stop(ctx TaskContext) error
}

// BaseTask provides no-op Init and Stop for tasks that only need Update.
type BaseTask struct{}

func (BaseTask) Init(TaskContext) error { return nil }
func (BaseTask) Stop(TaskContext) error { return nil }

// MoveTo interpolates a tile's position toward Target over Duration
// milliseconds. X advances on Duration, Y on Duration*(1+CurveFactor), so
// vertical motion trails horizontal. EaseX and EaseY are independent.
type MoveTo struct {
	Target      Vec2
	Duration    float64
	CurveFactor float64
	EaseX       ease.TweenFunc
	EaseY       ease.TweenFunc

	startTime float64
	start     Vec2
}

// NewMoveTo returns a linear MoveTo with the default curve factor.
func NewMoveTo(target Vec2, durationMs float64) *MoveTo {
	return &MoveTo{
		Target:      target,
		Duration:    durationMs,
		CurveFactor: DefaultCurveFactor,
		EaseX:       ease.Linear,
		EaseY:       ease.Linear,
	}
}

func (m *MoveTo) Init(ctx TaskContext) error {
	if ctx.Tile == nil {
		return fmt.Errorf("move-to: no tile")
	}
	m.startTime = ctx.Now
	m.start = ctx.Tile.Position
	return nil
}

func (m *MoveTo) Update(ctx TaskContext) (bool, error) {
	elapsed := ctx.Now - m.startTime
	if elapsed >= m.Duration {
		ctx.Tile.Position = m.Target
		return true, nil
	}

	ex, ey := m.EaseX, m.EaseY
	if ex == nil {
		ex = ease.Linear
	}
	if ey == nil {
		ey = ease.Linear
	}
	dx := m.Duration
	dy := m.Duration + m.Duration*m.CurveFactor

	ctx.Tile.Position = Vec2{
		X: float64(ex(float32(elapsed), float32(m.start.X), float32(m.Target.X-m.start.X), float32(dx))),
		Y: float64(ey(float32(elapsed), float32(m.start.Y), float32(m.Target.Y-m.start.Y), float32(dy))),
	}
	return false, nil
}

func (m *MoveTo) Stop(TaskContext) error { return nil }

// taskRun wraps a Task with its completion flag and failure record.
type taskRun struct {
	task     Task
	finished bool
	err      *TaskError
}

func (r *taskRun) fail(tile *Tile, phase TaskPhase, err error) {
	r.err = &TaskError{Tile: tile, Phase: phase, Err: err}
	r.finished = true
}

// guard runs fn, converting a returned error or a panic into a task failure.
func (r *taskRun) guard(tile *Tile, phase TaskPhase, fn func() error) {
	defer func() {
		if p := recover(); p != nil {
			r.fail(tile, phase, fmt.Errorf("panic: %v", p))
		}
	}()
	if err := fn(); err != nil {
		r.fail(tile, phase, err)
	}
}

// Queue is a tile's ordered list of pending animation tasks plus at most one
// current task. Only the current task is ever updated.
type Queue struct {
	tile    *Tile
	clock   *Clock
	current *taskRun
	pending []*taskRun

	// OnError, when set, receives every recorded task failure.
	OnError func(*TaskError)
	// LastError is the most recent task failure on this queue.
	LastError *TaskError
}

func newQueue(tile *Tile, clock *Clock) *Queue {
	return &Queue{tile: tile, clock: clock}
}

func (q *Queue) ctx() TaskContext {
	var now float64
	if q.clock != nil {
		now = q.clock.Now()
	}
	return TaskContext{Now: now, Tile: q.tile}
}

func (q *Queue) record(r *taskRun) {
	if r.err == nil {
		return
	}
	q.LastError = r.err
	if q.OnError != nil {
		q.OnError(r.err)
	}
}

// Add appends a task to the pending list.
func (q *Queue) Add(t Task) {
	q.pending = append(q.pending, &taskRun{task: t})
}

// Clear stops the current task and discards everything pending.
func (q *Queue) Clear() {
	if q.current != nil && !q.current.finished {
		r := q.current
		r.guard(q.tile, PhaseStop, func() error { return r.task.Stop(q.ctx()) })
		q.record(r)
	}
	q.current = nil
	q.pending = q.pending[:0]
}

// Len returns the number of tasks not yet completed, including the current one.
func (q *Queue) Len() int {
	n := len(q.pending)
	if q.current != nil && !q.current.finished {
		n++
	}
	return n
}

// Current returns the active task, popping and initializing the next pending
// task when the current one has finished. Returns nil when the queue is empty.
func (q *Queue) Current() Task {
	if q.current != nil && !q.current.finished {
		return q.current.task
	}
	for len(q.pending) > 0 {
		r := q.pending[0]
		copy(q.pending, q.pending[1:])
		q.pending[len(q.pending)-1] = nil
		q.pending = q.pending[:len(q.pending)-1]

		q.current = r
		r.guard(q.tile, PhaseInit, func() error { return r.task.Init(q.ctx()) })
		if !r.finished {
			return r.task
		}
		q.record(r)
	}
	q.current = nil
	return nil
}

// Update advances the current task by one tick. It reports whether a task ran.
// An empty queue leaves the tile where it is.
func (q *Queue) Update() bool {
	if q.Current() == nil {
		return false
	}
	r := q.current
	r.guard(q.tile, PhaseUpdate, func() error {
		done, err := r.task.Update(q.ctx())
		if err != nil {
			return err
		}
		if done {
			r.finished = true
		}
		return nil
	})
	q.record(r)
	return true
}
