package reflow

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in a pointer script.
type scriptStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Label  string  `json:"label,omitempty"`
}

// script is the top-level JSON structure of a pointer script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner is a PointerSource that plays a JSON pointer script, one
// action at a time, for automated runs of the grid:
//
//	{"steps": [
//		{"action": "drag", "fromX": 10, "fromY": 10, "toX": 250, "toY": 10, "frames": 30},
//		{"action": "wait", "frames": 40}
//	]}
//
// Actions are press, move, release, click, drag, wait and screenshot.
type ScriptRunner struct {
	// OnScreenshot receives the label of every screenshot step. Hosts that
	// can capture frames wire it up; otherwise the step is a no-op.
	OnScreenshot func(label string)

	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	pointer   InjectedPointer
}

// LoadScript parses a JSON pointer script.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse pointer script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse pointer script: no steps")
	}
	for i, st := range s.Steps {
		switch st.Action {
		case "press", "move", "release", "click", "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse pointer script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// Done reports whether every step has run and every queued sample has been
// consumed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Sample advances the script by one tick and returns the pointer reading.
func (r *ScriptRunner) Sample() PointerSample {
	r.advance()
	s := r.pointer.Sample()
	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.pointer.Pending() == 0 {
		r.done = true
	}
	return s
}

func (r *ScriptRunner) advance() {
	if r.done || r.pointer.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		r.pointer.Press(st.X, st.Y)
	case "move":
		r.pointer.Move(st.X, st.Y)
	case "release":
		r.pointer.Release(st.X, st.Y)
	case "click":
		r.pointer.Click(st.X, st.Y)
	case "drag":
		r.pointer.Drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "screenshot":
		if r.OnScreenshot != nil {
			r.OnScreenshot(st.Label)
		}
	}
}
