package reflow

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "drag", "fromX": 1, "fromY": 2, "toX": 3, "toY": 4, "frames": 10}
		]
	}`)

	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(runner.steps))
	}
	if runner.steps[0].Action != "click" || runner.steps[0].X != 100 || runner.steps[0].Y != 200 {
		t.Error("step 0 mismatch")
	}
	if runner.steps[1].Action != "wait" || runner.steps[1].Frames != 3 {
		t.Error("step 1 mismatch")
	}
	if st := runner.steps[2]; st.FromX != 1 || st.ToY != 4 || st.Frames != 10 {
		t.Error("step 2 mismatch")
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	if _, err := LoadScript([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadScript_Empty(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadScript_UnknownAction(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": [{"action": "teleport"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestRunnerClick(t *testing.T) {
	runner, err := LoadScript([]byte(`{"steps": [{"action": "click", "x": 50, "y": 50}]}`))
	if err != nil {
		t.Fatal(err)
	}

	if s := runner.Sample(); !s.Pressed {
		t.Error("first tick should press")
	}
	if runner.Done() {
		t.Error("runner should not be done while samples are pending")
	}
	if s := runner.Sample(); s.Pressed {
		t.Error("second tick should release")
	}
	if !runner.Done() {
		t.Error("runner should be done after all steps ran")
	}
}

func TestRunnerScreenshot(t *testing.T) {
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "screenshot", "label": "before"},
		{"action": "click", "x": 1, "y": 1},
		{"action": "screenshot", "label": "after"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	var labels []string
	runner.OnScreenshot = func(label string) { labels = append(labels, label) }

	for i := 0; i < 5 && !runner.Done(); i++ {
		runner.Sample()
	}
	if !runner.Done() {
		t.Fatal("runner should finish")
	}
	if !slices.Equal(labels, []string{"before", "after"}) {
		t.Errorf("labels = %v, want [before after]", labels)
	}
}

func TestRunnerWait(t *testing.T) {
	runner, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		runner.Sample()
		if runner.Done() {
			t.Fatalf("done after %d ticks, want 3", i+1)
		}
	}
	runner.Sample()
	if !runner.Done() {
		t.Error("expected done after 3 ticks")
	}
}

func TestRunnerDrivesGridDrag(t *testing.T) {
	runner, err := LoadScript([]byte(`{"steps": [
		{"action": "drag", "fromX": 50, "fromY": 50, "toX": 350, "toY": 50, "frames": 8},
		{"action": "wait", "frames": 40}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	surface := NewHeadlessSurface(runner)
	boxes := surface.AddBoxes("icons", 6, Size{Width: 100, Height: 100})
	g := NewGrid(Config{Container: "icons", Logger: log.New(io.Discard)}, surface)
	if err := g.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 200 && !runner.Done(); i++ {
		surface.Advance(1)
	}
	if !runner.Done() {
		t.Fatal("script never finished")
	}
	if got := g.Ordering(); !slices.Equal(got, []int{1, 2, 3, 0, 4, 5}) {
		t.Errorf("Ordering() = %v, want [1 2 3 0 4 5]", got)
	}
	if boxes[0].X != 300 || boxes[0].Y != 0 {
		t.Errorf("dragged box at (%v, %v), want (300, 0)", boxes[0].X, boxes[0].Y)
	}
}
