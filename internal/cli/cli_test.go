package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSimulateDefaultScript(t *testing.T) {
	out, err := runCommand(t, "simulate")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "ordering: [1 0 2 3 4 5]") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "container-0 slot 1 at (100, 0)") {
		t.Errorf("first tile should rest in slot 1:\n%s", out)
	}
}

func TestSimulateScriptFile(t *testing.T) {
	script := writeFile(t, "drag.json", `{"steps": [
		{"action": "drag", "fromX": 50, "fromY": 50, "toX": 250, "toY": 50, "frames": 8}
	]}`)
	out, err := runCommand(t, "simulate", "--tiles", "4", "--columns", "4", "--script", script)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "ordering: [1 2 0 3]") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSimulateConfigFile(t *testing.T) {
	config := writeFile(t, "grid.toml", `
container = "dock"
columns = 3
ordering = [2, 1, 0]
`)
	script := writeFile(t, "wait.json", `{"steps": [{"action": "wait", "frames": 1}]}`)
	out, err := runCommand(t, "simulate", "--tiles", "3", "--config", config, "--script", script)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(out, "ordering: [2 1 0]") || !strings.Contains(out, "dock-2 slot 0 at (0, 0)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSimulateBadScript(t *testing.T) {
	script := writeFile(t, "bad.json", `{"steps": [{"action": "teleport"}]}`)
	if _, err := runCommand(t, "simulate", "--script", script); err == nil {
		t.Error("expected error for unknown script action")
	}
}

func TestSimulateInvalidConfig(t *testing.T) {
	config := writeFile(t, "grid.toml", `columns = -1`)
	if _, err := runCommand(t, "simulate", "--config", config); err == nil {
		t.Error("expected config validation error")
	}
}

func TestSimulateDraw(t *testing.T) {
	out, err := runCommand(t, "simulate", "--tiles", "3", "--columns", "3", "--draw")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	var row string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "1") && strings.Contains(line, "2") && strings.Contains(line, "3") && !strings.Contains(line, "ordering") {
			row = line
		}
	}
	if row == "" {
		t.Fatalf("no grid row in output:\n%s", out)
	}
	// The default script swaps the first two tiles.
	if strings.Index(row, "2") > strings.Index(row, "1") {
		t.Errorf("row %q should show tile 2 before tile 1", row)
	}
}
