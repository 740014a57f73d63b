package reflow

import (
	"errors"
	"fmt"
)

var (
	// ErrContainerNotFound is wrapped by ConfigError when the surface cannot
	// resolve the configured container.
	ErrContainerNotFound = errors.New("container not found")
	// ErrInvalidOrdering is wrapped by ConfigError when the initial ordering is
	// not a permutation of the tile indices.
	ErrInvalidOrdering = errors.New("ordering is not a permutation")
	// ErrAlreadyStarted is returned by Start on a running grid.
	ErrAlreadyStarted = errors.New("grid already started")
)

// ConfigError reports a configuration problem detected by Validate, LoadConfig
// or Grid.Start. It is the only error class surfaced to callers.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("reflow config: %v", e.Err)
	}
	return fmt.Sprintf("reflow config: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TaskPhase names the lifecycle method that failed.
type TaskPhase uint8

const (
	PhaseInit TaskPhase = iota
	PhaseUpdate
	PhaseStop
)

func (p TaskPhase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseUpdate:
		return "update"
	default:
		return "stop"
	}
}

// TaskError is recorded on an animation task whose lifecycle method returned
// an error or panicked. The task is abandoned; the tick loop carries on.
type TaskError struct {
	Tile  *Tile
	Phase TaskPhase
	Err   error
}

func (e *TaskError) Error() string {
	id := "?"
	if e.Tile != nil {
		id = e.Tile.ID.String()
	}
	return fmt.Sprintf("animation task %s failed on tile %s: %v", e.Phase, id, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }
