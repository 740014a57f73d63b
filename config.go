package reflow

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// DefaultColumns is the column count used when Config.Columns is zero.
const DefaultColumns = 6

// DefaultContainer is the container name used when Config.Container is empty.
const DefaultContainer = "container"

// Config holds the grid settings recognized at construction. Zero values are
// replaced by defaults.
type Config struct {
	// Container names the element whose children become tiles. Its meaning is
	// up to the Surface.
	Container string `toml:"container"`
	// Columns is the fixed cell count per row.
	Columns int `toml:"columns"`
	// Margin is added to the right of and below every measured tile.
	Margin Margin `toml:"margin"`
	// Ordering optionally sets the initial slot → tile index permutation.
	Ordering []int `toml:"ordering"`

	DurationMs    float64 `toml:"duration_ms"`
	CurveFactor   float64 `toml:"curve_factor"`
	DragThreshold float64 `toml:"drag_threshold"`
	Debug         bool    `toml:"debug"`

	// Logger receives task failures and debug stats. Nil uses a stderr logger.
	Logger *log.Logger `toml:"-"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Container == "" {
		c.Container = DefaultContainer
	}
	if c.Columns == 0 {
		c.Columns = DefaultColumns
	}
	if c.DurationMs == 0 {
		c.DurationMs = DefaultDurationMs
	}
	if c.CurveFactor == 0 {
		c.CurveFactor = DefaultCurveFactor
	}
	if c.DragThreshold == 0 {
		c.DragThreshold = DefaultDragThreshold
	}
	return c
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	switch {
	case c.Columns < 1:
		return &ConfigError{Field: "columns", Err: fmt.Errorf("must be at least 1, got %d", c.Columns)}
	case c.Margin.Right < 0 || c.Margin.Bottom < 0:
		return &ConfigError{Field: "margin", Err: errors.New("must not be negative")}
	case c.DurationMs < 0:
		return &ConfigError{Field: "duration_ms", Err: errors.New("must not be negative")}
	case c.CurveFactor < 0:
		return &ConfigError{Field: "curve_factor", Err: errors.New("must not be negative")}
	case c.DragThreshold < 0:
		return &ConfigError{Field: "drag_threshold", Err: errors.New("must not be negative")}
	case c.Ordering != nil && !isPermutation(c.Ordering, len(c.Ordering)):
		return &ConfigError{Field: "ordering", Err: ErrInvalidOrdering}
	}
	return nil
}

// LoadConfig reads a TOML file into a Config with defaults applied.
func LoadConfig(path string) (Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, &ConfigError{Err: fmt.Errorf("load %s: %w", path, err)}
	}
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
