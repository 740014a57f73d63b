package reflow

import (
	"time"

	"github.com/charmbracelet/log"
)

// tickStats holds per-tick timing and animation counts.
// Timing is only populated when the grid is in debug mode.
type tickStats struct {
	tickTime  time.Duration
	animated  int
	scheduled int
	failed    int
	reorders  int
}

// SetDebugMode enables or disables debug mode. When enabled, per-tick stats
// are logged at debug level and the logger level is lowered to debug.
func (g *Grid) SetDebugMode(enabled bool) {
	g.debug = enabled
	if enabled {
		g.logger.SetLevel(log.DebugLevel)
	}
}

// debugLog logs a tick's stats. Idle ticks are skipped.
func (g *Grid) debugLog(stats tickStats) {
	if !g.debug {
		return
	}
	if stats.animated == 0 && stats.scheduled == 0 && stats.failed == 0 && stats.reorders == 0 {
		return
	}
	g.logger.Debug("tick",
		"t", g.clock.Now(),
		"state", g.state,
		"took", stats.tickTime,
		"animated", stats.animated,
		"scheduled", stats.scheduled,
		"failed", stats.failed,
		"reorders", stats.reorders,
	)
}
