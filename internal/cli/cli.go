// Package cli implements the reflow command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/reflow"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a CLI whose logger writes to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "reflow",
		Short:        "Drag-to-reorder tile grids",
		Long:         `reflow shows a fixed-column grid of tiles that can be dragged into a new order, in a window, in the terminal, or headless from a pointer script.`,
		SilenceUsage: true,
	}

	root.AddCommand(c.windowCommand())
	root.AddCommand(c.termCommand())
	root.AddCommand(c.simulateCommand())
	return root
}

// gridFlags are shared by every subcommand that builds a grid.
type gridFlags struct {
	config  string
	columns int
	tiles   int
	script  string
	debug   bool
}

func (f *gridFlags) register(cmd *cobra.Command, defaultTiles int) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML grid configuration")
	cmd.Flags().IntVar(&f.columns, "columns", reflow.DefaultColumns, "cells per row")
	cmd.Flags().IntVarP(&f.tiles, "tiles", "n", defaultTiles, "number of tiles")
	cmd.Flags().StringVar(&f.script, "script", "", "JSON pointer script to play instead of live input")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "log per-tick grid stats")
}

// gridConfig builds the grid configuration: the --config file if given,
// then explicit flags on top.
func (c *CLI) gridConfig(cmd *cobra.Command, f *gridFlags) (reflow.Config, error) {
	cfg := reflow.DefaultConfig()
	if f.config != "" {
		loaded, err := reflow.LoadConfig(f.config)
		if err != nil {
			return reflow.Config{}, err
		}
		cfg = loaded
		c.Logger.Debug("loaded config", "path", f.config)
	}
	if cmd.Flags().Changed("columns") || f.config == "" {
		cfg.Columns = f.columns
	}
	if f.debug {
		cfg.Debug = true
	}
	if f.tiles < 0 {
		return reflow.Config{}, fmt.Errorf("--tiles must not be negative, got %d", f.tiles)
	}
	cfg.Logger = c.Logger
	return cfg, nil
}

// loadScript reads a pointer script, or returns nil when path is empty.
func loadScript(path string) (*reflow.ScriptRunner, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return reflow.LoadScript(data)
}
