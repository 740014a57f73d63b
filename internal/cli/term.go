package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/reflow"
	"github.com/phanxgames/reflow/termhost"
)

func (c *CLI) termCommand() *cobra.Command {
	var (
		flags         gridFlags
		width, height int
		logFile       string
	)

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run the grid in the terminal",
		Long:  `Run the grid in the terminal. Drag tiles with the mouse; press q or Escape to quit. The terminal owns stderr while running, so logs go to --log-file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.gridConfig(cmd, &flags)
			if err != nil {
				return err
			}
			runner, err := loadScript(flags.script)
			if err != nil {
				return err
			}

			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.Create(logFile)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			logger := log.NewWithOptions(w, log.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           c.Logger.GetLevel(),
			})
			cfg.Logger = logger

			host, err := termhost.Open(logger)
			if err != nil {
				return err
			}
			defer host.Close()
			host.AddContainer(cfg.Container, termhost.Boxes(flags.tiles, width, height)...)

			grid := reflow.NewGrid(cfg, host)
			if runner != nil {
				host.SetPointer(runner)
			}
			if err := grid.Start(); err != nil {
				return err
			}
			err = host.Run(cmd.Context())
			logger.Info("final ordering", "ordering", grid.Ordering())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	flags.register(cmd, 12)
	cmd.Flags().IntVar(&width, "tile-width", 8, "tile width in cells")
	cmd.Flags().IntVar(&height, "tile-height", 3, "tile height in cells")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}
