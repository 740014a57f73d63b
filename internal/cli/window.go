package cli

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/reflow"
	"github.com/phanxgames/reflow/ebitenhost"
)

func (c *CLI) windowCommand() *cobra.Command {
	var (
		flags         gridFlags
		width, height int
		size          float64
		showFPS       bool
		shotDir       string
	)

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Open the grid in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.gridConfig(cmd, &flags)
			if err != nil {
				return err
			}
			runner, err := loadScript(flags.script)
			if err != nil {
				return err
			}

			host := ebitenhost.New(width, height)
			host.SetLogger(c.Logger)
			host.ShowFPS = showFPS
			host.ScreenshotDir = shotDir
			host.AddContainer(cfg.Container, ebitenhost.Boxes(flags.tiles, size, size)...)
			if runner != nil {
				runner.OnScreenshot = host.Screenshot
				host.SetPointer(runner)
			}

			grid := reflow.NewGrid(cfg, host)
			if err := grid.Start(); err != nil {
				return err
			}
			c.Logger.Info("window open", "tiles", flags.tiles, "columns", cfg.Columns)
			err = host.Run("reflow")
			c.Logger.Debug("final ordering", "ordering", grid.Ordering())
			return err
		},
	}

	flags.register(cmd, 12)
	cmd.Flags().IntVar(&width, "width", 640, "window width")
	cmd.Flags().IntVar(&height, "height", 480, "window height")
	cmd.Flags().Float64Var(&size, "size", 64, "tile edge in pixels")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "show an FPS counter")
	cmd.Flags().StringVar(&shotDir, "screenshot-dir", ebitenhost.DefaultScreenshotDir, "directory for F12 and script screenshots")
	return cmd
}
