package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/phanxgames/reflow"
)

// defaultScript drags the first tile one slot to the right.
const defaultScript = `{"steps": [
	{"action": "drag", "fromX": 50, "fromY": 50, "toX": 150, "toY": 50, "frames": 10}
]}`

func (c *CLI) simulateCommand() *cobra.Command {
	var (
		flags     gridFlags
		size      float64
		maxFrames int
		draw      bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a pointer script against a headless grid",
		Long:  `Play a pointer script against a headless grid and print the resulting ordering and tile positions. Without --script the first tile is dragged one slot to the right.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.gridConfig(cmd, &flags)
			if err != nil {
				return err
			}
			runner, err := loadScript(flags.script)
			if err != nil {
				return err
			}
			if runner == nil {
				if runner, err = reflow.LoadScript([]byte(defaultScript)); err != nil {
					return err
				}
			}

			surface := reflow.NewHeadlessSurface(runner)
			boxes := surface.AddBoxes(cfg.Container, flags.tiles, reflow.Size{Width: size, Height: size})
			grid := reflow.NewGrid(cfg, surface)
			if err := grid.Start(); err != nil {
				return err
			}

			frames := 0
			for !runner.Done() && frames < maxFrames {
				surface.Advance(1)
				frames++
			}
			if !runner.Done() {
				return fmt.Errorf("script did not finish within %d frames", maxFrames)
			}
			// Let the last drop and any reflow settle.
			settle := int(math.Ceil(cfg.DurationMs/(1000.0/60))) + 1
			surface.Advance(settle)
			c.Logger.Debug("simulation done", "frames", frames+settle, "now", surface.Now())

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ordering: %v\n", grid.Ordering())
			for i, t := range grid.Tiles() {
				b := boxes[i]
				fmt.Fprintf(out, "%s slot %d at (%g, %g)\n", b.Name, grid.Order().SlotOf(t), b.X, b.Y)
			}
			if draw {
				fmt.Fprintln(out, renderGrid(out, grid))
			}
			return nil
		},
	}

	flags.register(cmd, 6)
	cmd.Flags().Float64Var(&size, "size", 100, "tile edge in pixels")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 10000, "give up after this many frames")
	cmd.Flags().BoolVar(&draw, "draw", false, "draw the final grid")
	return cmd
}
