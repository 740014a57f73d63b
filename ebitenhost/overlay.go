package ebitenhost

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// overlayRefresh is how often, in seconds, the stats text is rebuilt.
const overlayRefresh = 0.5

var overlayBackground = color.RGBA{A: 128}

// overlay draws FPS and TPS in the top-right corner.
type overlay struct {
	text    string
	elapsed float64
}

func (o *overlay) update(dt float64) {
	o.elapsed += dt
	if o.text != "" && o.elapsed < overlayRefresh {
		return
	}
	o.elapsed = 0
	o.text = fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
}

func (o *overlay) draw(screen *ebiten.Image) {
	if o.text == "" {
		return
	}
	const w, h = 100, 32
	x := screen.Bounds().Dx() - w
	vector.DrawFilledRect(screen, float32(x), 0, w, h, overlayBackground, false)
	ebitenutil.DebugPrintAt(screen, o.text, x+4, 0)
}
