package app

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

var palmColor = color.RGBA{R: 0xff, G: 0x40, B: 0x40, A: 0xc0}

// Draw implements ebiten.Game: camera picture first, shark on top.
func (a *App) Draw(screen *ebiten.Image) {
	if len(a.pixels) == a.width*a.height*4 {
		if a.bg == nil {
			a.bg = ebiten.NewImage(a.width, a.height)
		}
		a.bg.WritePixels(a.pixels)
		screen.DrawImage(a.bg, nil)
	}

	a.shark.Draw(screen)

	if a.debug {
		a.drawOverlay(screen)
	}
}

func (a *App) drawOverlay(screen *ebiten.Image) {
	if a.palm != nil {
		vector.DrawFilledCircle(screen, float32(a.palm.X), float32(a.palm.Y), 12, palmColor, true)
	}

	palm := "none"
	if a.palm != nil {
		palm = fmt.Sprintf("%d,%d", a.palm.X, a.palm.Y)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS %.1f  tick %d\nspeed %.2f  angle %.0f\npalm %s  mode %s",
		ebiten.ActualTPS(), a.tick,
		a.shark.Speed(), a.shark.Angle(),
		palm, a.shark.SteeringName(),
	))
}
