package shark

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Draw renders the shark onto dst without changing it. Without sprites it
// draws the placeholder rectangle instead.
func (s *Shark) Draw(dst *ebiten.Image) {
	if s.sprites == nil {
		vector.DrawFilledRect(dst,
			float32(s.pos.X), float32(s.pos.Y),
			float32(s.size.X), float32(s.size.Y),
			PlaceholderColor, false)
		return
	}

	img := s.sprites.Frame(s.Frame())
	op := &ebiten.DrawImageOptions{}
	op.GeoM = s.spriteTransform(img.Bounds().Size())
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// spriteTransform rotates a sprite of size sz about its own center by the
// heading and moves that center onto the shark's logical center, so turning
// never shifts where the shark appears to be.
func (s *Shark) spriteTransform(sz image.Point) ebiten.GeoM {
	c := s.Center()

	var g ebiten.GeoM
	g.Translate(-float64(sz.X)/2, -float64(sz.Y)/2)
	// Positive angles turn clockwise on screen (y grows downward)
	g.Rotate(s.angle * math.Pi / 180)
	g.Translate(c.X, c.Y)
	return g
}
