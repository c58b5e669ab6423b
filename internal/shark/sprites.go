package shark

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/draw"
)

// SpriteFiles are the frame files looked up in the assets directory, indexed
// by FrameLeft, FrameMiddle and FrameRight.
var SpriteFiles = [numFrames]string{
	"shark-left.png",
	"shark-middle.png",
	"shark-right.png",
}

// Sprites holds the unrotated animation frames.
type Sprites struct {
	frames [numFrames]*ebiten.Image
	size   image.Point
}

// LoadSprites reads the frames from dir and scales each to the given width,
// keeping its aspect ratio. Any missing or broken file fails the whole load.
func LoadSprites(dir string, width int) (*Sprites, error) {
	imgs, err := loadFrames(dir, width)
	if err != nil {
		return nil, err
	}

	sp := &Sprites{}
	for i, img := range imgs {
		sp.frames[i] = ebiten.NewImageFromImage(img)
		sp.size = img.Bounds().Size()
	}
	return sp, nil
}

// Size returns the size of the last loaded frame.
func (sp *Sprites) Size() image.Point {
	return sp.size
}

// Frame returns the image for a frame index.
func (sp *Sprites) Frame(i int) *ebiten.Image {
	return sp.frames[i]
}

func loadFrames(dir string, width int) ([numFrames]image.Image, error) {
	var out [numFrames]image.Image
	for i, name := range SpriteFiles {
		path := filepath.Join(dir, name)
		img, err := decodeFile(path)
		if err != nil {
			return out, err
		}
		out[i] = scaleToWidth(img, width)
	}
	return out, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sprite: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sprite %s: %w", path, err)
	}
	return img, nil
}

// scaleToWidth resamples src to the given width. The height is truncated
// like the width factor would suggest.
func scaleToWidth(src image.Image, width int) *image.RGBA {
	b := src.Bounds()
	factor := float64(width) / float64(b.Dx())
	height := int(float64(b.Dy()) * factor)
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
