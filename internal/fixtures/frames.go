// Package fixtures builds camera frames for tests without a webcam.
package fixtures

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Background is the BGR colour of generated frames.
var Background = gocv.NewScalar(90, 60, 30, 0)

// SolidFrame returns a width x height BGR frame of one colour.
// The caller must Close it.
func SolidFrame(width, height int) *gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(Background, height, width, gocv.MatTypeCV8UC3)
	return &m
}

// BlobFrame returns a solid frame with a filled white square of the given
// side centered at (x, y), standing in for a moving hand.
func BlobFrame(width, height, x, y, side int) *gocv.Mat {
	m := SolidFrame(width, height)
	r := image.Rect(x-side/2, y-side/2, x+side/2, y+side/2)
	gocv.Rectangle(m, r, color.RGBA{255, 255, 255, 0}, -1)
	return m
}

// Sequence returns n frames with the blob sliding step pixels to the right
// each frame, starting at the left third of the picture.
func Sequence(width, height, n, step int) []*gocv.Mat {
	frames := make([]*gocv.Mat, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, BlobFrame(width, height, width/3+i*step, height/2, height/4))
	}
	return frames
}

// CloseAll closes every frame.
func CloseAll(frames []*gocv.Mat) {
	for _, f := range frames {
		f.Close()
	}
}
