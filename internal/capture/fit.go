package capture

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// Fit describes how a camera frame is scaled and cropped to fill a target
// area without letterboxing.
type Fit struct {
	Scale  float64
	Scaled image.Point // frame size after scaling
	Offset image.Point // top-left of the crop inside the scaled frame
	Target image.Point
}

// Cover computes the fit that fills a tw x th target with a fw x fh frame,
// keeping the aspect ratio and cropping the overflow around the center.
func Cover(fw, fh, tw, th int) Fit {
	scale := max(float64(tw)/float64(fw), float64(th)/float64(fh))

	scaled := image.Pt(int(float64(fw)*scale), int(float64(fh)*scale))
	// Truncation can land a pixel short of the target
	scaled.X = max(scaled.X, tw)
	scaled.Y = max(scaled.Y, th)

	return Fit{
		Scale:  scale,
		Scaled: scaled,
		Offset: image.Pt((scaled.X-tw)/2, (scaled.Y-th)/2),
		Target: image.Pt(tw, th),
	}
}

// Crop returns the region of the scaled frame that ends up on screen.
func (f Fit) Crop() image.Rectangle {
	return image.Rectangle{Min: f.Offset, Max: f.Offset.Add(f.Target)}
}

// Interpolation picks area averaging when shrinking and Lanczos when
// enlarging.
func (f Fit) Interpolation() gocv.InterpolationFlags {
	if f.Scale < 1 {
		return gocv.InterpolationArea
	}
	return gocv.InterpolationLanczos4
}

// Apply resizes src and copies the centered target region into dst.
func (f Fit) Apply(src gocv.Mat, dst *gocv.Mat) error {
	if src.Empty() {
		return errors.New("fit: empty frame")
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(src, &resized, f.Scaled, 0, 0, f.Interpolation())

	region := resized.Region(f.Crop())
	defer region.Close()
	region.CopyTo(dst)

	return nil
}

// ToScreen resizes frame to fill a width x height screen. The caller owns
// the returned Mat.
func ToScreen(frame gocv.Mat, width, height int) (gocv.Mat, Fit, error) {
	fit := Cover(frame.Cols(), frame.Rows(), width, height)

	out := gocv.NewMat()
	if err := fit.Apply(frame, &out); err != nil {
		out.Close()
		return gocv.Mat{}, fit, err
	}
	return out, fit, nil
}
