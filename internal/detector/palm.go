package detector

import (
	"image"

	"github.com/ayusman/sharkescape/internal/capture"
)

// PalmPosition maps the chosen landmark of the first hand to screen pixels.
// The landmarks are normalized to the scaled camera frame, so the point is
// scaled up and then shifted by the crop offset. It reports false when no
// hand was found.
func PalmPosition(hands []HandLandmarks, fit capture.Fit, landmark int) (image.Point, bool) {
	if len(hands) == 0 || !ValidLandmark(landmark) {
		return image.Point{}, false
	}

	p := hands[0].Points[landmark]
	return image.Point{
		X: int(p.X*float64(fit.Scaled.X) - float64(fit.Offset.X)),
		Y: int(p.Y*float64(fit.Scaled.Y) - float64(fit.Offset.Y)),
	}, true
}
