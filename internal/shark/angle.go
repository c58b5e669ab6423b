package shark

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// heading returns the screen-space heading of v in degrees, 0 = up, growing
// clockwise, in (-180, 180].
func heading(v r2.Vec) float64 {
	return math.Atan2(v.X, -v.Y) * 180 / math.Pi
}

// turnToward steps current toward target by at most maxStep degrees along
// the shorter arc. The result is in [0, 360).
func turnToward(current, target, maxStep float64) float64 {
	diff := signedDelta(current, target)
	if math.Abs(diff) < maxStep {
		return normalize360(target)
	}
	if diff > 0 {
		return normalize360(current + maxStep)
	}
	return normalize360(current - maxStep)
}

// signedDelta returns target-current wrapped into [-180, 180].
func signedDelta(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

func normalize360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
