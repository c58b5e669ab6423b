package shark

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/sharkescape/internal/config"
)

// Kinematics is the part of the shark state a steering strategy may read.
type Kinematics struct {
	Center r2.Vec
	Vel    r2.Vec
}

// Steering decides the shark's velocity for one tick while a hand is
// visible. It returns the new (unclamped) velocity.
type Steering interface {
	Steer(k Kinematics, target, bounds r2.Vec) r2.Vec
	Name() string
}

// NewSteering returns the strategy named by cfg.Steering. Unknown names fall
// back to Follow.
func NewSteering(cfg config.SharkConfig, rng *rand.Rand) Steering {
	switch cfg.Steering {
	case config.SteeringFlee:
		return NewFlee(cfg, rng)
	default:
		return &Follow{Accel: cfg.Accel, DeadZone: cfg.DeadZone}
	}
}

// Follow accelerates toward the hand. The pull grows with distance up to 3x
// Accel at 400 px, so the shark drifts in slowly from close by and rushes in
// from far away. Inside DeadZone it does nothing.
type Follow struct {
	Accel    float64
	DeadZone float64
}

// Name implements Steering.
func (f *Follow) Name() string { return config.SteeringFollow }

// Steer implements Steering.
func (f *Follow) Steer(k Kinematics, target, _ r2.Vec) r2.Vec {
	d := r2.Sub(target, k.Center)
	dist := r2.Norm(d)
	if dist <= f.DeadZone || dist == 0 {
		return k.Vel
	}

	strength := f.Accel * (1 + math.Min(dist/200, 2))
	return r2.Add(k.Vel, r2.Scale(strength/dist, d))
}

// walls records which screen edges are within the wall margin.
type walls struct {
	left, right, top, bottom bool
}

func (w walls) count() int {
	n := 0
	for _, near := range []bool{w.left, w.right, w.top, w.bottom} {
		if near {
			n++
		}
	}
	return n
}

func nearWalls(c, bounds r2.Vec, margin float64) walls {
	return walls{
		left:   c.X < margin,
		right:  c.X > bounds.X-margin,
		top:    c.Y < margin,
		bottom: c.Y > bounds.Y-margin,
	}
}

// Flee runs away from the hand. When cornered it bolts for the safe zone
// farthest from the hand; otherwise it accelerates away, bending its path
// off nearby walls. Out of reach it drifts back toward the screen center.
type Flee struct {
	cfg config.SharkConfig
	rng *rand.Rand
}

// NewFlee returns a Flee strategy.
func NewFlee(cfg config.SharkConfig, rng *rand.Rand) *Flee {
	return &Flee{cfg: cfg, rng: rng}
}

// Name implements Steering.
func (f *Flee) Name() string { return config.SteeringFlee }

// Steer implements Steering.
func (f *Flee) Steer(k Kinematics, target, bounds r2.Vec) r2.Vec {
	away := r2.Sub(k.Center, target)
	dist := r2.Norm(away)
	w := nearWalls(k.Center, bounds, f.cfg.WallMargin)

	if dist >= f.cfg.EscapeRadius {
		vel := r2.Add(k.Vel, f.towardCenter(k.Center, bounds))
		return r2.Add(vel, f.wallPush(k.Center, bounds))
	}

	cornered := w.count() >= 2 || (w.count() == 1 && dist < f.cfg.CornerMargin)
	if cornered {
		if vel, ok := f.panicEscape(k.Center, target, bounds, w); ok {
			return vel
		}
		return k.Vel
	}

	return r2.Add(k.Vel, f.normalEscape(away, dist, w))
}

// safeZones lists the escape targets for the given walls. The center is
// always a candidate.
func safeZones(bounds r2.Vec, w walls) []r2.Vec {
	var zones []r2.Vec
	if w.left || w.top {
		zones = append(zones, r2.Vec{X: bounds.X * 0.7, Y: bounds.Y * 0.7})
	}
	if w.right || w.top {
		zones = append(zones, r2.Vec{X: bounds.X * 0.3, Y: bounds.Y * 0.7})
	}
	if w.left || w.bottom {
		zones = append(zones, r2.Vec{X: bounds.X * 0.7, Y: bounds.Y * 0.3})
	}
	if w.right || w.bottom {
		zones = append(zones, r2.Vec{X: bounds.X * 0.3, Y: bounds.Y * 0.3})
	}
	return append(zones, r2.Vec{X: bounds.X * 0.5, Y: bounds.Y * 0.5})
}

// farthestZone picks the zone with the largest distance to hand. Ties keep
// the earlier zone.
func farthestZone(zones []r2.Vec, hand r2.Vec) r2.Vec {
	best := zones[0]
	bestDist := r2.Norm(r2.Sub(best, hand))
	for _, z := range zones[1:] {
		if d := r2.Norm(r2.Sub(z, hand)); d > bestDist {
			best, bestDist = z, d
		}
	}
	return best
}

// panicEscape sets the velocity straight at a jittered safe zone. It reports
// false when the shark is already on the chosen point.
func (f *Flee) panicEscape(center, hand, bounds r2.Vec, w walls) (r2.Vec, bool) {
	zone := farthestZone(safeZones(bounds, w), hand)
	goal := r2.Vec{
		X: zone.X + (f.rng.Float64()*200 - 100),
		Y: zone.Y + (f.rng.Float64()*200 - 100),
	}

	d := r2.Sub(goal, center)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(f.cfg.PanicEscapeSpeed/dist, d), true
}

// normalEscape returns the acceleration away from the hand. Near a wall the
// direction is forced to have at least a 0.5 component pointing inward.
func (f *Flee) normalEscape(away r2.Vec, dist float64, w walls) r2.Vec {
	if dist == 0 {
		dist = 1
	}
	dir := r2.Scale(1/dist, away)

	if w.left {
		dir.X = math.Max(dir.X, 0.5)
	}
	if w.right {
		dir.X = math.Min(dir.X, -0.5)
	}
	if w.top {
		dir.Y = math.Max(dir.Y, 0.5)
	}
	if w.bottom {
		dir.Y = math.Min(dir.Y, -0.5)
	}

	if n := r2.Norm(dir); n > 0 {
		dir = r2.Scale(1/n, dir)
	}

	strength := f.cfg.Accel * (1.5 + (f.cfg.EscapeRadius-dist)/f.cfg.EscapeRadius)
	return r2.Scale(strength, dir)
}

// towardCenter is a gentle 0.3 px/tick² pull to the middle of the screen.
func (f *Flee) towardCenter(center, bounds r2.Vec) r2.Vec {
	d := r2.Sub(r2.Scale(0.5, bounds), center)
	dist := r2.Norm(d)
	if dist == 0 {
		return r2.Vec{}
	}
	return r2.Scale(0.3/dist, d)
}

// wallPush grows linearly from zero at the wall margin to WallForce at the
// wall itself.
func (f *Flee) wallPush(center, bounds r2.Vec) r2.Vec {
	m := f.cfg.WallMargin
	if m <= 0 {
		return r2.Vec{}
	}

	var push r2.Vec
	if center.X < m {
		push.X += f.cfg.WallForce * (m - center.X) / m
	}
	if right := bounds.X - center.X; right < m {
		push.X -= f.cfg.WallForce * (m - right) / m
	}
	if center.Y < m {
		push.Y += f.cfg.WallForce * (m - center.Y) / m
	}
	if bottom := bounds.Y - center.Y; bottom < m {
		push.Y -= f.cfg.WallForce * (m - bottom) / m
	}
	return push
}
