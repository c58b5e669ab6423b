// Package shark implements the shark entity: steering, bounds handling,
// rotation smoothing and the tail animation.
package shark

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ayusman/sharkescape/internal/config"
)

// Steering and bounce constants.
const (
	// BounceFactor scales the velocity component reflected off a wall.
	BounceFactor = 0.5
	// MinTurnSpeed is the speed below which the heading is left alone.
	MinTurnSpeed = 0.5
)

// PlaceholderSize is used when no sprites are available.
var PlaceholderSize = image.Pt(50, 50)

// PlaceholderColor fills the placeholder rectangle.
var PlaceholderColor = color.RGBA{0, 0, 255, 255}

// Shark is the player-facing entity. It is not safe for concurrent use; the
// frame loop owns it.
type Shark struct {
	cfg config.SharkConfig

	pos r2.Vec // top-left anchor
	vel r2.Vec

	angle       float64 // degrees, 0 = facing up, clockwise
	targetAngle float64

	size    image.Point
	sprites *Sprites

	seqIndex  int
	animTimer float64

	steering Steering
	rng      *rand.Rand
}

// Option configures a Shark.
type Option func(*Shark)

// WithSprites sets the animation frames. A nil value keeps the placeholder.
func WithSprites(sp *Sprites) Option {
	return func(s *Shark) {
		s.sprites = sp
	}
}

// WithRand sets the random source used for wandering and panic jitter.
func WithRand(rng *rand.Rand) Option {
	return func(s *Shark) {
		s.rng = rng
	}
}

// WithSteering overrides the strategy picked from the config.
func WithSteering(st Steering) Option {
	return func(s *Shark) {
		s.steering = st
	}
}

// New creates a shark with its top-left corner at (x, y).
func New(x, y float64, cfg config.SharkConfig, opts ...Option) *Shark {
	s := &Shark{
		cfg:  cfg,
		pos:  r2.Vec{X: x, Y: y},
		size: PlaceholderSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	if s.sprites != nil {
		s.size = s.sprites.Size()
	}
	if s.steering == nil {
		s.steering = NewSteering(cfg, s.rng)
	}

	return s
}

// Position returns the top-left corner.
func (s *Shark) Position() r2.Vec { return s.pos }

// Velocity returns the current velocity in pixels per tick.
func (s *Shark) Velocity() r2.Vec { return s.vel }

// Speed returns the velocity magnitude.
func (s *Shark) Speed() float64 { return r2.Norm(s.vel) }

// Angle returns the heading in degrees, in [0, 360).
func (s *Shark) Angle() float64 { return s.angle }

// Size returns the bounding box size.
func (s *Shark) Size() image.Point { return s.size }

// Center returns the logical center of the bounding box.
func (s *Shark) Center() r2.Vec {
	return r2.Vec{
		X: s.pos.X + float64(s.size.X)/2,
		Y: s.pos.Y + float64(s.size.Y)/2,
	}
}

// SteeringName reports the active strategy.
func (s *Shark) SteeringName() string { return s.steering.Name() }

// Update advances the shark and its tail animation by one tick. target is
// the palm position in screen coordinates, or nil when no hand is visible.
func (s *Shark) Update(target *image.Point, width, height int) {
	bounds := r2.Vec{X: float64(width), Y: float64(height)}

	if target != nil {
		k := Kinematics{Center: s.Center(), Vel: s.vel}
		s.vel = s.steering.Steer(k, r2.Vec{X: float64(target.X), Y: float64(target.Y)}, bounds)
	} else {
		s.vel = r2.Add(s.vel, s.wander())
	}

	s.limitSpeed()
	s.pos = r2.Add(s.pos, s.vel)
	s.checkBounds(bounds)
	s.vel = r2.Scale(s.cfg.Damping, s.vel)
	s.updateRotation()
	s.advanceAnimation()
}

// wander returns a small random nudge, each component in
// [-WanderForce/2, WanderForce/2).
func (s *Shark) wander() r2.Vec {
	return r2.Vec{
		X: (s.rng.Float64() - 0.5) * s.cfg.WanderForce,
		Y: (s.rng.Float64() - 0.5) * s.cfg.WanderForce,
	}
}

func (s *Shark) limitSpeed() {
	speed := r2.Norm(s.vel)
	if speed > s.cfg.MaxSpeed {
		s.vel = r2.Scale(s.cfg.MaxSpeed/speed, s.vel)
	}
}

// checkBounds keeps the box on screen and bounces off the walls. When the
// screen is smaller than the box the top-left corner wins.
func (s *Shark) checkBounds(bounds r2.Vec) {
	maxX := bounds.X - float64(s.size.X)
	maxY := bounds.Y - float64(s.size.Y)

	if s.pos.X > maxX {
		s.pos.X = maxX
		s.vel.X = -math.Abs(s.vel.X) * BounceFactor
	}
	if s.pos.X < 0 {
		s.pos.X = 0
		s.vel.X = math.Abs(s.vel.X) * BounceFactor
	}

	if s.pos.Y > maxY {
		s.pos.Y = maxY
		s.vel.Y = -math.Abs(s.vel.Y) * BounceFactor
	}
	if s.pos.Y < 0 {
		s.pos.Y = 0
		s.vel.Y = math.Abs(s.vel.Y) * BounceFactor
	}
}

// updateRotation turns the shark toward its direction of travel, at most
// RotationSpeed degrees per tick.
func (s *Shark) updateRotation() {
	if r2.Norm(s.vel) > MinTurnSpeed {
		// The sprite points up (negative Y), so up is 0 degrees
		s.targetAngle = heading(s.vel)
	}
	s.angle = turnToward(s.angle, s.targetAngle, s.cfg.RotationSpeed)
}
