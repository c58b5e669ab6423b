package shark

import "gonum.org/v1/gonum/spatial/r2"

// Sprite frame indices.
const (
	FrameLeft = iota
	FrameMiddle
	FrameRight
	numFrames
)

// swimCycle sweeps the tail left, middle, right, middle.
var swimCycle = [...]int{FrameLeft, FrameMiddle, FrameRight, FrameMiddle}

// advanceAnimation moves the tail faster the faster the shark swims. It runs
// once per Update.
func (s *Shark) advanceAnimation() {
	speed := r2.Norm(s.vel)
	s.animTimer += s.cfg.BaseAnimationSpeed * (1 + speed/3)

	if s.animTimer >= 1.0 {
		s.animTimer = 0
		s.seqIndex = (s.seqIndex + 1) % len(swimCycle)
	}
}

// Frame returns the sprite index for the current point in the swim cycle.
func (s *Shark) Frame() int {
	return swimCycle[s.seqIndex]
}
