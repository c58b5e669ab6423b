// Package telemetry records how a play session goes: live snapshots for the
// dashboard and per-window statistics for later review.
package telemetry

import (
	"sync/atomic"
	"time"
)

// Point is a screen position in pixels.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Snapshot is an immutable copy of the shark state after one tick.
type Snapshot struct {
	Tick     int64     `json:"tick"`
	Time     time.Time `json:"time"`
	X        float64   `json:"x"` // logical center
	Y        float64   `json:"y"`
	Angle    float64   `json:"angle"`
	Speed    float64   `json:"speed"`
	Frame    int       `json:"frame"`
	Palm     *Point    `json:"palm,omitempty"`
	Steering string    `json:"steering"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
}

// Live holds the most recent snapshot. The game loop stores, readers load;
// a stored snapshot is never modified.
type Live struct {
	p atomic.Pointer[Snapshot]
}

// Store publishes s.
func (l *Live) Store(s *Snapshot) {
	l.p.Store(s)
}

// Load returns the latest snapshot, or nil before the first tick.
func (l *Live) Load() *Snapshot {
	return l.p.Load()
}
