package app

import (
	"log"
	"time"
)

// idleGate turns hand detection off after the scene has been still for
// timeout and back on at the next motion. It starts active.
type idleGate struct {
	timeout time.Duration
	last    time.Time // last motion
	active  bool
}

func newIdleGate(timeout time.Duration, now time.Time) *idleGate {
	return &idleGate{timeout: timeout, last: now, active: true}
}

// observe records whether motion was seen and reports if detection should run.
func (g *idleGate) observe(moved bool, now time.Time) bool {
	if moved {
		g.last = now
		if !g.active {
			g.active = true
			log.Printf("switched to active mode")
		}
		return true
	}

	if g.active && now.Sub(g.last) > g.timeout {
		g.active = false
		log.Printf("switched to idle mode after %v without motion", g.timeout)
	}
	return g.active
}
