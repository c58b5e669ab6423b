package telemetry

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultWindowTicks is ten seconds at 60 ticks per second.
const DefaultWindowTicks = 600

// Sample is what one tick contributes.
type Sample struct {
	Speed    float64
	Hand     bool // a palm was found this tick
	Skipped  bool // no camera frame, the shark did not move
	Duration time.Duration
}

// WindowStats summarizes a window of ticks.
type WindowStats struct {
	Window        int     `csv:"window"`
	Ticks         int     `csv:"ticks"`
	MeanSpeed     float64 `csv:"mean_speed"`
	StdDevSpeed   float64 `csv:"stddev_speed"`
	HandRatio     float64 `csv:"hand_ratio"`
	SkippedFrames int     `csv:"skipped_frames"`
	MeanTickMs    float64 `csv:"mean_tick_ms"`
}

// Totals are running counts over the whole session.
type Totals struct {
	Ticks         int64
	SkippedFrames int64
	HandTicks     int64
}

// Collector accumulates samples and emits WindowStats every window ticks.
// It is owned by the game loop and not safe for concurrent use.
type Collector struct {
	window int
	index  int

	speeds  []float64
	ticks   int
	hands   int
	skipped int
	elapsed time.Duration

	totals Totals
}

// NewCollector creates a collector. A window of zero or less uses
// DefaultWindowTicks.
func NewCollector(window int) *Collector {
	if window <= 0 {
		window = DefaultWindowTicks
	}
	return &Collector{
		window: window,
		speeds: make([]float64, 0, window),
	}
}

// Add records one tick. When the tick completes a window the stats are
// returned with ok set.
func (c *Collector) Add(s Sample) (stats WindowStats, ok bool) {
	c.ticks++
	c.elapsed += s.Duration
	c.totals.Ticks++

	switch {
	case s.Skipped:
		c.skipped++
		c.totals.SkippedFrames++
	default:
		c.speeds = append(c.speeds, s.Speed)
		if s.Hand {
			c.hands++
			c.totals.HandTicks++
		}
	}

	if c.ticks < c.window {
		return WindowStats{}, false
	}
	return c.Flush()
}

// Flush closes the current window early, for example at exit. It reports
// false when the window is empty.
func (c *Collector) Flush() (WindowStats, bool) {
	if c.ticks == 0 {
		return WindowStats{}, false
	}

	stats := WindowStats{
		Window:        c.index,
		Ticks:         c.ticks,
		SkippedFrames: c.skipped,
		MeanTickMs:    float64(c.elapsed.Microseconds()) / 1000 / float64(c.ticks),
	}

	switch n := len(c.speeds); {
	case n == 1:
		stats.MeanSpeed = c.speeds[0]
	case n > 1:
		stats.MeanSpeed, stats.StdDevSpeed = stat.MeanStdDev(c.speeds, nil)
	}
	if moved := c.ticks - c.skipped; moved > 0 {
		stats.HandRatio = float64(c.hands) / float64(moved)
	}

	c.index++
	c.speeds = c.speeds[:0]
	c.ticks, c.hands, c.skipped = 0, 0, 0
	c.elapsed = 0

	return stats, true
}

// Totals returns the counts since the collector was created.
func (c *Collector) Totals() Totals {
	return c.totals
}
