package app

import (
	"image"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/sharkescape/internal/capture"
	"github.com/ayusman/sharkescape/internal/detector"
	"github.com/ayusman/sharkescape/internal/store"
	"github.com/ayusman/sharkescape/internal/telemetry"
)

// Step runs one game tick. Camera and detector failures never end the game:
// a missing frame skips the tick and a failed detection counts as no hand.
func (a *App) Step(now time.Time) error {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		if a.frameLog.allow(now) {
			log.Printf("camera read failed: %v", err)
		}
		a.record(telemetry.Sample{Skipped: true, Duration: time.Since(now)})
		return nil
	}
	defer frame.Close()

	screen, fit, err := capture.ToScreen(*frame, a.width, a.height)
	if err != nil {
		if a.frameLog.allow(now) {
			log.Printf("frame resize failed: %v", err)
		}
		a.record(telemetry.Sample{Skipped: true, Duration: time.Since(now)})
		return nil
	}
	a.setBackground(screen)
	screen.Close()

	target := a.findPalm(frame, fit, now)
	a.shark.Update(target, a.width, a.height)

	a.tick++
	a.publish(now)
	a.record(telemetry.Sample{
		Speed:    a.shark.Speed(),
		Hand:     target != nil,
		Duration: time.Since(now),
	})
	return nil
}

// findPalm returns the palm in screen coordinates, or nil when there is none
// or detection is unavailable this tick.
func (a *App) findPalm(frame *gocv.Mat, fit capture.Fit, now time.Time) *image.Point {
	a.palm = nil
	if a.detector == nil {
		return nil
	}
	if a.gate != nil {
		moved, _ := a.motion.Detect(frame)
		if !a.gate.observe(moved, now) {
			return nil
		}
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		if a.detectLog.allow(now) {
			log.Printf("hand detection failed: %v", err)
		}
		return nil
	}

	p, ok := detector.PalmPosition(hands, fit, a.cfg.Detection.PalmLandmark)
	if !ok {
		return nil
	}
	a.palm = &telemetry.Point{X: p.X, Y: p.Y}
	return &p
}

// setBackground keeps the RGBA bytes of the resized frame for the next Draw.
func (a *App) setBackground(screen gocv.Mat) {
	gocv.CvtColor(screen, &a.rgba, gocv.ColorBGRToRGBA)
	a.pixels = a.rgba.ToBytes()
}

func (a *App) publish(now time.Time) {
	c := a.shark.Center()
	a.live.Store(&telemetry.Snapshot{
		Tick:     a.tick,
		Time:     now,
		X:        c.X,
		Y:        c.Y,
		Angle:    a.shark.Angle(),
		Speed:    a.shark.Speed(),
		Frame:    a.shark.Frame(),
		Palm:     a.palm,
		Steering: a.shark.SteeringName(),
		Width:    a.width,
		Height:   a.height,
	})
}

func (a *App) record(s telemetry.Sample) {
	if stats, ok := a.collector.Add(s); ok {
		a.recordWindow(stats)
	}
}

// recordWindow writes a finished window to the CSV file and the session.
func (a *App) recordWindow(stats telemetry.WindowStats) {
	if err := a.csv.Write(stats); err != nil {
		log.Printf("telemetry write failed: %v", err)
	}
	if a.store == nil || a.sessionID == "" {
		return
	}
	w := store.Window{
		SessionID:     a.sessionID,
		Index:         stats.Window,
		MeanSpeed:     stats.MeanSpeed,
		StdDevSpeed:   stats.StdDevSpeed,
		HandRatio:     stats.HandRatio,
		SkippedFrames: stats.SkippedFrames,
		MeanTickMs:    stats.MeanTickMs,
	}
	if err := a.store.Windows().Add(w); err != nil {
		log.Printf("window %d not stored: %v", stats.Window, err)
	}
}

// throttle lets one message through per interval.
type throttle struct {
	every time.Duration
	last  time.Time
}

func (t *throttle) allow(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.every {
		return false
	}
	t.last = now
	return true
}
