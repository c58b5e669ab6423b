// Package detector finds hand landmarks in camera frames and turns them into
// a palm position on screen.
package detector

import (
	"gocv.io/x/gocv"

	"github.com/ayusman/sharkescape/internal/config"
)

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a BGR frame and returns detected hand landmarks in
	// normalized [0,1] image coordinates. Returns an empty slice if no
	// hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector. It is safe to call
	// more than once.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// Script overrides the helper script lookup when set.
	Script string
}

// DefaultConfig returns the settings used for a single child's hand.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
	}
}

// ConfigFrom builds a Config from the detection section of the game config.
func ConfigFrom(cfg config.DetectionConfig) Config {
	return Config{
		MaxHands:        cfg.MaxHands,
		MinConfidence:   cfg.MinDetectionConfidence,
		MinTrackingConf: cfg.MinTrackingConfidence,
	}
}
