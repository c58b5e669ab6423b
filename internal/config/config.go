// Package config loads the game configuration.
//
// Defaults are embedded in the binary (defaults.yaml). A user file passed with
// -config is unmarshaled on top of them, so it only needs the keys it changes.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Steering modes understood by the shark.
const (
	SteeringFollow = "follow"
	SteeringFlee   = "flee"
)

// Config holds all game configuration.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Detection DetectionConfig `yaml:"detection"`
	Shark     SharkConfig     `yaml:"shark"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`  // used when not fullscreen
	Height     int    `yaml:"height"` // used when not fullscreen
	Fullscreen bool   `yaml:"fullscreen"`
	TPS        int    `yaml:"tps"`
}

// CameraConfig holds capture settings. Width and height are requests; the
// device may pick something else.
type CameraConfig struct {
	Device int `yaml:"device"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// DetectionConfig holds hand detection settings.
type DetectionConfig struct {
	MaxHands               int           `yaml:"max_hands"`
	MinDetectionConfidence float64       `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64       `yaml:"min_tracking_confidence"`
	PalmLandmark           int           `yaml:"palm_landmark"`
	MotionGate             bool          `yaml:"motion_gate"`      // skip detection while the scene is still
	MotionThreshold        float64       `yaml:"motion_threshold"` // percent of changed pixels
	IdleTimeout            time.Duration `yaml:"idle_timeout"`
}

// SharkConfig holds the steering and animation tuning.
type SharkConfig struct {
	Size               int     `yaml:"size"` // sprite width in pixels
	MaxSpeed           float64 `yaml:"max_speed"`
	Accel              float64 `yaml:"accel"`
	Damping            float64 `yaml:"damping"`
	DeadZone           float64 `yaml:"dead_zone"`
	EscapeRadius       float64 `yaml:"escape_radius"`
	WallMargin         float64 `yaml:"wall_margin"`
	CornerMargin       float64 `yaml:"corner_margin"`
	WallForce          float64 `yaml:"wall_force"`
	WanderForce        float64 `yaml:"wander_force"`
	PanicEscapeSpeed   float64 `yaml:"panic_escape_speed"`
	RotationSpeed      float64 `yaml:"rotation_speed"`       // degrees per tick
	BaseAnimationSpeed float64 `yaml:"base_animation_speed"` // frames per tick at rest
	Steering           string  `yaml:"steering"`
	AssetsDir          string  `yaml:"assets_dir"`
}

// TelemetryConfig holds statistics settings.
type TelemetryConfig struct {
	WindowTicks int `yaml:"window_ticks"`
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads the embedded defaults and overlays the file at path, if any.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges the game relies on.
func (c *Config) Validate() error {
	if c.Window.TPS <= 0 {
		return fmt.Errorf("%w: window.tps must be > 0", ErrInvalid)
	}
	if !c.Window.Fullscreen && (c.Window.Width <= 0 || c.Window.Height <= 0) {
		return fmt.Errorf("%w: window.width and window.height must be > 0", ErrInvalid)
	}
	if c.Camera.Device < 0 {
		return fmt.Errorf("%w: camera.device must be >= 0", ErrInvalid)
	}
	if c.Detection.MaxHands <= 0 {
		return fmt.Errorf("%w: detection.max_hands must be > 0", ErrInvalid)
	}
	if c.Detection.PalmLandmark < 0 || c.Detection.PalmLandmark > 20 {
		return fmt.Errorf("%w: detection.palm_landmark must be in [0, 20]", ErrInvalid)
	}
	if err := checkUnit("detection.min_detection_confidence", c.Detection.MinDetectionConfidence); err != nil {
		return err
	}
	if err := checkUnit("detection.min_tracking_confidence", c.Detection.MinTrackingConfidence); err != nil {
		return err
	}
	if c.Shark.Size <= 0 {
		return fmt.Errorf("%w: shark.size must be > 0", ErrInvalid)
	}
	if c.Shark.MaxSpeed <= 0 {
		return fmt.Errorf("%w: shark.max_speed must be > 0", ErrInvalid)
	}
	if c.Shark.Damping <= 0 || c.Shark.Damping >= 1 {
		return fmt.Errorf("%w: shark.damping must be in (0, 1)", ErrInvalid)
	}
	if c.Shark.RotationSpeed <= 0 {
		return fmt.Errorf("%w: shark.rotation_speed must be > 0", ErrInvalid)
	}
	if c.Shark.EscapeRadius <= 0 {
		return fmt.Errorf("%w: shark.escape_radius must be > 0", ErrInvalid)
	}
	switch c.Shark.Steering {
	case SteeringFollow, SteeringFlee:
	default:
		return fmt.Errorf("%w: shark.steering %q (want %q or %q)", ErrInvalid, c.Shark.Steering, SteeringFollow, SteeringFlee)
	}
	if c.Telemetry.WindowTicks <= 0 {
		c.Telemetry.WindowTicks = 600
	}
	return nil
}

func checkUnit(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%w: %s must be in [0, 1]", ErrInvalid, name)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
