package detector

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/sharkescape/internal/capture"
	"github.com/ayusman/sharkescape/internal/config"
)

const epsilon = 1e-9

func handAt(x, y float64) HandLandmarks {
	var h HandLandmarks
	h.Points[PalmCenter] = Point3D{X: x, Y: y}
	return h
}

func TestPalmPosition(t *testing.T) {
	// 640x480 camera on a 1280x720 screen: scaled 1280x960, crop offset (0, 120)
	fit := capture.Cover(640, 480, 1280, 720)

	tests := []struct {
		name     string
		hands    []HandLandmarks
		landmark int
		want     image.Point
		wantOK   bool
	}{
		{"no hands", nil, PalmCenter, image.Point{}, false},
		{"center", []HandLandmarks{handAt(0.5, 0.5)}, PalmCenter, image.Pt(640, 360), true},
		{"quarter", []HandLandmarks{handAt(0.25, 0.75)}, PalmCenter, image.Pt(320, 600), true},
		{"inside the cropped band", []HandLandmarks{handAt(0.5, 0.0625)}, PalmCenter, image.Pt(640, -60), true},
		{"first hand wins", []HandLandmarks{handAt(0.125, 0.5), handAt(0.875, 0.5)}, PalmCenter, image.Pt(160, 360), true},
		{"landmark out of range", []HandLandmarks{handAt(0.5, 0.5)}, NumLandmarks, image.Point{}, false},
		{"negative landmark", []HandLandmarks{handAt(0.5, 0.5)}, -1, image.Point{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PalmPosition(tt.hands, fit, tt.landmark)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("PalmPosition() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPalmPosition_Truncates(t *testing.T) {
	fit := capture.Fit{Scaled: image.Pt(100, 100)}

	got, _ := PalmPosition([]HandLandmarks{handAt(0.019, 0.999)}, fit, PalmCenter)

	if got != image.Pt(1, 99) {
		t.Errorf("PalmPosition() = %v, want (1, 99)", got)
	}
}

func TestPalmAt(t *testing.T) {
	h := PalmAt(0.2, 0.3)

	c := h.Points[PalmCenter]
	if math.Abs(c.X-0.2) > epsilon || math.Abs(c.Y-0.3) > epsilon {
		t.Errorf("palm center = (%v, %v), want (0.2, 0.3)", c.X, c.Y)
	}
	// The shape moves with the palm
	open := OpenPalmLandmarks()
	dx := h.Points[Wrist].X - open.Points[Wrist].X
	if math.Abs(dx-(0.2-0.5)) > epsilon {
		t.Errorf("wrist shifted by %v, want %v", dx, 0.2-0.5)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Default().Detection)

	if cfg != DefaultConfig() {
		t.Errorf("ConfigFrom(defaults) = %+v, want %+v", cfg, DefaultConfig())
	}
}

func TestMockDetector(t *testing.T) {
	m := NewMockDetector()

	hands, err := m.Detect(nil)
	if err != nil || len(hands) != 0 {
		t.Fatalf("empty mock Detect() = (%v, %v), want no hands", hands, err)
	}

	m.SetHands([]HandLandmarks{OpenPalmLandmarks()})
	hands, _ = m.Detect(nil)
	if len(hands) != 1 {
		t.Errorf("len(hands) = %d, want 1", len(hands))
	}

	boom := errors.New("boom")
	m.SetError(boom)
	if _, err := m.Detect(nil); !errors.Is(err, boom) {
		t.Errorf("Detect() error = %v, want %v", err, boom)
	}

	if m.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", m.Calls())
	}

	m.Close()
	if !m.Closed() {
		t.Error("Closed() = false after Close()")
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	payload := []byte{0xff, 0xd8, 0x01, 0x02, 0xff, 0xd9}

	if err := writeFrame(&buf, payload); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}

	out := buf.Bytes()
	if n := binary.BigEndian.Uint32(out[:4]); n != uint32(len(payload)) {
		t.Errorf("length prefix = %d, want %d", n, len(payload))
	}
	if !bytes.Equal(out[4:], payload) {
		t.Errorf("payload = %x, want %x", out[4:], payload)
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantHands int
		wantErr   bool
	}{
		{"no hands", `{"hands":[]}`, 0, false},
		{"one hand", `{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0}],"handedness":"Left","score":0.9}]}`, 1, false},
		{"service error", `{"error":"decode failed"}`, 0, true},
		{"garbage", `not json`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hands, err := parseResponse([]byte(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(hands) != tt.wantHands {
				t.Errorf("len(hands) = %d, want %d", len(hands), tt.wantHands)
			}
		})
	}
}

func TestParseResponse_CopiesPoints(t *testing.T) {
	hands, err := parseResponse([]byte(`{"hands":[{"points":[{"x":0.1,"y":0.2,"z":0.3},{"x":0.4,"y":0.5,"z":0.6}],"handedness":"Right","score":0.8}]}`))
	if err != nil {
		t.Fatalf("parseResponse() error = %v", err)
	}

	h := hands[0]
	if h.Points[1] != (Point3D{X: 0.4, Y: 0.5, Z: 0.6}) {
		t.Errorf("Points[1] = %+v", h.Points[1])
	}
	if h.Points[2] != (Point3D{}) {
		t.Errorf("missing points should be zero, got %+v", h.Points[2])
	}
	if h.Handedness != "Right" || h.Score != 0.8 {
		t.Errorf("handedness/score = %q/%v", h.Handedness, h.Score)
	}
}

func TestMediaPipeDetector_Args(t *testing.T) {
	d, err := NewMediaPipeDetector(Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		Script:          "/opt/hand_service.py",
	})
	if err != nil {
		t.Fatalf("NewMediaPipeDetector() error = %v", err)
	}

	got := strings.Join(d.args(), " ")
	want := "/opt/hand_service.py --max-hands 1 --min-detection-confidence 0.7 --min-tracking-confidence 0.5"
	if got != want {
		t.Errorf("args = %q, want %q", got, want)
	}

	// Never started, so closing is a no-op
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()

	if got := firstExisting(filepath.Join(dir, "a"), filepath.Join(dir, "b")); got != "" {
		t.Errorf("firstExisting() = %q, want empty", got)
	}
	if got := firstExisting(filepath.Join(dir, "missing"), dir); got != dir {
		t.Errorf("firstExisting() = %q, want %q", got, dir)
	}
}

func TestMediaPipeDetector_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that needs the hand service")
	}

	d, err := NewMediaPipeDetector(DefaultConfig())
	if errors.Is(err, ErrScriptNotFound) {
		t.Skipf("skipping: %v", err)
	}
	if err != nil {
		t.Fatalf("NewMediaPipeDetector() error = %v", err)
	}
	defer d.Close()

	if _, err := d.Detect(nil); err == nil {
		t.Error("Detect(nil) should fail")
	}
}
