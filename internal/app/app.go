// Package app runs the game: one tick reads a camera frame, finds the palm,
// moves the shark and publishes what happened.
package app

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"gocv.io/x/gocv"

	"github.com/ayusman/sharkescape/internal/capture"
	"github.com/ayusman/sharkescape/internal/config"
	"github.com/ayusman/sharkescape/internal/detector"
	"github.com/ayusman/sharkescape/internal/shark"
	"github.com/ayusman/sharkescape/internal/store"
	"github.com/ayusman/sharkescape/internal/telemetry"
)

// ErrorLogInterval limits how often repeated per-tick failures are logged.
const ErrorLogInterval = time.Second

// Options wires the game together. Camera is required; the rest may be nil.
type Options struct {
	Config   *config.Config
	Width    int // screen size in pixels
	Height   int
	Camera   capture.Camera
	Detector detector.Detector
	Sprites  *shark.Sprites
	Store    *store.Store
	CSV      *telemetry.CSVWriter
	Rand     *rand.Rand
	Debug    bool
}

// App is the ebiten.Game. Update and Draw run on the ebiten loop; the only
// state shared with other goroutines is the published snapshot and the quit
// flag.
type App struct {
	cfg    *config.Config
	width  int
	height int
	debug  bool

	camera   capture.Camera
	detector detector.Detector
	motion   *capture.MotionDetector
	gate     *idleGate
	shark    *shark.Shark

	store     *store.Store
	sessionID string
	collector *telemetry.Collector
	csv       *telemetry.CSVWriter
	live      telemetry.Live

	tick      int64
	palm      *telemetry.Point
	pixels    []byte // latest background, RGBA
	rgba      gocv.Mat
	bg        *ebiten.Image
	frameLog  throttle
	detectLog throttle

	quit      atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New builds the game and starts a session record when a store is given.
func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("app: config is required")
	}
	if opts.Camera == nil {
		return nil, errors.New("app: camera is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("app: invalid screen size %dx%d", opts.Width, opts.Height)
	}

	cfg := opts.Config
	a := &App{
		cfg:       cfg,
		width:     opts.Width,
		height:    opts.Height,
		debug:     opts.Debug,
		camera:    opts.Camera,
		detector:  opts.Detector,
		store:     opts.Store,
		collector: telemetry.NewCollector(cfg.Telemetry.WindowTicks),
		csv:       opts.CSV,
		rgba:      gocv.NewMat(),
		frameLog:  throttle{every: ErrorLogInterval},
		detectLog: throttle{every: ErrorLogInterval},
	}

	sharkOpts := []shark.Option{shark.WithSprites(opts.Sprites)}
	if opts.Rand != nil {
		sharkOpts = append(sharkOpts, shark.WithRand(opts.Rand))
	}
	a.shark = shark.New(float64(a.width/2), float64(a.height/2), cfg.Shark, sharkOpts...)

	if cfg.Detection.MotionGate {
		a.motion = capture.NewMotionDetector(cfg.Detection.MotionThreshold)
		a.gate = newIdleGate(cfg.Detection.IdleTimeout, time.Now())
	}

	if a.store != nil {
		sess := &store.Session{
			Steering:     a.shark.SteeringName(),
			ScreenWidth:  a.width,
			ScreenHeight: a.height,
		}
		if err := a.store.Sessions().Create(sess); err != nil {
			log.Printf("session not recorded: %v", err)
		} else {
			a.sessionID = sess.ID
			a.csv.SetSession(sess.ID)
			log.Printf("session %s started", sess.ID)
		}
	}

	return a, nil
}

// Live returns the published snapshots for readers outside the loop.
func (a *App) Live() *telemetry.Live {
	return &a.live
}

// SessionID returns the recorded session, or "" without a store.
func (a *App) SessionID() string {
	return a.sessionID
}

// Shark returns the entity. Only the loop goroutine may use it.
func (a *App) Shark() *shark.Shark {
	return a.shark
}

// RequestQuit makes the next Update end the game.
func (a *App) RequestQuit() {
	a.quit.Store(true)
}

// Run configures the window and blocks until the game ends.
func (a *App) Run() error {
	w := a.cfg.Window
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetTPS(w.TPS)
	if w.Fullscreen {
		ebiten.SetFullscreen(true)
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	} else {
		ebiten.SetWindowSize(a.width, a.height)
	}
	return ebiten.RunGame(a)
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	defer func() {
		if r := recover(); r != nil {
			a.Close()
			panic(r)
		}
	}()

	if a.quit.Load() || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return a.Step(time.Now())
}

// Layout implements ebiten.Game. The logical screen is fixed for the session.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return a.width, a.height
}

// Close ends the session and releases the camera, detector, store and
// telemetry output. Only the first call does anything.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.close()
	})
	return a.closeErr
}

func (a *App) close() error {
	var errs []error

	if stats, ok := a.collector.Flush(); ok {
		a.recordWindow(stats)
	}
	if err := a.csv.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close telemetry: %w", err))
	}

	if a.store != nil {
		if a.sessionID != "" {
			t := a.collector.Totals()
			totals := store.Totals{Ticks: t.Ticks, SkippedFrames: t.SkippedFrames, HandTicks: t.HandTicks}
			if err := a.store.Sessions().Finish(a.sessionID, totals); err != nil {
				errs = append(errs, fmt.Errorf("finish session: %w", err))
			}
		}
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close detector: %w", err))
		}
	}
	if a.motion != nil {
		a.motion.Close()
	}
	if err := a.camera.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close camera: %w", err))
	}
	a.rgba.Close()

	log.Printf("game closed after %d ticks", a.tick)
	return errors.Join(errs...)
}
