package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ayusman/sharkescape/internal/app"
	"github.com/ayusman/sharkescape/internal/capture"
	"github.com/ayusman/sharkescape/internal/config"
	"github.com/ayusman/sharkescape/internal/detector"
	"github.com/ayusman/sharkescape/internal/server"
	"github.com/ayusman/sharkescape/internal/shark"
	"github.com/ayusman/sharkescape/internal/store"
	"github.com/ayusman/sharkescape/internal/telemetry"
)

type options struct {
	configPath string
	camera     int
	assets     string
	dataDir    string
	outputDir  string
	httpAddr   string
	steering   string
	windowed   bool
	debug      bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("sharkescape", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML file overriding the built-in defaults")
	fs.IntVar(&o.camera, "camera", -1, "camera device index (default from config)")
	fs.StringVar(&o.assets, "assets", "", "directory with the shark sprites")
	fs.StringVar(&o.dataDir, "data-dir", "", "directory for the session database (default ~/.sharkescape)")
	fs.StringVar(&o.outputDir, "output-dir", "", "write telemetry.csv and config.yaml here")
	fs.StringVar(&o.httpAddr, "http", "", "serve the parent dashboard on this address, e.g. :8080")
	fs.StringVar(&o.steering, "steering", "", "shark behaviour: follow or flee (default: last used)")
	fs.BoolVar(&o.windowed, "windowed", false, "run in a window instead of fullscreen")
	fs.BoolVar(&o.debug, "debug", false, "draw the palm marker and tick stats")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	applyFlags(cfg, opts)

	dataDir := opts.dataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("failed to get home directory: %v", err)
		}
		dataDir = filepath.Join(homeDir, ".sharkescape")
	}
	st, err := store.Open(dataDir)
	if err != nil {
		log.Fatalf("failed to initialize store: %v", err)
	}

	cfg.Shark.Steering, err = resolveSteering(opts.steering, cfg.Shark.Steering, st.Settings())
	if err != nil {
		st.Close()
		log.Fatalf("%v", err)
	}
	log.Printf("steering: %s", cfg.Shark.Steering)

	cam := capture.NewCamera(cfg.Camera)
	if err := cam.Open(); err != nil {
		st.Close()
		log.Fatalf("failed to open camera %d: %v", cfg.Camera.Device, err)
	}

	var det detector.Detector
	if mp, err := detector.NewMediaPipeDetector(detector.ConfigFrom(cfg.Detection)); err != nil {
		log.Printf("hand detection unavailable, the shark will wander: %v", err)
	} else {
		det = mp
	}

	sprites, err := shark.LoadSprites(cfg.Shark.AssetsDir, cfg.Shark.Size)
	if err != nil {
		log.Printf("using placeholder shark: %v", err)
		sprites = nil
	}

	csv, err := telemetry.NewCSVWriter(opts.outputDir)
	if err != nil {
		log.Printf("telemetry output disabled: %v", err)
		csv = nil
	}
	if err := csv.WriteConfig(cfg); err != nil {
		log.Printf("config not saved: %v", err)
	}

	width, height := screenSize(cfg.Window)
	game, err := app.New(app.Options{
		Config:   cfg,
		Width:    width,
		Height:   height,
		Camera:   cam,
		Detector: det,
		Sprites:  sprites,
		Store:    st,
		CSV:      csv,
		Debug:    opts.debug,
	})
	if err != nil {
		cam.Close()
		st.Close()
		log.Fatalf("failed to start game: %v", err)
	}
	defer game.Close()

	// Ctrl+C ends the game through the loop so deferred cleanup still runs
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go quitOnDone(ctx, game)

	if opts.httpAddr != "" {
		srv := server.New(server.Config{
			StaticDir: findWebDir(),
			Store:     st,
			State:     game.Live(),
		})
		srv.Start(opts.httpAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Printf("dashboard shutdown: %v", err)
			}
		}()
	}

	fmt.Printf("Baby Shark Escape %dx%d, press Esc to quit\n", width, height)
	if err := game.Run(); err != nil {
		log.Printf("game stopped: %v", err)
	}
}

type quitter interface {
	RequestQuit()
}

// quitOnDone asks the game to stop once ctx is done.
func quitOnDone(ctx context.Context, q quitter) {
	<-ctx.Done()
	log.Printf("shutting down: %v", context.Cause(ctx))
	q.RequestQuit()
}

func applyFlags(cfg *config.Config, o options) {
	if o.camera >= 0 {
		cfg.Camera.Device = o.camera
	}
	if o.assets != "" {
		cfg.Shark.AssetsDir = o.assets
	}
	if o.windowed {
		cfg.Window.Fullscreen = false
	}
}

type settings interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// resolveSteering picks the steering mode: the flag when given (and saved
// for next time), otherwise the last saved mode, otherwise the config.
func resolveSteering(flagValue, configValue string, s settings) (string, error) {
	if flagValue != "" {
		if flagValue != config.SteeringFollow && flagValue != config.SteeringFlee {
			return "", fmt.Errorf("unknown steering %q (want %s or %s)", flagValue, config.SteeringFollow, config.SteeringFlee)
		}
		if err := s.Set(store.SettingSteering, flagValue); err != nil {
			log.Printf("steering not saved: %v", err)
		}
		return flagValue, nil
	}

	saved, err := s.Get(store.SettingSteering)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return configValue, nil
	case err != nil:
		log.Printf("failed to read saved steering: %v", err)
		return configValue, nil
	case saved == config.SteeringFollow, saved == config.SteeringFlee:
		return saved, nil
	default:
		return configValue, nil
	}
}

// screenSize returns the monitor size in fullscreen and the configured
// window size otherwise.
func screenSize(w config.WindowConfig) (int, int) {
	if w.Fullscreen {
		if mw, mh := ebiten.Monitor().Size(); mw > 0 && mh > 0 {
			return mw, mh
		}
	}
	return w.Width, w.Height
}

// findWebDir searches for the dashboard files in common locations.
// It checks: "web", "../web", "../../web", and ~/.sharkescape/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	homeWebDir := filepath.Join(homeDir, ".sharkescape", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}
	return ""
}
