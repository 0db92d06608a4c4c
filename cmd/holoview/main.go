package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/ayusman/holoview/internal/app"
	"github.com/ayusman/holoview/internal/capture"
	"github.com/ayusman/holoview/internal/config"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/server"
	"github.com/ayusman/holoview/internal/server/api"
	"github.com/ayusman/holoview/internal/store"
	"github.com/ayusman/holoview/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "path to a JSON config file")
	dbPath := flag.String("db", "", "path to the settings database (default ~/.holoview/holoview.db)")
	cameraID := flag.Int("camera", 0, "camera device ID")
	mirror := flag.Bool("mirror", false, "mirror camera frames horizontally")
	noCamera := flag.Bool("no-camera", false, "accept landmarks over HTTP only")
	withTray := flag.Bool("tray", false, "show a system tray menu")
	flag.Parse()

	fmt.Println("Holoview - Gesture Control for 3D Viewing")

	// Initialize the store
	if *dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		*dbPath = filepath.Join(homeDir, ".holoview", "holoview.db")
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg, err := loadConfig(*configPath, st)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	eng, err := engine.New(cfg.EngineConfig())
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	enabled, err := api.SavedEnabled(st)
	if err != nil {
		log.Printf("Ignoring saved gesture toggle: %v", err)
		enabled = true
	}
	eng.SetEnabled(enabled)

	preview := capture.NewPreview()

	var pipeline *app.App
	if !*noCamera {
		camCfg := capture.DefaultCameraConfig(*cameraID)
		camCfg.Mirror = *mirror

		pipeline, err = app.New(app.Config{
			Engine:          eng,
			CameraConfig:    camCfg,
			MotionThreshold: cfg.GetMotionThreshold(),
			Gate: capture.GateConfig{
				IdleFPS:     cfg.GetIdleFPS(),
				ActiveFPS:   cfg.GetActiveFPS(),
				IdleTimeout: cfg.GetIdleTimeout(),
			},
			Preview: preview,
		})
		if err != nil {
			log.Fatalf("Failed to create capture pipeline: %v", err)
		}
		if err := pipeline.Start(); err != nil {
			log.Printf("Camera unavailable (%v), accepting landmarks over HTTP only", err)
		}
		defer pipeline.Close()
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// HTTP frames are only accepted while the camera is not feeding the
	// engine.
	cameraActive := func() bool {
		return pipeline != nil && pipeline.Running()
	}

	srv := server.New(server.Config{
		StaticDir:    webDir,
		Store:        st,
		Engine:       eng,
		Preview:      preview,
		CameraActive: cameraActive,
	})

	go func() {
		fmt.Printf("Starting server on %s (session %s)\n", *addr, eng.ID())
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *withTray {
		runTray(ctx, eng, st, viewerURL(*addr))
	} else {
		<-ctx.Done()
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}

// loadConfig resolves the configuration: defaults, then the file given on
// the command line, then the profile saved through the API.
func loadConfig(path string, st *store.Store) (*config.File, error) {
	cfg := config.Empty()
	if path != "" {
		file, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = file
	}

	saved, err := api.LoadSavedConfig(st)
	if err != nil {
		return nil, fmt.Errorf("failed to read saved config: %w", err)
	}
	if saved == nil {
		return cfg, nil
	}

	merged := cfg.Merge(saved)
	if err := merged.Validate(); err != nil {
		log.Printf("Ignoring saved config: %v", err)
		return cfg, nil
	}
	return merged, nil
}

// runTray blocks in the tray loop until Quit is clicked or ctx is done.
func runTray(ctx context.Context, eng *engine.Engine, st *store.Store, url string) {
	t := tray.New()
	t.SetEnabled(eng.Enabled())

	t.OnToggle(func(enabled bool) {
		if err := api.SetEnabled(eng, st, enabled); err != nil {
			log.Printf("Failed to persist gesture toggle: %v", err)
		}
	})
	t.OnReset(eng.ResetDispatchState)
	t.OnSettings(func() { openBrowser(url) })

	unsubscribe := eng.Subscribe(t.Update)
	defer unsubscribe()

	// The API can toggle input too; keep the menu in step.
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.Quit()
				return
			case <-ticker.C:
				t.SetEnabled(eng.Enabled())
			}
		}
	}()

	t.Run()
}

func viewerURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.holoview/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".holoview", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
