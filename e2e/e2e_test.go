package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"github.com/ayusman/holoview/internal/app"
	"github.com/ayusman/holoview/internal/capture"
	"github.com/ayusman/holoview/internal/config"
	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/detector"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/gesture"
	"github.com/ayusman/holoview/internal/ratelimit"
	"github.com/ayusman/holoview/internal/server"
	"github.com/ayusman/holoview/internal/server/api"
	"github.com/ayusman/holoview/internal/store"
)

type harness struct {
	store  *store.Store
	engine *engine.Engine
	server *server.Server
	ts     *httptest.Server
	events *websocket.Conn
}

func newHarness(t *testing.T, dbPath string, preview *capture.Preview, cameraActive func() bool) *harness {
	t.Helper()

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	cfg := config.Empty()
	saved, err := api.LoadSavedConfig(s)
	if err != nil {
		t.Fatalf("LoadSavedConfig() error = %v", err)
	}
	cfg = cfg.Merge(saved)

	eng, err := engine.New(cfg.EngineConfig())
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	enabled, err := api.SavedEnabled(s)
	if err != nil {
		t.Fatalf("SavedEnabled() error = %v", err)
	}
	eng.SetEnabled(enabled)

	srv := server.New(server.Config{Store: s, Engine: eng, Preview: preview, CameraActive: cameraActive})
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Shutdown(context.Background())
		ts.Close()
	})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(2 * time.Second)
	for srv.Hub().Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("event subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	return &harness{store: s, engine: eng, server: srv, ts: ts, events: conn}
}

func (h *harness) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, h.ts.URL+path, &buf)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s error = %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// nextGesture reads events until a non-None gesture arrives.
func (h *harness) nextGesture(t *testing.T) api.Message {
	t.Helper()

	h.events.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		var msg api.Message
		if err := h.events.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if msg.Type == api.TypeGesture && msg.Event != nil && !msg.Event.IsNone() {
			return msg
		}
	}
}

// sendFrame posts one frame, waiting first so the engine's rate limiter
// admits it.
func (h *harness) sendFrame(t *testing.T, frame detector.Frame) {
	t.Helper()

	time.Sleep(2 * ratelimit.DefaultInterval)
	status := h.do(t, http.MethodPost, "/api/frames", map[string]any{
		"landmarks": frame.Points,
	}, nil)
	if status != http.StatusOK {
		t.Fatalf("POST /api/frames status = %d", status)
	}
}

func TestE2E_LandmarksOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	dbPath := filepath.Join(t.TempDir(), "holoview.db")
	h := newHarness(t, dbPath, nil, nil)

	t.Run("Explode", func(t *testing.T) {
		h.sendFrame(t, detector.OpenPalmLandmarks())
		msg := h.nextGesture(t)
		if msg.Event.Kind() != gesture.Explode {
			t.Errorf("kind = %v, want EXPLODE", msg.Event.Kind())
		}
	})

	t.Run("Swipe", func(t *testing.T) {
		resting := detector.TwoFingerLandmarks(0.11)
		h.sendFrame(t, resting.WithWristX(0.40))
		h.sendFrame(t, resting.WithWristX(0.50))

		msg := h.nextGesture(t)
		if msg.Event.Kind() != gesture.RotateRight {
			t.Fatalf("kind = %v, want ROTATE_RIGHT", msg.Event.Kind())
		}
		if msg.State.Rotation <= 0 {
			t.Errorf("rotation = %f, want positive", msg.State.Rotation)
		}
	})

	t.Run("Reset", func(t *testing.T) {
		var state control.State
		if status := h.do(t, http.MethodPost, "/api/reset", nil, &state); status != http.StatusOK {
			t.Fatalf("POST /api/reset status = %d", status)
		}
		if state.Rotation != 0 || state.Zoom != 1 || !state.Exploded {
			t.Errorf("state after reset = %+v", state)
		}
	})

	t.Run("SelectPart", func(t *testing.T) {
		var sel store.Selection
		if status := h.do(t, http.MethodPost, "/api/selection", map[string]string{"part": "CylinderHead"}, &sel); status != http.StatusCreated {
			t.Fatalf("POST /api/selection status = %d", status)
		}
		if sel.DisplayName == "" || sel.Description == "" {
			t.Errorf("selection missing metadata: %+v", sel)
		}
	})

	t.Run("PersistSettings", func(t *testing.T) {
		if status := h.do(t, http.MethodPut, "/api/config", map[string]any{"swipe_threshold": 0.05}, nil); status != http.StatusOK {
			t.Fatalf("PUT /api/config status = %d", status)
		}
		if status := h.do(t, http.MethodPut, "/api/enabled", map[string]bool{"enabled": false}, nil); status != http.StatusOK {
			t.Fatalf("PUT /api/enabled status = %d", status)
		}
	})

	// A second instance on the same database picks up the saved settings.
	restarted := newHarness(t, dbPath, nil, nil)

	if got := restarted.engine.Config().Thresholds.Swipe; got != 0.05 {
		t.Errorf("restarted swipe threshold = %f, want 0.05", got)
	}
	if restarted.engine.Enabled() {
		t.Error("restarted engine should keep gestures disabled")
	}

	var latest store.Selection
	if status := restarted.do(t, http.MethodGet, "/api/selection", nil, &latest); status != http.StatusOK {
		t.Fatalf("GET /api/selection status = %d", status)
	}
	if latest.PartName != "CylinderHead" {
		t.Errorf("latest part = %s, want CylinderHead", latest.PartName)
	}
}

func TestE2E_CameraPipeline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test that requires GoCV")
	}

	preview := capture.NewPreview()
	var current atomic.Pointer[app.App]
	h := newHarness(t, filepath.Join(t.TempDir(), "holoview.db"), preview, func() bool {
		p := current.Load()
		return p != nil && p.Running()
	})

	dark := capture.BlankFrame(160, 120, 0)
	light := capture.BlankFrame(160, 120, 255)
	t.Cleanup(func() {
		dark.Close()
		light.Close()
	})

	det := detector.NewMockDetector()
	det.SetHands([]detector.Frame{detector.OpenPalmLandmarks()})

	pipeline, err := app.New(app.Config{
		Engine:   h.engine,
		Camera:   capture.NewMockCamera([]*gocv.Mat{dark, light}, true),
		Detector: det,
		Gate:     capture.GateConfig{IdleFPS: 50, ActiveFPS: 100, IdleTimeout: time.Second},
		Preview:  preview,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer pipeline.Close()
	current.Store(pipeline)

	if err := pipeline.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	msg := h.nextGesture(t)
	if msg.Event.Kind() != gesture.Explode {
		t.Errorf("kind = %v, want EXPLODE", msg.Event.Kind())
	}

	// The camera is the only hand feed while it runs.
	status := h.do(t, http.MethodPost, "/api/frames", map[string]any{
		"landmarks": detector.ClosedFistLandmarks().Points,
	}, nil)
	if status != http.StatusConflict {
		t.Errorf("POST /api/frames while the camera runs status = %d, want %d", status, http.StatusConflict)
	}

	var state struct {
		State control.State `json:"state"`
	}
	h.do(t, http.MethodGet, "/api/state", nil, &state)
	if !state.State.Exploded {
		t.Error("state should be exploded after the pipeline saw an open palm")
	}

	// Disabling input stops frames reaching the detector.
	h.do(t, http.MethodPut, "/api/enabled", map[string]bool{"enabled": false}, nil)
	time.Sleep(50 * time.Millisecond)
	calls := det.Calls()
	time.Sleep(100 * time.Millisecond)
	if det.Calls() != calls {
		t.Errorf("detector called %d more times while disabled", det.Calls()-calls)
	}

	pipeline.Stop()
	if pipeline.Running() {
		t.Error("pipeline still running after Stop")
	}
}
