// Package server provides the HTTP server for the Holoview gesture engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/ayusman/holoview/internal/capture"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/server/api"
	"github.com/ayusman/holoview/internal/store"
)

// Config holds the server configuration. Every field is optional; routes
// are only registered for the parts that are present.
type Config struct {
	StaticDir string
	Store     *store.Store
	Engine    *engine.Engine
	Preview   *capture.Preview

	// CameraActive reports whether the camera pipeline is feeding the
	// engine. POST /api/frames is refused while it returns true.
	CameraActive func() bool
}

// Server represents the HTTP server for the Holoview application.
type Server struct {
	config Config
	mux    *http.ServeMux
	hub    *Hub
	start  time.Time

	unsubscribe func()

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a new Server with the given configuration. When an engine is
// configured, every processed frame is pushed to /api/events subscribers.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		hub:    NewHub(),
		start:  time.Now(),
	}
	if config.Engine != nil {
		s.unsubscribe = config.Engine.Subscribe(func(u engine.Update) {
			s.hub.Broadcast(api.GestureMessage(u.Event, u.State, u.At))
		})
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/events", s.hub)

	if s.config.Engine != nil {
		engineHandler := api.NewEngineHandler(s.config.Engine, s.config.Store, s.hub)
		engineHandler.SetCameraActive(s.config.CameraActive)
		for _, path := range []string{"/api/frames", "/api/state", "/api/stats", "/api/enabled", "/api/reset"} {
			s.mux.Handle(path, engineHandler)
		}
		s.mux.Handle("/api/config", api.NewConfigHandler(s.config.Engine, s.config.Store))
	}

	partsHandler := api.NewPartsHandler(s.config.Store, s.hub)
	s.mux.Handle("/api/parts/", partsHandler)
	s.mux.Handle("/api/selection", partsHandler)
	s.mux.Handle("/api/selections", partsHandler)

	if s.config.Preview != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Preview))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Hub returns the event hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":      "ok",
		"uptime":      time.Since(s.start).String(),
		"subscribers": s.hub.Clients(),
	}
	if s.config.Engine != nil {
		response["session"] = s.config.Engine.ID()
		response["enabled"] = s.config.Engine.Enabled()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address. It returns
// nil after a clean Shutdown.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects event subscribers, detaches from the engine and
// gracefully stops the HTTP server if it was started.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.hub.Close()

	s.mu.Lock()
	srv := s.httpServer
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
