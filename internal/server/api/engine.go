package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/detector"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/gesture"
	"github.com/ayusman/holoview/internal/store"
)

// EngineHandler exposes the gesture engine: frame input, state, stats and
// the enable toggle.
type EngineHandler struct {
	engine *engine.Engine
	store  *store.Store
	events Broadcaster
	now    func() time.Time

	// cameraActive reports whether the in-process camera feed is running.
	// The engine tracks a single hand feed, so HTTP frames are refused
	// while it is.
	cameraActive func() bool
}

// NewEngineHandler creates an EngineHandler. The store and broadcaster are
// optional.
func NewEngineHandler(e *engine.Engine, s *store.Store, b Broadcaster) *EngineHandler {
	if b == nil {
		b = nopBroadcaster{}
	}
	return &EngineHandler{engine: e, store: s, events: b, now: time.Now}
}

// SetCameraActive installs the check used to refuse HTTP frames while the
// camera pipeline feeds the engine.
func (h *EngineHandler) SetCameraActive(fn func() bool) {
	h.cameraActive = fn
}

// ServeHTTP routes /api/{frames,state,stats,enabled,reset}.
func (h *EngineHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch strings.TrimPrefix(r.URL.Path, "/api/") {
	case "frames":
		h.route(w, r, http.MethodPost, h.frames)
	case "state":
		h.route(w, r, http.MethodGet, h.state)
	case "stats":
		h.route(w, r, http.MethodGet, h.stats)
	case "enabled":
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, enabledBody{Enabled: h.engine.Enabled()})
		case http.MethodPut:
			h.setEnabled(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	case "reset":
		h.route(w, r, http.MethodPost, h.reset)
	default:
		http.NotFound(w, r)
	}
}

func (h *EngineHandler) route(w http.ResponseWriter, r *http.Request, method string, fn http.HandlerFunc) {
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	fn(w, r)
}

// Request and response types

// frameRequest carries one tracking result. Landmarks holds a single hand;
// Hands holds every detected hand, of which the first is used. A request
// with neither reports that no hand was seen. Frames are stamped on
// arrival with the server clock; client timestamps are ignored.
type frameRequest struct {
	Landmarks  []detector.Point3D   `json:"landmarks"`
	Hands      [][]detector.Point3D `json:"hands"`
	Handedness string               `json:"handedness"`
}

type frameResponse struct {
	Accepted bool           `json:"accepted"`
	HandSeen bool           `json:"hand_seen"`
	Event    *gesture.Event `json:"event,omitempty"`
	State    control.State  `json:"state"`
}

type stateResponse struct {
	State       control.State `json:"state"`
	Enabled     bool          `json:"enabled"`
	LastEvent   gesture.Event `json:"last_event"`
	LastEventAt *time.Time    `json:"last_event_at,omitempty"`
	Session     string        `json:"session"`
}

type enabledBody struct {
	Enabled bool `json:"enabled"`
}

// frames handles POST /api/frames.
func (h *EngineHandler) frames(w http.ResponseWriter, r *http.Request) {
	if h.cameraActive != nil && h.cameraActive() {
		writeError(w, http.StatusConflict, "Camera feed active")
		return
	}

	var req frameRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	at := h.now()

	points := req.Landmarks
	if len(points) == 0 && len(req.Hands) > 0 {
		points = req.Hands[0]
	}

	if len(points) == 0 {
		h.engine.OnNoHand(at)
		writeJSON(w, http.StatusOK, frameResponse{State: h.engine.State()})
		return
	}

	frame := detector.Frame{Points: points, Handedness: req.Handedness}
	ev, accepted := h.engine.OnFrame(frame, at)

	resp := frameResponse{Accepted: accepted, HandSeen: true, State: h.engine.State()}
	if accepted {
		resp.Event = &ev
	}
	writeJSON(w, http.StatusOK, resp)
}

// state handles GET /api/state.
func (h *EngineHandler) state(w http.ResponseWriter, r *http.Request) {
	ev, at := h.engine.LastEvent()

	resp := stateResponse{
		State:     h.engine.State(),
		Enabled:   h.engine.Enabled(),
		LastEvent: ev,
		Session:   h.engine.ID(),
	}
	if !at.IsZero() {
		resp.LastEventAt = &at
	}
	writeJSON(w, http.StatusOK, resp)
}

// stats handles GET /api/stats.
func (h *EngineHandler) stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.engine.Stats())
}

// setEnabled handles PUT /api/enabled.
func (h *EngineHandler) setEnabled(w http.ResponseWriter, r *http.Request) {
	var req enabledBody
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := SetEnabled(h.engine, h.store, req.Enabled); err != nil {
		log.Printf("Failed to persist gesture toggle: %v", err)
	}
	h.events.Broadcast(StateMessage(h.engine.State(), req.Enabled, h.now()))

	writeJSON(w, http.StatusOK, req)
}

// reset handles POST /api/reset.
func (h *EngineHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.engine.ResetDispatchState()
	s := h.engine.State()
	h.events.Broadcast(StateMessage(s, h.engine.Enabled(), h.now()))
	writeJSON(w, http.StatusOK, s)
}

// SetEnabled toggles gesture input and records the choice in s so it
// survives a restart. s may be nil.
func SetEnabled(e *engine.Engine, s *store.Store, enabled bool) error {
	e.SetEnabled(enabled)
	if s == nil {
		return nil
	}
	return s.Settings().Set(store.KeyGesturesEnabled, strconv.FormatBool(enabled))
}

// SavedEnabled returns the persisted toggle, defaulting to true when none
// was saved.
func SavedEnabled(s *store.Store) (bool, error) {
	if s == nil {
		return true, nil
	}
	value, err := s.Settings().Get(store.KeyGesturesEnabled)
	if errors.Is(err, store.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return true, err
	}
	return strconv.ParseBool(value)
}
