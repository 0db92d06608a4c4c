package api

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/holoview/internal/parts"
	"github.com/ayusman/holoview/internal/store"
)

// PartsHandler serves part metadata and records part selections.
type PartsHandler struct {
	store  *store.Store
	events Broadcaster
	now    func() time.Time
}

// NewPartsHandler creates a PartsHandler. The store and broadcaster are
// optional; without a store selections are broadcast but not kept.
func NewPartsHandler(s *store.Store, b Broadcaster) *PartsHandler {
	if b == nil {
		b = nopBroadcaster{}
	}
	return &PartsHandler{store: s, events: b, now: time.Now}
}

// ServeHTTP routes /api/parts/{name}, /api/selection and /api/selections.
func (h *PartsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/")

	switch {
	case strings.HasPrefix(path, "parts/"):
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.metadata(w, r, strings.TrimPrefix(path, "parts/"))

	case path == "selection":
		switch r.Method {
		case http.MethodGet:
			h.latest(w, r)
		case http.MethodPost:
			h.selectPart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	case path == "selections":
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodDelete:
			h.clear(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}

	default:
		http.NotFound(w, r)
	}
}

type selectRequest struct {
	Part string `json:"part"`
}

type listSelectionsResponse struct {
	Selections []*store.Selection `json:"selections"`
}

// metadata handles GET /api/parts/{name}.
func (h *PartsHandler) metadata(w http.ResponseWriter, r *http.Request, escaped string) {
	name, err := url.PathUnescape(escaped)
	if err != nil || strings.TrimSpace(name) == "" {
		writeError(w, http.StatusBadRequest, "Part name is required")
		return
	}
	writeJSON(w, http.StatusOK, parts.Metadata(name))
}

// selectPart handles POST /api/selection.
func (h *PartsHandler) selectPart(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Part) == "" {
		writeError(w, http.StatusBadRequest, "Part is required")
		return
	}

	info := parts.Metadata(req.Part)
	sel := store.Selection{
		ID:          uuid.New().String(),
		PartName:    info.Part,
		DisplayName: info.Name,
		Description: info.Description,
		SelectedAt:  h.now(),
	}

	if h.store != nil {
		if err := h.store.Selections().Create(&sel); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save selection")
			return
		}
	}

	h.events.Broadcast(SelectionMessage(sel))
	writeJSON(w, http.StatusCreated, sel)
}

// latest handles GET /api/selection.
func (h *PartsHandler) latest(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusNotFound, "No selection")
		return
	}

	sel, err := h.store.Selections().Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No selection")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get selection")
		return
	}

	writeJSON(w, http.StatusOK, sel)
}

// list handles GET /api/selections?limit=N.
func (h *PartsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	resp := listSelectionsResponse{Selections: []*store.Selection{}}
	if h.store != nil {
		selections, err := h.store.Selections().List(limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list selections")
			return
		}
		if selections != nil {
			resp.Selections = selections
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// clear handles DELETE /api/selections.
func (h *PartsHandler) clear(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if _, err := h.store.Selections().Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to clear selections")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
