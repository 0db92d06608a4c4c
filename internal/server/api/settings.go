package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/ayusman/holoview/internal/config"
	"github.com/ayusman/holoview/internal/engine"
	"github.com/ayusman/holoview/internal/store"
)

// ConfigHandler serves the engine configuration. Changes are saved to the
// store and take effect on the next start, since an engine's configuration
// is fixed when it is built.
type ConfigHandler struct {
	engine *engine.Engine
	store  *store.Store
}

// NewConfigHandler creates a ConfigHandler. The store is optional; without
// it the configuration is read-only.
func NewConfigHandler(e *engine.Engine, s *store.Store) *ConfigHandler {
	return &ConfigHandler{engine: e, store: s}
}

type configResponse struct {
	Active          *config.File `json:"active"`
	Saved           *config.File `json:"saved"`
	RestartRequired bool         `json:"restart_required"`
}

// ServeHTTP handles /api/config.
func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ConfigHandler) get(w http.ResponseWriter, r *http.Request) {
	resp := configResponse{Active: config.FromEngine(h.engine.Config())}

	if h.store != nil {
		saved, err := LoadSavedConfig(h.store)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load saved config")
			return
		}
		resp.Saved = saved
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *ConfigHandler) put(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Settings store not configured")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	file, err := config.Parse(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Settings().SetJSON(store.KeyEngineConfig, file); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save config")
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		Active:          config.FromEngine(h.engine.Config()),
		Saved:           file,
		RestartRequired: true,
	})
}

func (h *ConfigHandler) delete(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "Settings store not configured")
		return
	}

	if err := h.store.Settings().Delete(store.KeyEngineConfig); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "No saved config")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete config")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// LoadSavedConfig returns the configuration saved through PUT /api/config,
// or nil if there is none.
func LoadSavedConfig(s *store.Store) (*config.File, error) {
	var file config.File
	err := s.Settings().GetJSON(store.KeyEngineConfig, &file)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &file, nil
}
