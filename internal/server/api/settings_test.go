package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConfigHandler_Get(t *testing.T) {
	e := newTestEngine(t)
	handler := NewConfigHandler(e, newTestStore(t))

	rec := doJSON(t, handler, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var resp configResponse
	decode(t, rec, &resp)

	if resp.Active == nil {
		t.Fatal("expected active config")
	}
	if got := resp.Active.GetSwipeThreshold(); got != e.Config().Thresholds.Swipe {
		t.Errorf("expected swipe threshold %f, got %f", e.Config().Thresholds.Swipe, got)
	}
	if resp.Saved != nil {
		t.Error("expected no saved config")
	}
}

func TestConfigHandler_PutAndDelete(t *testing.T) {
	s := newTestStore(t)
	handler := NewConfigHandler(newTestEngine(t), s)

	req := httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader(`{"swipe_threshold": 0.05}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp configResponse
	decode(t, rec, &resp)
	if !resp.RestartRequired {
		t.Error("expected restart_required")
	}

	saved, err := LoadSavedConfig(s)
	if err != nil {
		t.Fatalf("LoadSavedConfig failed: %v", err)
	}
	if saved == nil || saved.GetSwipeThreshold() != 0.05 {
		t.Fatalf("expected saved swipe threshold 0.05, got %+v", saved)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/config", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/config", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d on second delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestConfigHandler_PutInvalid(t *testing.T) {
	s := newTestStore(t)
	handler := NewConfigHandler(newTestEngine(t), s)

	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{"pinch_threshold":`},
		{"pinch above spread", `{"pinch_threshold": 0.5}`},
		{"bad interval", `{"target_interval": "soon"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/config", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
		})
	}

	saved, err := LoadSavedConfig(s)
	if err != nil {
		t.Fatalf("LoadSavedConfig failed: %v", err)
	}
	if saved != nil {
		t.Error("invalid config must not be saved")
	}
}

func TestConfigHandler_NoStore(t *testing.T) {
	handler := NewConfigHandler(newTestEngine(t), nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/config", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("expected GET to work without a store, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/config", strings.NewReader(`{}`))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, rec.Code)
	}
}
