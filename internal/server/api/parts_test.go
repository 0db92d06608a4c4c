package api

import (
	"net/http"
	"testing"

	"github.com/ayusman/holoview/internal/parts"
	"github.com/ayusman/holoview/internal/store"
)

func TestPartsHandler_Metadata(t *testing.T) {
	handler := NewPartsHandler(nil, nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/parts/Piston_Head", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var info parts.Info
	decode(t, rec, &info)

	want := parts.Metadata("Piston_Head")
	if info != want {
		t.Errorf("expected %+v, got %+v", want, info)
	}
}

func TestPartsHandler_MetadataEscapedName(t *testing.T) {
	handler := NewPartsHandler(nil, nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/parts/crank%20shaft", nil)
	var info parts.Info
	decode(t, rec, &info)

	if info.Part != "crank shaft" {
		t.Errorf("expected unescaped part name, got %q", info.Part)
	}
}

func TestPartsHandler_MetadataEmptyName(t *testing.T) {
	handler := NewPartsHandler(nil, nil)

	rec := doJSON(t, handler, http.MethodGet, "/api/parts/", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPartsHandler_Select(t *testing.T) {
	s := newTestStore(t)
	events := &recordingBroadcaster{}
	handler := NewPartsHandler(s, events)

	rec := doJSON(t, handler, http.MethodPost, "/api/selection", selectRequest{Part: "gear_box"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var sel store.Selection
	decode(t, rec, &sel)

	if sel.ID == "" {
		t.Error("expected generated ID")
	}
	if sel.PartName != "gear_box" || sel.DisplayName != parts.DisplayName("gear_box") {
		t.Errorf("unexpected selection %+v", sel)
	}

	msgs := events.Messages()
	if len(msgs) != 1 || msgs[0].Type != TypeSelection {
		t.Fatalf("expected one selection message, got %+v", msgs)
	}
	if msgs[0].Selection.ID != sel.ID {
		t.Errorf("broadcast selection %s, expected %s", msgs[0].Selection.ID, sel.ID)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/selection", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	var latest store.Selection
	decode(t, rec, &latest)
	if latest.ID != sel.ID {
		t.Errorf("expected latest %s, got %s", sel.ID, latest.ID)
	}
}

func TestPartsHandler_SelectRequiresPart(t *testing.T) {
	handler := NewPartsHandler(nil, nil)

	rec := doJSON(t, handler, http.MethodPost, "/api/selection", selectRequest{Part: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestPartsHandler_LatestEmpty(t *testing.T) {
	tests := []struct {
		name  string
		store *store.Store
	}{
		{"empty store", newTestStore(t)},
		{"no store", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewPartsHandler(tt.store, nil)
			rec := doJSON(t, handler, http.MethodGet, "/api/selection", nil)
			if rec.Code != http.StatusNotFound {
				t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
			}
		})
	}
}

func TestPartsHandler_ListAndClear(t *testing.T) {
	s := newTestStore(t)
	handler := NewPartsHandler(s, nil)

	for _, part := range []string{"piston", "valve", "gear"} {
		doJSON(t, handler, http.MethodPost, "/api/selection", selectRequest{Part: part})
	}

	rec := doJSON(t, handler, http.MethodGet, "/api/selections?limit=2", nil)
	var resp listSelectionsResponse
	decode(t, rec, &resp)
	if len(resp.Selections) != 2 {
		t.Errorf("expected 2 selections, got %d", len(resp.Selections))
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/selections?limit=-1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for negative limit, got %d", http.StatusBadRequest, rec.Code)
	}

	rec = doJSON(t, handler, http.MethodDelete, "/api/selections", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = doJSON(t, handler, http.MethodGet, "/api/selections", nil)
	resp = listSelectionsResponse{}
	decode(t, rec, &resp)
	if len(resp.Selections) != 0 {
		t.Errorf("expected no selections after clear, got %d", len(resp.Selections))
	}
}
