// Package api provides the HTTP handlers for the Holoview gesture engine.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/holoview/internal/control"
	"github.com/ayusman/holoview/internal/gesture"
	"github.com/ayusman/holoview/internal/store"
)

// maxBodySize bounds request bodies. A landmark frame is well under 4KB.
const maxBodySize = 64 * 1024

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

// Message types pushed to event subscribers.
const (
	TypeGesture   = "gesture"
	TypeState     = "state"
	TypeSelection = "selection"
)

// Message is the envelope pushed to event subscribers.
type Message struct {
	Type      string           `json:"type"`
	Event     *gesture.Event   `json:"event,omitempty"`
	State     *control.State   `json:"state,omitempty"`
	Enabled   *bool            `json:"enabled,omitempty"`
	Selection *store.Selection `json:"selection,omitempty"`
	At        time.Time        `json:"at"`
}

// GestureMessage reports a processed frame.
func GestureMessage(ev gesture.Event, s control.State, at time.Time) Message {
	return Message{Type: TypeGesture, Event: &ev, State: &s, At: at}
}

// StateMessage reports a control state change that did not come from a
// gesture, such as a reset or toggling input.
func StateMessage(s control.State, enabled bool, at time.Time) Message {
	return Message{Type: TypeState, State: &s, Enabled: &enabled, At: at}
}

// SelectionMessage reports a picked model part.
func SelectionMessage(sel store.Selection) Message {
	return Message{Type: TypeSelection, Selection: &sel, At: sel.SelectedAt}
}

// Broadcaster pushes messages to event subscribers.
type Broadcaster interface {
	Broadcast(msg Message)
}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(Message) {}
