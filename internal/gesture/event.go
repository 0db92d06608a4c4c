package gesture

import "encoding/json"

// Confidence levels assigned by the classifier.
const (
	ConfidenceHandShape = 0.9
	ConfidenceTwoFinger = 0.8
	ConfidenceSwipe     = 0.7
)

// Event is one classified frame. It is a value type; copies never share
// state.
type Event struct {
	kind       Kind
	confidence float64
	aux        float64
	hasAux     bool
}

// NoEvent returns the idle classification: None with zero confidence.
func NoEvent() Event {
	return Event{}
}

// NewEvent creates an event without auxiliary data. Confidence is clamped
// to [0, 1].
func NewEvent(kind Kind, confidence float64) Event {
	return Event{kind: kind, confidence: clampUnit(confidence)}
}

// NewEventWithAux creates an event carrying an auxiliary value: the
// fingertip distance for zoom events, the signed wrist velocity for
// rotate events.
func NewEventWithAux(kind Kind, confidence, aux float64) Event {
	return Event{kind: kind, confidence: clampUnit(confidence), aux: aux, hasAux: true}
}

// Kind returns the gesture kind.
func (e Event) Kind() Kind { return e.kind }

// Confidence returns the classification confidence in [0, 1].
func (e Event) Confidence() float64 { return e.confidence }

// Aux returns the auxiliary value and whether one is present.
func (e Event) Aux() (float64, bool) { return e.aux, e.hasAux }

// IsNone reports whether the event carries no actionable gesture.
func (e Event) IsNone() bool { return e.kind == None }

type eventJSON struct {
	Kind       Kind     `json:"kind"`
	Label      string   `json:"label,omitempty"`
	Confidence float64  `json:"confidence"`
	Aux        *float64 `json:"aux,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	out := eventJSON{
		Kind:       e.kind,
		Label:      e.kind.Label(),
		Confidence: e.confidence,
	}
	if e.hasAux {
		aux := e.aux
		out.Aux = &aux
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	var in eventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Aux != nil {
		*e = NewEventWithAux(in.Kind, in.Confidence, *in.Aux)
	} else {
		*e = NewEvent(in.Kind, in.Confidence)
	}
	return nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
