// Package gesture classifies hand landmark frames into viewer control gestures.
package gesture

import (
	"fmt"
	"strings"
)

// Kind identifies a control gesture. The zero value is None.
type Kind int

const (
	// None means no actionable gesture.
	None Kind = iota
	// ZoomIn is two extended fingers spread apart.
	ZoomIn
	// ZoomOut is two extended fingers pinched together.
	ZoomOut
	// Explode is an open hand with every finger extended.
	Explode
	// Assemble is a closed fist.
	Assemble
	// RotateLeft is a leftward wrist swipe.
	RotateLeft
	// RotateRight is a rightward wrist swipe.
	RotateRight

	numKinds
)

var kindNames = [numKinds]string{
	None:        "NONE",
	ZoomIn:      "ZOOM_IN",
	ZoomOut:     "ZOOM_OUT",
	Explode:     "EXPLODE",
	Assemble:    "ASSEMBLE",
	RotateLeft:  "ROTATE_LEFT",
	RotateRight: "ROTATE_RIGHT",
}

var kindIcons = [numKinds]string{
	None:        "✋",
	ZoomIn:      "🔍+",
	ZoomOut:     "🔍-",
	Explode:     "💥",
	Assemble:    "🔄",
	RotateLeft:  "↶",
	RotateRight: "↷",
}

// Kinds returns every gesture kind, None first.
func Kinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := None; k < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= None && k < numKinds
}

// String returns the wire name, e.g. "ZOOM_IN".
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Label returns a human readable name, e.g. "ZOOM IN".
func (k Kind) Label() string {
	return strings.ReplaceAll(k.String(), "_", " ")
}

// Icon returns a short glyph for status displays.
func (k Kind) Icon() string {
	if !k.Valid() {
		return kindIcons[None]
	}
	return kindIcons[k]
}

// ParseKind parses a wire name. Matching is case-insensitive.
func ParseKind(s string) (Kind, error) {
	upper := strings.ToUpper(strings.TrimSpace(s))
	for k := None; k < numKinds; k++ {
		if kindNames[k] == upper {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown gesture kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid gesture kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
