// Package parts derives display metadata for model parts picked in the
// viewer.
package parts

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultDescription is used when no keyword matches.
const DefaultDescription = "Component of the model"

// Info is the display metadata for one part.
type Info struct {
	Part        string `json:"part"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type rule struct {
	keywords    []string
	description string
}

// Checked in order; the first matching rule wins.
var rules = []rule{
	{[]string{"wheel", "tire"}, "Provides traction and supports the vehicle weight"},
	{[]string{"engine", "motor"}, "Power generation unit that drives the vehicle"},
	{[]string{"door"}, "Provides access to the interior cabin"},
	{[]string{"window", "glass"}, "Transparent panel for visibility and protection"},
	{[]string{"body", "chassis"}, "Main structural framework and exterior shell"},
	{[]string{"light", "lamp"}, "Illumination system for visibility and signaling"},
	{[]string{"seat"}, "Passenger seating and comfort system"},
	{[]string{"exhaust", "pipe"}, "Exhaust gas routing and emission system"},
	{[]string{"bumper"}, "Impact protection and aerodynamic element"},
}

// Metadata returns the display name and description for a mesh name such
// as "Front_LeftWheel".
func Metadata(part string) Info {
	return Info{
		Part:        part,
		Name:        DisplayName(part),
		Description: Describe(part),
	}
}

// DisplayName turns a mesh name into words: underscores become spaces,
// camel case is split, and the first letter is capitalised.
func DisplayName(part string) string {
	var b strings.Builder
	for _, r := range part {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	name := strings.Join(strings.Fields(b.String()), " ")
	if name == "" {
		return ""
	}

	first, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(first)) + name[size:]
}

// Describe returns the description for the first keyword found in part,
// ignoring case.
func Describe(part string) string {
	lower := strings.ToLower(part)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.description
			}
		}
	}
	return DefaultDescription
}
