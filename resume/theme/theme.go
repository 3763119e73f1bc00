package theme

import (
	"fmt"
	"strings"
)

// ID names one of the fixed presentation profiles.
type ID string

const (
	Modern   ID = "modern"
	Classic  ID = "classic"
	Minimal  ID = "minimal"
	Creative ID = "creative"
)

// Theme is a named accent profile applied to the rendered document.
type Theme struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	PrimaryColor string `json:"primaryColor"`
}

var registry = [...]Theme{
	{ID: Modern, Name: "现代商务", PrimaryColor: "#2563eb"},
	{ID: Classic, Name: "经典职场", PrimaryColor: "#1e293b"},
	{ID: Minimal, Name: "极简主义", PrimaryColor: "#0f172a"},
	{ID: Creative, Name: "创意设计", PrimaryColor: "#7c3aed"},
}

// All returns the registered themes in display order.
func All() []Theme {
	out := make([]Theme, len(registry))
	copy(out, registry[:])
	return out
}

// Default returns the theme selected for new sessions.
func Default() Theme {
	return registry[0]
}

// Lookup finds a theme by id.
func Lookup(id ID) (Theme, bool) {
	for _, t := range registry {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}

// ParseID normalizes raw input into a registered theme id.
func ParseID(raw string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := Lookup(id); !ok {
		return "", fmt.Errorf("unknown theme %q", raw)
	}
	return id, nil
}
