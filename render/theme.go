package render

import (
	"fmt"
	"slices"
	"strings"
)

// Theme is a color palette for rendered pages.
type Theme struct {
	Name           string
	Background     string
	Text           string
	CardBackground string
	Border         string
	Primary        string
	Secondary      string
}

// Built-in theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var themes = map[string]Theme{
	ThemeLight: {
		Name:           ThemeLight,
		Background:     "#f5f5f5",
		Text:           "#333333",
		CardBackground: "#ffffff",
		Border:         "#e0e0e0",
		Primary:        "#007acc",
		Secondary:      "#666666",
	},
	ThemeDark: {
		Name:           ThemeDark,
		Background:     "#2b2b2b",
		Text:           "#ffffff",
		CardBackground: "#3c3c3c",
		Border:         "#555555",
		Primary:        "#4a9eff",
		Secondary:      "#cccccc",
	},
}

// LookupTheme returns the named palette. The empty name selects light.
func LookupTheme(name string) (Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = ThemeLight
	}
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return t, nil
}

// ThemeNames returns the built-in theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
