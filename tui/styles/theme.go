package styles

import (
	"maps"
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// DefaultSlug names the theme used when none is configured or the configured
// one doesn't exist.
const DefaultSlug = "solarized-dark"

// Theme represents a Base16 color scheme.
type Theme struct {
	Name   string
	Base00 lipgloss.Color // Background
	Base01 lipgloss.Color // Lighter background
	Base02 lipgloss.Color // Selection
	Base03 lipgloss.Color // Comments / dim
	Base04 lipgloss.Color // Light foreground
	Base05 lipgloss.Color // Foreground
	Base06 lipgloss.Color // Light foreground
	Base07 lipgloss.Color // Light background
	Base08 lipgloss.Color // Red
	Base09 lipgloss.Color // Orange
	Base0A lipgloss.Color // Yellow
	Base0B lipgloss.Color // Green
	Base0C lipgloss.Color // Cyan
	Base0D lipgloss.Color // Blue
	Base0E lipgloss.Color // Magenta
	Base0F lipgloss.Color // Brown
}

var (
	DefaultTheme = Themes[DefaultSlug]
	sortedSlugs  = slices.Sorted(maps.Keys(Themes))
)

// GetThemeByName returns a theme by its slug, or nil if not found.
func GetThemeByName(name string) *Theme {
	t, ok := Themes[name]
	if !ok {
		return nil
	}
	return &t
}

// Resolve returns the theme for slug, or DefaultTheme when slug is unknown.
func Resolve(slug string) Theme {
	if t, ok := Themes[slug]; ok {
		return t
	}
	return DefaultTheme
}

// Next returns the slug and theme that follow slug in sorted order, wrapping
// at the end. An unknown slug starts from the first theme.
func Next(slug string) (string, Theme) {
	next := sortedSlugs[(GetThemeIndex(slug)+1)%len(sortedSlugs)]
	return next, Themes[next]
}

// ListThemes returns sorted theme slugs.
func ListThemes() []string {
	return slices.Clone(sortedSlugs)
}

// GetThemeCount returns the total number of available themes.
func GetThemeCount() int {
	return len(Themes)
}

// GetThemeByIndex returns a theme at the given sorted index.
func GetThemeByIndex(idx int) *Theme {
	if idx < 0 || idx >= len(sortedSlugs) {
		return nil
	}
	t := Themes[sortedSlugs[idx]]
	return &t
}

// GetThemeIndex returns the sorted index of a theme slug, or -1.
func GetThemeIndex(slug string) int {
	return slices.Index(sortedSlugs, slug)
}
