package styles

import (
	"testing"
)

const builtinThemes = 12

func TestGetThemeByName(t *testing.T) {
	theme := GetThemeByName("solarized-dark")
	if theme == nil {
		t.Fatal("GetThemeByName('solarized-dark') returned nil")
	}
	if theme.Name != "Solarized Dark" {
		t.Errorf("expected name 'Solarized Dark', got %q", theme.Name)
	}
}

func TestGetThemeByNameMissing(t *testing.T) {
	theme := GetThemeByName("nonexistent")
	if theme != nil {
		t.Error("expected nil for nonexistent theme")
	}
}

func TestListThemes(t *testing.T) {
	themes := ListThemes()
	if len(themes) != builtinThemes {
		t.Errorf("expected %d themes, got %d", builtinThemes, len(themes))
	}
	for i := 1; i < len(themes); i++ {
		if themes[i-1] >= themes[i] {
			t.Errorf("themes not sorted: %q before %q", themes[i-1], themes[i])
		}
	}
}

func TestThemeCount(t *testing.T) {
	count := GetThemeCount()
	if count != builtinThemes {
		t.Errorf("expected %d themes, got %d", builtinThemes, count)
	}
}

func TestGetThemeByIndex(t *testing.T) {
	theme := GetThemeByIndex(0)
	if theme == nil {
		t.Fatal("GetThemeByIndex(0) returned nil")
	}
}

func TestGetThemeIndexRoundTrip(t *testing.T) {
	idx := GetThemeIndex("nord")
	if idx < 0 {
		t.Fatal("GetThemeIndex('nord') returned -1")
	}
	theme := GetThemeByIndex(idx)
	if theme == nil || theme.Name != "Nord" {
		t.Errorf("expected Nord at index %d, got %+v", idx, theme)
	}
	if GetThemeIndex("missing") != -1 {
		t.Error("expected -1 for unknown slug")
	}
	if GetThemeByIndex(GetThemeCount()) != nil {
		t.Error("expected nil past the end")
	}
}

func TestDefaultTheme(t *testing.T) {
	if DefaultTheme.Name != "Solarized Dark" {
		t.Errorf("expected default 'Solarized Dark', got %q", DefaultTheme.Name)
	}
}

func TestResolveFallsBack(t *testing.T) {
	if got := Resolve("dracula"); got.Name != "Dracula" {
		t.Errorf("expected Dracula, got %q", got.Name)
	}
	if got := Resolve("nonexistent"); got.Name != DefaultTheme.Name {
		t.Errorf("expected default theme for unknown slug, got %q", got.Name)
	}
}

func TestNextWraps(t *testing.T) {
	slugs := ListThemes()
	slug, theme := Next(slugs[len(slugs)-1])
	if slug != slugs[0] {
		t.Errorf("expected wrap to %q, got %q", slugs[0], slug)
	}
	if theme.Name != Themes[slugs[0]].Name {
		t.Errorf("theme and slug disagree: %q vs %q", theme.Name, slug)
	}
	if slug, _ := Next("missing"); slug != slugs[0] {
		t.Errorf("unknown slug should start at %q, got %q", slugs[0], slug)
	}
}
