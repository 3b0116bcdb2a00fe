// Package settings persists user preferences, currently the colour theme,
// through a small key/value Store.
package settings

import (
	"fmt"
	"strings"
)

// Theme is the colour scheme of the UI.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

// ThemeKey is the store key holding the theme preference.
const ThemeKey = "theme"

func (t Theme) String() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps "dark" to ThemeDark and anything else to ThemeLight.
func ParseTheme(s string) Theme {
	if strings.EqualFold(strings.TrimSpace(s), "dark") {
		return ThemeDark
	}
	return ThemeLight
}

// Store is a string key/value store. Get reports ok=false for a missing key.
type Store interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Settings is the loaded preference set bound to its store.
type Settings struct {
	store Store
	theme Theme
}

// Load reads preferences from store. A missing theme falls back to fallback.
// A read error still returns usable Settings alongside the error.
func Load(store Store, fallback Theme) (*Settings, error) {
	s := &Settings{store: store, theme: fallback}
	if store == nil {
		return s, nil
	}
	v, ok, err := store.Get(ThemeKey)
	if err != nil {
		return s, fmt.Errorf("reading theme: %w", err)
	}
	if ok {
		s.theme = ParseTheme(v)
	}
	return s, nil
}

// Theme returns the current theme.
func (s *Settings) Theme() Theme { return s.theme }

// SetTheme changes and persists the theme. Writing the unchanged value is a
// no-op. On a write failure the in-memory theme still changes.
func (s *Settings) SetTheme(t Theme) error {
	if t == s.theme {
		return nil
	}
	s.theme = t
	if s.store == nil {
		return nil
	}
	if err := s.store.Set(ThemeKey, t.String()); err != nil {
		return fmt.Errorf("saving theme: %w", err)
	}
	return nil
}

// ToggleTheme flips the theme and persists it.
func (s *Settings) ToggleTheme() (Theme, error) {
	next := s.theme.Toggle()
	return next, s.SetTheme(next)
}
