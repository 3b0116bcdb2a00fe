package ui

import (
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/settings"
)

// Presentation descriptors map state to the glyphs and labels the table shows.
// They are pure so the renderer and tests agree on one mapping.

const (
	indicatorUnsorted = "⇅"
	indicatorDropdown = "▾"
	indicatorFiltered = "●"
)

// SortIndicator returns ▲ or ▼ when field is the active sort column, ⇅ otherwise.
func SortIndicator(state model.SortState, field model.SortField) string {
	if state.IsSet() && state.Field == field {
		return state.Order.Indicator()
	}
	return indicatorUnsorted
}

// ExpandIndicator returns ▾ for an expanded parent, ▸ for a collapsed one and
// nothing for a leaf.
func ExpandIndicator(hasChildren, expanded bool) string {
	switch {
	case !hasChildren:
		return ""
	case expanded:
		return "▾"
	default:
		return "▸"
	}
}

// StatusLabel is the badge text for a record's activity flag.
func StatusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// ThemeIcon shows the mode the toggle switches to: a moon while light, a sun while dark.
func ThemeIcon(t settings.Theme) string {
	if t == settings.ThemeDark {
		return "☀"
	}
	return "☾"
}

// FilterLabel is the dropdown caption for a filter value.
func FilterLabel(f model.FilterState) string {
	switch {
	case !f.IsSet():
		return "All"
	case *f.IsActive:
		return "Active"
	default:
		return "Inactive"
	}
}
