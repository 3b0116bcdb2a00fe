package ui

import (
	"testing"

	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/settings"
)

func TestSortIndicator(t *testing.T) {
	tests := []struct {
		name  string
		state model.SortState
		field model.SortField
		want  string
	}{
		{"unsorted", model.SortState{}, model.SortFieldBalance, "⇅"},
		{"active asc", model.SortState{Field: model.SortFieldBalance, Order: model.SortAscending}, model.SortFieldBalance, "▲"},
		{"active desc", model.SortState{Field: model.SortFieldEmail, Order: model.SortDescending}, model.SortFieldEmail, "▼"},
		{"other column", model.SortState{Field: model.SortFieldEmail, Order: model.SortDescending}, model.SortFieldBalance, "⇅"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SortIndicator(tt.state, tt.field); got != tt.want {
				t.Errorf("SortIndicator = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandIndicator(t *testing.T) {
	tests := []struct {
		hasChildren, expanded bool
		want                  string
	}{
		{false, false, ""},
		{false, true, ""},
		{true, false, "▸"},
		{true, true, "▾"},
	}
	for _, tt := range tests {
		if got := ExpandIndicator(tt.hasChildren, tt.expanded); got != tt.want {
			t.Errorf("ExpandIndicator(%v, %v) = %q, want %q", tt.hasChildren, tt.expanded, got, tt.want)
		}
	}
}

func TestStatusAndThemeLabels(t *testing.T) {
	if StatusLabel(true) != "Active" || StatusLabel(false) != "Inactive" {
		t.Error("unexpected status labels")
	}
	if ThemeIcon(settings.ThemeLight) == ThemeIcon(settings.ThemeDark) {
		t.Error("theme icons should differ per mode")
	}
	if FilterLabel(model.FilterAll()) != "All" ||
		FilterLabel(model.FilterActive(true)) != "Active" ||
		FilterLabel(model.FilterActive(false)) != "Inactive" {
		t.Error("unexpected filter labels")
	}
}
