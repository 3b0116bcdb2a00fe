package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/pkg/model"
)

// FilterPickerModel is the status filter dropdown (all / active / inactive).
type FilterPickerModel struct {
	options       []model.FilterState
	current       model.FilterState
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewFilterPickerModel opens the picker with the current filter highlighted.
func NewFilterPickerModel(current model.FilterState, theme Theme) FilterPickerModel {
	options := []model.FilterState{
		model.FilterAll(),
		model.FilterActive(true),
		model.FilterActive(false),
	}

	selectedIdx := 0
	for i, f := range options {
		if f.Equal(current) {
			selectedIdx = i
			break
		}
	}

	return FilterPickerModel{
		options:       options,
		current:       current,
		selectedIndex: selectedIdx,
		theme:         theme,
	}
}

// SetSize updates the picker dimensions
func (m *FilterPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up
func (m *FilterPickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down
func (m *FilterPickerModel) MoveDown() {
	if m.selectedIndex < len(m.options)-1 {
		m.selectedIndex++
	}
}

// Selected returns the highlighted filter.
func (m *FilterPickerModel) Selected() model.FilterState {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.options) {
		return m.options[m.selectedIndex]
	}
	return model.FilterAll()
}

// View renders the picker overlay
func (m *FilterPickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 30
	if m.width < 40 {
		boxWidth = m.width - 10
	}
	if boxWidth < 20 {
		boxWidth = 20
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true)
	lines = append(lines, titleStyle.Render("Filter by status"))
	lines = append(lines, "")

	for i, f := range m.options {
		isSelected := i == m.selectedIndex

		itemStyle := t.Renderer.NewStyle()
		if isSelected {
			itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
		} else {
			itemStyle = itemStyle.Foreground(t.Base.GetForeground())
		}

		prefix := "  "
		if isSelected {
			prefix = "> "
		}

		suffix := ""
		if f.Equal(m.current) {
			suffix = " " + t.SecondaryText.Render("✓")
		}

		lines = append(lines, itemStyle.Render(prefix+FilterLabel(f))+suffix)
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k: navigate | enter: apply | esc: cancel"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}
