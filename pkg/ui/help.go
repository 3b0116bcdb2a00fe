package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/pkg/settings"
)

const helpIntro = `# Tree table

Records are grouped under their parent. Only top-level rows are paginated;
children always stay on the page of their root.

Changing the status filter collapses every row and returns to page 1.
Sorting applies to every level and keeps the current page and expansion.

`

// HelpModel is the scrollable keyboard reference overlay.
type HelpModel struct {
	viewport viewport.Model
	theme    Theme
	keys     KeyMap
	markdown string
}

// NewHelpModel renders the key reference for the given size and theme.
func NewHelpModel(keys KeyMap, theme Theme, width, height int) HelpModel {
	h := HelpModel{keys: keys, theme: theme, markdown: helpMarkdown(keys)}
	h.SetSize(width, height)
	return h
}

// SetSize re-wraps the content for a new terminal size.
func (h *HelpModel) SetSize(width, height int) {
	boxWidth := min(max(width-4, 30), 80)
	boxHeight := max(height-4, 8)
	h.viewport = viewport.New(boxWidth, boxHeight)
	h.viewport.SetContent(renderMarkdown(h.markdown, h.theme.Mode, boxWidth-4))
}

// Update scrolls the viewport.
func (h HelpModel) Update(msg tea.Msg) (HelpModel, tea.Cmd) {
	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return h, cmd
}

// View renders the overlay box.
func (h HelpModel) View() string {
	return h.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.theme.Primary).
		Render(h.viewport.View())
}

// helpMarkdown builds a key reference table from the bindings.
func helpMarkdown(keys KeyMap) string {
	var sb strings.Builder
	sb.WriteString(helpIntro)
	sb.WriteString("| Key | Action |\n|-----|--------|\n")
	for _, group := range keys.FullHelp() {
		for _, b := range group {
			writeBindingRow(&sb, b)
		}
	}
	sb.WriteString("\nPress **?** or **esc** to close.\n")
	return sb.String()
}

func writeBindingRow(sb *strings.Builder, b key.Binding) {
	h := b.Help()
	if h.Key == "" {
		return
	}
	sb.WriteString("| `")
	sb.WriteString(h.Key)
	sb.WriteString("` | ")
	sb.WriteString(h.Desc)
	sb.WriteString(" |\n")
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func renderMarkdown(md string, mode settings.Theme, width int) string {
	style := "light"
	if mode == settings.ThemeDark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n ")
}
