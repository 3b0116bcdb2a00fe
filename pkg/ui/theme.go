package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treetable/pkg/settings"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme is the resolved palette and pre-built styles for one light/dark mode.
type Theme struct {
	Renderer *lipgloss.Renderer
	Mode     settings.Theme

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Zebra     lipgloss.AdaptiveColor

	// Status
	Active   lipgloss.AdaptiveColor
	Inactive lipgloss.AdaptiveColor
	Danger   lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
	Striped  lipgloss.Style

	// Pre-computed row styles, created once per theme instead of per frame
	MutedText     lipgloss.Style
	SecondaryText lipgloss.Style
	PrimaryBold   lipgloss.Style
	ActiveBadge   lipgloss.Style
	InactiveBadge lipgloss.Style
	ErrorBanner   lipgloss.Style
	FilterDot     lipgloss.Style
}

// NewTheme builds the theme for mode. The renderer's dark-background flag is
// forced to match mode so adaptive colors resolve to the chosen palette.
func NewTheme(r *lipgloss.Renderer, mode settings.Theme) Theme {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	r.SetHasDarkBackground(mode == settings.ThemeDark)

	t := Theme{
		Renderer: r,
		Mode:     mode,

		// Dracula / light equivalent
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: ColorBgHighlight,
		Muted:     ColorMuted,
		Zebra:     ColorBgSubtle,

		Active:   ColorSuccess,
		Inactive: ColorDanger,
		Danger:   ColorDanger,
	}

	t.Base = r.NewStyle().Foreground(ColorText)

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true)

	t.Striped = r.NewStyle().Background(t.Zebra)

	t.MutedText = r.NewStyle().Foreground(t.Muted)
	t.SecondaryText = r.NewStyle().Foreground(t.Secondary)
	t.PrimaryBold = r.NewStyle().Foreground(t.Primary).Bold(true)
	t.ActiveBadge = r.NewStyle().Foreground(t.Active).Background(ColorActiveBg).Bold(true)
	t.InactiveBadge = r.NewStyle().Foreground(t.Inactive).Background(ColorInactiveBg)
	t.ErrorBanner = r.NewStyle().
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Background(t.Danger).
		Bold(true).
		Padding(0, 1)
	t.FilterDot = r.NewStyle().Foreground(ColorWarning).Bold(true)

	return t
}

// Toggle returns the theme for the opposite mode on the same renderer.
func (t Theme) Toggle() Theme {
	return NewTheme(t.Renderer, t.Mode.Toggle())
}

// StatusStyle returns the badge style for a record's activity flag.
func (t Theme) StatusStyle(active bool) lipgloss.Style {
	if active {
		return t.ActiveBadge
	}
	return t.InactiveBadge
}

// TestTheme returns a light theme suitable for use in tests.
func TestTheme() Theme {
	return NewTheme(lipgloss.NewRenderer(os.Stdout), settings.ThemeLight)
}
