package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WizardAnswers are the raw form values, kept as strings the way the form
// edits them.
type WizardAnswers struct {
	ItemsPerPage string
	Theme        string
	Sources      string
	Watch        bool
	MockRoots    string
}

// Wizard walks the user through writing config.yaml.
type Wizard struct {
	base    Config
	answers WizardAnswers
}

// NewWizard starts from base, usually the currently loaded config.
func NewWizard(base Config) *Wizard {
	return &Wizard{
		base: base,
		answers: WizardAnswers{
			ItemsPerPage: strconv.Itoa(base.UI.ItemsPerPage),
			Theme:        base.UI.Theme,
			Sources:      strings.Join(base.Data.Sources, ","),
			Watch:        base.Watch,
			MockRoots:    strconv.Itoa(base.Data.Mock.Roots),
		},
	}
}

// Answers returns the current form values.
func (w *Wizard) Answers() *WizardAnswers { return &w.answers }

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// Run shows the form and returns the resulting config. Nothing is saved.
func (w *Wizard) Run() (Config, error) {
	fmt.Println("")
	fmt.Println("tt setup")
	fmt.Println("────────")
	fmt.Println("")

	a := &w.answers
	if a.Theme == "" {
		a.Theme = "light"
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Rows per page").
				Description("Top-level rows shown on each page").
				Value(&a.ItemsPerPage).
				Validate(validatePositiveInt),
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Light", "light"),
					huh.NewOption("Dark", "dark"),
				).
				Value(&a.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Data sources").
				Description("Comma-separated .json, .jsonl or .db files; empty uses generated data").
				Value(&a.Sources).
				Validate(validateSources),
			huh.NewConfirm().
				Title("Reload when a source changes?").
				Value(&a.Watch),
			huh.NewInput().
				Title("Generated roots").
				Description("Size of the generated dataset when no source is set").
				Value(&a.MockRoots).
				Validate(validatePositiveInt),
		),
	)

	if err := form.Run(); err != nil {
		return w.base, err
	}
	return w.Apply()
}

// Apply converts the answers into a config on top of the base config.
func (w *Wizard) Apply() (Config, error) {
	cfg := w.base
	a := w.answers

	perPage, err := parsePositiveInt(a.ItemsPerPage)
	if err != nil {
		return cfg, fmt.Errorf("rows per page: %w", err)
	}
	roots, err := parsePositiveInt(a.MockRoots)
	if err != nil {
		return cfg, fmt.Errorf("generated roots: %w", err)
	}

	cfg.UI.ItemsPerPage = perPage
	cfg.UI.Theme = strings.ToLower(strings.TrimSpace(a.Theme))
	cfg.Data.Sources = ParseSources(a.Sources)
	cfg.Data.Mock.Roots = roots
	cfg.Watch = a.Watch
	return cfg, nil
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

func validatePositiveInt(s string) error {
	_, err := parsePositiveInt(s)
	return err
}

func validateSources(s string) error {
	for _, p := range ParseSources(s) {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}
