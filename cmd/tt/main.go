package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/treetable/internal/datasource"
	"github.com/vanderheijden86/treetable/pkg/config"
	"github.com/vanderheijden86/treetable/pkg/debug"
	"github.com/vanderheijden86/treetable/pkg/export"
	"github.com/vanderheijden86/treetable/pkg/hooks"
	"github.com/vanderheijden86/treetable/pkg/loader"
	"github.com/vanderheijden86/treetable/pkg/metrics"
	"github.com/vanderheijden86/treetable/pkg/model"
	"github.com/vanderheijden86/treetable/pkg/settings"
	"github.com/vanderheijden86/treetable/pkg/table"
	_ "github.com/vanderheijden86/treetable/pkg/ttyguard"
	"github.com/vanderheijden86/treetable/pkg/ui"
	"github.com/vanderheijden86/treetable/pkg/version"
	"github.com/vanderheijden86/treetable/pkg/watcher"
)

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// stdoutIsTerminal is replaced in tests.
var stdoutIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

type options struct {
	configPath string
	data       string
	perPage    int
	filter     string
	sort       string
	desc       bool
	page       int
	expand     string
	expandAll  bool
	robotView  bool
	exportMD   string
	noHooks    bool
	setup      bool
	watch      bool
	version    bool
	cpuProfile string
	metrics    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Config file (default ~/.config/tt/config.yaml)")
	fs.StringVar(&o.data, "data", "", "Comma-separated data files (.json, .jsonl, .db); empty uses generated data")
	fs.IntVar(&o.perPage, "per-page", 0, "Top-level rows per page (default from config)")
	fs.StringVar(&o.filter, "filter", "", "Status filter: all, active or inactive")
	fs.StringVar(&o.sort, "sort", "", "Sort column: balance or email")
	fs.BoolVar(&o.desc, "desc", false, "Sort descending")
	fs.IntVar(&o.page, "page", 1, "Initial page")
	fs.StringVar(&o.expand, "expand", "", "Comma-separated ids to expand")
	fs.BoolVar(&o.expandAll, "expand-all", false, "Expand every parent")
	fs.BoolVar(&o.robotView, "robot-view", false, "Print the current page as JSON and exit")
	fs.StringVar(&o.exportMD, "export-md", "", "Write the current page as Markdown to FILE and exit")
	fs.BoolVar(&o.noHooks, "no-hooks", false, "Skip export hooks from hooks.yaml")
	fs.BoolVar(&o.setup, "setup", false, "Run the interactive configuration wizard")
	fs.BoolVar(&o.watch, "watch", false, "Reload when a data file changes")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.StringVar(&o.cpuProfile, "cpu-profile", "", "Write CPU profile to file")
	fs.BoolVar(&o.metrics, "metrics", false, "Print pipeline timings as JSON to stderr on exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: tt [options]")
		fmt.Fprintln(stderr, "\nA terminal table for parent/child records.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	// CPU profiling support
	if o.cpuProfile != "" {
		f, err := os.Create(o.cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return exitError
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return exitError
		}
		defer pprof.StopCPUProfile()
	}

	if o.version {
		fmt.Fprintf(stdout, "tt %s\n", version.Version)
		return exitOK
	}

	cfgPath := o.configPath
	if cfgPath == "" {
		cfgPath = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(cfgPath)
	if err != nil {
		// Non-fatal: continue with defaults
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	if o.setup {
		return runSetup(cfg, cfgPath, stdout, stderr)
	}

	state, err := buildState(o, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	paths := cfg.Data.Sources
	if o.data != "" {
		paths = config.ParseSources(o.data)
	}
	sources, err := datasource.DetectAll(paths)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	loadOpts := datasource.Options{
		Mock: mockConfig(cfg.Data.Mock),
		Parse: loader.ParseOptions{
			WarningHandler: func(msg string) { fmt.Fprintf(stderr, "Warning: %s\n", msg) },
		},
	}

	if o.metrics {
		metrics.SetEnabled(true)
		metrics.ResetAll()
		defer writeMetrics(stderr)
	}

	if o.robotView || o.exportMD != "" {
		loadOpts.Mock.Latency = 0
		return runHeadless(o, state, sources, loadOpts, stdout, stderr)
	}

	if !stdoutIsTerminal() {
		fmt.Fprintln(stderr, "stdout is not a terminal. Use --robot-view for JSON output or --export-md FILE for Markdown.")
		return exitUsage
	}

	return runInteractive(o, cfg, state, sources, loadOpts, stderr)
}

// writeMetrics prints every timing that recorded at least one sample.
func writeMetrics(w io.Writer) {
	stats := metrics.AllTimingStats()
	if stats == nil {
		stats = []metrics.TimingStats{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{"timings": stats}); err != nil {
		debug.Log("metrics: %v", err)
	}
}

// buildState applies the command-line view options to a fresh table state.
func buildState(o options, cfg config.Config) (*table.State, error) {
	perPage := cfg.UI.ItemsPerPage
	if o.perPage > 0 {
		perPage = o.perPage
	}
	state := table.New(perPage)

	filter, err := model.ParseFilter(o.filter)
	if err != nil {
		return nil, err
	}
	if filter.IsSet() {
		state.SetFilter(filter)
	}

	field, err := model.ParseSortField(o.sort)
	if err != nil {
		return nil, err
	}
	if field != model.SortFieldNone {
		order := model.SortAscending
		if o.desc {
			order = model.SortDescending
		}
		state.SetSort(model.SortState{Field: field, Order: order})
	}

	ids, err := parseIDs(o.expand)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		state.SetExpanded(ids...)
	}
	state.SetPage(o.page)
	return state, nil
}

func parseIDs(s string) ([]int, error) {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q in --expand", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func mockConfig(c config.MockConfig) loader.MockConfig {
	m := loader.DefaultMockConfig()
	m.Seed = c.Seed
	if c.Roots > 0 {
		m.Roots = c.Roots
	}
	if c.MaxChildren > 0 {
		m.MaxChildren = c.MaxChildren
	}
	m.Latency = c.Latency
	return m
}

func fetchFunc(sources []datasource.DataSource, opts datasource.Options) ui.FetchFunc {
	return func(ctx context.Context) ([]model.Record, error) {
		records, errs, err := datasource.LoadSources(ctx, sources, opts)
		for _, e := range errs {
			debug.Log("load: %v", e)
		}
		return records, err
	}
}

func runHeadless(o options, state *table.State, sources []datasource.DataSource, opts datasource.Options, stdout, stderr io.Writer) int {
	records, errs, err := datasource.LoadSources(context.Background(), sources, opts)
	for _, e := range errs {
		fmt.Fprintf(stderr, "Warning: %v\n", e)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error loading data: %v\n", err)
		return exitError
	}
	state.SetRecords(records)
	if o.expandAll {
		state.ExpandAll()
	}

	if o.exportMD != "" {
		if code := exportMarkdown(o, state, stdout, stderr); code != exitOK {
			return code
		}
	}
	if o.robotView {
		if err := export.WriteRobotView(stdout, export.BuildRobotView(state, time.Now())); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
	}
	return exitOK
}

func exportMarkdown(o options, state *table.State, stdout, stderr io.Writer) int {
	ectx := hooks.ExportContext{
		ExportPath:   o.exportMD,
		ExportFormat: "markdown",
		RecordCount:  len(state.View().Filtered),
		Timestamp:    time.Now(),
	}
	executor, err := hooks.RunHooks(config.ConfigDir(), ectx, o.noHooks)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading hooks: %v\n", err)
		return exitError
	}
	if executor != nil {
		if err := executor.RunPreExport(); err != nil {
			fmt.Fprintf(stderr, "Export cancelled: %v\n", err)
			return exitError
		}
	}

	if err := export.SaveMarkdownToFile(state, o.exportMD, "Tree table export"); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	if !o.robotView {
		fmt.Fprintf(stdout, "Wrote %s\n", o.exportMD)
	}

	if executor != nil {
		if err := executor.RunPostExport(); err != nil {
			fmt.Fprintf(stderr, "Warning: %v\n", err)
		}
		fmt.Fprintln(stderr, executor.Summary())
	}
	return exitOK
}

func runSetup(cfg config.Config, path string, stdout, stderr io.Writer) int {
	if path == "" {
		fmt.Fprintln(stderr, "Error: no config directory available")
		return exitError
	}
	next, err := config.NewWizard(cfg).Run()
	if err != nil {
		fmt.Fprintf(stderr, "Setup cancelled: %v\n", err)
		return exitError
	}
	if err := config.SaveTo(next, path); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	fmt.Fprintf(stdout, "Saved %s\n", path)
	return exitOK
}

func runInteractive(o options, cfg config.Config, state *table.State, sources []datasource.DataSource, opts datasource.Options, stderr io.Writer) int {
	// The alt screen hides stderr, so debug output goes to a file.
	if debug.Enabled() {
		if f, err := openDebugLog(config.StateDir()); err == nil {
			defer f.Close()
			debug.SetOutput(f)
			fmt.Fprintf(stderr, "Debug log: %s\n", f.Name())
		}
	}

	store := settings.NewFileStore(settings.DefaultPath(config.StateDir()))
	prefs, err := settings.Load(store, settings.ParseTheme(cfg.UI.Theme))
	if err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}

	var group *watcher.Group
	if paths := datasource.Paths(sources); (o.watch || cfg.Watch) && len(paths) > 0 {
		group, err = watcher.NewGroup(paths)
		if err == nil {
			err = group.Start()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Warning: live reload disabled: %v\n", err)
			group = nil
		} else {
			defer group.Stop()
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := ui.NewModel(state, ui.Options{
		Context:         ctx,
		Fetch:           fetchFunc(sources, opts),
		Settings:        prefs,
		Watcher:         group,
		Title:           title(sources),
		ExpandAllOnLoad: o.expandAll,
	})
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(stderr, "Error running tt: %v\n", err)
		return exitError
	}
	return exitOK
}

func openDebugLog(dir string) (*os.File, error) {
	if dir == "" {
		return nil, errors.New("no state directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func title(sources []datasource.DataSource) string {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		if s.IsFile() {
			names = append(names, filepath.Base(s.Path))
		} else {
			names = append(names, s.String())
		}
	}
	return "Tree table · " + strings.Join(names, ", ")
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TT_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TT_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
