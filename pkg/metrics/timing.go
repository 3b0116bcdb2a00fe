// Package metrics records how long the table pipeline stages and data loads
// take. Samples are kept in atomics so loader goroutines and the UI loop can
// record at the same time.
//
// Recording is on unless TT_METRICS=0; tt --metrics turns it back on.
//
//	defer metrics.Timer(metrics.SortStage)()
package metrics

import (
	"os"
	"sync/atomic"
	"time"
)

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv("TT_METRICS") != "0")
}

// Enabled reports whether samples are being recorded.
func Enabled() bool { return enabled.Load() }

// SetEnabled switches recording on or off for every stage.
func SetEnabled(on bool) { enabled.Store(on) }

// Stage accumulates durations for one named step.
type Stage struct {
	name  string
	count atomic.Int64
	total atomic.Int64
	max   atomic.Int64
	min   atomic.Int64 // 0 until the first sample
}

func newStage(name string) *Stage {
	return &Stage{name: name}
}

// Name returns the key used in the --metrics report.
func (s *Stage) Name() string { return s.name }

// Count returns the number of samples.
func (s *Stage) Count() int64 { return s.count.Load() }

// Record adds one sample. It is a no-op while recording is off.
func (s *Stage) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	s.count.Add(1)
	s.total.Add(ns)
	for cur := s.max.Load(); ns > cur; cur = s.max.Load() {
		if s.max.CompareAndSwap(cur, ns) {
			break
		}
	}
	for cur := s.min.Load(); cur == 0 || ns < cur; cur = s.min.Load() {
		if s.min.CompareAndSwap(cur, ns) {
			break
		}
	}
}

// Reset drops every sample.
func (s *Stage) Reset() {
	s.count.Store(0)
	s.total.Store(0)
	s.max.Store(0)
	s.min.Store(0)
}

// Stats copies the current figures in milliseconds.
func (s *Stage) Stats() TimingStats {
	count, total := s.count.Load(), s.total.Load()
	st := TimingStats{
		Name:    s.name,
		Count:   count,
		TotalMs: ms(total),
		MaxMs:   ms(s.max.Load()),
		MinMs:   ms(s.min.Load()),
	}
	if count > 0 {
		st.AvgMs = ms(total / count)
	}
	return st
}

func ms(ns int64) float64 { return float64(ns) / 1e6 }

// TimingStats is one entry of the --metrics report.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts a measurement and returns the func that records it.
func Timer(s *Stage) func() {
	if s == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() { s.Record(time.Since(start)) }
}

var (
	FilterStage   = newStage("filter")
	BuildStage    = newStage("build_tree")
	SortStage     = newStage("sort_tree")
	PaginateStage = newStage("paginate")
	FlattenStage  = newStage("flatten")
	RecordLoad    = newStage("record_load")
	UIRender      = newStage("ui_render")
)

// Stages lists every stage in report order.
func Stages() []*Stage {
	return []*Stage{FilterStage, BuildStage, SortStage, PaginateStage, FlattenStage, RecordLoad, UIRender}
}

// ResetAll clears every stage.
func ResetAll() {
	for _, s := range Stages() {
		s.Reset()
	}
}

// AllTimingStats returns the stats of the stages that have samples.
func AllTimingStats() []TimingStats {
	var out []TimingStats
	for _, s := range Stages() {
		if s.Count() > 0 {
			out = append(out, s.Stats())
		}
	}
	return out
}
