// Package metrics provides timing instrumentation for sv.
//
// It answers where time goes when a large catalog is opened: decoding
// model files, assembling the catalog, building pane trees, computing
// rankings and rendering frames.
//
// Samples are kept in memory only. Collection is on unless SV_METRICS=0;
// the report is printed only when --metrics asks for it.
package metrics

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

// EnvVar disables collection when set to "0".
const EnvVar = "SV_METRICS"

// enabled is read concurrently by loader goroutines.
var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv(EnvVar) != "0")
}

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric aggregates durations for one named stage. It is safe
// for concurrent use; loader workers record into the same metric.
type TimingMetric struct {
	name string

	mu    sync.Mutex
	count int64
	total time.Duration
	min   time.Duration
	max   time.Duration
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one sample. It is a no-op while collection is disabled.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 || d < m.min {
		m.min = d
	}
	if d > m.max {
		m.max = d
	}
	m.count++
	m.total += d
}

func (m *TimingMetric) Name() string { return m.name }

func (m *TimingMetric) Count() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *TimingMetric) MinNs() int64 { return m.Stats().minNs }
func (m *TimingMetric) MaxNs() int64 { return m.Stats().maxNs }

// AvgNs is zero until the first sample.
func (m *TimingMetric) AvgNs() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.count == 0 {
		return 0
	}
	return int64(m.total) / m.count
}

// Stats snapshots the metric under a single lock.
func (m *TimingMetric) Stats() TimingStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := TimingStats{
		Name:    m.name,
		Count:   m.count,
		TotalMs: millis(m.total),
		MaxMs:   millis(m.max),
		MinMs:   millis(m.min),
		minNs:   int64(m.min),
		maxNs:   int64(m.max),
	}
	if m.count > 0 {
		s.AvgMs = millis(m.total / time.Duration(m.count))
	}
	return s
}

func (m *TimingMetric) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count, m.total, m.min, m.max = 0, 0, 0, 0
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// TimingStats is a point-in-time copy of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`

	minNs, maxNs int64
}

// Timer starts timing m and returns the function that stops it:
//
//	defer metrics.Timer(metrics.Export)()
func Timer(m *TimingMetric) func() {
	return TimerWithCallback(m, nil)
}

// TimerWithCallback is Timer that also hands the elapsed time to cb,
// which the loader uses to log stage durations.
func TimerWithCallback(m *TimingMetric, cb func(time.Duration)) func() {
	if m == nil || !Enabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		d := time.Since(start)
		m.Record(d)
		if cb != nil {
			cb(d)
		}
	}
}

// registry holds the stage metrics in report order.
var registry []*TimingMetric

func register(name string) *TimingMetric {
	m := newTimingMetric(name)
	registry = append(registry, m)
	return m
}

// Stage metrics recorded across the loader, tree builder, rankings,
// exporter and UI.
var (
	JSONParsing    = register("json_parsing")
	CatalogLoad    = register("catalog_load")
	TaxonomyLoad   = register("taxonomy_load")
	TreeBuild      = register("tree_build")
	RankingCompute = register("ranking_compute")
	Export         = register("export")
	UIRender       = register("ui_render")
)

func ResetAll() {
	for _, m := range registry {
		m.Reset()
	}
}

// AllTimingStats returns the stages that recorded at least one sample,
// slowest total first.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range registry {
		if s := m.Stats(); s.Count > 0 {
			stats = append(stats, s)
		}
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].TotalMs > stats[j].TotalMs })
	return stats
}

// WriteReport prints a table of every metric with data, as shown by
// --metrics when the program exits.
func WriteReport(w io.Writer) error {
	stats := AllTimingStats()
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "no timing data recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "metric\tcount\ttotal ms\tavg ms\tmax ms\t")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.3f\t%.3f\t\n", s.Name, s.Count, s.TotalMs, s.AvgMs, s.MaxMs)
	}
	return tw.Flush()
}
