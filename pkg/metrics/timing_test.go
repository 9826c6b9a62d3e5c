package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimingMetric_Record(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(2 * time.Millisecond)
	m.Record(4 * time.Millisecond)

	s := m.Stats()
	if s.Count != 2 {
		t.Fatalf("count = %d, want 2", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 4 || s.AvgMs != 3 {
		t.Errorf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 || m.MinNs() != 0 || m.AvgNs() != 0 {
		t.Errorf("reset did not clear: %+v", m.Stats())
	}
}

func TestTimingMetric_Concurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			m.Record(time.Duration(n) * time.Microsecond)
		}(i)
	}
	wg.Wait()

	if m.Count() != 50 {
		t.Errorf("count = %d, want 50", m.Count())
	}
	if m.MinNs() != int64(time.Microsecond) || m.MaxNs() != int64(50*time.Microsecond) {
		t.Errorf("min/max = %d/%d", m.MinNs(), m.MaxNs())
	}
}

func TestDisabled(t *testing.T) {
	was := Enabled()
	t.Cleanup(func() { SetEnabled(was) })
	SetEnabled(false)

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Millisecond)
	if m.Count() != 0 {
		t.Errorf("disabled metric recorded %d samples", m.Count())
	}
}

func TestTimerWithCallback(t *testing.T) {
	was := Enabled()
	t.Cleanup(func() { SetEnabled(was) })
	SetEnabled(true)

	m := newTimingMetric("cb")
	var got time.Duration
	stop := TimerWithCallback(m, func(d time.Duration) { got = d })
	time.Sleep(time.Millisecond)
	stop()

	if got <= 0 || m.Count() != 1 {
		t.Errorf("callback duration %v, count %d", got, m.Count())
	}
	if Timer(nil) == nil {
		t.Error("Timer(nil) must return a callable no-op")
	}
}

func TestWriteReport(t *testing.T) {
	was := Enabled()
	t.Cleanup(func() {
		SetEnabled(was)
		ResetAll()
	})
	SetEnabled(true)
	ResetAll()

	var buf bytes.Buffer
	if err := WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no timing data") {
		t.Errorf("empty report: %q", buf.String())
	}

	RankingCompute.Record(3 * time.Millisecond)
	buf.Reset()
	if err := WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "ranking_compute") || strings.Contains(out, "tree_build") {
		t.Errorf("report should list only metrics with data:\n%s", out)
	}
	if n := len(AllTimingStats()); n != 1 {
		t.Errorf("AllTimingStats len = %d, want 1", n)
	}
}
