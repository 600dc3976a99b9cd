package collector

import (
	"testing"
	"time"

	"formsmith/internal/core"
)

func TestComputeMetricsEmpty(t *testing.T) {
	m := ComputeMetrics(nil, time.Second)
	if m.Total != 0 || m.SuccessRate != 0 {
		t.Errorf("unexpected metrics for empty events: %+v", m)
	}
	if m.ByClass == nil || m.States == nil {
		t.Error("maps must be initialized")
	}
}

func TestComputeMetricsTally(t *testing.T) {
	events := []core.Event{
		terminalEvent(true, core.ClassNone, 0, 2*time.Second),
		terminalEvent(true, core.ClassNone, 1, 4*time.Second),
		terminalEvent(false, core.ClassUnconfirmed, 2, 6*time.Second),
		terminalEvent(false, core.ClassCancelled, 0, time.Second),
	}

	m := ComputeMetrics(events, time.Minute)

	if m.Total != 4 || m.Succeeded != 2 || m.Failed != 2 {
		t.Fatalf("tally = %d/%d/%d", m.Total, m.Succeeded, m.Failed)
	}
	if m.SuccessRate != 50.0 {
		t.Errorf("SuccessRate = %.1f, want 50.0", m.SuccessRate)
	}
	if m.Retries != 3 {
		t.Errorf("Retries = %d, want 3", m.Retries)
	}
	if m.ByClass[core.ClassUnconfirmed] != 1 || m.ByClass[core.ClassCancelled] != 1 {
		t.Errorf("ByClass = %v", m.ByClass)
	}
	if m.Submission.Min != time.Second || m.Submission.Max != 6*time.Second {
		t.Errorf("Submission = %+v", m.Submission)
	}
}

func TestComputeMetricsStateTimings(t *testing.T) {
	events := []core.Event{
		{State: "navigate", Success: true, Duration: 100 * time.Millisecond},
		{State: "navigate", Success: false, Duration: 300 * time.Millisecond},
		{State: "submit", Success: true, Duration: 50 * time.Millisecond},
	}

	m := ComputeMetrics(events, time.Second)

	nav := m.States["navigate"]
	if nav == nil || nav.Count != 2 || nav.Failed != 1 {
		t.Fatalf("navigate metrics = %+v", nav)
	}
	if nav.Duration.Avg != 200*time.Millisecond {
		t.Errorf("navigate avg = %v", nav.Duration.Avg)
	}
	if m.Total != 0 {
		t.Errorf("transitions must not count as submissions, Total = %d", m.Total)
	}
}

func TestPercentileNearestRank(t *testing.T) {
	durations := []time.Duration{
		1 * time.Second, 2 * time.Second, 3 * time.Second, 4 * time.Second, 5 * time.Second,
	}
	d := computeDurationMetrics(durations)

	if d.P50 != 3*time.Second {
		t.Errorf("P50 = %v, want 3s", d.P50)
	}
	if d.P95 != 4*time.Second {
		t.Errorf("P95 = %v, want 4s (nearest rank)", d.P95)
	}
	if d.Avg != 3*time.Second {
		t.Errorf("Avg = %v, want 3s", d.Avg)
	}
}
