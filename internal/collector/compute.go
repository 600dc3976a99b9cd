package collector

import (
	"sort"
	"time"

	"formsmith/internal/core"
)

// Metrics contains the aggregated results of one run.
type Metrics struct {
	Total       int
	Succeeded   int
	Failed      int
	SuccessRate float64
	Retries     int
	RunDuration time.Duration

	// Duration statistics over whole submissions (terminal events).
	Submission DurationMetrics

	// ByClass counts failed tasks per failure class.
	ByClass map[core.Class]int

	// States carries per-state timing from transition events.
	States map[string]*StateMetrics
}

// DurationMetrics contains latency statistics.
type DurationMetrics struct {
	Min time.Duration `json:"min"`
	Max time.Duration `json:"max"`
	Avg time.Duration `json:"avg"`
	P50 time.Duration `json:"p50"`
	P95 time.Duration `json:"p95"`
}

// StateMetrics contains per-state statistics.
type StateMetrics struct {
	Count    int
	Failed   int
	Duration DurationMetrics
}

// ComputeMetrics computes metrics from events. Pure function, no side effects.
func ComputeMetrics(events []core.Event, runDuration time.Duration) *Metrics {
	m := &Metrics{
		RunDuration: runDuration,
		ByClass:     make(map[core.Class]int),
		States:      make(map[string]*StateMetrics),
	}

	var submissionDurations []time.Duration
	stateDurations := make(map[string][]time.Duration)

	for _, e := range events {
		if e.Terminal {
			m.Total++
			if e.Success {
				m.Succeeded++
			} else {
				m.Failed++
				m.ByClass[e.Class]++
			}
			m.Retries += e.Attempt
			submissionDurations = append(submissionDurations, e.Duration)
			continue
		}

		sm, ok := m.States[e.State]
		if !ok {
			sm = &StateMetrics{}
			m.States[e.State] = sm
		}
		sm.Count++
		if !e.Success {
			sm.Failed++
		}
		stateDurations[e.State] = append(stateDurations[e.State], e.Duration)
	}

	if m.Total > 0 {
		m.SuccessRate = float64(m.Succeeded) / float64(m.Total) * 100
	}
	m.Submission = computeDurationMetrics(submissionDurations)
	for state, durations := range stateDurations {
		m.States[state].Duration = computeDurationMetrics(durations)
	}

	return m
}

// percentile uses the nearest-rank method over an ascending-sorted slice.
func percentile(sorted []time.Duration, p float64) time.Duration {
	switch {
	case len(sorted) == 0:
		return 0
	case p <= 0:
		return sorted[0]
	case p >= 1:
		return sorted[len(sorted)-1]
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}

func computeDurationMetrics(durations []time.Duration) DurationMetrics {
	if len(durations) == 0 {
		return DurationMetrics{}
	}

	sorted := make([]time.Duration, len(durations))
	copy(sorted, durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var total time.Duration
	for _, d := range sorted {
		total += d
	}

	return DurationMetrics{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: total / time.Duration(len(sorted)),
		P50: percentile(sorted, 0.50),
		P95: percentile(sorted, 0.95),
	}
}
