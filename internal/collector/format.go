package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"formsmith/internal/core"
)

// FormatText writes the run summary in human-readable form.
func FormatText(w io.Writer, m *Metrics) {
	if m.Total == 0 {
		fmt.Fprintln(w, "No submissions completed")
		return
	}

	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Formsmith - Submission Results")
	fmt.Fprintln(w, "==============================")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Duration:     %v\n", m.RunDuration.Round(time.Millisecond))
	fmt.Fprintf(w, "Submissions:  %d\n", m.Total)
	fmt.Fprintf(w, "Succeeded:    %d\n", m.Succeeded)
	fmt.Fprintf(w, "Failed:       %d\n", m.Failed)
	fmt.Fprintf(w, "Success rate: %.1f%%\n", m.SuccessRate)
	fmt.Fprintf(w, "Retries:      %d\n", m.Retries)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Submission Times:")
	fmt.Fprintf(w, "  Min:  %s\n", formatDuration(m.Submission.Min))
	fmt.Fprintf(w, "  Avg:  %s\n", formatDuration(m.Submission.Avg))
	fmt.Fprintf(w, "  P50:  %s\n", formatDuration(m.Submission.P50))
	fmt.Fprintf(w, "  P95:  %s\n", formatDuration(m.Submission.P95))
	fmt.Fprintf(w, "  Max:  %s\n", formatDuration(m.Submission.Max))

	if len(m.ByClass) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "Failures by class:")
		for _, class := range sortedClasses(m.ByClass) {
			fmt.Fprintf(w, "  %-16s %d\n", string(class), m.ByClass[class])
		}
	}

	if len(m.States) > 0 {
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "By State:")
		for _, state := range sortedStates(m.States) {
			sm := m.States[state]
			fmt.Fprintf(w, "  %-40s %4d runs   avg=%s  p95=%s\n",
				state, sm.Count, formatDuration(sm.Duration.Avg), formatDuration(sm.Duration.P95))
		}
	}
}

// FormatJSON writes the run summary as indented JSON.
func FormatJSON(w io.Writer, m *Metrics) {
	output := struct {
		Duration    string               `json:"duration"`
		Total       int                  `json:"total"`
		Succeeded   int                  `json:"succeeded"`
		Failed      int                  `json:"failed"`
		SuccessRate float64              `json:"successRate"`
		Retries     int                  `json:"retries"`
		Submission  jsonDuration         `json:"submissionTimes"`
		ByClass     map[string]int       `json:"failuresByClass"`
		States      map[string]jsonState `json:"states"`
	}{
		Duration:    m.RunDuration.Round(time.Millisecond).String(),
		Total:       m.Total,
		Succeeded:   m.Succeeded,
		Failed:      m.Failed,
		SuccessRate: m.SuccessRate,
		Retries:     m.Retries,
		Submission:  toJSONDuration(m.Submission),
		ByClass:     make(map[string]int, len(m.ByClass)),
		States:      make(map[string]jsonState, len(m.States)),
	}

	for class, n := range m.ByClass {
		output.ByClass[string(class)] = n
	}
	for state, sm := range m.States {
		output.States[state] = jsonState{
			Count:    sm.Count,
			Failed:   sm.Failed,
			Duration: toJSONDuration(sm.Duration),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	_ = encoder.Encode(output) // stdout errors are unrecoverable
}

type jsonDuration struct {
	Min string `json:"min"`
	Max string `json:"max"`
	Avg string `json:"avg"`
	P50 string `json:"p50"`
	P95 string `json:"p95"`
}

type jsonState struct {
	Count    int          `json:"count"`
	Failed   int          `json:"failed"`
	Duration jsonDuration `json:"durations"`
}

func toJSONDuration(d DurationMetrics) jsonDuration {
	return jsonDuration{
		Min: formatDuration(d.Min),
		Max: formatDuration(d.Max),
		Avg: formatDuration(d.Avg),
		P50: formatDuration(d.P50),
		P95: formatDuration(d.P95),
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return d.String()
	}
}

func sortedClasses(byClass map[core.Class]int) []core.Class {
	classes := make([]core.Class, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	return classes
}

func sortedStates(states map[string]*StateMetrics) []string {
	names := make([]string, 0, len(states))
	for s := range states {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}
