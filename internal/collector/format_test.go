package collector

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"formsmith/internal/core"
)

func sampleMetrics() *Metrics {
	return &Metrics{
		Total:       10,
		Succeeded:   8,
		Failed:      2,
		SuccessRate: 80.0,
		Retries:     3,
		RunDuration: 90 * time.Second,
		Submission: DurationMetrics{
			Min: 4 * time.Second, Max: 20 * time.Second,
			Avg: 9 * time.Second, P50: 8 * time.Second, P95: 18 * time.Second,
		},
		ByClass: map[core.Class]int{
			core.ClassUnconfirmed:  1,
			core.ClassSchemaAbsent: 1,
		},
		States: map[string]*StateMetrics{
			"navigate": {Count: 12, Failed: 1, Duration: DurationMetrics{Avg: time.Second}},
		},
	}
}

func TestFormatText(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, sampleMetrics())
	out := buf.String()

	for _, want := range []string{
		"Submissions:  10",
		"Succeeded:    8",
		"Failed:       2",
		"Success rate: 80.0%",
		"Retries:      3",
		"unconfirmed",
		"schema_absent",
		"navigate",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatText(&buf, &Metrics{})
	if !strings.Contains(buf.String(), "No submissions completed") {
		t.Errorf("unexpected empty output: %s", buf.String())
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	FormatJSON(&buf, sampleMetrics())

	var parsed struct {
		Total       int            `json:"total"`
		Succeeded   int            `json:"succeeded"`
		Failed      int            `json:"failed"`
		SuccessRate float64        `json:"successRate"`
		ByClass     map[string]int `json:"failuresByClass"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if parsed.Total != 10 || parsed.Succeeded != 8 || parsed.Failed != 2 {
		t.Errorf("parsed = %+v", parsed)
	}
	if parsed.ByClass["unconfirmed"] != 1 {
		t.Errorf("ByClass = %v", parsed.ByClass)
	}
}

func TestFormatDurationUnits(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{2500 * time.Millisecond, "2.50s"},
		{250 * time.Millisecond, "250ms"},
		{250 * time.Microsecond, "250µs"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
