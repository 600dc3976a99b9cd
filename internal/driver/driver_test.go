package driver

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProbe(t *testing.T) {
	probe, err := parseProbe(`{"form":true,"questions":9,"inputs":12}`)
	require.NoError(t, err)
	assert.True(t, probe.HasForm)
	assert.Equal(t, 9, probe.Questions)
	assert.Equal(t, 12, probe.Inputs)
	assert.True(t, probe.Fillable())
}

func TestParseProbeRejectsMalformedPayload(t *testing.T) {
	for _, raw := range []string{"", "not json", `"just a string"`, "[1,2,3]"} {
		_, err := parseProbe(raw)
		assert.Error(t, err, "payload %q", raw)
	}
}

func TestProbeFillable(t *testing.T) {
	tests := []struct {
		name  string
		probe probeResult
		want  bool
	}{
		{"complete", probeResult{HasForm: true, Questions: 3, Inputs: 5}, true},
		{"no form element", probeResult{Questions: 3, Inputs: 5}, false},
		{"no questions", probeResult{HasForm: true, Inputs: 5}, false},
		{"questions without inputs", probeResult{HasForm: true, Questions: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.probe.Fillable())
		})
	}
}

func TestXPathLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Full Name", "'Full Name'"},
		{"I'm sure", `"I'm sure"`},
		{`say "hi"`, `'say "hi"'`},
		{`it's "both"`, `concat('it', "'", 's "both"')`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, xpathLiteral(tt.in))
	}
}

func TestQuestionXPathEmbedsPrompt(t *testing.T) {
	xp := questionXPath("E-mail ID")
	assert.Contains(t, xp, "@role='listitem'")
	assert.Contains(t, xp, "'E-mail ID'")
}

func TestButtonXPathCoversAllLabels(t *testing.T) {
	xp := buttonXPath([]string{"Next", "Continue"})
	assert.Contains(t, xp, "'Next'")
	assert.Contains(t, xp, "'Continue'")
	assert.Contains(t, xp, "@role='button'")
	// Alternation between div-role buttons and native buttons.
	assert.Equal(t, 3, strings.Count(xp, " | "))
}

func TestConfirmationXPathCoversAllPhrases(t *testing.T) {
	xp := confirmationXPath(confirmationPhrases)
	for _, phrase := range confirmationPhrases {
		assert.Contains(t, xp, phrase)
	}
}

func TestLabelMatches(t *testing.T) {
	assert.True(t, labelMatches("Often", "Often"))
	assert.True(t, labelMatches("  often ", "Often"))
	assert.False(t, labelMatches("", "Often"))
	assert.False(t, labelMatches("Sometimes", "Often"))
}

func TestIsTimeout(t *testing.T) {
	assert.True(t, isTimeout(errors.New("Timeout 10000ms exceeded")))
	assert.True(t, isTimeout(errors.New("waiting for selector: timeout")))
	assert.False(t, isTimeout(errors.New("target closed")))
	assert.False(t, isTimeout(nil))
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, 30*time.Second, opts.NavTimeout)
	assert.Equal(t, 10*time.Second, opts.FieldTimeout)

	custom := Options{NavTimeout: time.Second, FieldTimeout: 2 * time.Second}.withDefaults()
	assert.Equal(t, time.Second, custom.NavTimeout)
	assert.Equal(t, 2*time.Second, custom.FieldTimeout)
}
