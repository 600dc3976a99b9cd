package driver

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// probeScript runs inside the page and summarizes its question
// structure as a JSON string.
const probeScript = `() => JSON.stringify({
	form: !!document.querySelector('form'),
	questions: document.querySelectorAll("div[role='listitem']").length,
	inputs: document.querySelectorAll(
		"input[type='text'], input[type='email'], input[type='number'], textarea, " +
		"div[role='radio'], input[type='radio'], div[role='checkbox'], input[type='checkbox']").length,
})`

// probeResult is the parsed outcome of probeScript.
type probeResult struct {
	HasForm   bool
	Questions int
	Inputs    int
}

// Fillable reports whether the probed page can accept a submission.
func (p probeResult) Fillable() bool {
	return p.HasForm && p.Questions > 0 && p.Inputs > 0
}

// parseProbe decodes the JSON summary produced by probeScript.
func parseProbe(raw string) (probeResult, error) {
	if !gjson.Valid(raw) {
		return probeResult{}, fmt.Errorf("invalid probe payload %q", raw)
	}
	doc := gjson.Parse(raw)
	if !doc.IsObject() {
		return probeResult{}, fmt.Errorf("probe payload is not an object: %q", raw)
	}
	return probeResult{
		HasForm:   doc.Get("form").Bool(),
		Questions: int(doc.Get("questions").Int()),
		Inputs:    int(doc.Get("inputs").Int()),
	}, nil
}
