package driver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"formsmith/internal/core"
)

// Button label variants observed across form locales and themes.
var (
	nextLabels   = []string{"Next", "Continue"}
	submitLabels = []string{"Submit", "Send", "Submit form"}
)

// confirmationPhrases mark a successful submission when present in the
// rendered confirmation page.
var confirmationPhrases = []string{
	"Your response has been recorded",
	"Thanks for submitting",
	"Response recorded",
	"Thank you for your response",
}

// confirmationURLMark appears in the post-submit URL of the reference
// form platform even when the page text is customized away.
const confirmationURLMark = "formResponse"

// Navigate loads the form URL and waits for a form element to render.
func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	if _, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(millis(d.opts.NavTimeout)),
	}); err != nil {
		return core.Faultf(core.ClassNavigation, "loading %s: %v", url, err)
	}
	if _, err := d.page.WaitForSelector("form", playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(d.opts.NavTimeout)),
	}); err != nil {
		if isTimeout(err) {
			return core.Faultf(core.ClassSchemaAbsent, "no form element rendered at %s", url)
		}
		return core.Faultf(core.ClassNavigation, "waiting for form: %v", err)
	}
	return nil
}

// ProbeSchema inspects the loaded page and verifies it exposes a
// fillable question structure.
func (d *Driver) ProbeSchema(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	raw, err := d.page.Evaluate(probeScript)
	if err != nil {
		return core.Faultf(core.ClassNavigation, "probing page structure: %v", err)
	}
	text, ok := raw.(string)
	if !ok {
		return core.Faultf(core.ClassNavigation, "probe returned %T, want string", raw)
	}
	probe, err := parseProbe(text)
	if err != nil {
		return core.NewFault(core.ClassNavigation, err)
	}
	if !probe.Fillable() {
		return core.Faultf(core.ClassSchemaAbsent,
			"page exposes no fillable questions (form=%v questions=%d inputs=%d)",
			probe.HasForm, probe.Questions, probe.Inputs)
	}
	return nil
}

// locate waits for the question container holding the given prompt text.
func (d *Driver) locate(prompt string) (playwright.ElementHandle, error) {
	sel := "xpath=" + questionXPath(prompt)
	handle, err := d.page.WaitForSelector(sel, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(d.opts.FieldTimeout)),
	})
	if err != nil {
		return nil, core.Faultf(core.ClassFieldNotFound, "question %q not found on page", prompt)
	}
	// Forms lazy-render offscreen sections; bring the question into view
	// before interacting with it.
	_ = handle.ScrollIntoViewIfNeeded()
	return handle, nil
}

// FillText types a value into the text input of the named question.
func (d *Driver) FillText(ctx context.Context, prompt, value string) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	container, err := d.locate(prompt)
	if err != nil {
		return err
	}
	input, err := container.QuerySelector(
		"input[type='text'], input[type='email'], input[type='number'], input:not([type]), textarea")
	if err != nil || input == nil {
		return core.Faultf(core.ClassFieldNotFound, "question %q has no text input", prompt)
	}
	if err := input.Fill(value); err != nil {
		return core.Faultf(core.ClassFieldNotFound, "filling %q: %v", prompt, err)
	}
	return nil
}

// SelectChoice clicks the radio option matching the given label within
// the named question.
func (d *Driver) SelectChoice(ctx context.Context, prompt, option string) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	container, err := d.locate(prompt)
	if err != nil {
		return err
	}
	radios, err := container.QuerySelectorAll("div[role='radio'], input[type='radio']")
	if err != nil || len(radios) == 0 {
		return core.Faultf(core.ClassFieldNotFound, "question %q has no options", prompt)
	}
	for _, radio := range radios {
		label, _ := radio.GetAttribute("aria-label")
		if label == "" {
			label, _ = radio.GetAttribute("data-value")
		}
		if !labelMatches(label, option) {
			text, _ := radio.TextContent()
			if !labelMatches(text, option) {
				continue
			}
		}
		return d.click(radio, prompt)
	}
	return core.Faultf(core.ClassFieldNotFound, "question %q has no option %q", prompt, option)
}

// SetCheckbox drives the checkbox of the named question to the wanted state.
func (d *Driver) SetCheckbox(ctx context.Context, prompt string, checked bool) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	container, err := d.locate(prompt)
	if err != nil {
		return err
	}
	box, err := container.QuerySelector("div[role='checkbox'], input[type='checkbox']")
	if err != nil || box == nil {
		return core.Faultf(core.ClassFieldNotFound, "question %q has no checkbox", prompt)
	}
	state, _ := box.GetAttribute("aria-checked")
	if (state == "true") == checked {
		return nil
	}
	return d.click(box, prompt)
}

// click clicks an element, falling back to a scripted click when the
// native one is intercepted by an overlay.
func (d *Driver) click(el playwright.ElementHandle, prompt string) error {
	if err := el.Click(playwright.ElementHandleClickOptions{
		Timeout: playwright.Float(millis(d.opts.FieldTimeout)),
	}); err == nil {
		return nil
	}
	if _, err := d.page.Evaluate("el => el.click()", el); err != nil {
		return core.Faultf(core.ClassFieldNotFound, "clicking within %q: %v", prompt, err)
	}
	return nil
}

// NextSection advances the form to its next section.
func (d *Driver) NextSection(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	if _, err := d.page.Evaluate("() => window.scrollTo(0, document.body.scrollHeight)"); err == nil {
		d.page.WaitForTimeout(200)
	}
	button, err := d.findButton(nextLabels)
	if err != nil {
		return core.Faultf(core.ClassNavigation, "next button not found: %v", err)
	}
	if err := d.click(button, "next section"); err != nil {
		return core.Faultf(core.ClassNavigation, "advancing section: %v", err)
	}
	d.page.WaitForTimeout(500)
	return nil
}

// Submit presses the form's submit button.
func (d *Driver) Submit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	button, err := d.findButton(submitLabels)
	if err != nil {
		return core.Faultf(core.ClassNavigation, "submit button not found: %v", err)
	}
	if err := d.click(button, "submit"); err != nil {
		return core.Faultf(core.ClassNavigation, "submitting form: %v", err)
	}
	return nil
}

// findButton locates the first visible button carrying one of the labels.
func (d *Driver) findButton(labels []string) (playwright.ElementHandle, error) {
	sel := "xpath=" + buttonXPath(labels)
	return d.page.WaitForSelector(sel, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(d.opts.FieldTimeout)),
	})
}

// AwaitConfirmation waits until the page shows a recognized confirmation
// phrase or the URL carries the confirmation marker.
func (d *Driver) AwaitConfirmation(ctx context.Context, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return core.NewFault(core.ClassCancelled, err)
	}
	sel := "xpath=" + confirmationXPath(confirmationPhrases)
	_, err := d.page.WaitForSelector(sel, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(millis(timeout)),
	})
	if err == nil {
		return nil
	}
	if strings.Contains(d.page.URL(), confirmationURLMark) {
		return nil
	}
	return core.Faultf(core.ClassUnconfirmed, "no confirmation after submit (url %s)", d.page.URL())
}

// questionXPath builds the locator for the container of a question
// identified by its prompt text.
func questionXPath(prompt string) string {
	lit := xpathLiteral(prompt)
	return fmt.Sprintf("//div[@role='listitem'][contains(., %s)]", lit)
}

// buttonXPath matches a button-role element whose visible text equals
// one of the labels.
func buttonXPath(labels []string) string {
	parts := make([]string, 0, len(labels)*2)
	for _, label := range labels {
		lit := xpathLiteral(label)
		parts = append(parts,
			fmt.Sprintf("//div[@role='button'][.//span[normalize-space(.)=%s]]", lit),
			fmt.Sprintf("//button[normalize-space(.)=%s]", lit))
	}
	return strings.Join(parts, " | ")
}

// confirmationXPath matches any element containing one of the phrases.
func confirmationXPath(phrases []string) string {
	parts := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		parts = append(parts, fmt.Sprintf("//*[contains(., %s)]", xpathLiteral(phrase)))
	}
	return strings.Join(parts, " | ")
}

// xpathLiteral quotes s as an XPath string literal. XPath 1.0 has no
// escape syntax, so strings holding both quote kinds are assembled with
// concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	var b strings.Builder
	b.WriteString("concat(")
	for i, part := range strings.Split(s, "'") {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + part + "'")
	}
	b.WriteString(")")
	return b.String()
}

// labelMatches reports whether an element label corresponds to the
// wanted option, tolerating surrounding whitespace.
func labelMatches(label, option string) bool {
	label = strings.TrimSpace(label)
	return label != "" && strings.EqualFold(label, strings.TrimSpace(option))
}
