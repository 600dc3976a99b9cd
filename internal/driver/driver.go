// Package driver implements the form driver on Playwright-controlled
// Chromium. Each acquired driver owns a private browser instance; the
// factory holds the single Playwright runtime shared by all workers.
package driver

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"formsmith/internal/core"
)

// Options configures browser instances.
type Options struct {
	Headless     bool
	NavTimeout   time.Duration // page navigation and form render wait
	FieldTimeout time.Duration // bounded wait when locating one field
}

const (
	defaultNavTimeout   = 30 * time.Second
	defaultFieldTimeout = 10 * time.Second

	viewportWidth  = 1280
	viewportHeight = 720
)

func (o Options) withDefaults() Options {
	if o.NavTimeout <= 0 {
		o.NavTimeout = defaultNavTimeout
	}
	if o.FieldTimeout <= 0 {
		o.FieldTimeout = defaultFieldTimeout
	}
	return o
}

// Factory launches one browser per Acquire call. Implements
// core.DriverFactory.
type Factory struct {
	opts Options

	mu      sync.Mutex
	pw      *playwright.Playwright
	started bool
}

// NewFactory creates a factory; call Start before Acquire.
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts.withDefaults()}
}

// Start installs and boots the Playwright runtime. A failure here is a
// fatal startup error: no submission can ever succeed without it.
func (f *Factory) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return nil
	}

	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	// Download of the browser bundle is a no-op when already present.
	if err := playwright.Install(runOpts); err != nil {
		return core.Faultf(core.ClassResource, "installing playwright: %v", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return core.Faultf(core.ClassResource, "starting playwright: %v", err)
	}
	f.pw = pw
	f.started = true
	return nil
}

// Acquire launches a fresh isolated Chromium instance.
func (f *Factory) Acquire(ctx context.Context) (core.FormDriver, error) {
	f.mu.Lock()
	pw, started := f.pw, f.started
	f.mu.Unlock()
	if !started {
		return nil, core.Faultf(core.ClassResource, "driver factory not started")
	}
	if err := ctx.Err(); err != nil {
		return nil, core.NewFault(core.ClassCancelled, err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(f.opts.Headless),
	})
	if err != nil {
		return nil, core.Faultf(core.ClassResource, "launching browser: %v", err)
	}

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: viewportWidth, Height: viewportHeight},
	})
	if err != nil {
		browser.Close()
		return nil, core.Faultf(core.ClassResource, "creating browser context: %v", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		browser.Close()
		return nil, core.Faultf(core.ClassResource, "opening page: %v", err)
	}
	page.SetDefaultTimeout(millis(f.opts.FieldTimeout))

	return &Driver{
		browser: browser,
		context: browserCtx,
		page:    page,
		opts:    f.opts,
	}, nil
}

// Shutdown stops the Playwright runtime. Drivers must be closed first.
func (f *Factory) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		return nil
	}
	f.started = false
	return f.pw.Stop()
}

// Driver drives the target form in one browser instance. Implements
// core.FormDriver. Not safe for concurrent use; each session attempt
// owns its driver exclusively.
type Driver struct {
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	opts    Options

	closeOnce sync.Once
}

// Close releases the page, context, and browser. Safe to call more than once.
func (d *Driver) Close() error {
	d.closeOnce.Do(func() {
		// Best effort, continue cleanup on error.
		_ = d.page.Close()
		_ = d.context.Close()
		_ = d.browser.Close()
	})
	return nil
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

// isTimeout reports whether a Playwright error is a wait/navigation
// timeout rather than a structural failure.
func isTimeout(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "timeout")
}
