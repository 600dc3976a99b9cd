package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"formsmith/internal/answers"
	"formsmith/internal/collector"
	"formsmith/internal/data"
	"formsmith/internal/driver"
	"formsmith/internal/pool"
	"formsmith/internal/progress"
	"formsmith/internal/ratelimit"
	"formsmith/internal/retry"
	"formsmith/internal/schema"
	"formsmith/internal/session"
)

const (
	ExitSuccess = 0
	ExitError   = 2
)

func main() {
	url := flag.String("url", "", "form URL to submit to (required)")
	count := flag.Int("count", 125, "total number of submissions")
	workers := flag.Int("workers", 4, "number of concurrent browser workers")
	headless := flag.Bool("headless", true, "run browsers headless")
	schemaPath := flag.String("schema", "", "path to YAML form schema (default: built-in survey)")
	dataPath := flag.String("data", "", "path to CSV or JSON participant profiles")
	dataMode := flag.String("data-mode", "random", "profile selection: sequential, random")
	maxRetries := flag.Int("max-retries", retry.DefaultMaxRetries, "retries per submission after a recoverable failure")
	backoff := flag.Duration("backoff", retry.DefaultBackoff, "wait between attempts of one submission")
	rps := flag.Int("rps", 0, "max submission starts per second (0 = unpaced)")
	timeout := flag.Duration("timeout", 30*time.Second, "page navigation timeout")
	output := flag.String("output", "text", "output format: text, json")
	quiet := flag.Bool("quiet", false, "suppress progress output during the run")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	logFile := flag.String("log-file", "", "also write logs to this file")
	flag.Parse()

	if *url == "" {
		fmt.Fprintln(os.Stderr, "error: --url is required")
		flag.Usage()
		os.Exit(ExitError)
	}
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "error: --count must be >= 1")
		os.Exit(ExitError)
	}
	if *workers < 1 {
		fmt.Fprintln(os.Stderr, "error: --workers must be >= 1")
		os.Exit(ExitError)
	}
	if *output != "text" && *output != "json" {
		fmt.Fprintf(os.Stderr, "error: --output must be 'text' or 'json', got %q\n", *output)
		os.Exit(ExitError)
	}
	mode := data.Mode(*dataMode)
	if mode != data.ModeSequential && mode != data.ModeRandom {
		fmt.Fprintf(os.Stderr, "error: --data-mode must be 'sequential' or 'random', got %q\n", *dataMode)
		os.Exit(ExitError)
	}

	log, logClose, err := buildLogger(*verbose, *quiet, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(ExitError)
	}
	defer logClose()

	form := schema.Default()
	if *schemaPath != "" {
		form, err = schema.Load(*schemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	}

	profiles := data.New(nil, mode)
	if *dataPath != "" {
		profiles, err = data.Load(*dataPath, mode)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(ExitError)
		}
	}

	factory := driver.NewFactory(driver.Options{
		Headless:   *headless,
		NavTimeout: *timeout,
	})
	if err := factory.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "error: browser runtime unavailable: %v\n", err)
		os.Exit(ExitError)
	}
	defer factory.Shutdown()

	coll := collector.NewCollector()
	gen := answers.NewGenerator(form, profiles)
	sess := session.New(factory, gen, coll, log, session.Config{URL: *url})
	runner := retry.New(retry.Policy{MaxRetries: *maxRetries, Backoff: *backoff}, sess, log)

	limiter := ratelimit.New(*rps)
	p := pool.New(*workers, runner,
		pool.WithReporter(coll),
		pool.WithLimiter(limiter),
		pool.WithLogger(log))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		if !*quiet {
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down...")
		}
		cancel()
	}()

	prog := progress.NewProgress(coll, *count, *quiet)
	prog.SetActiveFunc(p.State().Active)
	prog.Printf("Formsmith starting: %d submissions, %d workers, form %q",
		*count, *workers, form.Name)

	prog.Start()
	summary := p.Run(ctx, *count)
	coll.Close()
	prog.Stop()

	log.Info("run finished",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"total", summary.Total)

	metrics := coll.Compute()
	if *output == "json" {
		collector.FormatJSON(os.Stdout, metrics)
	} else {
		collector.FormatText(os.Stdout, metrics)
	}

	os.Exit(ExitSuccess)
}

// buildLogger wires slog to stderr, optionally teeing to a file.
// Logging stays off unless asked for so it does not fight the
// progress line.
func buildLogger(verbose, quiet bool, logFile string) (*slog.Logger, func(), error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	if quiet && logFile == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	closeFn := func() {}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		closeFn = func() { f.Close() }
		if quiet {
			w = f
		} else {
			w = io.MultiWriter(os.Stderr, f)
		}
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), closeFn, nil
}
