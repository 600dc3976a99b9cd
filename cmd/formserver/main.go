// Command formserver runs a mock survey server for exercising the
// submission pipeline locally.
//
// Usage:
//
//	formserver [flags]
//
// Flags:
//
//	-addr       Address to listen on (default: localhost:8080)
//	-schema     YAML form schema to render (default: built-in survey)
//	-fail-rate  Percentage of submissions rejected with 500
//	-delay      Delay applied to every submission
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"formsmith/internal/schema"
	"formsmith/testserver"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "address to listen on")
	schemaPath := flag.String("schema", "", "path to YAML form schema (default: built-in survey)")
	failRate := flag.Int("fail-rate", 0, "percentage of submissions to reject with 500")
	delay := flag.Duration("delay", 0, "delay applied to every submission")
	flag.Parse()

	form := schema.Default()
	if *schemaPath != "" {
		loaded, err := schema.Load(*schemaPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(2)
		}
		form = loaded
	}

	server := testserver.NewServer(form, testserver.Config{
		FailRate: *failRate,
		Delay:    *delay,
	})

	fmt.Println("Formsmith Mock Survey Server")
	fmt.Println("============================")
	fmt.Printf("Listening on http://%s\n\n", *addr)
	fmt.Printf("Form: %q (%d sections, %d fields)\n", form.Name, len(form.Sections), form.FieldCount())
	if *failRate > 0 {
		fmt.Printf("Failure injection: %d%% of submissions\n", *failRate)
	}
	if *delay > 0 {
		fmt.Printf("Submission delay: %v\n", *delay)
	}
	fmt.Println()
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /         - Survey form page")
	fmt.Println("  POST /submit   - Record a submission")
	fmt.Println("  GET  /stats    - Submission counters as JSON")
	fmt.Println("  GET  /health   - Health check")
	fmt.Println()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		os.Exit(0)
	}()

	log.Fatal(http.ListenAndServe(*addr, server.Handler()))
}
