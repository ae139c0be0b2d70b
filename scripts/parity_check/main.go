package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/noah-isme/tutor-center-api/internal/parity"
)

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:5000", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5001", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", "", "Path to JSON targets file (defaults to the read-only collection routes)")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := parity.LoadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	checker := &parity.Checker{
		Client:     &http.Client{Timeout: timeout},
		GoBase:     goBase,
		LegacyBase: legacyBase,
	}
	results := checker.Run(context.Background(), targets)
	parity.WriteReport(os.Stdout, results)

	if breaking, _ := parity.Summary(results); breaking > 0 {
		os.Exit(1)
	}
}
