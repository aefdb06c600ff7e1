package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/demo"
)

// Default configuration constants.
const (
	defaultNumRows     = 1000
	defaultNumRuns     = 100
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultDemoTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numRows    = flag.Int("rows", defaultNumRows, "Number of sailing rows to generate")
		numRuns    = flag.Int("runs", defaultNumRuns, "Number of recommendation runs to submit")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile = flag.String("output", "", "Output file for the generated dataset (default: generated_sailings_TIMESTAMP.json)")
		logFile    = flag.String("log", "", "Log file for demo output (default: demo_log_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		demo.ShowHelp()
		return
	}

	// Setup logging
	if err := demo.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultDemoTimeout)
	defer cancel()

	// Create demo configuration
	config := &demo.Config{
		BaseURL:    *baseURL,
		NumRows:    *numRows,
		NumRuns:    *numRuns,
		Workers:    *workers,
		Timeout:    *timeout,
		OutputFile: *outputFile,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the demo
	if err := demo.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Demo failed: " + err.Error() + "\n")
		return
	}
}
