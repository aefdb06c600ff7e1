package demo

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/asierra0203/sail-recs-v1/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "demo_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the demo tool.
func ShowHelp() {
	os.Stdout.WriteString(`Sailing Recommendation Demo Tool
================================

A concurrent tool for exercising the sailing recommendation service
end to end: dataset upload, run submission, result polling and
ordering verification.

Usage:
  go run cmd/demo-run/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -rows int
        Number of sailing rows to generate for the dataset (default 1000)
  -runs int
        Number of recommendation runs to submit (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for the generated dataset (default: generated_sailings_TIMESTAMP.json)
  -log string
        Log file for demo output (default: demo_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Demo with default settings
  go run cmd/demo-run/main.go

  # Demo with custom parameters
  go run cmd/demo-run/main.go -rows 10000 -runs 500 -workers 16 -url http://localhost:8080

  # Demo with verbose output
  go run cmd/demo-run/main.go -verbose -runs 50

  # Demo with custom log file
  go run cmd/demo-run/main.go -runs 200 -log my_demo.log
`)
}
