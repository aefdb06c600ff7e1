package demo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/asierra0203/sail-recs-v1/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete recommendation demo.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting recommendation demo",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rows", config.NumRows),
		logger.Int("runs", config.NumRuns),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate sailing rows
	rows, err := generateRows(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("row generation failed: %w", err)
	}

	// Step 3: Upload the dataset
	datasetID, err := uploadDataset(ctx, config, rows)
	if err != nil {
		return fmt.Errorf("dataset upload failed: %w", err)
	}

	// Step 4: Generate and submit recommendation runs concurrently
	requests := generateRunRequests(ctx, config, datasetID)
	if err := submitRuns(ctx, config, requests, stats); err != nil {
		return fmt.Errorf("run submission failed: %w", err)
	}

	// Step 5: Poll results concurrently
	results, err := retrieveResults(ctx, config, requests, stats)
	if err != nil {
		return fmt.Errorf("result retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(config, results, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save the dataset to file
	if err := saveRowsToFile(ctx, config, rows); err != nil {
		logger.Get().Warn(ctx, "failed to save dataset to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "demo completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveRowsToFile saves the generated sailing rows to a JSON file.
func saveRowsToFile(ctx context.Context, config *Config, rows []Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_sailings_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, row := range rows {
		jsonData, err := marshalJSON(row)
		if err != nil {
			return fmt.Errorf("failed to marshal row %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}

		// Add comma except for last row
		if i < len(rows)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "dataset saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final demo statistics.
func displayFinalStats(stats *Stats) {
	var completionRate, runsPerSecond float64

	if stats.RunsSubmitted > 0 {
		completionRate = float64(stats.RunsCompleted) / float64(stats.RunsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		runsPerSecond = float64(stats.RunsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("rowsGenerated", stats.RowsGenerated),
		logger.Int("runsSubmitted", stats.RunsSubmitted),
		logger.Int("runsAccepted", stats.RunsAccepted),
		logger.Int("runsDuplicate", stats.RunsDuplicate),
		logger.Int("runsRejected", stats.RunsRejected),
		logger.Int("runsCompleted", stats.RunsCompleted),
		logger.Int("runsFailed", stats.RunsFailed),
		logger.Int("runsVerified", stats.RunsVerified),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("completionRate", completionRate),
		logger.Float64("runsPerSecond", runsPerSecond))
}
