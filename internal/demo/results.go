package demo

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// retrieveResults polls all submitted runs concurrently until they finish.
func retrieveResults(ctx context.Context, config *Config, requests []RunRequest, stats *Stats) ([]RunResponse, error) {
	log.Printf("🏆 Retrieving results for %d runs with %d workers...", len(requests), config.Workers)

	client := newHTTPClient(config.Timeout)

	// Results storage, indexed to match requests
	results := make([]RunResponse, len(requests))
	var (
		completed int64
		failed    int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
					runID := requests[index].RequestID
					run, err := awaitRun(ctx, client, config.BaseURL, runID)

					if err != nil {
						atomic.AddInt64(&failed, 1)
						if config.Verbose {
							log.Printf("⚠️  Failed to get results for run %s: %v", runID, err)
						}
					} else {
						results[index] = run
						if run.Status == "failed" {
							atomic.AddInt64(&failed, 1)
						} else {
							atomic.AddInt64(&completed, 1)
						}
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						comp := atomic.LoadInt64(&completed)
						fail := atomic.LoadInt64(&failed)
						total := comp + fail

						if config.Verbose {
							log.Printf("📊 Result progress: %d/%d finished (completed: %d, failed: %d)",
								total, len(requests), comp, fail)
						} else {
							log.Printf("\r🏆 Results: %d/%d finished (completed: %d, failed: %d)",
								total, len(requests), comp, fail)
						}
					}
				}
			}
		}()
	}

	// Send run indices to workers
	go func() {
		defer close(indexChan)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		log.Println() // New line after progress indicator
	}

	// Filter out empty entries (failed retrievals)
	validResults := make([]RunResponse, 0, len(results))
	for _, run := range results {
		if run.RunID != "" { // Empty RunID indicates failed retrieval
			validResults = append(validResults, run)
		}
	}

	// Update stats
	stats.RunsCompleted = int(atomic.LoadInt64(&completed))
	stats.RunsFailed = int(atomic.LoadInt64(&failed))
	stats.ResultsFetched = len(validResults)

	log.Printf(`✅ Result retrieval completed:
   Completed: %d
   Failed: %d
`, stats.RunsCompleted, stats.RunsFailed)

	return validResults, nil
}

// awaitRun polls a single run until it reaches a terminal status.
func awaitRun(ctx context.Context, client *HTTPClient, baseURL, runID string) (RunResponse, error) {
	deadline := time.Now().Add(RunPollDeadline)

	for {
		run, err := fetchRun(ctx, client, baseURL, runID)
		if err != nil {
			return RunResponse{}, err
		}

		if run.Status == "completed" || run.Status == "failed" {
			return run, nil
		}

		if time.Now().After(deadline) {
			return RunResponse{}, fmt.Errorf("run %s still %s after %s", runID, run.Status, RunPollDeadline)
		}

		select {
		case <-ctx.Done():
			return RunResponse{}, ctx.Err()
		case <-time.After(RunPollInterval):
		}
	}
}

// fetchRun retrieves the current state of a single run.
func fetchRun(ctx context.Context, client *HTTPClient, baseURL, runID string) (RunResponse, error) {
	url := fmt.Sprintf("%s/recommendations/%s", baseURL, runID)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return RunResponse{}, fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return RunResponse{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return RunResponse{}, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	var run RunResponse
	if err := unmarshalJSON(body, &run); err != nil {
		return RunResponse{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return run, nil
}
