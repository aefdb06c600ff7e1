package demo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// uploadDataset uploads the generated rows and returns the dataset ID.
func uploadDataset(ctx context.Context, config *Config, rows []Row) (string, error) {
	log.Printf("📤 Uploading dataset with %d rows...", len(rows))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/datasets"

	payload := DatasetUpload{
		Name: "demo-sailings",
		Rows: rows,
	}

	resp, err := client.Post(ctx, url, payload)
	if err != nil {
		return "", fmt.Errorf("dataset upload request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "", fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode != StatusCreated {
		return "", fmt.Errorf("dataset upload failed with HTTP %d: %s", resp.StatusCode, string(body))
	}

	var ds DatasetResponse
	if err := unmarshalJSON(body, &ds); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}

	log.Printf("✅ Dataset uploaded: %s (%d rows)", ds.DatasetID, ds.Rows)
	return ds.DatasetID, nil
}

// submitRuns submits recommendation requests concurrently using worker pools
func submitRuns(ctx context.Context, config *Config, requests []RunRequest, stats *Stats) error {
	log.Printf("📤 Submitting %d recommendation runs with %d workers...", len(requests), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/recommendations"

	// Counters for statistics
	var (
		accepted  int64
		duplicate int64
		rejected  int64
		failed    int64
		submitted int64
	)

	// Progress reporting
	var lastReport time.Time
	reportInterval := 1 * time.Second

	// Create worker pool
	requestChan := make(chan RunRequest, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for request := range requestChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleRun(ctx, client, url, request)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "accepted":
						atomic.AddInt64(&accepted, 1)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "rejected":
						atomic.AddInt64(&rejected, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					// Progress reporting
					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						acc := atomic.LoadInt64(&accepted)
						dup := atomic.LoadInt64(&duplicate)
						rej := atomic.LoadInt64(&rejected)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (accepted: %d, duplicate: %d, rejected: %d, failed: %d)",
								total, len(requests), acc, dup, rej, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (accepted: %d, duplicate: %d, rejected: %d, failed: %d)",
								total, len(requests), acc, dup, rej, fail)
						}
					}
				}
			}
		}()
	}

	// Send requests to workers
	go func() {
		defer close(requestChan)
		for _, request := range requests {
			select {
			case <-ctx.Done():
				return
			case requestChan <- request:
			}
		}
	}()

	// Wait for all workers to complete
	wg.Wait()

	// Final progress report
	if !config.Verbose {
		fmt.Println() // New line after progress indicator
	}

	// Resubmit the first request to exercise idempotent handling
	if len(requests) > 0 {
		if result := submitSingleRun(ctx, client, url, requests[0]); result == "duplicate" {
			atomic.AddInt64(&duplicate, 1)
			log.Printf("✅ Duplicate resubmission acknowledged for %s", requests[0].RequestID)
		} else {
			log.Printf("⚠️  Duplicate resubmission returned %q for %s", result, requests[0].RequestID)
		}
	}

	// Update stats
	stats.RunsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.RunsAccepted = int(atomic.LoadInt64(&accepted))
	stats.RunsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.RunsRejected = int(atomic.LoadInt64(&rejected))

	log.Printf(`✅ Run submission completed:
   Accepted: %d
   Duplicate: %d
   Rejected: %d
   Failed: %d
`, stats.RunsAccepted, stats.RunsDuplicate, stats.RunsRejected, int(atomic.LoadInt64(&failed)))

	return nil
}

// submitSingleRun submits a single recommendation request and returns the result
func submitSingleRun(ctx context.Context, client *HTTPClient, url string, request RunRequest) string {
	resp, err := client.Post(ctx, url, request)
	if err != nil {
		return "failed"
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		// Accepted - new run
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "accepted"
		}
		return "accepted" // Assume accepted for 202 even if parsing fails
	case StatusOK:
		// OK - duplicate submission
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate" // Assume duplicate for 200 even if parsing fails
	case StatusTooManyRequests:
		// Backpressure - queue full
		return "rejected"
	default:
		return "failed"
	}
}
