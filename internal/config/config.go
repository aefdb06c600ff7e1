// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and env overrides on top.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RunQueueSize bounds the in-memory run queue.
	RunQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// ShardCount configures the number of shards in the dataset/run store.
	ShardCount int `koanf:"shard_count"`

	// MaxResultsLimit caps the number of results a single query returns.
	MaxResultsLimit int `koanf:"max_results_limit"`

	// MaxDatasetRows caps the number of rows accepted in one upload.
	MaxDatasetRows int `koanf:"max_dataset_rows"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		RunQueueSize:    10_000,
		WorkerCount:     runtime.NumCPU() * 4,
		DedupeSize:      50_000,
		ShardCount:      8,
		MaxResultsLimit: 500,
		MaxDatasetRows:  100_000,
	}
}
