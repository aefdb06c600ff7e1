package repository

import "time"

const (
	defaultShardCount            = 8
	defaultMetricsUpdateInterval = 5 * time.Second
)

type storeConfig struct {
	shardCount int
}

// Option applies a configuration option to the ShardStore.
type Option func(*ShardStore, *storeConfig)

// WithShardCount sets the number of shards the store is partitioned into.
func WithShardCount(count int) Option {
	return func(_ *ShardStore, cfg *storeConfig) {
		if count > 0 {
			cfg.shardCount = count
		}
	}
}

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *ShardStore, _ *storeConfig) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}
