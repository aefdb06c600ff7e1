package repository

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/types"
	"github.com/asierra0203/sail-recs-v1/pkg/metrics"
)

// Sharded, in-memory Store implementation.
//
// Keys are hashed with FNV-1a onto a fixed set of shards so that
// concurrent uploads and run updates contend on different locks.
// Datasets and runs live in the same shard map keyed by their IDs.

type shard struct {
	mu       sync.RWMutex
	datasets map[string]model.Dataset
	runs     map[string]Run
}

// ShardStore is an in-memory Store partitioned across shards.
type ShardStore struct {
	shards                []*shard
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewShardStore constructs a sharded store with configuration options.
func NewShardStore(ctx context.Context, opts ...Option) *ShardStore {
	s := &ShardStore{
		metricsUpdateInterval: defaultMetricsUpdateInterval,
	}

	cfg := storeConfig{shardCount: defaultShardCount}
	for _, opt := range opts {
		opt(s, &cfg)
	}

	s.shards = make([]*shard, cfg.shardCount)
	for i := range s.shards {
		s.shards[i] = &shard{
			datasets: make(map[string]model.Dataset),
			runs:     make(map[string]Run),
		}
	}

	s.stopChan = make(chan struct{})
	metrics.UpdateStoreShardCount(len(s.shards))
	s.startMetricsUpdater(ctx)

	return s
}

// Close gracefully shuts down the background metrics goroutine.
func (s *ShardStore) Close() error {
	select {
	case <-s.stopChan:
		// already closed
	default:
		close(s.stopChan)
	}
	s.wg.Wait()
	return nil
}

func (s *ShardStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// PutDataset stores an uploaded dataset under its ID.
func (s *ShardStore) PutDataset(ctx context.Context, ds model.Dataset) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(ds.ID)
	sh.mu.Lock()
	sh.datasets[ds.ID] = ds
	sh.mu.Unlock()
	return nil
}

// Dataset returns a stored dataset or ErrNotFound.
func (s *ShardStore) Dataset(ctx context.Context, id string) (model.Dataset, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(id)
	sh.mu.RLock()
	ds, ok := sh.datasets[id]
	sh.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("store", "dataset_not_found")
		return model.Dataset{}, ErrNotFound
	}
	return ds, nil
}

// CreateRun records a newly submitted run in the pending state.
func (s *ShardStore) CreateRun(ctx context.Context, run Run) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	if run.Status == "" {
		run.Status = types.RunPending
	}
	if run.SubmittedAt.IsZero() {
		run.SubmittedAt = time.Now()
	}

	sh := s.shardFor(run.ID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	if _, ok := sh.runs[run.ID]; ok {
		metrics.RecordErrorByComponent("store", "duplicate_run")
		return ErrDuplicateRun
	}
	sh.runs[run.ID] = run
	return nil
}

// CompleteRun transitions a pending run to completed and attaches results.
func (s *ShardStore) CompleteRun(ctx context.Context, runID string, results []model.ScoredSailing) error {
	return s.finalizeRun(runID, func(run *Run) {
		run.Status = types.RunCompleted
		run.Results = results
	})
}

// FailRun transitions a pending run to failed with a reason.
func (s *ShardStore) FailRun(ctx context.Context, runID string, reason string) error {
	return s.finalizeRun(runID, func(run *Run) {
		run.Status = types.RunFailed
		run.Error = reason
	})
}

func (s *ShardStore) finalizeRun(runID string, apply func(*Run)) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(runID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	run, ok := sh.runs[runID]
	if !ok {
		metrics.RecordErrorByComponent("store", "run_not_found")
		return ErrNotFound
	}
	if run.Status != types.RunPending {
		metrics.RecordErrorByComponent("store", "run_already_finalized")
		return ErrAlreadyDone
	}

	apply(&run)
	run.CompletedAt = time.Now()
	sh.runs[runID] = run
	return nil
}

// Run returns the current state of a run or ErrNotFound.
func (s *ShardStore) Run(ctx context.Context, runID string) (Run, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	sh := s.shardFor(runID)
	sh.mu.RLock()
	run, ok := sh.runs[runID]
	sh.mu.RUnlock()
	if !ok {
		metrics.RecordErrorByComponent("store", "run_not_found")
		return Run{}, ErrNotFound
	}
	return run, nil
}

// DeleteRun removes a run record.
func (s *ShardStore) DeleteRun(ctx context.Context, runID string) {
	sh := s.shardFor(runID)
	sh.mu.Lock()
	delete(sh.runs, runID)
	sh.mu.Unlock()
}

// DatasetCount returns the number of stored datasets.
func (s *ShardStore) DatasetCount(ctx context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.datasets)
		sh.mu.RUnlock()
	}
	return total
}

// RunCount returns the number of runs ever created.
func (s *ShardStore) RunCount(ctx context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.runs)
		sh.mu.RUnlock()
	}
	return total
}

// startMetricsUpdater starts a background goroutine that updates store metrics.
func (s *ShardStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				metrics.UpdateTotalDatasets(s.DatasetCount(ctx))
				metrics.UpdateTotalRuns(s.RunCount(ctx))
			}
		}
	}()
}
