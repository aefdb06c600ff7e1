// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	runqueue "github.com/asierra0203/sail-recs-v1/internal/adapters/mq/queue"
	workerpool "github.com/asierra0203/sail-recs-v1/internal/adapters/mq/worker"
	"github.com/asierra0203/sail-recs-v1/internal/adapters/repository"
	"github.com/asierra0203/sail-recs-v1/internal/domain/dataset"
	"github.com/asierra0203/sail-recs-v1/internal/domain/dedupe"
	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
	"github.com/asierra0203/sail-recs-v1/pkg/logger"
	"github.com/asierra0203/sail-recs-v1/pkg/metrics"
	"github.com/google/uuid"
)

// Service implements the API dependencies for the recommendation system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	deduper    dedupe.Deduper
	runQueue   runqueue.Queue
	engine     scoring.Engine
	workerPool *workerpool.Pool

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	shardCount     int
	maxDatasetRows int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the run queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the number of shards in the dataset/run store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithMaxDatasetRows caps the number of rows accepted in one upload.
func WithMaxDatasetRows(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxDatasetRows = limit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      10000,
		dedupeSize:     50000,
		shardCount:     8,
		maxDatasetRows: 100000,
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting recommendation service...")

	s.store = repository.NewShardStore(ctx,
		repository.WithShardCount(s.shardCount),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.runQueue = runqueue.NewInMemoryQueue(
		runqueue.WithCapacity(s.queueSize),
		runqueue.WithBufferSize(s.queueSize),
	)
	s.engine = scoring.NewWeightedEngine()

	s.workerPool = workerpool.NewPool(s.workerCount, s.runQueue, s.engine, s.store, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "recommendation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("shards", s.shardCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping recommendation service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}

	if s.store != nil {
		if closer, ok := s.store.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
	}

	if q, ok := s.runQueue.(*runqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// SeenAndRecord atomically checks if a request id was seen and records it if not.
// Returns true if the request was already seen, false if it was newly recorded.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordRunDuplicate()
	}
	return seen
}

// Unrecord removes a request ID from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// SubmitRun records a pending run and queues it for asynchronous scoring.
// Returns false on backpressure so callers can roll back and retry later.
func (s *Service) SubmitRun(ctx context.Context, req model.RunRequest) bool {
	run := repository.Run{
		ID:        req.RunID,
		DatasetID: req.DatasetID,
		Prefs:     req.Prefs,
		Weights:   req.Weights,
	}
	if err := s.store.CreateRun(ctx, run); err != nil {
		// A stored run with this ID means the submission already went
		// through, e.g. after a dedupe cache eviction.
		s.logger.Warn(ctx, "run already exists, treating as submitted",
			logger.String("runID", req.RunID),
			logger.Error(err),
		)
		return true
	}

	if ok := s.runQueue.Enqueue(ctx, req); !ok {
		s.store.DeleteRun(ctx, req.RunID)
		s.logger.Warn(ctx, "run queue full, rejecting submission",
			logger.String("runID", req.RunID),
		)
		return false
	}

	metrics.RecordRunSubmitted()
	return true
}

// UploadDataset stores a validated record set under a fresh dataset ID.
func (s *Service) UploadDataset(ctx context.Context, name string, records []model.SailingRecord) (model.Dataset, error) {
	if s.maxDatasetRows > 0 && len(records) > s.maxDatasetRows {
		return model.Dataset{}, fmt.Errorf("%w: %d rows, limit %d", dataset.ErrTooManyRows, len(records), s.maxDatasetRows)
	}

	id := uuid.NewString()
	if name == "" {
		name = "dataset-" + id[:8]
	}
	ds := model.Dataset{
		ID:         id,
		Name:       name,
		Records:    records,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.store.PutDataset(ctx, ds); err != nil {
		return model.Dataset{}, fmt.Errorf("store dataset: %w", err)
	}

	metrics.RecordDatasetUploaded(len(records))
	s.logger.Info(ctx, "dataset uploaded",
		logger.String("datasetID", id),
		logger.String("name", name),
		logger.Int("rows", len(records)),
	)
	return ds, nil
}

// Dataset returns a stored dataset.
func (s *Service) Dataset(ctx context.Context, id string) (model.Dataset, error) {
	return s.store.Dataset(ctx, id)
}

// Run returns the stored state of a scoring run.
func (s *Service) Run(ctx context.Context, runID string) (repository.Run, error) {
	return s.store.Run(ctx, runID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"shardCount":  s.shardCount,
	}

	if s.started {
		queueLen := s.runQueue.Len(ctx)
		totalDatasets := s.store.DatasetCount(ctx)
		totalRuns := s.store.RunCount(ctx)

		stats["queueLength"] = queueLen
		stats["totalDatasets"] = totalDatasets
		stats["totalRuns"] = totalRuns
		stats["dedupeEntries"] = s.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalDatasets(totalDatasets)
		metrics.UpdateTotalRuns(totalRuns)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
