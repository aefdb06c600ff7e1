// Package worker defines worker contracts for asynchronous scoring runs.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
	"github.com/asierra0203/sail-recs-v1/pkg/logger"
	"github.com/asierra0203/sail-recs-v1/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerMultiplier = 4 // multiplier for runtime.NumCPU()
	metricsUpdateInterval   = 5 * time.Second
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Request abstracts what workers read off the queue.
// Using the model.RunRequest type for consistency.
type Request = model.RunRequest

// Datasets loads stored datasets for scoring.
type Datasets interface {
	Dataset(ctx context.Context, id string) (model.Dataset, error)
}

// Runs finalizes scoring runs with their outcome.
type Runs interface {
	CompleteRun(ctx context.Context, runID string, results []model.ScoredSailing) error
	FailRun(ctx context.Context, runID string, reason string) error
}

// Queue defines how workers receive run requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Request
}

// Worker processes run requests and writes results using the provided interfaces.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	// It will process any remaining requests before stopping.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing scoring runs.
type InMemoryWorker struct {
	queue    Queue
	engine   scoring.Engine
	datasets Datasets
	runs     Runs
	name     string

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, engine scoring.Engine, datasets Datasets, runs Runs, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		engine:   engine,
		datasets: datasets,
		runs:     runs,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer func() {
		close(w.done)
	}()

	reqChan := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case req, ok := <-reqChan:
			if !ok {
				// Channel closed, worker should stop.
				return
			}

			if err := w.processRequest(ctx, req); err != nil {
				w.logger.Error(ctx, "error processing run", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processRequest executes a single scoring run.
func (w *InMemoryWorker) processRequest(ctx context.Context, req Request) error {
	start := time.Now()
	defer func() {
		latency := time.Since(start).Milliseconds()
		metrics.RecordWorkerProcessingLatency(float64(latency))
	}()

	ds, err := w.datasets.Dataset(ctx, req.DatasetID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "dataset_load_error")
		metrics.RecordErrorByType("dataset_error", "high")
		w.failRun(ctx, req.RunID, fmt.Sprintf("dataset %s: %v", req.DatasetID, err))
		return fmt.Errorf("load dataset %s for run %s: %w", req.DatasetID, req.RunID, err)
	}

	scoreStart := time.Now()
	scored, err := w.engine.Score(ctx, ds.Records, req.Prefs, req.Weights)
	metrics.RecordScoringLatency(float64(time.Since(scoreStart).Milliseconds()))

	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "scoring_error")
		metrics.RecordErrorByType("scoring_error", "high")
		w.failRun(ctx, req.RunID, fmt.Sprintf("scoring: %v", err))
		return fmt.Errorf("score run %s: %w", req.RunID, err)
	}

	if err := w.runs.CompleteRun(ctx, req.RunID, scored); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "store_error")
		metrics.RecordErrorByType("store_error", "high")
		w.logger.Error(ctx, "failed to store run results",
			logger.String("runID", req.RunID),
			logger.Error(err),
		)
		return fmt.Errorf("store results for run %s: %w", req.RunID, err)
	}

	metrics.RecordRunCompleted(len(scored))
	return nil
}

// failRun records a run failure, logging if even that fails.
func (w *InMemoryWorker) failRun(ctx context.Context, runID, reason string) {
	metrics.RecordRunFailed()
	if err := w.runs.FailRun(ctx, runID, reason); err != nil {
		w.logger.Error(ctx, "failed to mark run as failed",
			logger.String("runID", runID),
			logger.Error(err),
		)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers  []*InMemoryWorker
	queue    Queue
	engine   scoring.Engine
	datasets Datasets
	runs     Runs

	// Shutdown control
	shutdown chan struct{}
	done     chan struct{}

	// Metrics tracking
	processedCount    int64
	lastProcessedTime time.Time

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool.
func NewPool(workerCount int, queue Queue, engine scoring.Engine, datasets Datasets, runs Runs) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers:           make([]*InMemoryWorker, workerCount),
		queue:             queue,
		engine:            engine,
		datasets:          datasets,
		runs:              runs,
		shutdown:          make(chan struct{}),
		done:              make(chan struct{}),
		lastProcessedTime: time.Now(),
		logger:            logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		pool.workers[i] = NewInMemoryWorker(
			queue,
			engine,
			datasets,
			runs,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}

	metrics.UpdateWorkerCount(workerCount)
	metrics.UpdateWorkerActiveCount(workerCount)
	metrics.UpdateWorkerIdleCount(0)
	metrics.UpdateWorkerRunsPerSecond(0.0)

	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}

	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater starts a background goroutine that updates worker metrics.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			p.updateMetrics()
		}
	}
}

// updateMetrics updates worker-related metrics.
func (p *Pool) updateMetrics() {
	now := time.Now()
	timeDiff := now.Sub(p.lastProcessedTime).Seconds()
	if timeDiff > 0 {
		runsPerSecond := float64(p.processedCount) / timeDiff
		metrics.UpdateWorkerRunsPerSecond(runsPerSecond)
	}

	p.processedCount = 0
	p.lastProcessedTime = now
}

// Stop gracefully stops all workers.
func (p *Pool) Stop() {
	close(p.shutdown)

	for _, worker := range p.workers {
		select {
		case <-worker.done:
			// Worker finished
		case <-time.After(workerShutdownTimeout):
			// Worker timeout
		}
	}
}

// Shutdown gracefully shuts down the entire worker pool.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new requests.
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	close(p.shutdown)

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		select {
		case <-worker.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}

	return nil
}
