package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/types"
)

func newTestStore(t *testing.T) *ShardStore {
	t.Helper()
	s := NewShardStore(context.Background(), WithShardCount(4))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDatasetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ds := model.Dataset{
		ID:   "ds-1",
		Name: "summer.csv",
		Records: []model.SailingRecord{
			{Ship: "IC", Month: 7, Port: "MIA", Theo: 2.5},
		},
		UploadedAt: time.Now(),
	}
	if err := s.PutDataset(ctx, ds); err != nil {
		t.Fatalf("PutDataset failed: %v", err)
	}

	got, err := s.Dataset(ctx, "ds-1")
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	if got.Name != "summer.csv" || len(got.Records) != 1 {
		t.Errorf("unexpected dataset: %+v", got)
	}
	if s.DatasetCount(ctx) != 1 {
		t.Errorf("expected 1 dataset, got %d", s.DatasetCount(ctx))
	}
}

func TestDatasetNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Dataset(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := Run{ID: "run-1", DatasetID: "ds-1"}
	if err := s.CreateRun(ctx, run); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	got, err := s.Run(ctx, "run-1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.Status != types.RunPending {
		t.Errorf("expected pending, got %s", got.Status)
	}
	if got.SubmittedAt.IsZero() {
		t.Error("expected SubmittedAt to be set")
	}

	results := []model.ScoredSailing{
		{Record: model.SailingRecord{Ship: "IC", Month: 7, Port: "MIA"}, MatchScore: 87.5, Rank: 1},
	}
	if err := s.CompleteRun(ctx, "run-1", results); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}

	got, err = s.Run(ctx, "run-1")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.Status != types.RunCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if len(got.Results) != 1 || got.Results[0].Rank != 1 {
		t.Errorf("unexpected results: %+v", got.Results)
	}
	if got.CompletedAt.IsZero() {
		t.Error("expected CompletedAt to be set")
	}
}

func TestFailRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateRun(ctx, Run{ID: "run-2", DatasetID: "ds-9"}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := s.FailRun(ctx, "run-2", "dataset not found"); err != nil {
		t.Fatalf("FailRun failed: %v", err)
	}

	got, err := s.Run(ctx, "run-2")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.Status != types.RunFailed {
		t.Errorf("expected failed, got %s", got.Status)
	}
	if got.Error != "dataset not found" {
		t.Errorf("unexpected error message: %q", got.Error)
	}
}

func TestFinalizeGuards(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CompleteRun(ctx, "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.CreateRun(ctx, Run{ID: "run-3"}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := s.CompleteRun(ctx, "run-3", nil); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}
	if err := s.CompleteRun(ctx, "run-3", nil); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("expected ErrAlreadyDone, got %v", err)
	}
	if err := s.FailRun(ctx, "run-3", "late"); !errors.Is(err, ErrAlreadyDone) {
		t.Errorf("expected ErrAlreadyDone, got %v", err)
	}
}

func TestDeleteRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateRun(ctx, Run{ID: "run-5"}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	s.DeleteRun(ctx, "run-5")

	if _, err := s.Run(ctx, "run-5"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	// Deleting an unknown run is a no-op.
	s.DeleteRun(ctx, "missing")
}

func TestDuplicateRunID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateRun(ctx, Run{ID: "run-4"}); err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := s.CreateRun(ctx, Run{ID: "run-4"}); !errors.Is(err, ErrDuplicateRun) {
		t.Errorf("expected ErrDuplicateRun, got %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const goroutines = 8
	const perGoroutine = 100

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				id := fmt.Sprintf("ds-%d-%d", g, i)
				_ = s.PutDataset(ctx, model.Dataset{ID: id})
				runID := fmt.Sprintf("run-%d-%d", g, i)
				_ = s.CreateRun(ctx, Run{ID: runID, DatasetID: id})
				_ = s.CompleteRun(ctx, runID, nil)
			}
		}(g)
	}
	wg.Wait()

	if got := s.DatasetCount(ctx); got != goroutines*perGoroutine {
		t.Errorf("expected %d datasets, got %d", goroutines*perGoroutine, got)
	}
	if got := s.RunCount(ctx); got != goroutines*perGoroutine {
		t.Errorf("expected %d runs, got %d", goroutines*perGoroutine, got)
	}
}

func TestShardDistribution(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 64; i++ {
		_ = s.PutDataset(ctx, model.Dataset{ID: fmt.Sprintf("ds-%d", i)})
	}

	populated := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		if len(sh.datasets) > 0 {
			populated++
		}
		sh.mu.RUnlock()
	}
	if populated < 2 {
		t.Errorf("expected keys spread across shards, got %d populated", populated)
	}
}
