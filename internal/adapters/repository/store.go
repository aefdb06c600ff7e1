// Package repository defines the dataset and run store interface and errors.
package repository

import (
	"context"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/types"
)

// Run is the stored state of one scoring run. Results are populated only
// once the run reaches the completed state.
type Run struct {
	ID          string
	DatasetID   string
	Status      types.RunStatus
	Error       string
	Prefs       model.PreferenceSet
	Weights     model.WeightConfig
	Results     []model.ScoredSailing
	SubmittedAt time.Time
	CompletedAt time.Time
}

// Store provides read/write access to uploaded datasets and scoring runs.
type Store interface {
	// PutDataset stores an uploaded dataset under its ID.
	PutDataset(ctx context.Context, ds model.Dataset) error
	// Dataset returns a stored dataset.
	// Returns ErrNotFound if the ID is unknown.
	Dataset(ctx context.Context, id string) (model.Dataset, error)

	// CreateRun records a newly submitted run in the pending state.
	CreateRun(ctx context.Context, run Run) error
	// CompleteRun transitions a pending run to completed and attaches results.
	CompleteRun(ctx context.Context, runID string, results []model.ScoredSailing) error
	// FailRun transitions a pending run to failed with a reason.
	FailRun(ctx context.Context, runID string, reason string) error
	// Run returns the current state of a run.
	// Returns ErrNotFound if the ID is unknown.
	Run(ctx context.Context, runID string) (Run, error)
	// DeleteRun removes a run record. Used to roll back a submission
	// that could not be enqueued.
	DeleteRun(ctx context.Context, runID string)

	// DatasetCount returns the number of stored datasets.
	DatasetCount(ctx context.Context) int
	// RunCount returns the number of runs ever created.
	RunCount(ctx context.Context) int
}
