// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/asierra0203/sail-recs-v1/internal/adapters/repository"
	"github.com/asierra0203/sail-recs-v1/internal/domain/dedupe"
	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// SubmitRun pushes a run request for async scoring. Returns false on backpressure.
	SubmitRun(ctx context.Context, req model.RunRequest) bool

	// Dataset operations expose uploaded sailing grids.
	UploadDataset(ctx context.Context, name string, records []model.SailingRecord) (model.Dataset, error)
	Dataset(ctx context.Context, id string) (model.Dataset, error)

	// Run returns the stored state of a scoring run.
	Run(ctx context.Context, runID string) (repository.Run, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	datasetsHandler  *DatasetsHandler
	recommendHandler *RecommendHandler
	runsHandler      *RunsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxResults int) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		datasetsHandler:  NewDatasetsHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		runsHandler:      NewRunsHandler(deps, maxResults),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/datasets", MetricsMiddleware(s.datasetsHandler.HandleDatasets, "datasets"))
	mux.HandleFunc("/datasets/", MetricsMiddleware(s.datasetsHandler.HandleGetDataset, "datasets"))
	mux.HandleFunc("/recommendations", MetricsMiddleware(s.recommendHandler.HandlePostRecommendation, "recommendations"))
	mux.HandleFunc("/recommendations/", MetricsMiddleware(s.runsHandler.HandleGetRun, "recommendations"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	RunID     string `json:"run_id"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
