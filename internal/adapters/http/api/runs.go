// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
	"github.com/asierra0203/sail-recs-v1/internal/domain/types"
)

// RunsHandler handles run status and result requests.
type RunsHandler struct {
	deps       Dependencies
	maxResults int
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps Dependencies, maxResults int) *RunsHandler {
	return &RunsHandler{deps: deps, maxResults: maxResults}
}

// runResponse mirrors the OpenAPI schema for GET /recommendations/{run_id}.
type runResponse struct {
	RunID             string                       `json:"run_id"`
	DatasetID         string                       `json:"dataset_id"`
	Status            types.RunStatus              `json:"status"`
	Error             string                       `json:"error,omitempty"`
	SubmittedAt       string                       `json:"submitted_at"`
	CompletedAt       string                       `json:"completed_at,omitempty"`
	NormalizedWeights *types.NormalizedWeightsView `json:"normalized_weights,omitempty"`
	Results           []types.RankedSailing        `json:"results,omitempty"`
}

// resultFilter narrows completed results before they are returned.
type resultFilter struct {
	limit    int
	minScore float64
	hasMin   bool
	ship     string
	month    int
}

// HandleGetRun routes GET /recommendations/{run_id} and
// GET /recommendations/{run_id}/report requests.
func (h *RunsHandler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_run"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/recommendations/")
	wantReport := false
	if rest, ok := strings.CutSuffix(path, "/report"); ok {
		path = rest
		wantReport = true
	}
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	run, err := h.deps.Run(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	if wantReport {
		h.serveReport(w, r, run)
		return
	}

	filter, err := parseResultFilter(r, h.maxResults)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	resp := runResponse{
		RunID:       run.ID,
		DatasetID:   run.DatasetID,
		Status:      run.Status,
		Error:       run.Error,
		SubmittedAt: run.SubmittedAt.UTC().Format(time.RFC3339),
	}
	if !run.CompletedAt.IsZero() {
		resp.CompletedAt = run.CompletedAt.UTC().Format(time.RFC3339)
	}
	if run.Status == types.RunCompleted {
		if norm, normErr := scoring.Normalize(run.Weights); normErr == nil {
			resp.NormalizedWeights = &types.NormalizedWeightsView{
				Ship:  norm.Ship,
				Month: norm.Month,
				Port:  norm.Port,
				Theo:  norm.Theo,
			}
		}
		resp.Results = filter.apply(run.Results)
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseResultFilter(r *http.Request, maxResults int) (resultFilter, error) {
	f := resultFilter{limit: maxResults}
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return f, strconvErr("limit", v)
		}
		if n < f.limit {
			f.limit = n
		}
	}
	if v := q.Get("min_score"); v != "" {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, strconvErr("min_score", v)
		}
		f.minScore = threshold
		f.hasMin = true
	}
	f.ship = strings.TrimSpace(q.Get("ship"))
	if v := q.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			return f, strconvErr("month", v)
		}
		f.month = m
	}
	return f, nil
}

func strconvErr(param, value string) error {
	return fmt.Errorf("invalid %s %q: %w", param, value, ErrBadRequest)
}

// apply keeps rank order while dropping filtered-out results.
func (f resultFilter) apply(scored []model.ScoredSailing) []types.RankedSailing {
	out := make([]types.RankedSailing, 0, len(scored))
	for _, s := range scored {
		if len(out) >= f.limit {
			break
		}
		if f.hasMin && s.MatchScore < f.minScore {
			continue
		}
		if f.ship != "" && !strings.EqualFold(s.Record.Ship, f.ship) {
			continue
		}
		if f.month != 0 && s.Record.Month != f.month {
			continue
		}
		out = append(out, types.RankedSailing{
			Rank:       s.Rank,
			MatchScore: s.MatchScore,
			Ship:       s.Record.Ship,
			Month:      s.Record.Month,
			Port:       s.Record.Port,
			Theo:       s.Record.Theo,
			ShipScore:  s.ShipScore,
			MonthScore: s.MonthScore,
			PortScore:  s.PortScore,
			TheoScore:  s.TheoScore,
			Extra:      s.Record.Extra,
		})
	}
	return out
}
