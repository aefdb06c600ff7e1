// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
	"github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
)

// RecommendHandler handles run submission requests.
type RecommendHandler struct {
	deps Dependencies
}

// NewRecommendHandler creates a new recommend handler.
func NewRecommendHandler(deps Dependencies) *RecommendHandler {
	return &RecommendHandler{deps: deps}
}

// recommendRequest mirrors the OpenAPI schema for POST /recommendations.
// The request ID doubles as the run ID so that retries of the same
// submission resolve to the same run.
type recommendRequest struct {
	RequestID   string             `json:"request_id"`
	DatasetID   string             `json:"dataset_id"`
	Preferences preferencesPayload `json:"preferences"`
	Weights     model.WeightConfig `json:"weights"`
}

type preferencesPayload struct {
	Ships  []string `json:"ships"`
	Months []int    `json:"months"`
	Ports  []string `json:"ports"`
}

func (r recommendRequest) validate() error {
	switch {
	case strings.TrimSpace(r.RequestID) == "":
		return errors.New("missing request_id")
	case strings.TrimSpace(r.DatasetID) == "":
		return errors.New("missing dataset_id")
	}
	return nil
}

// HandlePostRecommendation handles POST /recommendations requests.
func (h *RecommendHandler) HandlePostRecommendation(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_recommendation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Weight validation is synchronous so an all-zero or negative weight
	// set never reaches the queue.
	if _, err := scoring.Normalize(req.Weights); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_weights", Wrap(op, err))
		return
	}

	prefs, err := model.NewPreferenceSet(req.Preferences.Ships, req.Preferences.Months, req.Preferences.Ports)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	if _, err := h.deps.Dataset(r.Context(), req.DatasetID); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	// Idempotency check, mark as seen first.
	if h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, RunID: req.RequestID})
		return
	}

	runReq := model.RunRequest{
		RunID:     req.RequestID,
		DatasetID: req.DatasetID,
		Prefs:     prefs,
		Weights:   req.Weights,
	}
	if ok := h.deps.SubmitRun(r.Context(), runReq); !ok {
		// Roll back the "seen" status since the submission failed.
		h.deps.Unrecord(r.Context(), req.RequestID)
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false, RunID: req.RequestID})
}
