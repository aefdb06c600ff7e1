// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"

	"github.com/asierra0203/sail-recs-v1/internal/adapters/repository"
	"github.com/asierra0203/sail-recs-v1/internal/domain/report"
	"github.com/asierra0203/sail-recs-v1/internal/domain/scoring"
	"github.com/asierra0203/sail-recs-v1/internal/domain/types"
	"github.com/asierra0203/sail-recs-v1/pkg/metrics"
)

const reportFilename = "sailing_recommendations.csv"

// serveReport handles GET /recommendations/{run_id}/report requests.
// The default response is a CSV download; ?format=json returns the
// report structure instead.
func (h *RunsHandler) serveReport(w http.ResponseWriter, r *http.Request, run repository.Run) {
	const op = "api.get_report"

	switch run.Status {
	case types.RunPending:
		writeError(w, http.StatusConflict, "run_pending", NewKind(op, errors.New("run has not completed")))
		return
	case types.RunFailed:
		writeError(w, http.StatusConflict, "run_failed", NewKind(op, errors.New(run.Error)))
		return
	case types.RunCompleted:
	}

	norm, err := scoring.Normalize(run.Weights)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	rep := report.Build(run.Results, run.Prefs, run.Weights, norm)

	if r.URL.Query().Get("format") == "json" {
		writeJSON(w, http.StatusOK, rep)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+reportFilename+`"`)
	w.WriteHeader(http.StatusOK)
	if err := rep.WriteCSV(w); err != nil {
		// Headers are already out; all we can do is log via metrics.
		recordReportWriteError()
	}
}

func recordReportWriteError() {
	metrics.RecordErrorByComponent("http", "report_write_error")
}
