// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/asierra0203/sail-recs-v1/internal/domain/dataset"
	"github.com/asierra0203/sail-recs-v1/internal/domain/model"
)

// DatasetsHandler handles dataset upload and lookup requests.
type DatasetsHandler struct {
	deps Dependencies
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(deps Dependencies) *DatasetsHandler {
	return &DatasetsHandler{deps: deps}
}

// datasetUploadRequest mirrors the OpenAPI schema for POST /datasets.
type datasetUploadRequest struct {
	Name string        `json:"name"`
	Rows []dataset.Row `json:"rows"`
}

// datasetResponse is the stored dataset without its full record list.
// The summary fields drive preference selection on the client side.
type datasetResponse struct {
	DatasetID  string   `json:"dataset_id"`
	Name       string   `json:"name"`
	Rows       int      `json:"rows"`
	UploadedAt string   `json:"uploaded_at"`
	Ships      []string `json:"ships,omitempty"`
	Ports      []string `json:"ports,omitempty"`
	Months     []int    `json:"months,omitempty"`
	TheoMin    *float64 `json:"theo_min,omitempty"`
	TheoMax    *float64 `json:"theo_max,omitempty"`
}

func toDatasetResponse(ds model.Dataset) datasetResponse {
	return datasetResponse{
		DatasetID:  ds.ID,
		Name:       ds.Name,
		Rows:       len(ds.Records),
		UploadedAt: ds.UploadedAt.UTC().Format(time.RFC3339),
	}
}

// toDatasetSummary extends the response with distinct ships, ports,
// months and the theo range observed in the dataset.
func toDatasetSummary(ds model.Dataset) datasetResponse {
	resp := toDatasetResponse(ds)
	if len(ds.Records) == 0 {
		return resp
	}

	ships := make(map[string]bool)
	ports := make(map[string]bool)
	months := make(map[int]bool)
	theoMin, theoMax := ds.Records[0].Theo, ds.Records[0].Theo
	for _, rec := range ds.Records {
		ships[rec.Ship] = true
		ports[rec.Port] = true
		months[rec.Month] = true
		if rec.Theo < theoMin {
			theoMin = rec.Theo
		}
		if rec.Theo > theoMax {
			theoMax = rec.Theo
		}
	}

	for ship := range ships {
		resp.Ships = append(resp.Ships, ship)
	}
	sort.Strings(resp.Ships)
	for port := range ports {
		resp.Ports = append(resp.Ports, port)
	}
	sort.Strings(resp.Ports)
	for month := range months {
		resp.Months = append(resp.Months, month)
	}
	sort.Ints(resp.Months)

	resp.TheoMin = &theoMin
	resp.TheoMax = &theoMax
	return resp
}

// HandleDatasets handles POST /datasets requests. The body is either a
// JSON row list or a raw CSV upload, selected by Content-Type.
func (h *DatasetsHandler) HandleDatasets(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_dataset"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var (
		name    string
		records []model.SailingRecord
		err     error
	)

	contentType := r.Header.Get("Content-Type")
	if mt, _, mtErr := mime.ParseMediaType(contentType); mtErr == nil && mt == "text/csv" {
		name = r.URL.Query().Get("name")
		records, err = dataset.FromCSV(r.Body)
	} else {
		var req datasetUploadRequest
		if decodeErr := json.NewDecoder(r.Body).Decode(&req); decodeErr != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, decodeErr))
			return
		}
		name = req.Name
		records, err = dataset.FromRows(req.Rows)
	}

	if err != nil {
		writeError(w, http.StatusBadRequest, datasetErrorCode(err), Wrap(op, err))
		return
	}

	ds, err := h.deps.UploadDataset(r.Context(), name, records)
	if err != nil {
		if errors.Is(err, dataset.ErrTooManyRows) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_many_rows", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, toDatasetResponse(ds))
}

// HandleGetDataset handles GET /datasets/{dataset_id} requests.
func (h *DatasetsHandler) HandleGetDataset(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dataset"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/datasets/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	ds, err := h.deps.Dataset(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toDatasetSummary(ds))
}

// datasetErrorCode maps loader errors onto stable API error codes.
func datasetErrorCode(err error) string {
	switch {
	case errors.Is(err, dataset.ErrEmptyDataset):
		return "empty_dataset"
	case errors.Is(err, dataset.ErrMissingField):
		return "missing_field"
	case errors.Is(err, dataset.ErrMalformedValue):
		return "malformed_value"
	default:
		return "bad_request"
	}
}
