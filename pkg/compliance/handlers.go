package compliance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sigat/asset-registry/pkg/models"
)

// ListWarningsHandler handles GET /warnings.
// Query params: assetId, category, status, pageSize, pageToken.
func ListWarningsHandler(store *WarningStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Category: r.URL.Query().Get("category"),
			Status:   models.WarningStatus(r.URL.Query().Get("status")),
		}
		if aid := r.URL.Query().Get("assetId"); aid != "" {
			if v, err := strconv.ParseUint(aid, 10, 64); err == nil {
				filter.AssetID = uint(v)
			}
		}

		pageSize := 20
		if ps := r.URL.Query().Get("pageSize"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 {
				pageSize = v
			}
		}
		var pageToken uint
		if pt := r.URL.Query().Get("pageToken"); pt != "" {
			if v, err := strconv.ParseUint(pt, 10, 64); err == nil {
				pageToken = uint(v)
			}
		}

		warnings, next, total, err := store.List(filter, pageSize, pageToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list warnings: %v", err))
			return
		}

		out := make([]warningResponse, len(warnings))
		for i, cw := range warnings {
			out[i] = toResponse(cw)
		}
		resp := map[string]any{"warnings": out, "totalSize": total}
		if next != 0 {
			resp["nextPageToken"] = strconv.FormatUint(uint64(next), 10)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// GetWarningHandler handles GET /warnings/{warningId}.
func GetWarningHandler(store *WarningStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := warningID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cw, err := store.Get(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeError(w, http.StatusNotFound, fmt.Sprintf("warning %d not found", id))
				return
			}
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get warning: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, toResponse(*cw))
	}
}

// transitionRequest is the body of POST /warnings/{warningId}/transition.
type transitionRequest struct {
	Status models.WarningStatus `json:"status"`
	Notes  string               `json:"notes"`
}

// TransitionWarningHandler handles POST /warnings/{warningId}/transition.
func TransitionWarningHandler(store *WarningStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := warningID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if req.Status == "" {
			writeError(w, http.StatusBadRequest, "missing target status")
			return
		}

		cw, err := store.Transition(r.Context(), id, req.Status, req.Notes)
		if err != nil {
			var te *TransitionError
			switch {
			case errors.Is(err, ErrNotFound):
				writeError(w, http.StatusNotFound, fmt.Sprintf("warning %d not found", id))
			case errors.As(err, &te):
				writeJSON(w, http.StatusBadRequest, te)
			default:
				writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to transition warning: %v", err))
			}
			return
		}
		writeJSON(w, http.StatusOK, toResponse(*cw))
	}
}

func warningID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "warningId")
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid warning id %q", raw)
	}
	return uint(v), nil
}

type warningResponse struct {
	ID              uint           `json:"id"`
	AssetID         uint           `json:"assetId"`
	DetectionDate   string         `json:"detectionDate"`
	Category        string         `json:"category"`
	Description     string         `json:"description"`
	Evidence        map[string]any `json:"evidence,omitempty"`
	Status          string         `json:"status"`
	ResolvedByID    *uint          `json:"resolvedById,omitempty"`
	ResolutionNotes string         `json:"resolutionNotes,omitempty"`
}

func toResponse(w models.ComplianceWarning) warningResponse {
	return warningResponse{
		ID:              w.ID,
		AssetID:         w.AssetID,
		DetectionDate:   w.DetectionDate.Format(time.RFC3339),
		Category:        w.Category,
		Description:     w.Description,
		Evidence:        map[string]any(w.Evidence),
		Status:          string(w.Status),
		ResolvedByID:    w.ResolvedByID,
		ResolutionNotes: w.ResolutionNotes,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
