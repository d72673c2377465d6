package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ReportHandler handles POST /agent/report.
func ReportHandler(ingestor *Ingestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report Report
		if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   fmt.Sprintf("invalid request body: %v", err),
			})
			return
		}

		result, err := ingestor.Ingest(&report)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"success": false,
					"error":   "validation failed",
					"field":   ve.Field,
					"message": ve.Message,
				})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "report processing failed",
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":           true,
			"created":           result.Created,
			"assetId":           result.AssetID,
			"inventoryCode":     result.InventoryCode,
			"warningsGenerated": result.WarningsGenerated,
			"changes":           result.Changes,
		})
	}
}

// Router creates a chi.Router for the agent API. Unauthenticated by
// design; agents carry no credentials.
func Router(ingestor *Ingestor) chi.Router {
	r := chi.NewRouter()
	r.Post("/report", ReportHandler(ingestor))
	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
