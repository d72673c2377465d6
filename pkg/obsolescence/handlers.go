package obsolescence

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/models"
)

// GetRulesHandler handles GET /obsolescence/rules.
func GetRulesHandler(store *RulesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rules, err := store.Get()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load rules: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, toRulesResponse(rules))
	}
}

// UpdateRulesHandler handles PUT /obsolescence/rules.
func UpdateRulesHandler(store *RulesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RulesUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		rules, err := store.Update(r.Context(), req)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to update rules: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, toRulesResponse(rules))
	}
}

// ObsoleteAssetsHandler handles GET /reports/obsolete-assets.
func ObsoleteAssetsHandler(evaluator *Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := evaluator.ObsoleteAssets()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build report: %v", err))
			return
		}
		if report == nil {
			report = []ObsoleteAsset{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"obsoleteAssets": report,
			"totalSize":      len(report),
		})
	}
}

// Router creates a chi.Router for the rules API. Updates require the
// admin role.
func Router(store *RulesStore) chi.Router {
	r := chi.NewRouter()
	r.Get("/rules", GetRulesHandler(store))
	r.With(actor.RequireRole(models.RoleAdmin)).Put("/rules", UpdateRulesHandler(store))
	return r
}

type rulesResponse struct {
	WindowsMinVersion  string  `json:"windowsMinVersion"`
	RAMMinGB           float64 `json:"ramMinGb"`
	DiskMinFreePercent float64 `json:"diskMinFreePercent"`
	Enabled            bool    `json:"enabled"`
	UpdatedBy          string  `json:"updatedBy,omitempty"`
	UpdatedAt          string  `json:"updatedAt"`
}

func toRulesResponse(rules *models.ObsolescenceRules) rulesResponse {
	return rulesResponse{
		WindowsMinVersion:  rules.WindowsMinVersion,
		RAMMinGB:           rules.RAMMinGB,
		DiskMinFreePercent: rules.DiskMinFreePercent,
		Enabled:            rules.Enabled,
		UpdatedBy:          rules.UpdatedBy,
		UpdatedAt:          rules.UpdatedAt.Format(time.RFC3339),
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
