package vuln

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/models"
)

// VulnerableSoftwareHandler handles GET /reports/vulnerable-software.
func VulnerableSoftwareHandler(scanner *Scanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := scanner.VulnerableInstallations()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to scan installations: %v", err))
			return
		}
		if matches == nil {
			matches = []VulnerableInstallation{}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"vulnerableInstallations": matches,
			"totalSize":               len(matches),
		})
	}
}

// ReconcileHandler handles POST /vuln/reconcile.
func ReconcileHandler(scanner *Scanner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := scanner.GenerateWarnings(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("reconciliation failed: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// Router creates a chi.Router for the scanner API. Reconciliation is an
// administrative operation.
func Router(scanner *Scanner) chi.Router {
	r := chi.NewRouter()
	r.With(actor.RequireRole(models.RoleAdmin)).Post("/reconcile", ReconcileHandler(scanner))
	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
