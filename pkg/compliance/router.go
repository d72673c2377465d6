package compliance

import (
	"github.com/go-chi/chi/v5"
)

// Router creates a chi.Router for the compliance warning API.
func Router(store *WarningStore) chi.Router {
	r := chi.NewRouter()
	r.Get("/", ListWarningsHandler(store))
	r.Get("/analytics", AnalyticsHandler(store))
	r.Get("/{warningId}", GetWarningHandler(store))
	r.Post("/{warningId}/transition", TransitionWarningHandler(store))
	return r
}
