package audit

import (
	"github.com/go-chi/chi/v5"
)

// Router creates a chi.Router for the audit query API.
func Router(store *Store) chi.Router {
	r := chi.NewRouter()
	r.Get("/events", ListEntriesHandler(store))
	r.Get("/events/{eventId}", GetEntryHandler(store))
	return r
}
