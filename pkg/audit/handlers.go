package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// ListEntriesHandler handles GET /audit/events.
// Query params: actor, action, table, targetId, pageSize, pageToken.
func ListEntriesHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Actor:       r.URL.Query().Get("actor"),
			Action:      Action(r.URL.Query().Get("action")),
			TargetTable: r.URL.Query().Get("table"),
		}
		if tid := r.URL.Query().Get("targetId"); tid != "" {
			if v, err := strconv.ParseUint(tid, 10, 64); err == nil {
				filter.TargetID = uint(v)
			}
		}

		pageSize := 20
		if ps := r.URL.Query().Get("pageSize"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 {
				pageSize = v
			}
		}
		pageToken := r.URL.Query().Get("pageToken")

		entries, nextToken, total, err := store.List(filter, pageSize, pageToken)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list audit entries: %v", err))
			return
		}

		events := make([]entryResponse, len(entries))
		for i, e := range entries {
			events[i] = toResponse(e)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"events":        events,
			"nextPageToken": nextToken,
			"totalSize":     total,
		})
	}
}

// GetEntryHandler handles GET /audit/events/{eventId}.
func GetEntryHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "eventId")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing event ID")
			return
		}

		entry, err := store.GetByID(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get audit entry: %v", err))
			return
		}
		if entry == nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("audit entry %q not found", id))
			return
		}

		writeJSON(w, http.StatusOK, toResponse(*entry))
	}
}

type entryResponse struct {
	ID        string         `json:"id"`
	Timestamp string         `json:"timestamp"`
	ActorID   *uint          `json:"actorId,omitempty"`
	Actor     string         `json:"actor"`
	Action    string         `json:"action"`
	Table     string         `json:"table"`
	TargetID  uint           `json:"targetId"`
	Details   map[string]any `json:"details,omitempty"`
}

func toResponse(e Entry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		ActorID:   e.ActorID,
		Actor:     e.ActorUsername,
		Action:    string(e.Action),
		Table:     e.TargetTable,
		TargetID:  e.TargetID,
		Details:   map[string]any(e.Details),
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
