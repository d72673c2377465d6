package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// resource wires a tracked entity's store operations to REST handlers.
// setID stamps the URL id onto the decoded body before an update.
type resource[T any] struct {
	create func(context.Context, *T) error
	get    func(uint) (*T, error)
	list   func() ([]T, error)
	update func(context.Context, *T) error
	delete func(context.Context, uint) error
	setID  func(*T, uint)
}

func (res resource[T]) mount(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		items, err := res.list()
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items, "totalSize": len(items)})
	})
	r.Post("/", func(w http.ResponseWriter, req *http.Request) {
		var e T
		if err := json.NewDecoder(req.Body).Decode(&e); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		if err := res.create(req.Context(), &e); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	})
	r.Get("/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := idParam(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		e, err := res.get(id)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	})
	r.Put("/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := idParam(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var e T
		if err := json.NewDecoder(req.Body).Decode(&e); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}
		res.setID(&e, id)
		if err := res.update(req.Context(), &e); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	})
	r.Delete("/{id}", func(w http.ResponseWriter, req *http.Request) {
		id, err := idParam(req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := res.delete(req.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func idParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(v), nil
}

func writeStoreError(w http.ResponseWriter, err error) {
	var conflict *ConflictError
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflict.Message)
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
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
