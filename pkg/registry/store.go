// Package registry persists the tracked inventory entities. Every
// mutation loads the before-image and passes through the audit recorder;
// database uniqueness violations surface as conflict errors.
package registry

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/pkg/audit"
)

// ErrNotFound is returned when a referenced record does not exist.
var ErrNotFound = errors.New("record not found")

// ConflictError is a client error for uniqueness or seat-limit
// violations.
type ConflictError struct {
	Message string `json:"message"`
}

func (e *ConflictError) Error() string { return e.Message }

// Store bundles the shared dependencies of the entity stores.
type Store struct {
	db       *gorm.DB
	recorder *audit.Recorder
}

// NewStore creates the registry store.
func NewStore(db *gorm.DB, recorder *audit.Recorder) *Store {
	return &Store{db: db, recorder: recorder}
}

func createEntity[T audit.Trackable](ctx context.Context, s *Store, e *T, conflictMsg string) error {
	if err := s.db.Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: conflictMsg}
		}
		return fmt.Errorf("create %s: %w", (*e).AuditKind(), err)
	}
	s.recorder.Created(ctx, *e)
	return nil
}

func updateEntity[T audit.Trackable](ctx context.Context, s *Store, before, after *T, conflictMsg string) error {
	if err := s.db.Save(after).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ConflictError{Message: conflictMsg}
		}
		return fmt.Errorf("update %s: %w", (*after).AuditKind(), err)
	}
	s.recorder.Updated(ctx, *before, *after)
	return nil
}

func deleteEntity[T audit.Trackable](ctx context.Context, s *Store, e *T) error {
	if err := s.db.Delete(e).Error; err != nil {
		return fmt.Errorf("delete %s: %w", (*e).AuditKind(), err)
	}
	s.recorder.Deleted(ctx, *e)
	return nil
}

func loadByID[T any](s *Store, id uint, preloads ...string) (*T, error) {
	var e T
	q := s.db
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load record %d: %w", id, err)
	}
	return &e, nil
}
