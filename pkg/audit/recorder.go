package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/models"
)

// Trackable is implemented by every entity type in the tracked set
// (Asset, ComputerDetail, Department, Employee, SystemUser,
// SoftwareCatalog, License, InstalledSoftware, ComplianceWarning,
// AssetCheckin). Each entity declares its own identity, summary and
// canonical field map; the recorder never inspects entities through
// reflection.
type Trackable interface {
	AuditKind() string
	AuditEntityID() uint
	AuditSummary() map[string]any
	AuditFields() map[string]string
}

// Recorder writes one audit entry per tracked mutation. The persistence
// layer calls Created/Updated/Deleted explicitly around every write of a
// tracked entity.
//
// The recorder is deliberately fail-open in both directions: a mutation
// with no authenticated actor in the context is not logged at all, and a
// failed audit write is logged and swallowed so the primary operation
// never fails or rolls back on account of its audit trail.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder creates a Recorder over the given store.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Created records a CREATE of a tracked entity. The details payload is
// the entity's identifying summary.
func (r *Recorder) Created(ctx context.Context, e Trackable) {
	r.append(ctx, ActionCreate, e, e.AuditSummary())
}

// Updated records an UPDATE. before is the entity's persisted state
// loaded prior to the mutation; a no-op update (empty diff) writes
// nothing.
func (r *Recorder) Updated(ctx context.Context, before, after Trackable) {
	changes := Diff(before.AuditFields(), after.AuditFields())
	if len(changes) == 0 {
		return
	}
	details := after.AuditSummary()
	details["changes"] = changes.toDetails()
	r.append(ctx, ActionUpdate, after, details)
}

// Deleted records a DELETE with the pre-deletion summary.
func (r *Recorder) Deleted(ctx context.Context, e Trackable) {
	r.append(ctx, ActionDelete, e, e.AuditSummary())
}

func (r *Recorder) append(ctx context.Context, action Action, e Trackable, details map[string]any) {
	a, ok := actor.FromContext(ctx)
	if !ok {
		// System and agent operations carry no actor; skip.
		r.logger.Debug("skipping audit entry, no authenticated actor",
			"action", string(action), "table", e.AuditKind(), "id", e.AuditEntityID())
		return
	}

	entry := &Entry{
		ID:            uuid.New().String(),
		ActorUsername: a.Username,
		Action:        action,
		TargetTable:   e.AuditKind(),
		TargetID:      e.AuditEntityID(),
		Details:       models.JSONAny(details),
	}
	if a.ID != 0 {
		id := a.ID
		entry.ActorID = &id
	}

	// Best-effort write: never propagate audit failures to the mutation.
	if err := r.store.Append(entry); err != nil {
		r.logger.Error("failed to write audit entry",
			"error", err, "action", string(action),
			"table", e.AuditKind(), "id", e.AuditEntityID())
	}
}
