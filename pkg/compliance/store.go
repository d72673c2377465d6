package compliance

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/audit"
	"github.com/sigat/asset-registry/pkg/models"
)

// ErrNotFound is returned when a warning does not exist.
var ErrNotFound = fmt.Errorf("compliance warning not found")

// WarningStore provides persistence and status transitions for
// compliance warnings. Mutations go through the audit recorder.
type WarningStore struct {
	db       *gorm.DB
	recorder *audit.Recorder
	machine  *StatusMachine
}

// NewWarningStore creates a new WarningStore.
func NewWarningStore(db *gorm.DB, recorder *audit.Recorder) *WarningStore {
	return &WarningStore{db: db, recorder: recorder, machine: NewStatusMachine()}
}

// Create persists a new warning (status NUEVA unless set) and records
// the creation when an actor is present.
func (s *WarningStore) Create(ctx context.Context, w *models.ComplianceWarning) error {
	if w.Status == "" {
		w.Status = models.WarningNew
	}
	if err := s.db.Create(w).Error; err != nil {
		return fmt.Errorf("create compliance warning: %w", err)
	}
	s.recorder.Created(ctx, *w)
	return nil
}

// Get retrieves a warning by id. Returns ErrNotFound when absent.
func (s *WarningStore) Get(id uint) (*models.ComplianceWarning, error) {
	var w models.ComplianceWarning
	err := s.db.Preload("Asset").First(&w, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get compliance warning: %w", err)
	}
	return &w, nil
}

// ListFilter narrows warning listings. Zero values mean "no filter".
type ListFilter struct {
	AssetID  uint
	Category string
	Status   models.WarningStatus
}

// List returns warnings newest-first. pageToken is the id of the last
// record from the previous page; pass 0 for the first page.
func (s *WarningStore) List(filter ListFilter, pageSize int, pageToken uint) ([]models.ComplianceWarning, uint, int, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	base := s.db.Model(&models.ComplianceWarning{})
	if filter.AssetID != 0 {
		base = base.Where("asset_id = ?", filter.AssetID)
	}
	if filter.Category != "" {
		base = base.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		base = base.Where("status = ?", filter.Status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, 0, fmt.Errorf("count compliance warnings: %w", err)
	}

	query := base.Session(&gorm.Session{}).Order("id DESC").Limit(pageSize + 1)
	if pageToken != 0 {
		query = query.Where("id < ?", pageToken)
	}

	var warnings []models.ComplianceWarning
	if err := query.Find(&warnings).Error; err != nil {
		return nil, 0, 0, fmt.Errorf("list compliance warnings: %w", err)
	}

	var nextToken uint
	if len(warnings) > pageSize {
		nextToken = warnings[pageSize-1].ID
		warnings = warnings[:pageSize]
	}

	return warnings, nextToken, int(total), nil
}

// OpenByCategory returns every NUEVA or EN_REVISION warning in the
// given category. Used by the vulnerability reconciler.
func (s *WarningStore) OpenByCategory(category string) ([]models.ComplianceWarning, error) {
	var warnings []models.ComplianceWarning
	err := s.db.Where("category = ? AND status IN ?", category,
		[]models.WarningStatus{models.WarningNew, models.WarningInReview}).
		Find(&warnings).Error
	if err != nil {
		return nil, fmt.Errorf("list open warnings: %w", err)
	}
	return warnings, nil
}

// HasOpenForVulnerability reports whether an open SOFTWARE_VULNERABLE
// warning already exists for the (asset, vulnerability) pair.
func (s *WarningStore) HasOpenForVulnerability(assetID uint, vulnerabilityID uint) (bool, error) {
	warnings, err := s.OpenByCategory(models.CategorySoftwareVulnerable)
	if err != nil {
		return false, err
	}
	for _, w := range warnings {
		if w.AssetID != assetID {
			continue
		}
		if id, ok := evidenceUint(w.Evidence, "vulnerability_id"); ok && id == vulnerabilityID {
			return true, nil
		}
	}
	return false, nil
}

// Transition moves a warning to a new status. Entering EN_REVISION or a
// terminal state stamps resolved_by from the context actor; returning to
// NUEVA clears it. notes, when non-empty, replace the resolution notes;
// a reopen without notes drops the stale ones.
func (s *WarningStore) Transition(ctx context.Context, id uint, to models.WarningStatus, notes string) (*models.ComplianceWarning, error) {
	var w models.ComplianceWarning
	if err := s.db.First(&w, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load compliance warning: %w", err)
	}
	before := w

	if err := s.machine.ValidateTransition(w.Status, to); err != nil {
		return nil, err
	}

	w.Status = to
	switch to {
	case models.WarningNew:
		w.ResolvedByID = nil
		w.ResolutionNotes = notes
	default:
		if notes != "" {
			w.ResolutionNotes = notes
		}
		if a, ok := actor.FromContext(ctx); ok && a.ID != 0 {
			uid := a.ID
			w.ResolvedByID = &uid
		}
	}

	if err := s.db.Save(&w).Error; err != nil {
		return nil, fmt.Errorf("save compliance warning: %w", err)
	}
	s.recorder.Updated(ctx, before, w)
	return &w, nil
}

// evidenceUint reads a numeric evidence field. JSON round-trips numbers
// as float64.
func evidenceUint(ev models.JSONAny, key string) (uint, bool) {
	v, ok := ev[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return uint(n), true
	case int:
		return uint(n), true
	case uint:
		return n, true
	}
	return 0, false
}
