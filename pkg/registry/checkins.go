package registry

import (
	"context"
	"fmt"

	"github.com/sigat/asset-registry/pkg/models"
)

// CreateCheckin records a condition check-in of an assigned asset.
func (s *Store) CreateCheckin(ctx context.Context, c *models.AssetCheckin) error {
	if c.PhysicalState == "" {
		return &ConflictError{Message: "physical state is required"}
	}
	if c.PerformanceSatisfaction != nil &&
		(*c.PerformanceSatisfaction < 1 || *c.PerformanceSatisfaction > 5) {
		return &ConflictError{Message: "performance satisfaction must be between 1 and 5"}
	}
	if _, err := loadByID[models.Asset](s, c.AssetID); err != nil {
		return err
	}
	if _, err := loadByID[models.Employee](s, c.EmployeeID); err != nil {
		return err
	}
	return createEntity(ctx, s, c, "checkin conflict")
}

// ListCheckins returns check-ins newest-first, optionally for one asset.
func (s *Store) ListCheckins(assetID uint) ([]models.AssetCheckin, error) {
	q := s.db.Preload("Employee")
	if assetID != 0 {
		q = q.Where("asset_id = ?", assetID)
	}
	var out []models.AssetCheckin
	if err := q.Order("checkin_date DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	return out, nil
}
