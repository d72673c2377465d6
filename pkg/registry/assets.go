package registry

import (
	"context"
	"fmt"

	"github.com/sigat/asset-registry/pkg/models"
)

// CreateAsset persists a new asset. Inventory code and serial number
// collisions are client errors.
func (s *Store) CreateAsset(ctx context.Context, a *models.Asset) error {
	return createEntity(ctx, s, a, "inventory code or serial number already in use")
}

// GetAsset loads an asset with its hardware snapshot and associations.
func (s *Store) GetAsset(id uint) (*models.Asset, error) {
	return loadByID[models.Asset](s, id,
		"Detail", "StorageDevices", "GraphicsCards", "Employee", "Department")
}

// AssetFilter narrows asset listings. Zero values mean "no filter".
type AssetFilter struct {
	Type         models.AssetType
	Status       models.AssetStatus
	EmployeeID   uint
	DepartmentID uint
}

// ListAssets returns assets matching the filter, ordered by id.
func (s *Store) ListAssets(filter AssetFilter) ([]models.Asset, error) {
	q := s.db.Model(&models.Asset{})
	if filter.Type != "" {
		q = q.Where("asset_type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.EmployeeID != 0 {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.DepartmentID != 0 {
		q = q.Where("department_id = ?", filter.DepartmentID)
	}
	var assets []models.Asset
	if err := q.Order("id").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

// UpdateAsset saves changed asset fields and records the diff. An update
// is a full replacement; only the server-managed creation timestamp
// survives from the stored row.
func (s *Store) UpdateAsset(ctx context.Context, a *models.Asset) error {
	before, err := loadByID[models.Asset](s, a.ID)
	if err != nil {
		return err
	}
	a.CreatedAt = before.CreatedAt
	return updateEntity(ctx, s, before, a, "inventory code or serial number already in use")
}

// DeleteAsset removes an asset, capturing its pre-deletion snapshot.
func (s *Store) DeleteAsset(ctx context.Context, id uint) error {
	a, err := loadByID[models.Asset](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, a)
}
