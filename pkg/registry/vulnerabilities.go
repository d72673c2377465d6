package registry

import (
	"context"
	"fmt"

	"github.com/sigat/asset-registry/pkg/models"
)

// Vulnerability records are reference data maintained by staff; they are
// not part of the audit-tracked entity set. Deleting one marks the
// scanner's open warnings for it as false positives on the next
// reconciliation run.

func validateVulnerability(v *models.SoftwareVulnerability) error {
	if v.Title == "" {
		return &ConflictError{Message: "vulnerability title is required"}
	}
	if v.SafeVersionFrom == "" {
		return &ConflictError{Message: "safe version is required"}
	}
	return nil
}

// CreateVulnerability persists a new vulnerability for a catalog entry.
func (s *Store) CreateVulnerability(ctx context.Context, v *models.SoftwareVulnerability) error {
	if err := validateVulnerability(v); err != nil {
		return err
	}
	if _, err := loadByID[models.SoftwareCatalog](s, v.SoftwareID); err != nil {
		return err
	}
	if err := s.db.Create(v).Error; err != nil {
		return fmt.Errorf("create vulnerability: %w", err)
	}
	return nil
}

// GetVulnerability loads a vulnerability with its catalog entry.
func (s *Store) GetVulnerability(id uint) (*models.SoftwareVulnerability, error) {
	return loadByID[models.SoftwareVulnerability](s, id, "Software")
}

// ListVulnerabilities returns vulnerabilities, optionally for one
// catalog entry, newest first.
func (s *Store) ListVulnerabilities(softwareID uint) ([]models.SoftwareVulnerability, error) {
	q := s.db.Preload("Software")
	if softwareID != 0 {
		q = q.Where("software_id = ?", softwareID)
	}
	var out []models.SoftwareVulnerability
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list vulnerabilities: %w", err)
	}
	return out, nil
}

// UpdateVulnerability saves a vulnerability record.
func (s *Store) UpdateVulnerability(ctx context.Context, v *models.SoftwareVulnerability) error {
	if err := validateVulnerability(v); err != nil {
		return err
	}
	before, err := loadByID[models.SoftwareVulnerability](s, v.ID)
	if err != nil {
		return err
	}
	if v.SoftwareID != before.SoftwareID {
		if _, err := loadByID[models.SoftwareCatalog](s, v.SoftwareID); err != nil {
			return err
		}
	}
	v.CreatedAt = before.CreatedAt
	if err := s.db.Save(v).Error; err != nil {
		return fmt.Errorf("update vulnerability: %w", err)
	}
	return nil
}

// DeleteVulnerability removes a vulnerability record. Open warnings
// raised from it are closed by the reconciler, not here.
func (s *Store) DeleteVulnerability(ctx context.Context, id uint) error {
	v, err := loadByID[models.SoftwareVulnerability](s, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(v).Error; err != nil {
		return fmt.Errorf("delete vulnerability: %w", err)
	}
	return nil
}
