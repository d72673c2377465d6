package registry

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/pkg/models"
)

// CreateSoftware persists a new catalog entry.
func (s *Store) CreateSoftware(ctx context.Context, sw *models.SoftwareCatalog) error {
	return createEntity(ctx, s, sw, "software (name, developer) already exists")
}

// GetSoftware loads a catalog entry by id.
func (s *Store) GetSoftware(id uint) (*models.SoftwareCatalog, error) {
	return loadByID[models.SoftwareCatalog](s, id)
}

// ListSoftware returns the catalog ordered by name.
func (s *Store) ListSoftware() ([]models.SoftwareCatalog, error) {
	var out []models.SoftwareCatalog
	if err := s.db.Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list software catalog: %w", err)
	}
	return out, nil
}

// UpdateSoftware saves a catalog entry and records the diff.
func (s *Store) UpdateSoftware(ctx context.Context, sw *models.SoftwareCatalog) error {
	before, err := loadByID[models.SoftwareCatalog](s, sw.ID)
	if err != nil {
		return err
	}
	return updateEntity(ctx, s, before, sw, "software (name, developer) already exists")
}

// DeleteSoftware removes a catalog entry.
func (s *Store) DeleteSoftware(ctx context.Context, id uint) error {
	sw, err := loadByID[models.SoftwareCatalog](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, sw)
}

// CreateLicense persists a new license for a catalog entry.
func (s *Store) CreateLicense(ctx context.Context, l *models.License) error {
	if l.Quantity < 1 {
		return &ConflictError{Message: "license quantity must be at least 1"}
	}
	if _, err := loadByID[models.SoftwareCatalog](s, l.SoftwareID); err != nil {
		return err
	}
	return createEntity(ctx, s, l, "license already exists")
}

// GetLicense loads a license with its catalog entry.
func (s *Store) GetLicense(id uint) (*models.License, error) {
	return loadByID[models.License](s, id, "Software")
}

// ListLicenses returns all licenses ordered by id.
func (s *Store) ListLicenses() ([]models.License, error) {
	var out []models.License
	if err := s.db.Preload("Software").Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	return out, nil
}

// UpdateLicense saves a license and records the diff. The license key is
// redacted from the audit trail by the diff engine.
func (s *Store) UpdateLicense(ctx context.Context, l *models.License) error {
	before, err := loadByID[models.License](s, l.ID)
	if err != nil {
		return err
	}
	l.CreatedAt = before.CreatedAt
	return updateEntity(ctx, s, before, l, "license conflict")
}

// DeleteLicense removes a license. Installations keep a null license via
// the foreign-key constraint.
func (s *Store) DeleteLicense(ctx context.Context, id uint) error {
	l, err := loadByID[models.License](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, l)
}

// CreateInstallation links software to an asset. When a license is
// given, the seat check and the duplicate check run inside the same
// transaction as the insert so concurrent assignments cannot oversubscribe
// the license.
func (s *Store) CreateInstallation(ctx context.Context, inst *models.InstalledSoftware) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if inst.LicenseID != nil {
			if err := checkLicenseSeats(tx, *inst.LicenseID, inst.SoftwareID); err != nil {
				return err
			}
		}
		if err := tx.Create(inst).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "software already installed on this asset"}
			}
			return fmt.Errorf("create installation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recorder.Created(ctx, *inst)
	return nil
}

// GetInstallation loads an installation with its associations.
func (s *Store) GetInstallation(id uint) (*models.InstalledSoftware, error) {
	return loadByID[models.InstalledSoftware](s, id, "Software", "License")
}

// ListInstallations returns installations, optionally for one asset.
func (s *Store) ListInstallations(assetID uint) ([]models.InstalledSoftware, error) {
	q := s.db.Preload("Software").Preload("License")
	if assetID != 0 {
		q = q.Where("asset_id = ?", assetID)
	}
	var out []models.InstalledSoftware
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list installations: %w", err)
	}
	return out, nil
}

// UpdateInstallation saves an installation; a newly assigned license is
// seat-checked in the same transaction.
func (s *Store) UpdateInstallation(ctx context.Context, inst *models.InstalledSoftware) error {
	before, err := loadByID[models.InstalledSoftware](s, inst.ID)
	if err != nil {
		return err
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		licenseChanged := inst.LicenseID != nil &&
			(before.LicenseID == nil || *before.LicenseID != *inst.LicenseID)
		if licenseChanged {
			if err := checkLicenseSeats(tx, *inst.LicenseID, inst.SoftwareID); err != nil {
				return err
			}
		}
		if err := tx.Save(inst).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Message: "software already installed on this asset"}
			}
			return fmt.Errorf("update installation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recorder.Updated(ctx, *before, *inst)
	return nil
}

// DeleteInstallation removes an installation.
func (s *Store) DeleteInstallation(ctx context.Context, id uint) error {
	inst, err := loadByID[models.InstalledSoftware](s, id)
	if err != nil {
		return err
	}
	return deleteEntity(ctx, s, inst)
}

// checkLicenseSeats verifies the license belongs to the installed
// software and still has a free seat. Advisory application-level check;
// must run inside the assignment transaction.
func checkLicenseSeats(tx *gorm.DB, licenseID, softwareID uint) error {
	var license models.License
	if err := tx.First(&license, licenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load license %d: %w", licenseID, err)
	}
	if license.SoftwareID != softwareID {
		return &ConflictError{Message: "license belongs to a different software product"}
	}

	var inUse int64
	err := tx.Model(&models.InstalledSoftware{}).
		Where("license_id = ?", licenseID).
		Count(&inUse).Error
	if err != nil {
		return fmt.Errorf("count license seats: %w", err)
	}
	if inUse >= int64(license.Quantity) {
		return &ConflictError{
			Message: fmt.Sprintf("license has no free seats (%d of %d in use)", inUse, license.Quantity),
		}
	}
	return nil
}
