package models

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates every registry table.
func AutoMigrate(db *gorm.DB) error {
	entities := []any{
		&Department{},
		&Employee{},
		&SystemUser{},
		&Asset{},
		&ComputerDetail{},
		&StorageDevice{},
		&GraphicsCard{},
		&SoftwareCatalog{},
		&License{},
		&InstalledSoftware{},
		&SoftwareVulnerability{},
		&ComplianceWarning{},
		&AssetCheckin{},
		&ObsolescenceRules{},
	}
	for _, e := range entities {
		if err := db.AutoMigrate(e); err != nil {
			return fmt.Errorf("auto-migrate %T: %w", e, err)
		}
	}
	return nil
}
