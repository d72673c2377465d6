package models

import "time"

// Severity classifies a software vulnerability.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// SoftwareCatalog is a deduplicated (name, developer) software product.
// Entries are auto-created on first sighting by CRUD or agent ingestion.
type SoftwareCatalog struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"id"`
	Name      string `gorm:"column:name;size:255;uniqueIndex:idx_software_name_dev,priority:1;not null" json:"name"`
	Developer string `gorm:"column:developer;size:255;uniqueIndex:idx_software_name_dev,priority:2" json:"developer"`
}

// TableName returns the GORM table name.
func (SoftwareCatalog) TableName() string { return "software_catalog" }

// License is a purchased seat pool for a catalog entry.
type License struct {
	ID             uint             `gorm:"primaryKey;column:id" json:"id"`
	SoftwareID     uint             `gorm:"column:software_id;index;not null" json:"softwareId"`
	Software       *SoftwareCatalog `gorm:"foreignKey:SoftwareID" json:"software,omitempty"`
	LicenseKey     string           `gorm:"column:license_key;type:text" json:"licenseKey"`
	PurchaseDate   *time.Time       `gorm:"column:purchase_date" json:"purchaseDate,omitempty"`
	ExpirationDate *time.Time       `gorm:"column:expiration_date" json:"expirationDate,omitempty"`
	Quantity       int              `gorm:"column:quantity;default:1;not null" json:"quantity"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (License) TableName() string { return "licenses" }

// InstalledSoftware links an asset to a catalog entry with the installed
// version. At most one row per (asset, software) pair.
type InstalledSoftware struct {
	ID          uint             `gorm:"primaryKey;column:id" json:"id"`
	AssetID     uint             `gorm:"column:asset_id;uniqueIndex:idx_installed_asset_sw,priority:1;not null" json:"assetId"`
	Asset       *Asset           `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	SoftwareID  uint             `gorm:"column:software_id;uniqueIndex:idx_installed_asset_sw,priority:2;not null" json:"softwareId"`
	Software    *SoftwareCatalog `gorm:"foreignKey:SoftwareID" json:"software,omitempty"`
	Version     string           `gorm:"column:version;size:50" json:"version"`
	InstallDate *time.Time       `gorm:"column:install_date" json:"installDate,omitempty"`
	LicenseID   *uint            `gorm:"column:license_id;index" json:"licenseId,omitempty"`
	License     *License         `gorm:"foreignKey:LicenseID;constraint:OnDelete:SET NULL" json:"license,omitempty"`
}

// TableName returns the GORM table name.
func (InstalledSoftware) TableName() string { return "installed_software" }

// SoftwareVulnerability describes a known-vulnerable version range of a
// catalog entry via the first safe version.
type SoftwareVulnerability struct {
	ID               uint             `gorm:"primaryKey;column:id" json:"id"`
	SoftwareID       uint             `gorm:"column:software_id;index;not null" json:"softwareId"`
	Software         *SoftwareCatalog `gorm:"foreignKey:SoftwareID;constraint:OnDelete:CASCADE" json:"software,omitempty"`
	CVEID            string           `gorm:"column:cve_id;size:50" json:"cveId"`
	Title            string           `gorm:"column:title;size:255;not null" json:"title"`
	Description      string           `gorm:"column:description;type:text" json:"description"`
	Severity         Severity         `gorm:"column:severity;size:20;default:MEDIUM;not null" json:"severity"`
	AffectedVersions string           `gorm:"column:affected_versions;size:255" json:"affectedVersions"`
	SafeVersionFrom  string           `gorm:"column:safe_version_from;size:50;not null" json:"safeVersionFrom"`
	LinkToDetails    string           `gorm:"column:link_to_details;size:512" json:"linkToDetails"`
	DiscoveredDate   *time.Time       `gorm:"column:discovered_date" json:"discoveredDate,omitempty"`
	CreatedAt        time.Time        `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

// TableName returns the GORM table name.
func (SoftwareVulnerability) TableName() string { return "software_vulnerabilities" }
