package models

import "time"

// WarningStatus is the review status of a compliance warning. Stored
// values match the reference system's Spanish codes.
type WarningStatus string

const (
	WarningNew           WarningStatus = "NUEVA"
	WarningInReview      WarningStatus = "EN_REVISION"
	WarningResolved      WarningStatus = "RESUELTA"
	WarningFalsePositive WarningStatus = "FALSO_POSITIVO"
)

// Warning categories the core treats specially. Category is otherwise
// free text.
const (
	CategorySoftwareVulnerable = "SOFTWARE_VULNERABLE"
	CategoryUnlicensedSoftware = "Software Ilegal/No Autorizado"
	CategoryHardwareChange     = "Hardware Change"
)

// ComplianceWarning is a flagged condition on an asset requiring human
// review. Warnings are never auto-deleted; stale ones are transitioned.
type ComplianceWarning struct {
	ID              uint          `gorm:"primaryKey;column:id" json:"id"`
	AssetID         uint          `gorm:"column:asset_id;index;not null" json:"assetId"`
	Asset           *Asset        `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"asset,omitempty"`
	DetectionDate   time.Time     `gorm:"column:detection_date;autoCreateTime;index" json:"detectionDate"`
	Category        string        `gorm:"column:category;size:100;index;not null" json:"category"`
	Description     string        `gorm:"column:description;type:text;not null" json:"description"`
	Evidence        JSONAny       `gorm:"column:evidence;type:text" json:"evidence,omitempty"`
	Status          WarningStatus `gorm:"column:status;size:50;default:NUEVA;index;not null" json:"status"`
	ResolvedByID    *uint         `gorm:"column:resolved_by_id" json:"resolvedById,omitempty"`
	ResolvedBy      *SystemUser   `gorm:"foreignKey:ResolvedByID;constraint:OnDelete:SET NULL" json:"resolvedBy,omitempty"`
	ResolutionNotes string        `gorm:"column:resolution_notes;type:text" json:"resolutionNotes"`
}

// TableName returns the GORM table name.
func (ComplianceWarning) TableName() string { return "compliance_warnings" }

// Open reports whether the warning still needs review.
func (w ComplianceWarning) Open() bool {
	return w.Status == WarningNew || w.Status == WarningInReview
}

// ObsolescenceRulesID is the fixed primary key of the singleton rules row.
const ObsolescenceRulesID uint = 1

// ObsolescenceRules is the singleton hardware-obsolescence configuration.
type ObsolescenceRules struct {
	ID                 uint      `gorm:"primaryKey;column:id" json:"id"`
	WindowsMinVersion  string    `gorm:"column:windows_min_version;size:50;not null" json:"windowsMinVersion"`
	RAMMinGB           float64   `gorm:"column:ram_min_gb;not null" json:"ramMinGb"`
	DiskMinFreePercent float64   `gorm:"column:disk_min_free_percent;not null" json:"diskMinFreePercent"`
	Enabled            bool      `gorm:"column:enabled;default:true;not null" json:"enabled"`
	UpdatedBy          string    `gorm:"column:updated_by;size:150" json:"updatedBy,omitempty"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (ObsolescenceRules) TableName() string { return "hardware_obsolescence_rules" }

// DefaultObsolescenceRules returns the rules row created on first access.
func DefaultObsolescenceRules() *ObsolescenceRules {
	return &ObsolescenceRules{
		ID:                 ObsolescenceRulesID,
		WindowsMinVersion:  "10.0.19041",
		RAMMinGB:           8,
		DiskMinFreePercent: 10,
		Enabled:            true,
	}
}
