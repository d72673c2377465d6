// Package vuln scans installed software against the vulnerability
// catalog and reconciles SOFTWARE_VULNERABLE compliance warnings.
package vuln

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/internal/versionutil"
	"github.com/sigat/asset-registry/pkg/compliance"
	"github.com/sigat/asset-registry/pkg/models"
)

// VulnerableInstallation is one (installation, vulnerability) match. A
// single installation appears once per vulnerability affecting it.
type VulnerableInstallation struct {
	AssetID            uint            `json:"assetId"`
	InventoryCode      string          `json:"inventoryCode"`
	InstallationID     uint            `json:"installationId"`
	SoftwareName       string          `json:"softwareName"`
	InstalledVersion   string          `json:"installedVersion"`
	VulnerabilityID    uint            `json:"vulnerabilityId"`
	VulnerabilityTitle string          `json:"vulnerabilityTitle"`
	SafeVersion        string          `json:"safeVersion"`
	Severity           models.Severity `json:"severity"`
	CVEID              string          `json:"cveId"`
}

// Scanner matches installed software against the vulnerability catalog
// and maintains the SOFTWARE_VULNERABLE warning set.
type Scanner struct {
	db       *gorm.DB
	warnings *compliance.WarningStore
	logger   *slog.Logger
}

// NewScanner creates a new Scanner.
func NewScanner(db *gorm.DB, warnings *compliance.WarningStore, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{db: db, warnings: warnings, logger: logger}
}

// VulnerableInstallations scans every installation with a known version
// against every vulnerability of its catalog entry. Read-only.
func (s *Scanner) VulnerableInstallations() ([]VulnerableInstallation, error) {
	var installations []models.InstalledSoftware
	err := s.db.
		Preload("Asset").
		Preload("Software").
		Where("version IS NOT NULL AND version <> ''").
		Find(&installations).Error
	if err != nil {
		return nil, fmt.Errorf("list installations: %w", err)
	}
	if len(installations) == 0 {
		return nil, nil
	}

	softwareIDs := make([]uint, 0, len(installations))
	for _, inst := range installations {
		softwareIDs = append(softwareIDs, inst.SoftwareID)
	}
	var vulns []models.SoftwareVulnerability
	if err := s.db.Where("software_id IN ?", softwareIDs).Find(&vulns).Error; err != nil {
		return nil, fmt.Errorf("list vulnerabilities: %w", err)
	}
	bySoftware := make(map[uint][]models.SoftwareVulnerability)
	for _, v := range vulns {
		bySoftware[v.SoftwareID] = append(bySoftware[v.SoftwareID], v)
	}

	var matches []VulnerableInstallation
	for _, inst := range installations {
		for _, v := range bySoftware[inst.SoftwareID] {
			if !versionutil.IsVulnerable(inst.Version, v.SafeVersionFrom) {
				continue
			}
			m := VulnerableInstallation{
				AssetID:            inst.AssetID,
				InstallationID:     inst.ID,
				InstalledVersion:   inst.Version,
				VulnerabilityID:    v.ID,
				VulnerabilityTitle: v.Title,
				SafeVersion:        v.SafeVersionFrom,
				Severity:           v.Severity,
				CVEID:              v.CVEID,
			}
			if inst.Asset != nil {
				m.InventoryCode = inst.Asset.InventoryCode
			}
			if inst.Software != nil {
				m.SoftwareName = inst.Software.Name
			}
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// ReconcileResult reports one reconciliation run.
type ReconcileResult struct {
	WarningsCreated int `json:"warningsCreated"`
	WarningsCleaned int `json:"warningsCleaned"`
}

// GenerateWarnings runs the two-phase warning reconciliation. First open
// warnings whose vulnerability vanished or whose installation is no
// longer vulnerable are closed, then a NUEVA warning is created for every
// vulnerable installation not yet warned about. Safe to run repeatedly.
func (s *Scanner) GenerateWarnings(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	cleaned, err := s.cleanupStale(ctx)
	if err != nil {
		return result, err
	}
	result.WarningsCleaned = cleaned

	matches, err := s.VulnerableInstallations()
	if err != nil {
		return result, err
	}
	for _, m := range matches {
		exists, err := s.warnings.HasOpenForVulnerability(m.AssetID, m.VulnerabilityID)
		if err != nil {
			return result, err
		}
		if exists {
			continue
		}

		description := fmt.Sprintf(
			"Se detectó software vulnerable: %s versión %s. Actualizar a versión %s o superior.",
			m.SoftwareName, m.InstalledVersion, m.SafeVersion)
		if m.CVEID != "" {
			description += fmt.Sprintf(" (CVE: %s)", m.CVEID)
		}

		w := &models.ComplianceWarning{
			AssetID:     m.AssetID,
			Category:    models.CategorySoftwareVulnerable,
			Description: description,
			Evidence: models.JSONAny{
				"vulnerability_id":    m.VulnerabilityID,
				"software_name":       m.SoftwareName,
				"installed_version":   m.InstalledVersion,
				"safe_version":        m.SafeVersion,
				"severity":            string(m.Severity),
				"cve_id":              m.CVEID,
				"vulnerability_title": m.VulnerabilityTitle,
			},
			Status: models.WarningNew,
		}
		if err := s.warnings.Create(ctx, w); err != nil {
			return result, err
		}
		result.WarningsCreated++
	}

	s.logger.Info("vulnerability warning reconciliation finished",
		"created", result.WarningsCreated, "cleaned", result.WarningsCleaned)
	return result, nil
}

// cleanupStale closes open SOFTWARE_VULNERABLE warnings that no longer
// describe a real finding.
func (s *Scanner) cleanupStale(ctx context.Context) (int, error) {
	open, err := s.warnings.OpenByCategory(models.CategorySoftwareVulnerable)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, w := range open {
		vulnID, ok := evidenceUint(w.Evidence, "vulnerability_id")
		if ok {
			var count int64
			if err := s.db.Model(&models.SoftwareVulnerability{}).
				Where("id = ?", vulnID).Count(&count).Error; err != nil {
				return cleaned, fmt.Errorf("check vulnerability %d: %w", vulnID, err)
			}
			if count == 0 {
				_, err := s.warnings.Transition(ctx, w.ID, models.WarningFalsePositive,
					"Vulnerabilidad eliminada del sistema")
				if err != nil {
					return cleaned, err
				}
				cleaned++
				continue
			}
		}

		softwareName, _ := w.Evidence["software_name"].(string)
		safeVersion, _ := w.Evidence["safe_version"].(string)
		if softwareName == "" || safeVersion == "" {
			continue
		}

		var inst models.InstalledSoftware
		err := s.db.
			Joins("JOIN software_catalog ON software_catalog.id = installed_software.software_id").
			Where("installed_software.asset_id = ? AND software_catalog.name = ?", w.AssetID, softwareName).
			First(&inst).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			// Installation removed from the asset.
			_, terr := s.warnings.Transition(ctx, w.ID, models.WarningResolved,
				"Software eliminado del equipo")
			if terr != nil {
				return cleaned, terr
			}
			cleaned++
		case err != nil:
			return cleaned, fmt.Errorf("check installation for warning %d: %w", w.ID, err)
		case !versionutil.IsVulnerable(inst.Version, safeVersion):
			_, terr := s.warnings.Transition(ctx, w.ID, models.WarningResolved,
				fmt.Sprintf("Software actualizado a versión %s", inst.Version))
			if terr != nil {
				return cleaned, terr
			}
			cleaned++
		}
	}
	return cleaned, nil
}

// evidenceUint reads a numeric evidence field. JSON round-trips numbers
// as float64.
func evidenceUint(ev models.JSONAny, key string) (uint, bool) {
	switch n := ev[key].(type) {
	case float64:
		return uint(n), true
	case int:
		return uint(n), true
	case uint:
		return n, true
	}
	return 0, false
}
