package registry

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/sigat/asset-registry/pkg/models"
)

// reportTopN caps the per-section size of the license usage report.
const reportTopN = 10

// LicenseUsage summarizes seat consumption across all licenses of one
// catalog entry.
type LicenseUsage struct {
	Name      string `json:"name"`
	Total     int    `json:"total"`
	InUse     int    `json:"inUse"`
	Available int    `json:"available"`
}

// UnlicensedCount is the number of license-less installations of one
// catalog entry.
type UnlicensedCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LicenseUsageReport pairs seat consumption with the software installed
// without any license at all.
type LicenseUsageReport struct {
	LicenseUsage   []LicenseUsage    `json:"licenseUsage"`
	WithoutLicense []UnlicensedCount `json:"withoutLicense"`
}

// LicenseUsageReport aggregates seat totals, seats in use and unlicensed
// installations per software product, largest pools first.
func (s *Store) LicenseUsageReport() (*LicenseUsageReport, error) {
	var licenses []models.License
	if err := s.db.Preload("Software").Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("load licenses: %w", err)
	}

	var seatRows []struct {
		LicenseID uint
		Total     int
	}
	err := s.db.Model(&models.InstalledSoftware{}).
		Select("license_id, count(*) AS total").
		Where("license_id IS NOT NULL").
		Group("license_id").
		Scan(&seatRows).Error
	if err != nil {
		return nil, fmt.Errorf("count seats in use: %w", err)
	}
	seatsInUse := make(map[uint]int, len(seatRows))
	for _, r := range seatRows {
		seatsInUse[r.LicenseID] = r.Total
	}

	perSoftware := make(map[uint]*LicenseUsage)
	for _, lic := range licenses {
		u := perSoftware[lic.SoftwareID]
		if u == nil {
			u = &LicenseUsage{Name: softwareLabel(lic.Software)}
			perSoftware[lic.SoftwareID] = u
		}
		u.Total += lic.Quantity
		u.InUse += seatsInUse[lic.ID]
	}
	usage := make([]LicenseUsage, 0, len(perSoftware))
	for _, u := range perSoftware {
		u.Available = u.Total - u.InUse
		if u.Available < 0 {
			u.Available = 0
		}
		usage = append(usage, *u)
	}
	sort.Slice(usage, func(i, j int) bool {
		if usage[i].Total != usage[j].Total {
			return usage[i].Total > usage[j].Total
		}
		return usage[i].Name < usage[j].Name
	})
	if len(usage) > reportTopN {
		usage = usage[:reportTopN]
	}

	var unlicensed []models.InstalledSoftware
	err = s.db.Preload("Software").
		Where("license_id IS NULL").
		Find(&unlicensed).Error
	if err != nil {
		return nil, fmt.Errorf("load unlicensed installations: %w", err)
	}
	perLabel := make(map[string]int)
	for _, inst := range unlicensed {
		perLabel[softwareLabel(inst.Software)]++
	}
	without := make([]UnlicensedCount, 0, len(perLabel))
	for label, count := range perLabel {
		without = append(without, UnlicensedCount{Label: label, Count: count})
	}
	sort.Slice(without, func(i, j int) bool {
		if without[i].Count != without[j].Count {
			return without[i].Count > without[j].Count
		}
		return without[i].Label < without[j].Label
	})
	if len(without) > reportTopN {
		without = without[:reportTopN]
	}

	return &LicenseUsageReport{LicenseUsage: usage, WithoutLicense: without}, nil
}

func softwareLabel(sw *models.SoftwareCatalog) string {
	if sw == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", sw.Name, sw.Developer)
}

// LicenseUsageHandler handles GET /reports/licenses-usage.
func LicenseUsageHandler(s *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := s.LicenseUsageReport()
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to build report: %v", err))
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}
