package obsolescence

import (
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/internal/versionutil"
	"github.com/sigat/asset-registry/pkg/models"
)

// Result is the outcome of evaluating one asset against the rules.
type Result struct {
	Obsolete bool           `json:"isObsolete"`
	Reasons  []string       `json:"reasons"`
	Details  map[string]any `json:"details"`
}

// Evaluate checks one asset against the rules. Assets that are not
// computers, have no hardware snapshot, or are evaluated under disabled
// rules are never obsolete.
func Evaluate(asset *models.Asset, rules *models.ObsolescenceRules) Result {
	res := Result{Details: map[string]any{}}
	if !rules.Enabled {
		return res
	}
	if !asset.AssetType.IsComputer() {
		return res
	}
	if asset.Detail == nil {
		res.Details["missing_snapshot"] = true
		return res
	}

	detail := asset.Detail

	// OS build check only applies to Windows machines.
	if strings.Contains(detail.OSName, "Windows") {
		if versionutil.Compare(detail.OSVersion, rules.WindowsMinVersion) < 0 {
			res.Reasons = append(res.Reasons,
				fmt.Sprintf("Sistema operativo obsoleto: %s %s (mínimo: %s)",
					detail.OSName, detail.OSVersion, rules.WindowsMinVersion))
			res.Details["os_version"] = detail.OSVersion
			res.Details["os_min_required"] = rules.WindowsMinVersion
		}
	}

	if detail.RAMGB < rules.RAMMinGB {
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("RAM insuficiente: %g GB (mínimo: %g GB)", detail.RAMGB, rules.RAMMinGB))
		res.Details["ram_gb"] = detail.RAMGB
		res.Details["ram_min_required"] = rules.RAMMinGB
	}

	// Every disk below the free-space threshold is reported.
	var lowDisks []map[string]any
	for _, disk := range asset.StorageDevices {
		if disk.CapacityGB == nil || *disk.CapacityGB <= 0 || disk.FreeSpaceGB == nil {
			continue
		}
		freePercent := *disk.FreeSpaceGB / *disk.CapacityGB * 100
		if freePercent >= rules.DiskMinFreePercent {
			continue
		}
		name := disk.Model
		if name == "" {
			name = "Disco"
		}
		res.Reasons = append(res.Reasons,
			fmt.Sprintf("Disco con poco espacio: %s - %.1f%% libre (mínimo: %g%%)",
				name, freePercent, rules.DiskMinFreePercent))
		lowDisks = append(lowDisks, map[string]any{
			"model":        disk.Model,
			"free_percent": math.Round(freePercent*100) / 100,
			"min_required": rules.DiskMinFreePercent,
		})
	}
	if len(lowDisks) > 0 {
		res.Details["low_disk_drives"] = lowDisks
	}

	res.Obsolete = len(res.Reasons) > 0
	return res
}

// ObsoleteAsset is one row of the obsolete-assets report.
type ObsoleteAsset struct {
	AssetID       uint           `json:"assetId"`
	InventoryCode string         `json:"inventoryCode"`
	AssetType     string         `json:"assetType"`
	Brand         string         `json:"brand,omitempty"`
	Model         string         `json:"model,omitempty"`
	Department    string         `json:"department,omitempty"`
	Employee      string         `json:"employee,omitempty"`
	Reasons       []string       `json:"reasons"`
	Details       map[string]any `json:"details"`
}

// Evaluator produces the obsolete-assets report.
type Evaluator struct {
	db    *gorm.DB
	rules *RulesStore
}

// NewEvaluator creates a new Evaluator.
func NewEvaluator(db *gorm.DB, rules *RulesStore) *Evaluator {
	return &Evaluator{db: db, rules: rules}
}

// ObsoleteAssets evaluates every computer asset against the current
// rules and returns the obsolete ones. Read-only; no warnings are
// created.
func (e *Evaluator) ObsoleteAssets() ([]ObsoleteAsset, error) {
	rules, err := e.rules.Get()
	if err != nil {
		return nil, err
	}
	if !rules.Enabled {
		return nil, nil
	}

	var assets []models.Asset
	err = e.db.
		Preload("Detail").
		Preload("StorageDevices").
		Preload("Department").
		Preload("Employee").
		Where("asset_type IN ?", []models.AssetType{models.AssetNotebook, models.AssetDesktop}).
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("list computer assets: %w", err)
	}

	var report []ObsoleteAsset
	for i := range assets {
		asset := &assets[i]
		res := Evaluate(asset, rules)
		if !res.Obsolete {
			continue
		}
		row := ObsoleteAsset{
			AssetID:       asset.ID,
			InventoryCode: asset.InventoryCode,
			AssetType:     string(asset.AssetType),
			Brand:         asset.Brand,
			Model:         asset.Model,
			Reasons:       res.Reasons,
			Details:       res.Details,
		}
		if asset.Department != nil {
			row.Department = asset.Department.Name
		}
		if asset.Employee != nil {
			row.Employee = asset.Employee.FullName()
		}
		report = append(report, row)
	}
	return report, nil
}
