package agent

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/sigat/asset-registry/pkg/models"
)

// Chassis type codes per SMBIOS. Anything unrecognized is treated as a
// desktop.
var (
	laptopChassis  = map[int]bool{8: true, 9: true, 10: true, 11: true, 12: true, 14: true, 18: true, 21: true, 30: true, 31: true, 32: true}
	desktopChassis = map[int]bool{3: true, 4: true, 5: true, 6: true, 7: true, 13: true, 15: true, 16: true, 17: true, 23: true, 24: true, 34: true, 35: true, 36: true}
)

// inventoryPrefix maps a computer type to its inventory-code prefix.
var inventoryPrefix = map[models.AssetType]string{
	models.AssetNotebook: "NB-",
	models.AssetDesktop:  "PC-",
}

// maxIngestAttempts bounds retries when two first-time reports race on
// the same inventory code or hardware identifier.
const maxIngestAttempts = 3

// Result describes one processed report.
type Result struct {
	Created           bool     `json:"created"`
	AssetID           uint     `json:"assetId"`
	InventoryCode     string   `json:"inventoryCode"`
	WarningsGenerated int      `json:"warningsGenerated"`
	Changes           []string `json:"changes,omitempty"`
}

// Ingestor applies agent reports to the asset inventory. Each report is
// processed in a single transaction; agent calls are anonymous, so no
// audit entries are produced here.
type Ingestor struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewIngestor creates a new Ingestor.
func NewIngestor(db *gorm.DB, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{db: db, logger: logger}
}

// Ingest validates and applies a report. Unique-constraint conflicts
// from concurrent first-time reports retry the whole transaction.
func (ing *Ingestor) Ingest(report *Report) (*Result, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	var result *Result
	var err error
	for attempt := 0; attempt < maxIngestAttempts; attempt++ {
		result, err = ing.ingestOnce(report)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("ingest report for %s: %w", report.Hardware.UUID, err)
	}

	ing.logger.Info("agent report processed",
		"uuid", report.Hardware.UUID,
		"asset_id", result.AssetID,
		"created", result.Created,
		"warnings", result.WarningsGenerated,
		"changes", len(result.Changes))
	return result, nil
}

func (ing *Ingestor) ingestOnce(report *Report) (*Result, error) {
	result := &Result{}
	err := ing.db.Transaction(func(tx *gorm.DB) error {
		detail, err := ing.findDetail(tx, report.Hardware.UUID)
		if err != nil {
			return err
		}

		var assetID uint
		if detail != nil {
			assetID = detail.AssetID
			result.Changes = detectChanges(detail, report)
			var asset models.Asset
			if err := tx.First(&asset, assetID).Error; err != nil {
				return fmt.Errorf("load asset %d: %w", assetID, err)
			}
			result.InventoryCode = asset.InventoryCode
		} else {
			asset, err := ing.createAsset(tx, report)
			if err != nil {
				return err
			}
			assetID = asset.ID
			result.Created = true
			result.InventoryCode = asset.InventoryCode
			detail = &models.ComputerDetail{AssetID: assetID}
			if err := tx.Create(detail).Error; err != nil {
				return fmt.Errorf("create computer detail: %w", err)
			}
		}
		result.AssetID = assetID

		if err := ing.applySnapshot(tx, detail, report); err != nil {
			return err
		}
		if err := ing.replacePeripherals(tx, assetID, report); err != nil {
			return err
		}
		if err := ing.replaceSoftware(tx, assetID, report); err != nil {
			return err
		}

		warnings, err := ing.createWarnings(tx, assetID, report, result.Changes)
		if err != nil {
			return err
		}
		result.WarningsGenerated = warnings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (ing *Ingestor) findDetail(tx *gorm.DB, uuid string) (*models.ComputerDetail, error) {
	var detail models.ComputerDetail
	err := tx.Where("unique_identifier = ?", uuid).First(&detail).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup computer detail: %w", err)
	}
	return &detail, nil
}

// detectChanges compares the previous snapshot's CPU, RAM and OS name
// against the incoming report. Only those three fields are diffed.
func detectChanges(prev *models.ComputerDetail, report *Report) []string {
	var changes []string
	if prev.CPUModel != "" && prev.CPUModel != report.Hardware.CPUModelo {
		changes = append(changes, fmt.Sprintf("CPU cambió de %s a %s", prev.CPUModel, report.Hardware.CPUModelo))
	}
	if prev.RAMGB != 0 && prev.RAMGB != report.Hardware.MemoriaRAMGB {
		changes = append(changes, fmt.Sprintf("RAM cambió de %g GB a %g GB", prev.RAMGB, report.Hardware.MemoriaRAMGB))
	}
	if prev.OSName != "" && prev.OSName != report.SistemaOperativo.Nombre {
		changes = append(changes, fmt.Sprintf("Sistema operativo cambió de %s a %s", prev.OSName, report.SistemaOperativo.Nombre))
	}
	return changes
}

// classifyChassis maps an SMBIOS chassis code to an asset type.
func classifyChassis(code *int) models.AssetType {
	if code == nil {
		return models.AssetDesktop
	}
	if laptopChassis[*code] {
		return models.AssetNotebook
	}
	if desktopChassis[*code] {
		return models.AssetDesktop
	}
	return models.AssetDesktop
}

// nextInventoryCode allocates the next sequential code for the type,
// one past the highest numeric suffix already in use for the type's
// prefix. Gaps left by deleted or hand-assigned codes stay gaps. The
// unique index on inventory_code catches concurrent allocations;
// callers retry.
func nextInventoryCode(tx *gorm.DB, assetType models.AssetType) (string, error) {
	prefix := inventoryPrefix[assetType]
	var codes []string
	err := tx.Model(&models.Asset{}).
		Where("inventory_code LIKE ?", prefix+"%").
		Pluck("inventory_code", &codes).Error
	if err != nil {
		return "", fmt.Errorf("list %s inventory codes: %w", assetType, err)
	}
	highest := 0
	for _, code := range codes {
		n, err := strconv.Atoi(strings.TrimPrefix(code, prefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("%s%04d", prefix, highest+1), nil
}

func (ing *Ingestor) createAsset(tx *gorm.DB, report *Report) (*models.Asset, error) {
	assetType := classifyChassis(report.Hardware.TipoChasis)
	code, err := nextInventoryCode(tx, assetType)
	if err != nil {
		return nil, err
	}

	uuid := report.Hardware.UUID
	asset := &models.Asset{
		InventoryCode: code,
		SerialNumber:  uuid[len(uuid)-12:],
		AssetType:     assetType,
		Status:        models.StatusInStorage,
		Brand:         report.Hardware.PlacaMadreFabricante,
		Model:         report.Hardware.PlacaMadreModelo,
	}
	if err := tx.Create(asset).Error; err != nil {
		return nil, fmt.Errorf("create asset: %w", err)
	}
	return asset, nil
}

// applySnapshot overwrites the hardware/OS snapshot unconditionally.
func (ing *Ingestor) applySnapshot(tx *gorm.DB, detail *models.ComputerDetail, report *Report) error {
	now := time.Now().UTC()
	detail.UniqueIdentifier = report.Hardware.UUID
	detail.OSName = report.SistemaOperativo.Nombre
	detail.OSVersion = report.SistemaOperativo.Version
	detail.OSArch = report.SistemaOperativo.Arquitectura
	detail.CPUModel = report.Hardware.CPUModelo
	detail.RAMGB = report.Hardware.MemoriaRAMGB
	detail.MotherboardManufacturer = report.Hardware.PlacaMadreFabricante
	detail.MotherboardModel = report.Hardware.PlacaMadreModelo
	detail.LastAgentReport = &now
	if err := tx.Save(detail).Error; err != nil {
		return fmt.Errorf("save computer detail: %w", err)
	}
	return nil
}

// replacePeripherals fully replaces the disk and GPU sets.
func (ing *Ingestor) replacePeripherals(tx *gorm.DB, assetID uint, report *Report) error {
	if err := tx.Where("asset_id = ?", assetID).Delete(&models.StorageDevice{}).Error; err != nil {
		return fmt.Errorf("delete storage devices: %w", err)
	}
	for _, d := range report.Hardware.Discos {
		dev := models.StorageDevice{
			AssetID:      assetID,
			Model:        d.Modelo,
			SerialNumber: d.NumeroSerie,
			CapacityGB:   d.CapacidadGB,
			FreeSpaceGB:  d.EspacioLibreGB,
		}
		if err := tx.Create(&dev).Error; err != nil {
			return fmt.Errorf("create storage device: %w", err)
		}
	}

	if err := tx.Where("asset_id = ?", assetID).Delete(&models.GraphicsCard{}).Error; err != nil {
		return fmt.Errorf("delete graphics cards: %w", err)
	}
	for _, name := range report.Hardware.GPUs {
		if err := tx.Create(&models.GraphicsCard{AssetID: assetID, ModelName: name}).Error; err != nil {
			return fmt.Errorf("create graphics card: %w", err)
		}
	}
	return nil
}

// replaceSoftware fully replaces the installed-software set, but only
// when the report carries one. An absent list means the agent did not
// collect software, not that the asset has none.
func (ing *Ingestor) replaceSoftware(tx *gorm.DB, assetID uint, report *Report) error {
	if report.SoftwareInstalado == nil {
		return nil
	}
	if err := tx.Where("asset_id = ?", assetID).Delete(&models.InstalledSoftware{}).Error; err != nil {
		return fmt.Errorf("delete installations: %w", err)
	}
	for _, item := range *report.SoftwareInstalado {
		var sw models.SoftwareCatalog
		err := tx.Where("name = ? AND developer = ?", item.Nombre, item.Desarrollador).
			FirstOrCreate(&sw, models.SoftwareCatalog{Name: item.Nombre, Developer: item.Desarrollador}).Error
		if err != nil {
			return fmt.Errorf("find or create software %q: %w", item.Nombre, err)
		}
		inst := models.InstalledSoftware{
			AssetID:     assetID,
			SoftwareID:  sw.ID,
			Version:     item.Version,
			InstallDate: item.FechaInstalacion,
		}
		if err := tx.Create(&inst).Error; err != nil {
			return fmt.Errorf("create installation of %q: %w", item.Nombre, err)
		}
	}
	return nil
}

// createWarnings raises compliance warnings for suspicious software and
// detected hardware changes within the ingestion transaction.
func (ing *Ingestor) createWarnings(tx *gorm.DB, assetID uint, report *Report, changes []string) (int, error) {
	created := 0
	for _, item := range report.SoftwareSospechoso {
		evidence := models.JSONAny{
			"nombre":        item.Nombre,
			"ruta":          item.Ruta,
			"motivo":        item.Motivo,
			"desarrollador": item.Desarrollador,
			"version":       item.Version,
		}
		if len(item.Evidencia) > 0 {
			evidence["evidencia"] = item.Evidencia
		}
		w := models.ComplianceWarning{
			AssetID:     assetID,
			Category:    models.CategoryUnlicensedSoftware,
			Description: fmt.Sprintf("Software sospechoso detectado: %s", item.Nombre),
			Evidence:    evidence,
			Status:      models.WarningNew,
		}
		if err := tx.Create(&w).Error; err != nil {
			return created, fmt.Errorf("create suspicious-software warning: %w", err)
		}
		created++
	}

	for _, change := range changes {
		w := models.ComplianceWarning{
			AssetID:     assetID,
			Category:    models.CategoryHardwareChange,
			Description: fmt.Sprintf("Cambio de hardware detectado: %s", change),
			Evidence:    models.JSONAny{"cambio": change},
			Status:      models.WarningNew,
		}
		if err := tx.Create(&w).Error; err != nil {
			return created, fmt.Errorf("create hardware-change warning: %w", err)
		}
		created++
	}
	return created, nil
}
