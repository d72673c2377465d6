package models

import "time"

// AssetType classifies a tracked asset.
type AssetType string

const (
	AssetNotebook AssetType = "NOTEBOOK"
	AssetDesktop  AssetType = "DESKTOP"
	AssetMonitor  AssetType = "MONITOR"
	AssetPrinter  AssetType = "PRINTER"
	AssetOther    AssetType = "OTHER"
)

// IsComputer reports whether the type carries a hardware snapshot.
func (t AssetType) IsComputer() bool {
	return t == AssetNotebook || t == AssetDesktop
}

// AssetStatus is the asset lifecycle status. Stored values match the
// reference system's Spanish codes.
type AssetStatus string

const (
	StatusInStorage AssetStatus = "BODEGA"
	StatusAssigned  AssetStatus = "ASIGNADO"
	StatusInRepair  AssetStatus = "REPARACION"
	StatusDisposed  AssetStatus = "DE_BAJA"
)

// Asset is a physical or logical IT item.
type Asset struct {
	ID              uint        `gorm:"primaryKey;column:id" json:"id"`
	InventoryCode   string      `gorm:"column:inventory_code;size:100;uniqueIndex;not null" json:"inventoryCode"`
	SerialNumber    string      `gorm:"column:serial_number;size:100;uniqueIndex;not null" json:"serialNumber"`
	AssetType       AssetType   `gorm:"column:asset_type;size:50;index;not null" json:"assetType"`
	Status          AssetStatus `gorm:"column:status;size:50;default:BODEGA;not null" json:"status"`
	Brand           string      `gorm:"column:brand;size:100" json:"brand"`
	Model           string      `gorm:"column:model;size:100" json:"model"`
	AcquisitionDate *time.Time  `gorm:"column:acquisition_date" json:"acquisitionDate,omitempty"`
	EmployeeID      *uint       `gorm:"column:employee_id;index" json:"employeeId,omitempty"`
	Employee        *Employee   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:SET NULL" json:"employee,omitempty"`
	DepartmentID    *uint       `gorm:"column:department_id;index" json:"departmentId,omitempty"`
	Department      *Department `gorm:"foreignKey:DepartmentID;constraint:OnDelete:SET NULL" json:"department,omitempty"`
	CreatedAt       time.Time   `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	Detail         *ComputerDetail     `gorm:"foreignKey:AssetID" json:"detail,omitempty"`
	StorageDevices []StorageDevice     `gorm:"foreignKey:AssetID" json:"storageDevices,omitempty"`
	GraphicsCards  []GraphicsCard      `gorm:"foreignKey:AssetID" json:"graphicsCards,omitempty"`
	Installed      []InstalledSoftware `gorm:"foreignKey:AssetID" json:"installed,omitempty"`
}

// TableName returns the GORM table name.
func (Asset) TableName() string { return "assets" }

// ComputerDetail is the one-to-one hardware/OS snapshot of a computer
// asset. It holds the latest agent-reported state, not a history.
type ComputerDetail struct {
	AssetID                 uint       `gorm:"primaryKey;column:asset_id" json:"assetId"`
	UniqueIdentifier        string     `gorm:"column:unique_identifier;size:255;uniqueIndex;not null" json:"uniqueIdentifier"`
	OSName                  string     `gorm:"column:os_name;size:100" json:"osName"`
	OSVersion               string     `gorm:"column:os_version;size:50" json:"osVersion"`
	OSArch                  string     `gorm:"column:os_arch;size:10" json:"osArch"`
	CPUModel                string     `gorm:"column:cpu_model;size:255" json:"cpuModel"`
	RAMGB                   float64    `gorm:"column:ram_gb" json:"ramGb"`
	MotherboardManufacturer string     `gorm:"column:motherboard_manufacturer;size:100" json:"motherboardManufacturer"`
	MotherboardModel        string     `gorm:"column:motherboard_model;size:100" json:"motherboardModel"`
	LastAgentReport         *time.Time `gorm:"column:last_updated_by_agent" json:"lastAgentReport,omitempty"`
}

// TableName returns the GORM table name.
func (ComputerDetail) TableName() string { return "computer_details" }

// StorageDevice is a disk attached to an asset. The set is fully replaced
// on every agent report.
type StorageDevice struct {
	ID           uint     `gorm:"primaryKey;column:id" json:"id"`
	AssetID      uint     `gorm:"column:asset_id;index;not null" json:"assetId"`
	Model        string   `gorm:"column:model;size:255" json:"model"`
	SerialNumber string   `gorm:"column:serial_number;size:100" json:"serialNumber"`
	CapacityGB   *float64 `gorm:"column:capacity_gb" json:"capacityGb,omitempty"`
	FreeSpaceGB  *float64 `gorm:"column:free_space_gb" json:"freeSpaceGb,omitempty"`
}

// TableName returns the GORM table name.
func (StorageDevice) TableName() string { return "storage_devices" }

// GraphicsCard is a GPU attached to an asset, fully replaced on each report.
type GraphicsCard struct {
	ID        uint   `gorm:"primaryKey;column:id" json:"id"`
	AssetID   uint   `gorm:"column:asset_id;index;not null" json:"assetId"`
	ModelName string `gorm:"column:model_name;size:255;not null" json:"modelName"`
}

// TableName returns the GORM table name.
func (GraphicsCard) TableName() string { return "graphics_cards" }

// AssetCheckin records a periodic condition check-in of an assigned asset.
type AssetCheckin struct {
	ID                      uint      `gorm:"primaryKey;column:id" json:"id"`
	AssetID                 uint      `gorm:"column:asset_id;index;not null" json:"assetId"`
	Asset                   *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	EmployeeID              uint      `gorm:"column:employee_id;index;not null" json:"employeeId"`
	Employee                *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CheckinDate             time.Time `gorm:"column:checkin_date;autoCreateTime" json:"checkinDate"`
	PhysicalState           string    `gorm:"column:physical_state;size:50;not null" json:"physicalState"`
	PerformanceSatisfaction *int      `gorm:"column:performance_satisfaction" json:"performanceSatisfaction,omitempty"`
	Notes                   string    `gorm:"column:notes;type:text" json:"notes"`
}

// TableName returns the GORM table name.
func (AssetCheckin) TableName() string { return "asset_checkins" }
