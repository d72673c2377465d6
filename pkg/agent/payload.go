// Package agent ingests hardware/software reports sent by the machine
// agent. Reports arrive unauthenticated; field names follow the agent's
// wire format.
package agent

import (
	"fmt"
	"time"
)

// OperatingSystem is the OS block of a report.
type OperatingSystem struct {
	Nombre       string `json:"nombre"`
	Version      string `json:"version"`
	Arquitectura string `json:"arquitectura"`
}

// Disk is one storage device as reported by the agent.
type Disk struct {
	Modelo         string   `json:"modelo"`
	NumeroSerie    string   `json:"numero_serie"`
	CapacidadGB    *float64 `json:"capacidad_gb"`
	EspacioLibreGB *float64 `json:"espacio_libre_gb"`
}

// Hardware is the hardware block of a report. UUID is the stable
// BIOS/UEFI identifier used to match reports to assets.
type Hardware struct {
	UUID                 string   `json:"uuid"`
	CPUModelo            string   `json:"cpu_modelo"`
	MemoriaRAMGB         float64  `json:"memoria_ram_gb"`
	PlacaMadreFabricante string   `json:"placa_madre_fabricante"`
	PlacaMadreModelo     string   `json:"placa_madre_modelo"`
	TipoChasis           *int     `json:"tipo_chasis"`
	Discos               []Disk   `json:"discos"`
	GPUs                 []string `json:"gpus"`
}

// InstalledItem is one entry of the installed-software list.
type InstalledItem struct {
	Nombre           string     `json:"nombre"`
	Desarrollador    string     `json:"desarrollador"`
	Version          string     `json:"version"`
	FechaInstalacion *time.Time `json:"fecha_instalacion"`
}

// SuspiciousItem is one entry of the suspicious-software list.
type SuspiciousItem struct {
	Nombre        string         `json:"nombre"`
	Ruta          string         `json:"ruta"`
	Motivo        string         `json:"motivo"`
	Desarrollador string         `json:"desarrollador"`
	Version       string         `json:"version"`
	Evidencia     map[string]any `json:"evidencia"`
}

// Report is the full agent payload. SoftwareInstalado distinguishes
// "not collected" (nil) from "no software" (empty list); only a present
// list replaces the asset's installations.
type Report struct {
	SistemaOperativo   OperatingSystem  `json:"sistema_operativo"`
	Hardware           Hardware         `json:"hardware"`
	SoftwareInstalado  *[]InstalledItem `json:"software_instalado"`
	SoftwareSospechoso []SuspiciousItem `json:"software_sospechoso"`
}

// ValidationError reports a malformed payload field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the payload schema. Runs strictly before any
// database work.
func (r *Report) Validate() error {
	if r.Hardware.UUID == "" {
		return &ValidationError{Field: "hardware.uuid", Message: "required"}
	}
	if len(r.Hardware.UUID) < 12 {
		return &ValidationError{Field: "hardware.uuid", Message: "must be at least 12 characters"}
	}
	if r.SistemaOperativo.Nombre == "" {
		return &ValidationError{Field: "sistema_operativo.nombre", Message: "required"}
	}
	if r.Hardware.MemoriaRAMGB < 0 {
		return &ValidationError{Field: "hardware.memoria_ram_gb", Message: "must not be negative"}
	}
	for i, d := range r.Hardware.Discos {
		if d.CapacidadGB != nil && *d.CapacidadGB < 0 {
			return &ValidationError{
				Field:   fmt.Sprintf("hardware.discos[%d].capacidad_gb", i),
				Message: "must not be negative",
			}
		}
	}
	if r.SoftwareInstalado != nil {
		for i, item := range *r.SoftwareInstalado {
			if item.Nombre == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("software_instalado[%d].nombre", i),
					Message: "required",
				}
			}
		}
	}
	for i, item := range r.SoftwareSospechoso {
		if item.Nombre == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("software_sospechoso[%d].nombre", i),
				Message: "required",
			}
		}
	}
	return nil
}
