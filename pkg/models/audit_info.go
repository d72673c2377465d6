package models

// Audit summaries and canonical field maps for the tracked entity set.
// The audit recorder consumes these through its Trackable interface; the
// mapping per entity kind is declared here explicitly instead of being
// discovered via reflection.

import (
	"strconv"
	"time"
)

func canonFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func canonPtrFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return canonFloat(*f)
}

func canonDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func canonPtrUint(u *uint) string {
	if u == nil {
		return ""
	}
	return strconv.FormatUint(uint64(*u), 10)
}

func canonPtrInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}

// AuditKind returns the audit target table tag for assets.
func (Asset) AuditKind() string { return "assets" }

// AuditEntityID returns the asset's persisted identity.
func (a Asset) AuditEntityID() uint { return a.ID }

// AuditSummary returns the identifying snapshot logged on CREATE/DELETE.
func (a Asset) AuditSummary() map[string]any {
	return map[string]any{
		"inventory_code": a.InventoryCode,
		"asset_type":     string(a.AssetType),
		"brand":          a.Brand,
		"model":          a.Model,
		"status":         string(a.Status),
	}
}

// AuditFields returns the canonical string form of every persisted,
// non-auto-generated field, keyed by column name.
func (a Asset) AuditFields() map[string]string {
	return map[string]string{
		"inventory_code":   a.InventoryCode,
		"serial_number":    a.SerialNumber,
		"asset_type":       string(a.AssetType),
		"status":           string(a.Status),
		"brand":            a.Brand,
		"model":            a.Model,
		"acquisition_date": canonDate(a.AcquisitionDate),
		"employee_id":      canonPtrUint(a.EmployeeID),
		"department_id":    canonPtrUint(a.DepartmentID),
	}
}

func (ComputerDetail) AuditKind() string     { return "computer_details" }
func (d ComputerDetail) AuditEntityID() uint { return d.AssetID }

func (d ComputerDetail) AuditSummary() map[string]any {
	return map[string]any{
		"unique_identifier": d.UniqueIdentifier,
		"cpu_model":         d.CPUModel,
		"ram_gb":            d.RAMGB,
	}
}

func (d ComputerDetail) AuditFields() map[string]string {
	return map[string]string{
		"unique_identifier":        d.UniqueIdentifier,
		"os_name":                  d.OSName,
		"os_version":               d.OSVersion,
		"os_arch":                  d.OSArch,
		"cpu_model":                d.CPUModel,
		"ram_gb":                   canonFloat(d.RAMGB),
		"motherboard_manufacturer": d.MotherboardManufacturer,
		"motherboard_model":        d.MotherboardModel,
	}
}

func (Department) AuditKind() string     { return "departments" }
func (d Department) AuditEntityID() uint { return d.ID }

func (d Department) AuditSummary() map[string]any {
	return map[string]any{"name": d.Name}
}

func (d Department) AuditFields() map[string]string {
	return map[string]string{"name": d.Name}
}

func (Employee) AuditKind() string     { return "employees" }
func (e Employee) AuditEntityID() uint { return e.ID }

func (e Employee) AuditSummary() map[string]any {
	return map[string]any{
		"rut":        e.RUT,
		"first_name": e.FirstName,
		"last_name":  e.LastName,
		"email":      e.Email,
	}
}

func (e Employee) AuditFields() map[string]string {
	return map[string]string{
		"rut":           e.RUT,
		"first_name":    e.FirstName,
		"last_name":     e.LastName,
		"email":         e.Email,
		"position":      e.Position,
		"department_id": canonPtrUint(e.DepartmentID),
	}
}

func (SystemUser) AuditKind() string     { return "system_users" }
func (u SystemUser) AuditEntityID() uint { return u.ID }

func (u SystemUser) AuditSummary() map[string]any {
	return map[string]any{
		"username":  u.Username,
		"email":     u.Email,
		"role":      string(u.Role),
		"is_active": u.Active,
	}
}

// AuditFields includes password_hash so that credential rotations are
// detected as a change; the diff engine strips the values before the
// entry is persisted.
func (u SystemUser) AuditFields() map[string]string {
	return map[string]string{
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          string(u.Role),
		"is_active":     strconv.FormatBool(u.Active),
	}
}

func (SoftwareCatalog) AuditKind() string     { return "software_catalog" }
func (s SoftwareCatalog) AuditEntityID() uint { return s.ID }

func (s SoftwareCatalog) AuditSummary() map[string]any {
	return map[string]any{"name": s.Name, "developer": s.Developer}
}

func (s SoftwareCatalog) AuditFields() map[string]string {
	return map[string]string{"name": s.Name, "developer": s.Developer}
}

func (License) AuditKind() string     { return "licenses" }
func (l License) AuditEntityID() uint { return l.ID }

// AuditSummary never carries the key itself, only whether one is set.
func (l License) AuditSummary() map[string]any {
	return map[string]any{
		"software_id":     l.SoftwareID,
		"quantity":        l.Quantity,
		"expiration_date": canonDate(l.ExpirationDate),
		"has_license_key": l.LicenseKey != "",
	}
}

func (l License) AuditFields() map[string]string {
	return map[string]string{
		"software_id":     strconv.FormatUint(uint64(l.SoftwareID), 10),
		"license_key":     l.LicenseKey,
		"purchase_date":   canonDate(l.PurchaseDate),
		"expiration_date": canonDate(l.ExpirationDate),
		"quantity":        strconv.Itoa(l.Quantity),
	}
}

func (InstalledSoftware) AuditKind() string     { return "installed_software" }
func (i InstalledSoftware) AuditEntityID() uint { return i.ID }

func (i InstalledSoftware) AuditSummary() map[string]any {
	return map[string]any{
		"asset_id":    i.AssetID,
		"software_id": i.SoftwareID,
		"version":     i.Version,
		"license_id":  i.LicenseID,
	}
}

func (i InstalledSoftware) AuditFields() map[string]string {
	return map[string]string{
		"asset_id":     strconv.FormatUint(uint64(i.AssetID), 10),
		"software_id":  strconv.FormatUint(uint64(i.SoftwareID), 10),
		"version":      i.Version,
		"install_date": canonDate(i.InstallDate),
		"license_id":   canonPtrUint(i.LicenseID),
	}
}

func (ComplianceWarning) AuditKind() string     { return "compliance_warnings" }
func (w ComplianceWarning) AuditEntityID() uint { return w.ID }

func (w ComplianceWarning) AuditSummary() map[string]any {
	return map[string]any{
		"asset_id":    w.AssetID,
		"category":    w.Category,
		"status":      string(w.Status),
		"description": w.Description,
	}
}

func (w ComplianceWarning) AuditFields() map[string]string {
	return map[string]string{
		"asset_id":         strconv.FormatUint(uint64(w.AssetID), 10),
		"category":         w.Category,
		"description":      w.Description,
		"status":           string(w.Status),
		"resolved_by_id":   canonPtrUint(w.ResolvedByID),
		"resolution_notes": w.ResolutionNotes,
	}
}

func (AssetCheckin) AuditKind() string     { return "asset_checkins" }
func (c AssetCheckin) AuditEntityID() uint { return c.ID }

func (c AssetCheckin) AuditSummary() map[string]any {
	return map[string]any{
		"asset_id":       c.AssetID,
		"employee_id":    c.EmployeeID,
		"physical_state": c.PhysicalState,
	}
}

func (c AssetCheckin) AuditFields() map[string]string {
	return map[string]string{
		"asset_id":                 strconv.FormatUint(uint64(c.AssetID), 10),
		"employee_id":              strconv.FormatUint(uint64(c.EmployeeID), 10),
		"physical_state":           c.PhysicalState,
		"performance_satisfaction": canonPtrInt(c.PerformanceSatisfaction),
		"notes":                    c.Notes,
	}
}
