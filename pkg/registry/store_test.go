package registry

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/audit"
	"github.com/sigat/asset-registry/pkg/models"
)

func newTestStore(t *testing.T) (*Store, *audit.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	auditStore := audit.NewStore(db)
	require.NoError(t, auditStore.AutoMigrate())
	return NewStore(db, audit.NewRecorder(auditStore, nil)), auditStore
}

func adminCtx() context.Context {
	return actor.WithActor(context.Background(), actor.Actor{
		ID: 1, Username: "admin", Role: models.RoleAdmin,
	})
}

func auditEntries(t *testing.T, as *audit.Store, table string) []audit.Entry {
	t.Helper()
	entries, _, _, err := as.List(audit.ListFilter{TargetTable: table}, 100, "")
	require.NoError(t, err)
	return entries
}

func TestCreateAsset_WritesOneAuditEntry(t *testing.T) {
	s, as := newTestStore(t)

	a := &models.Asset{
		InventoryCode: "NB-0001", SerialNumber: "S1",
		AssetType: models.AssetNotebook, Status: models.StatusInStorage,
	}
	require.NoError(t, s.CreateAsset(adminCtx(), a))

	entries := auditEntries(t, as, "assets")
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreate, entries[0].Action)
	assert.Equal(t, a.ID, entries[0].TargetID)
	assert.Equal(t, "admin", entries[0].ActorUsername)
}

func TestCreateAsset_AnonymousNotAudited(t *testing.T) {
	s, as := newTestStore(t)

	a := &models.Asset{
		InventoryCode: "NB-0001", SerialNumber: "S1",
		AssetType: models.AssetNotebook, Status: models.StatusInStorage,
	}
	require.NoError(t, s.CreateAsset(context.Background(), a))
	assert.Empty(t, auditEntries(t, as, "assets"))
}

func TestCreateAsset_DuplicateCodeConflict(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	first := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S1", AssetType: models.AssetNotebook, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, first))

	dup := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S2", AssetType: models.AssetNotebook, Status: models.StatusInStorage}
	err := s.CreateAsset(ctx, dup)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestUpdateAsset_NoOpNotAudited(t *testing.T) {
	s, as := newTestStore(t)
	ctx := adminCtx()

	a := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S1", AssetType: models.AssetNotebook, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, a))

	// Saving without changing anything must not add an UPDATE entry.
	require.NoError(t, s.UpdateAsset(ctx, a))
	entries := auditEntries(t, as, "assets")
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreate, entries[0].Action)
}

func TestUpdateAsset_DiffRecorded(t *testing.T) {
	s, as := newTestStore(t)
	ctx := adminCtx()

	a := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S1", AssetType: models.AssetNotebook, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, a))

	a.Status = models.StatusAssigned
	require.NoError(t, s.UpdateAsset(ctx, a))

	entries := auditEntries(t, as, "assets")
	require.Len(t, entries, 2)
	update := entries[0] // newest first
	assert.Equal(t, audit.ActionUpdate, update.Action)
	changes, ok := update.Details["changes"].(map[string]any)
	require.True(t, ok)
	statusChange, ok := changes["status"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BODEGA", statusChange["old"])
	assert.Equal(t, "ASIGNADO", statusChange["new"])
}

func TestDeleteAsset_SnapshotAudited(t *testing.T) {
	s, as := newTestStore(t)
	ctx := adminCtx()

	a := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S1", AssetType: models.AssetNotebook, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, a))
	require.NoError(t, s.DeleteAsset(ctx, a.ID))

	entries := auditEntries(t, as, "assets")
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionDelete, entries[0].Action)
	assert.Equal(t, "NB-0001", entries[0].Details["inventory_code"])

	_, err := s.GetAsset(a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateSystemUser_PasswordNeverInAudit(t *testing.T) {
	s, as := newTestStore(t)
	ctx := adminCtx()

	u := &models.SystemUser{Username: "jperez", Role: models.RoleTechnician, Active: true, PasswordHash: "old-hash"}
	require.NoError(t, s.CreateSystemUser(ctx, u))

	u.PasswordHash = "new-hash"
	u.Email = "jperez@example.com"
	require.NoError(t, s.UpdateSystemUser(ctx, u))

	entries := auditEntries(t, as, "system_users")
	require.Len(t, entries, 2)
	changes, ok := entries[0].Details["changes"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, changes, "email")
	assert.NotContains(t, changes, "password_hash")
}

func TestEmployeeConflicts(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	e := &models.Employee{RUT: "12345678-9", FirstName: "Ana", LastName: "Rojas", Email: "ana@example.com"}
	require.NoError(t, s.CreateEmployee(ctx, e))

	dup := &models.Employee{RUT: "12345678-9", FirstName: "Otra", LastName: "Persona", Email: "otra@example.com"}
	var conflict *ConflictError
	require.ErrorAs(t, s.CreateEmployee(ctx, dup), &conflict)
}

func TestLicenseSeatEnforcement(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	sw := &models.SoftwareCatalog{Name: "AutoCAD", Developer: "Autodesk"}
	require.NoError(t, s.CreateSoftware(ctx, sw))
	lic := &models.License{SoftwareID: sw.ID, Quantity: 1, LicenseKey: "AAAA-BBBB"}
	require.NoError(t, s.CreateLicense(ctx, lic))

	a1 := &models.Asset{InventoryCode: "PC-0001", SerialNumber: "S1", AssetType: models.AssetDesktop, Status: models.StatusInStorage}
	a2 := &models.Asset{InventoryCode: "PC-0002", SerialNumber: "S2", AssetType: models.AssetDesktop, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, a1))
	require.NoError(t, s.CreateAsset(ctx, a2))

	first := &models.InstalledSoftware{AssetID: a1.ID, SoftwareID: sw.ID, Version: "2024", LicenseID: &lic.ID}
	require.NoError(t, s.CreateInstallation(ctx, first))

	// The single seat is taken.
	second := &models.InstalledSoftware{AssetID: a2.ID, SoftwareID: sw.ID, Version: "2024", LicenseID: &lic.ID}
	var conflict *ConflictError
	require.ErrorAs(t, s.CreateInstallation(ctx, second), &conflict)
	assert.Contains(t, conflict.Message, "no free seats")

	// Unlicensed installation is fine.
	second.LicenseID = nil
	require.NoError(t, s.CreateInstallation(ctx, second))
}

func TestLicenseForWrongSoftwareRejected(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	sw1 := &models.SoftwareCatalog{Name: "AutoCAD", Developer: "Autodesk"}
	sw2 := &models.SoftwareCatalog{Name: "Photoshop", Developer: "Adobe"}
	require.NoError(t, s.CreateSoftware(ctx, sw1))
	require.NoError(t, s.CreateSoftware(ctx, sw2))
	lic := &models.License{SoftwareID: sw1.ID, Quantity: 5}
	require.NoError(t, s.CreateLicense(ctx, lic))

	a := &models.Asset{InventoryCode: "PC-0001", SerialNumber: "S1", AssetType: models.AssetDesktop, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, a))

	inst := &models.InstalledSoftware{AssetID: a.ID, SoftwareID: sw2.ID, Version: "25.0", LicenseID: &lic.ID}
	var conflict *ConflictError
	require.ErrorAs(t, s.CreateInstallation(ctx, inst), &conflict)
}

func TestDuplicateInstallationRejected(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	sw := &models.SoftwareCatalog{Name: "7-Zip", Developer: "Igor Pavlov"}
	require.NoError(t, s.CreateSoftware(ctx, sw))
	a := &models.Asset{InventoryCode: "PC-0001", SerialNumber: "S1", AssetType: models.AssetDesktop, Status: models.StatusInStorage}
	require.NoError(t, s.CreateAsset(ctx, a))

	first := &models.InstalledSoftware{AssetID: a.ID, SoftwareID: sw.ID, Version: "23.01"}
	require.NoError(t, s.CreateInstallation(ctx, first))

	dup := &models.InstalledSoftware{AssetID: a.ID, SoftwareID: sw.ID, Version: "24.00"}
	var conflict *ConflictError
	require.ErrorAs(t, s.CreateInstallation(ctx, dup), &conflict)
}

func TestCheckinValidation(t *testing.T) {
	s, as := newTestStore(t)
	ctx := adminCtx()

	a := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S1", AssetType: models.AssetNotebook, Status: models.StatusAssigned}
	require.NoError(t, s.CreateAsset(ctx, a))
	e := &models.Employee{RUT: "12345678-9", FirstName: "Ana", LastName: "Rojas", Email: "ana@example.com"}
	require.NoError(t, s.CreateEmployee(ctx, e))

	bad := &models.AssetCheckin{AssetID: a.ID, EmployeeID: e.ID, PhysicalState: "BUENO"}
	sat := 7
	bad.PerformanceSatisfaction = &sat
	var conflict *ConflictError
	require.ErrorAs(t, s.CreateCheckin(ctx, bad), &conflict)

	ok := &models.AssetCheckin{AssetID: a.ID, EmployeeID: e.ID, PhysicalState: "BUENO"}
	good := 4
	ok.PerformanceSatisfaction = &good
	require.NoError(t, s.CreateCheckin(ctx, ok))

	entries := auditEntries(t, as, "asset_checkins")
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreate, entries[0].Action)

	checkins, err := s.ListCheckins(a.ID)
	require.NoError(t, err)
	assert.Len(t, checkins, 1)
}
