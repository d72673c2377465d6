package registry

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigat/asset-registry/pkg/audit"
	"github.com/sigat/asset-registry/pkg/compliance"
	"github.com/sigat/asset-registry/pkg/models"
	"github.com/sigat/asset-registry/pkg/vuln"
)

func TestVulnerabilityCRUD(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	sw := &models.SoftwareCatalog{Name: "7-Zip", Developer: "Igor Pavlov"}
	require.NoError(t, s.CreateSoftware(ctx, sw))

	v := &models.SoftwareVulnerability{
		SoftwareID:      sw.ID,
		CVEID:           "CVE-2022-29072",
		Title:           "7-Zip privilege escalation",
		Severity:        models.SeverityHigh,
		SafeVersionFrom: "21.07",
	}
	require.NoError(t, s.CreateVulnerability(ctx, v))
	require.NotZero(t, v.ID)

	got, err := s.GetVulnerability(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "21.07", got.SafeVersionFrom)
	require.NotNil(t, got.Software)
	assert.Equal(t, "7-Zip", got.Software.Name)

	v.SafeVersionFrom = "23.00"
	require.NoError(t, s.UpdateVulnerability(ctx, v))
	got, err = s.GetVulnerability(v.ID)
	require.NoError(t, err)
	assert.Equal(t, "23.00", got.SafeVersionFrom)
	assert.False(t, got.CreatedAt.IsZero())

	all, err := s.ListVulnerabilities(sw.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, s.DeleteVulnerability(ctx, v.ID))
	_, err = s.GetVulnerability(v.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVulnerabilityValidation(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	sw := &models.SoftwareCatalog{Name: "7-Zip", Developer: "Igor Pavlov"}
	require.NoError(t, s.CreateSoftware(ctx, sw))

	var conflict *ConflictError
	noTitle := &models.SoftwareVulnerability{SoftwareID: sw.ID, SafeVersionFrom: "21.07"}
	require.ErrorAs(t, s.CreateVulnerability(ctx, noTitle), &conflict)

	noSafe := &models.SoftwareVulnerability{SoftwareID: sw.ID, Title: "t"}
	require.ErrorAs(t, s.CreateVulnerability(ctx, noSafe), &conflict)

	orphan := &models.SoftwareVulnerability{SoftwareID: 9999, Title: "t", SafeVersionFrom: "1.0"}
	assert.ErrorIs(t, s.CreateVulnerability(ctx, orphan), ErrNotFound)
}

func TestVulnerabilityCRUDOverHTTP(t *testing.T) {
	s, _ := newTestStore(t)
	router := Router(s)

	rec := doJSON(t, router, http.MethodPost, "/software",
		`{"name":"7-Zip","developer":"Igor Pavlov"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/vulnerabilities",
		`{"softwareId":1,"cveId":"CVE-2022-29072","title":"7-Zip privilege escalation","severity":"HIGH","safeVersionFrom":"21.07"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/vulnerabilities/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"safeVersionFrom":"21.07"`)

	rec = doJSON(t, router, http.MethodPost, "/vulnerabilities",
		`{"softwareId":1,"title":"no safe version"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/vulnerabilities/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/vulnerabilities/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// Deleting a vulnerability record through the store must let the
// reconciler close the warnings raised from it.
func TestDeleteVulnerabilityClosesWarningsOnReconcile(t *testing.T) {
	s, auditStore := newTestStore(t)
	ctx := adminCtx()
	warnings := compliance.NewWarningStore(s.db, audit.NewRecorder(auditStore, nil))
	scanner := vuln.NewScanner(s.db, warnings, nil)

	sw := &models.SoftwareCatalog{Name: "7-Zip", Developer: "Igor Pavlov"}
	require.NoError(t, s.CreateSoftware(ctx, sw))
	a := &models.Asset{InventoryCode: "NB-0001", SerialNumber: "S1", AssetType: models.AssetNotebook, Status: models.StatusAssigned}
	require.NoError(t, s.CreateAsset(ctx, a))
	require.NoError(t, s.CreateInstallation(ctx, &models.InstalledSoftware{
		AssetID: a.ID, SoftwareID: sw.ID, Version: "19.00",
	}))
	v := &models.SoftwareVulnerability{SoftwareID: sw.ID, Title: "7-Zip privilege escalation", SafeVersionFrom: "21.07"}
	require.NoError(t, s.CreateVulnerability(ctx, v))

	result, err := scanner.GenerateWarnings(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.WarningsCreated)

	require.NoError(t, s.DeleteVulnerability(ctx, v.ID))

	result, err = scanner.GenerateWarnings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.WarningsCleaned)
	assert.Equal(t, 0, result.WarningsCreated)

	var w models.ComplianceWarning
	require.NoError(t, s.db.First(&w).Error)
	assert.Equal(t, models.WarningFalsePositive, w.Status)
	assert.Equal(t, "Vulnerabilidad eliminada del sistema", w.ResolutionNotes)
}
