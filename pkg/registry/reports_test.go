package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigat/asset-registry/pkg/models"
)

func TestLicenseUsageReport(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := adminCtx()

	autocad := &models.SoftwareCatalog{Name: "AutoCAD", Developer: "Autodesk"}
	zip := &models.SoftwareCatalog{Name: "7-Zip", Developer: "Igor Pavlov"}
	photoshop := &models.SoftwareCatalog{Name: "Photoshop", Developer: "Adobe"}
	for _, sw := range []*models.SoftwareCatalog{autocad, zip, photoshop} {
		require.NoError(t, s.CreateSoftware(ctx, sw))
	}

	lic1 := &models.License{SoftwareID: autocad.ID, Quantity: 5}
	lic2 := &models.License{SoftwareID: autocad.ID, Quantity: 2}
	lic3 := &models.License{SoftwareID: photoshop.ID, Quantity: 1}
	for _, lic := range []*models.License{lic1, lic2, lic3} {
		require.NoError(t, s.CreateLicense(ctx, lic))
	}

	assets := make([]*models.Asset, 3)
	for i := range assets {
		assets[i] = &models.Asset{
			InventoryCode: fmt.Sprintf("PC-%04d", i+1),
			SerialNumber:  fmt.Sprintf("S%d", i+1),
			AssetType:     models.AssetDesktop,
			Status:        models.StatusInStorage,
		}
		require.NoError(t, s.CreateAsset(ctx, assets[i]))
	}

	// AutoCAD: 7 seats across two pools, 3 in use.
	require.NoError(t, s.CreateInstallation(ctx, &models.InstalledSoftware{AssetID: assets[0].ID, SoftwareID: autocad.ID, Version: "2024", LicenseID: &lic1.ID}))
	require.NoError(t, s.CreateInstallation(ctx, &models.InstalledSoftware{AssetID: assets[1].ID, SoftwareID: autocad.ID, Version: "2024", LicenseID: &lic1.ID}))
	require.NoError(t, s.CreateInstallation(ctx, &models.InstalledSoftware{AssetID: assets[2].ID, SoftwareID: autocad.ID, Version: "2024", LicenseID: &lic2.ID}))

	// 7-Zip: installed twice without any license.
	require.NoError(t, s.CreateInstallation(ctx, &models.InstalledSoftware{AssetID: assets[0].ID, SoftwareID: zip.ID, Version: "23.01"}))
	require.NoError(t, s.CreateInstallation(ctx, &models.InstalledSoftware{AssetID: assets[1].ID, SoftwareID: zip.ID, Version: "23.01"}))

	report, err := s.LicenseUsageReport()
	require.NoError(t, err)

	require.Len(t, report.LicenseUsage, 2)
	// Largest pools first.
	assert.Equal(t, "AutoCAD (Autodesk)", report.LicenseUsage[0].Name)
	assert.Equal(t, 7, report.LicenseUsage[0].Total)
	assert.Equal(t, 3, report.LicenseUsage[0].InUse)
	assert.Equal(t, 4, report.LicenseUsage[0].Available)
	assert.Equal(t, "Photoshop (Adobe)", report.LicenseUsage[1].Name)
	assert.Equal(t, 1, report.LicenseUsage[1].Total)
	assert.Equal(t, 0, report.LicenseUsage[1].InUse)

	require.Len(t, report.WithoutLicense, 1)
	assert.Equal(t, "7-Zip (Igor Pavlov)", report.WithoutLicense[0].Label)
	assert.Equal(t, 2, report.WithoutLicense[0].Count)
}

func TestLicenseUsageHandler(t *testing.T) {
	s, _ := newTestStore(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	LicenseUsageHandler(s).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LicenseUsageReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.LicenseUsage)
	assert.Empty(t, resp.WithoutLicense)
}
