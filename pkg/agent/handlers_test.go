package agent

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportHandler(t *testing.T) {
	db := newTestDB(t)
	router := Router(NewIngestor(db, nil))

	body, err := json.Marshal(notebookReport())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success       bool   `json:"success"`
		Created       bool   `json:"created"`
		AssetID       uint   `json:"assetId"`
		InventoryCode string `json:"inventoryCode"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Created)
	assert.Equal(t, "NB-0001", resp.InventoryCode)
	assert.NotZero(t, resp.AssetID)
}

func TestReportHandler_BadJSON(t *testing.T) {
	db := newTestDB(t)
	router := Router(NewIngestor(db, nil))

	req := httptest.NewRequest(http.MethodPost, "/report", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReportHandler_ValidationError(t *testing.T) {
	db := newTestDB(t)
	router := Router(NewIngestor(db, nil))

	report := notebookReport()
	report.Hardware.UUID = ""
	body, err := json.Marshal(report)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/report", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Field   string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "hardware.uuid", resp.Field)
}
