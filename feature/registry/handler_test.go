package registry

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sheet-sync/core/config"
	"sheet-sync/core/journal"
	"sheet-sync/core/storage"
	"sheet-sync/core/storage/mocks"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	t.Helper()

	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, config.SyncConfig{}, zap.NewNop(), nil)
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient
}

func TestHandleListPresets(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/sync/presets", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var presets []Preset
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&presets))
	require.Len(t, presets, 5)
	assert.Equal(t, "summary", presets[0].Name)
	assert.Equal(t, SheetDB, presets[0].SourceSheet)
}

func TestHandleRecentRuns_JournalDisabled(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/sync/runs", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var runs []journal.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	assert.Empty(t, runs)
}

func TestHandleRun_UnknownPreset(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/sync/nope", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "unknown preset")
}

func TestHandleRun_MissingSourcePath(t *testing.T) {
	app, _ := setupTestApp(t)

	// No source query and no configured default.
	req := httptest.NewRequest("POST", "/sync/summary", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleRun_DryRun(t *testing.T) {
	app, mockClient := setupTestApp(t)

	srcData, tgtData := summaryFixtures(t)
	mockClient.On("Download", mock.Anything, "disk:/бд.xlsx").Return(srcData, nil)
	mockClient.On("Download", mock.Anything, "disk:/сводная.xlsx").Return(tgtData, nil)

	req := httptest.NewRequest("POST",
		"/sync/summary?source=disk:/бд.xlsx&target=disk:/сводная.xlsx&dry_run=true", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var res RunResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	assert.True(t, res.DryRun)
	assert.False(t, res.Uploaded)
	assert.Len(t, res.Actions, 3)
	assert.Equal(t, 1, res.Summary.Updated)

	mockClient.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleRun_LockedWorkbook(t *testing.T) {
	app, mockClient := setupTestApp(t)

	srcData, tgtData := summaryFixtures(t)
	mockClient.On("Download", mock.Anything, "disk:/бд.xlsx").Return(srcData, nil)
	mockClient.On("Download", mock.Anything, "disk:/сводная.xlsx").Return(tgtData, nil)
	mockClient.On("Upload", mock.Anything, "disk:/сводная.xlsx", mock.Anything).
		Return(&storage.LockedError{Path: "disk:/сводная.xlsx", Attempts: 8})

	req := httptest.NewRequest("POST",
		"/sync/summary?source=disk:/бд.xlsx&target=disk:/сводная.xlsx", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 423, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["error"], "locked")
}

func TestHandleInspectKey(t *testing.T) {
	app, mockClient := setupTestApp(t)

	srcData, tgtData := summaryFixtures(t)
	mockClient.On("Download", mock.Anything, "disk:/бд.xlsx").Return(srcData, nil)
	mockClient.On("Download", mock.Anything, "disk:/сводная.xlsx").Return(tgtData, nil)

	req := httptest.NewRequest("GET",
		"/sync/agent/555002?source=disk:/бд.xlsx&target=disk:/сводная.xlsx", nil)
	resp, err := app.Test(req, 5000)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "555002", body["key"])
	assert.Equal(t, true, body["in_source"])
	assert.Equal(t, false, body["in_target"])
}

func TestHandleInspectKey_BadPreset(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/sync/agent/555001?preset=nope", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
