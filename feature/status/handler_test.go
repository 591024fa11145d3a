package status

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"sheet-sync/core/storage/mocks"
)

func setupTestApp(t *testing.T, db *gorm.DB) (*fiber.App, *mocks.Client) {
	t.Helper()

	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, db, zap.NewNop())
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient
}

func TestHandleStatus(t *testing.T) {
	app, mockClient := setupTestApp(t, nil)
	mockClient.On("Ping", mock.Anything).Return(nil)

	req := httptest.NewRequest("GET", "/status", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["storage"]["status"])
	assert.Equal(t, "disabled", body["database"]["status"])
	assert.Equal(t, "ok", body["presets"]["status"])
}

func TestHandleStorageStatus_Down(t *testing.T) {
	app, mockClient := setupTestApp(t, nil)
	mockClient.On("Ping", mock.Anything).Return(assert.AnError)

	req := httptest.NewRequest("GET", "/status/storage", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 503, resp.StatusCode)
}

func TestHandleDatabaseStatus(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _ := setupTestApp(t, nil)

		req := httptest.NewRequest("GET", "/status/database", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "disabled", body["status"])
	})

	t.Run("Healthy", func(t *testing.T) {
		gormDB, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").
			WillReturnRows(syncRunsColumns())

		app, _ := setupTestApp(t, gormDB)

		req := httptest.NewRequest("GET", "/status/database", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "ok", body["status"])
	})
}
