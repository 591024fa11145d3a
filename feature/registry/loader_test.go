package registry

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sheet-sync/core/config"
	"sheet-sync/core/storage/mocks"
)

func TestLoader(t *testing.T) {
	mockClient := new(mocks.Client)
	logger := zap.NewNop()
	// Nil recorder: the feature runs without a journal database.
	feature := NewFeature(mockClient, config.SyncConfig{}, logger, nil)

	assert.Equal(t, "registry", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NotNil(t, feature.Service())

	app := fiber.New()
	err := feature.Load(app)
	require.NoError(t, err)

	// Routes are reachable once loaded.
	resp, err := app.Test(httptest.NewRequest("GET", "/sync/presets", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
