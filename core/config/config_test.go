package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := LoadConfig(".")
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "disk", cfg.Storage.Provider)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "sheetsync", cfg.Database.Name)
		assert.Empty(t, cfg.Sync.Preset)
	})

	t.Run("Environment Override", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("STORAGE_PROVIDER", "s3")
		t.Setenv("SYNC_PRESET", "terminals")

		cfg, err := LoadConfig(".")
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "s3", cfg.Storage.Provider)
		assert.Equal(t, "terminals", cfg.Sync.Preset)
	})
}
