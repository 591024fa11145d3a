package registry

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"sheet-sync/core/config"
	"sheet-sync/core/journal"
	"sheet-sync/core/storage"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new registry sync feature. rec may be nil when
// no journal database is configured.
func NewFeature(client storage.Client, defaults config.SyncConfig, logger *zap.Logger, rec *journal.Recorder) *Feature {
	svc := NewService(client, defaults, logger, rec)
	h := NewHandler(svc)
	return &Feature{service: svc, handler: h}
}

// Service exposes the sync service for non-HTTP callers.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "registry"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
