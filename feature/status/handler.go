package status

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"sheet-sync/core/logger"
	"sheet-sync/feature/registry"
)

// Handler handles HTTP requests for status checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the status routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/status")
	group.Get("/", h.HandleStatus)
	group.Get("/storage", h.HandleStorageStatus)
	group.Get("/database", h.HandleDatabaseStatus)
}

// HandleStatus runs every check.
// @Summary Run All Status Checks
// @Description Checks workbook storage, the journal database schema and the preset configuration in one call.
// @Tags status
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Running status checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	// Storage
	if err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = map[string]interface{}{"status": "ok"}
	}

	// Database
	if schema, err := h.service.CheckDatabase(ctx); errors.Is(err, ErrNoJournal) {
		report["database"] = map[string]interface{}{"status": "disabled"}
	} else if err != nil {
		report["database"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else if !schema.Matched {
		report["database"] = map[string]interface{}{"status": "drift", "schema": schema}
	} else {
		report["database"] = map[string]interface{}{"status": "ok", "schema": schema}
	}

	// Presets
	if problems := h.service.CheckPresets(); len(problems) > 0 {
		report["presets"] = map[string]interface{}{"status": "error", "problems": problems}
	} else {
		report["presets"] = map[string]interface{}{"status": "ok", "count": len(registry.All())}
	}

	return c.JSON(report)
}

// HandleStorageStatus pings the workbook storage.
// @Summary Check Storage
// @Description Verifies that the configured workbook storage answers API calls.
// @Tags status
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Storage OK"
// @Failure 503 {object} map[string]string "Storage Unreachable"
// @Router /status/storage [get]
func (h *Handler) HandleStorageStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.CheckStorage(c.Context()); err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "ok"})
}

// HandleDatabaseStatus checks journal connectivity and schema.
// @Summary Check Journal Database
// @Description Verifies that the journal database answers and that the sync_runs table matches the model.
// @Tags status
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Database Report"
// @Failure 503 {object} map[string]string "Database Unreachable"
// @Router /status/database [get]
func (h *Handler) HandleDatabaseStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	schema, err := h.service.CheckDatabase(c.Context())
	if errors.Is(err, ErrNoJournal) {
		return c.JSON(fiber.Map{"status": "disabled"})
	}
	if err != nil {
		l.Error("Database check failed", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  err.Error(),
		})
	}

	if !schema.Matched {
		l.Warn("Journal schema drift detected",
			zap.Strings("missing", schema.MissingColumns),
			zap.Strings("mismatches", schema.TypeMismatches))
		return c.JSON(fiber.Map{"status": "drift", "schema": schema})
	}
	return c.JSON(fiber.Map{"status": "ok", "schema": schema})
}
