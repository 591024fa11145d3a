package registry

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"sheet-sync/core/journal"
	"sheet-sync/core/logger"
	"sheet-sync/core/reconcile"
	"sheet-sync/core/storage"
	"sheet-sync/core/xlsx"
)

// Handler handles HTTP requests for registry synchronization.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/presets", h.HandleListPresets)
	group.Get("/runs", h.HandleRecentRuns)
	group.Get("/agent/:id", h.HandleInspectKey)
	group.Post("/:preset", h.HandleRun)
}

// HandleListPresets lists the configured presets.
// @Summary List Presets
// @Description Returns every reconciliation preset with its sheets, columns and policies.
// @Tags sync
// @Accept json
// @Produce json
// @Success 200 {array} registry.Preset "Presets"
// @Router /sync/presets [get]
func (h *Handler) HandleListPresets(c *fiber.Ctx) error {
	return c.JSON(All())
}

// HandleRecentRuns lists the most recent journaled runs.
// @Summary Recent Runs
// @Description Returns the latest runs from the journal database, newest first.
// @Tags sync
// @Accept json
// @Produce json
// @Param limit query int false "Maximum number of runs (default 20)"
// @Success 200 {array} journal.Run "Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleRecentRuns(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.journal.Recent(c.QueryInt("limit", 20))
	if err != nil {
		l.Error("Journal query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if runs == nil {
		runs = []journal.Run{}
	}
	return c.JSON(runs)
}

// HandleInspectKey reports how one key stands between the sheets.
// @Summary Inspect Key
// @Description Looks a single agent or legal-entity key up on both sides of a preset and reports the values a run would read and write. Nothing is modified.
// @Tags sync
// @Accept json
// @Produce json
// @Param id path string true "Match key"
// @Param preset query string false "Preset name (default summary)"
// @Param source query string false "Source workbook path override"
// @Param target query string false "Target workbook path override"
// @Success 200 {object} reconcile.KeyReport "Key Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Preset"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/agent/{id} [get]
func (h *Handler) HandleInspectKey(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key, err := url.PathUnescape(c.Params("id"))
	if err != nil {
		key = c.Params("id")
	}
	opts := Options{
		SourcePath: c.Query("source"),
		TargetPath: c.Query("target"),
	}

	report, err := h.service.Inspect(c.Context(), c.Query("preset", "summary"), key, opts)
	if err != nil {
		l.Error("Key inspection failed", zap.String("key", key), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleRun triggers one reconciliation run.
// @Summary Run Preset
// @Description Downloads the preset's workbooks, reconciles the sheets and uploads the target when it changed. With dry_run the planned actions are returned instead.
// @Tags sync
// @Accept json
// @Produce json
// @Param preset path string true "Preset name"
// @Param source query string false "Source workbook path override"
// @Param target query string false "Target workbook path override"
// @Param dry_run query boolean false "Plan only, write nothing"
// @Success 200 {object} registry.RunResult "Run Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Preset"
// @Failure 423 {object} map[string]string "Workbook Locked"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/{preset} [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	presetName := c.Params("preset")
	opts := Options{
		SourcePath: c.Query("source"),
		TargetPath: c.Query("target"),
		DryRun:     c.QueryBool("dry_run", false),
	}
	l.Info("Triggering reconciliation run",
		zap.String("preset", presetName),
		zap.Bool("dry_run", opts.DryRun))

	res, err := h.service.Run(c.Context(), presetName, opts)
	if err != nil {
		l.Error("Run failed", zap.String("preset", presetName), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// statusFor maps service errors onto HTTP statuses. Unknown presets are
// 404, rejected input and malformed sheets are 400, a workbook held by
// another editor is 423.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrUnknownPreset):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidOptions):
		return fiber.StatusBadRequest
	case errors.Is(err, xlsx.ErrSheetNotFound):
		return fiber.StatusBadRequest
	}

	var missing *reconcile.MissingColumnsError
	if errors.As(err, &missing) {
		return fiber.StatusBadRequest
	}
	var locked *storage.LockedError
	if errors.As(err, &locked) {
		return fiber.StatusLocked
	}
	return fiber.StatusInternalServerError
}
