package integrity

import (
	"stripe-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/server", h.HandleServerCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/provider", h.HandleProviderCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Checks the platform tables, the report archive bucket and Stripe reachability.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Failure 503 {object} Report "At least one check failed"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.CheckAll(c.Context())
	if !report.Healthy() {
		l.Warn("Integrity check found problems")
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleServerCheck checks the platform schema.
// @Summary Check Platform Schema
// @Description Checks that the users and attribute tables of the configured profile have the expected columns.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ServerReport "Server Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/server [get]
func (h *Handler) HandleServerCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting platform schema check")

	report, err := h.service.CheckServer()
	if err != nil {
		l.Error("Platform schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the report archive bucket.
// @Summary Check Report Storage
// @Description Checks that the report archive bucket exists. Optionally creates it.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket when missing"
// @Success 200 {object} checks.StorageReport "Storage Report"
// @Failure 404 {object} map[string]string "Storage disabled"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.StorageEnabled() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Report storage is disabled"})
	}

	check := h.service.CheckStorage
	if c.Query("fix") == "true" {
		l.Info("Checking report storage with fix enabled")
		check = h.service.FixStorage
	}

	report, err := check(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Exists {
		l.Warn("Report bucket is missing", zap.String("bucket", report.Bucket))
	}

	return c.JSON(report)
}

// HandleProviderCheck checks Stripe reachability.
// @Summary Check Stripe
// @Description Performs a minimal authenticated call against Stripe.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ProviderReport "Provider Report"
// @Failure 503 {object} checks.ProviderReport "Stripe unreachable or unconfigured"
// @Router /integrity/provider [get]
func (h *Handler) HandleProviderCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report := h.service.CheckProvider(c.Context())
	if report.Status != "ok" {
		l.Warn("Stripe check failed", zap.String("status", report.Status), zap.String("error", report.Error))
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
