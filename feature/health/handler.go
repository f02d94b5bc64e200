package health

import (
	"tiretrack/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealthCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/consistency", h.HandleConsistencyCheck)
}

// HandleHealthCheck runs all checks and returns a combined report. A failing
// section carries its error instead of aborting the others.
func (h *Handler) HandleHealthCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Running all health checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if !h.service.StorageEnabled() {
		report["storage"] = fiber.Map{"status": "disabled"}
	} else if exists, err := h.service.CheckBucket(ctx); err != nil {
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = fiber.Map{"status": "ok", "bucket_exists": exists}
	}

	if consistency, err := h.service.CheckConsistency(ctx); err != nil {
		report["consistency"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["consistency"] = consistency
	}

	return c.JSON(report)
}

// HandleSchemaCheck verifies the live database schema.
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.OK {
		l.Warn("Schema is missing columns")
	}
	return c.JSON(report)
}

// HandleStorageCheck checks the scan archive bucket and optionally creates it.
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if !h.service.StorageEnabled() {
		return c.JSON(fiber.Map{"status": "disabled"})
	}

	exists, err := h.service.CheckBucket(c.Context())
	if err != nil {
		l.Error("Bucket check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !exists && c.Query("fix") == "true" {
		if err := h.service.FixBucket(c.Context()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to create bucket",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "fixed"})
	}

	return c.JSON(fiber.Map{
		"status":        "checked",
		"bucket_exists": exists,
	})
}

// HandleConsistencyCheck compares note statuses against their details.
func (h *Handler) HandleConsistencyCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckConsistency(c.Context())
	if err != nil {
		l.Error("Consistency check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.OK {
		l.Warn("Consistency problems detected",
			zap.Int("overcounted", len(report.Overcounted)),
			zap.Int("stale", len(report.Stale)),
			zap.Int("regressed", len(report.Regressed)),
		)
	}
	return c.JSON(report)
}
