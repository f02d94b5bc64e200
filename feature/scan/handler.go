package scan

import (
	"tiretrack/core/logger"
	"tiretrack/feature/notes/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the scan flow.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the scan routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/scan")
	group.Post("/:noteId", h.HandleScan)
	group.Post("/:noteId/claim", h.HandleClaim)
	group.Get("/:noteId/session", h.HandleGetSession)
	group.Delete("/:noteId/session", h.HandleEndSession)
}

type scanRequest struct {
	Kind   string `json:"kind"`
	Code   string `json:"code"`
	Series string `json:"series"`
	Image  []byte `json:"image"`
}

type claimRequest struct {
	Series string `json:"series"`
}

// HandleScan records one scan event against a note.
//
// Business rejections (no match, unknown series, duplicate claim) come back
// as 200 with ok=false; adapter failures as 502 with retryable=true.
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	ev := ScanEvent{
		NoteID: c.Params("noteId"),
		Kind:   models.NoteKind(req.Kind),
		Code:   req.Code,
		Series: req.Series,
		Image:  req.Image,
	}
	if !ev.Kind.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported note kind",
		})
	}

	result := h.service.HandleScan(c.Context(), ev)
	if !result.OK {
		l.Info("Scan rejected",
			zap.String("note_id", ev.NoteID),
			zap.String("message", result.Message),
			zap.Bool("retryable", result.Retryable),
		)
	}

	status := fiber.StatusOK
	if !result.OK && result.Retryable {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(result)
}

// HandleClaim records a warranty claim for a scanned series.
func (h *Handler) HandleClaim(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req claimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result := h.service.HandleClaim(c.Context(), c.Params("noteId"), req.Series)
	if !result.OK {
		l.Info("Claim rejected",
			zap.String("note_id", c.Params("noteId")),
			zap.String("message", result.Message),
		)
	}

	status := fiber.StatusOK
	if !result.OK && result.Retryable {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(result)
}

// HandleGetSession returns the note's scan session, seeding it when needed.
func (h *Handler) HandleGetSession(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	snap, err := h.service.Session(c.Context(), c.Params("noteId"))
	if err != nil {
		l.Error("Session seed failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(snap)
}

// HandleEndSession discards the note's scan session.
func (h *Handler) HandleEndSession(c *fiber.Ctx) error {
	h.service.EndSession(c.Params("noteId"))
	return c.SendStatus(fiber.StatusNoContent)
}
