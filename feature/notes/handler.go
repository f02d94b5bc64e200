package notes

import (
	"errors"

	"tiretrack/core/logger"
	"tiretrack/feature/notes/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for notes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the note routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/notes")
	group.Post("/", h.HandleCreateNote)
	group.Get("/", h.HandleListNotes)
	group.Get("/:id", h.HandleGetNote)
	group.Get("/:id/details", h.HandleListDetails)
	group.Get("/:id/progress", h.HandleGetProgress)
}

// HandleCreateNote creates a note together with its line-items.
func (h *Handler) HandleCreateNote(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CreateNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	note, err := h.service.CreateNote(c.Context(), req)
	if err != nil {
		l.Error("Note creation failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(note)
}

// HandleListNotes returns all notes, optionally filtered by ?kind=.
func (h *Handler) HandleListNotes(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind := models.NoteKind(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unsupported note kind",
		})
	}

	result, err := h.service.ListNotes(c.Context(), kind)
	if err != nil {
		l.Error("Note listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}

// HandleGetNote returns a single note header.
func (h *Handler) HandleGetNote(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	note, err := h.service.GetNote(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "note not found",
			})
		}
		l.Error("Note fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(note)
}

// HandleListDetails returns the line-items of a note.
func (h *Handler) HandleListDetails(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	details, err := h.service.ListDetails(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("Detail listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(details)
}

// HandleGetProgress returns the scanned-vs-target sums for a note.
func (h *Handler) HandleGetProgress(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	progress, err := h.service.GetProgress(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("Progress aggregation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(progress)
}
