package notes

import (
	"context"
	"fmt"

	"tiretrack/feature/notes/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles note lifecycle and read operations.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a new notes service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateNoteRequest describes a note to be created together with its line-items.
type CreateNoteRequest struct {
	Kind    models.NoteKind     `json:"kind"`
	Name    string              `json:"name"`
	Details []CreateDetailInput `json:"details"`
}

// CreateDetailInput is one requested line-item.
type CreateDetailInput struct {
	Code           string `json:"code"`
	TargetQuantity int    `json:"target_quantity"`
}

// Progress is the scanned-vs-target aggregate of a note.
type Progress struct {
	NoteID  string `json:"note_id"`
	Scanned int    `json:"scanned"`
	Target  int    `json:"target"`
}

// CreateNote validates the request and persists the note with its details.
// Every detail starts at fulfilled quantity zero.
func (s *Service) CreateNote(ctx context.Context, req CreateNoteRequest) (*models.Note, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("unsupported note kind: %s", req.Kind)
	}
	if req.Kind != models.KindWarranty && len(req.Details) == 0 {
		return nil, fmt.Errorf("note requires at least one detail")
	}

	note := models.Note{
		ID:     uuid.NewString(),
		Kind:   req.Kind,
		Name:   req.Name,
		Status: models.StatusCreated,
	}

	details := make([]models.Detail, 0, len(req.Details))
	for _, in := range req.Details {
		d := models.Detail{
			ID:             uuid.NewString(),
			NoteID:         note.ID,
			Code:           in.Code,
			TargetQuantity: in.TargetQuantity,
			Status:         models.DetailPending,
		}
		if problem := d.Validate(); problem != "" {
			return nil, fmt.Errorf("invalid detail %s: %s", in.Code, problem)
		}
		details = append(details, d)
	}

	if err := s.store.CreateNote(ctx, note, details); err != nil {
		return nil, err
	}

	s.logger.Info("Note created",
		zap.String("note_id", note.ID),
		zap.String("kind", string(note.Kind)),
		zap.Int("details", len(details)),
	)
	return &note, nil
}

// GetNote fetches a note header.
func (s *Service) GetNote(ctx context.Context, id string) (*models.Note, error) {
	return s.store.GetNote(ctx, id)
}

// ListNotes returns notes, optionally filtered by kind.
func (s *Service) ListNotes(ctx context.Context, kind models.NoteKind) ([]models.Note, error) {
	return s.store.ListNotes(ctx, kind, false)
}

// ListDetails returns the line-items of a note.
func (s *Service) ListDetails(ctx context.Context, noteID string) ([]models.Detail, error) {
	return s.store.ListDetails(ctx, noteID)
}

// GetProgress sums scanned and target quantities across the note's details.
// Partial fulfillment is derived here rather than stored on the note.
func (s *Service) GetProgress(ctx context.Context, noteID string) (*Progress, error) {
	details, err := s.store.ListDetails(ctx, noteID)
	if err != nil {
		return nil, err
	}

	p := &Progress{NoteID: noteID}
	for _, d := range details {
		p.Scanned += d.FulfilledQuantity
		p.Target += d.TargetQuantity
	}
	return p, nil
}
