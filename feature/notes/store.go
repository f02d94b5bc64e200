package notes

import (
	"context"
	"errors"
	"fmt"

	"tiretrack/feature/notes/models"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a note or detail does not exist.
var ErrNotFound = errors.New("record not found")

// Store is the persistence boundary for notes and their details.
//
// IncrementDetail is the only mutating call the reconciliation core uses for
// counts: it performs a compare-and-swap on the detail's version so two
// concurrent scans of the same detail can never both apply (one loses the
// swap and retries against fresh state).
type Store interface {
	// GetNote fetches a single note by id.
	GetNote(ctx context.Context, id string) (*models.Note, error)
	// ListNotes returns notes, optionally filtered by kind. When
	// unfulfilledOnly is set, fulfilled notes are excluded.
	ListNotes(ctx context.Context, kind models.NoteKind, unfulfilledOnly bool) ([]models.Note, error)
	// CreateNote persists a note header together with its line-items.
	CreateNote(ctx context.Context, note models.Note, details []models.Detail) error
	// UpdateNoteStatus sets the note's status. Idempotent.
	UpdateNoteStatus(ctx context.Context, id string, status models.NoteStatus) error

	// GetDetail fetches a single detail by id.
	GetDetail(ctx context.Context, id string) (*models.Detail, error)
	// ListDetails returns all details belonging to the note.
	ListDetails(ctx context.Context, noteID string) ([]models.Detail, error)
	// SearchDetailsBySeries returns details of the given note kind whose
	// series list contains the series text. The match is a contains-search
	// against the persisted list; callers must confirm exact membership
	// with Detail.HasSeries.
	SearchDetailsBySeries(ctx context.Context, kind models.NoteKind, series string) ([]models.Detail, error)
	// FindClaim returns the detail of the given note that carries the exact
	// series, or nil when none exists.
	FindClaim(ctx context.Context, noteID, series string) (*models.Detail, error)
	// CreateDetail appends a new line-item to an existing note.
	CreateDetail(ctx context.Context, detail models.Detail) error
	// IncrementDetail writes the detail's fulfilled quantity, series list and
	// status in one conditional update guarded by detail.Version. It returns
	// false when the version was stale and nothing was written.
	IncrementDetail(ctx context.Context, detail models.Detail) (bool, error)
}

// GormStore implements Store on top of a GORM connection.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store backed by the given database connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the note tables.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&models.NoteRow{}, &models.DetailRow{})
}

// GetNote fetches a single note by id.
func (s *GormStore) GetNote(ctx context.Context, id string) (*models.Note, error) {
	var row models.NoteRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch note: %w", err)
	}
	note := row.ToNormalized()
	return &note, nil
}

// ListNotes returns notes filtered by kind and fulfillment state.
func (s *GormStore) ListNotes(ctx context.Context, kind models.NoteKind, unfulfilledOnly bool) ([]models.Note, error) {
	q := s.db.WithContext(ctx).Model(&models.NoteRow{})
	if kind != "" {
		q = q.Where("kind = ?", string(kind))
	}
	if unfulfilledOnly {
		q = q.Where("status <> ?", string(models.StatusFulfilled))
	}

	var rows []models.NoteRow
	if err := q.Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	result := make([]models.Note, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToNormalized())
	}
	return result, nil
}

// CreateNote persists the note header and its details in one transaction.
func (s *GormStore) CreateNote(ctx context.Context, note models.Note, details []models.Detail) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := models.NoteRowFrom(note)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create note: %w", err)
		}
		for _, d := range details {
			dr := models.DetailRowFrom(d)
			if err := tx.Create(&dr).Error; err != nil {
				return fmt.Errorf("failed to create detail: %w", err)
			}
		}
		return nil
	})
}

// UpdateNoteStatus sets the note's status field.
func (s *GormStore) UpdateNoteStatus(ctx context.Context, id string, status models.NoteStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.NoteRow{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("failed to update note status: %w", res.Error)
	}
	return nil
}

// GetDetail fetches a single detail by id.
func (s *GormStore) GetDetail(ctx context.Context, id string) (*models.Detail, error) {
	var row models.DetailRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch detail: %w", err)
	}
	detail := row.ToNormalized()
	return &detail, nil
}

// ListDetails returns all details belonging to the note, filtered server-side
// by the note-link column.
func (s *GormStore) ListDetails(ctx context.Context, noteID string) ([]models.Detail, error) {
	var rows []models.DetailRow
	if err := s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list details: %w", err)
	}

	result := make([]models.Detail, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToNormalized())
	}
	return result, nil
}

// SearchDetailsBySeries performs a contains-search over the persisted series
// lists of all details belonging to notes of the given kind.
func (s *GormStore) SearchDetailsBySeries(ctx context.Context, kind models.NoteKind, series string) ([]models.Detail, error) {
	var rows []models.DetailRow
	err := s.db.WithContext(ctx).
		Model(&models.DetailRow{}).
		Joins("JOIN notes ON notes.id = note_details.note_id").
		Where("notes.kind = ?", string(kind)).
		Where("note_details.series_list LIKE ?", "%"+series+"%").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search details by series: %w", err)
	}

	result := make([]models.Detail, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.ToNormalized())
	}
	return result, nil
}

// FindClaim returns the detail of the note carrying the exact series, if any.
func (s *GormStore) FindClaim(ctx context.Context, noteID, series string) (*models.Detail, error) {
	var rows []models.DetailRow
	err := s.db.WithContext(ctx).
		Where("note_id = ?", noteID).
		Where("series_list LIKE ?", "%"+series+"%").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}

	// LIKE can over-match on substrings; confirm exact membership.
	for _, row := range rows {
		d := row.ToNormalized()
		if d.HasSeries(series) {
			return &d, nil
		}
	}
	return nil, nil
}

// CreateDetail appends a new line-item to an existing note.
func (s *GormStore) CreateDetail(ctx context.Context, detail models.Detail) error {
	row := models.DetailRowFrom(detail)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create detail: %w", err)
	}
	return nil
}

// IncrementDetail applies the detail's mutable fields with a version guard.
// RowsAffected 0 means the guard failed: another writer got there first.
func (s *GormStore) IncrementDetail(ctx context.Context, detail models.Detail) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.DetailRow{}).
		Where("id = ? AND version = ?", detail.ID, detail.Version).
		Updates(map[string]any{
			"fulfilled_quantity": detail.FulfilledQuantity,
			"series_list":        models.JoinSeries(detail.Series),
			"status":             string(detail.Status),
			"version":            detail.Version + 1,
		})
	if res.Error != nil {
		return false, fmt.Errorf("failed to update detail: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
