package notes

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tiretrack/feature/notes/models"
)

// MemStore is an in-memory Store implementation.
//
// It is used by tests and local development. The version guard in
// IncrementDetail behaves exactly like the SQL implementation: a stale
// version loses the swap and the caller retries.
type MemStore struct {
	mu      sync.Mutex
	notes   map[string]models.Note
	details map[string]models.Detail
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		notes:   make(map[string]models.Note),
		details: make(map[string]models.Detail),
	}
}

// GetNote fetches a single note by id.
func (s *MemStore) GetNote(ctx context.Context, id string) (*models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &note, nil
}

// ListNotes returns notes filtered by kind and fulfillment state.
func (s *MemStore) ListNotes(ctx context.Context, kind models.NoteKind, unfulfilledOnly bool) ([]models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Note, 0, len(s.notes))
	for _, note := range s.notes {
		if kind != "" && note.Kind != kind {
			continue
		}
		if unfulfilledOnly && note.Status == models.StatusFulfilled {
			continue
		}
		result = append(result, note)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// CreateNote stores the note header and its details.
func (s *MemStore) CreateNote(ctx context.Context, note models.Note, details []models.Detail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[note.ID] = note
	for _, d := range details {
		s.details[d.ID] = d
	}
	return nil
}

// UpdateNoteStatus sets the note's status field. Idempotent.
func (s *MemStore) UpdateNoteStatus(ctx context.Context, id string, status models.NoteStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	note, ok := s.notes[id]
	if !ok {
		return ErrNotFound
	}
	note.Status = status
	s.notes[id] = note
	return nil
}

// GetDetail fetches a single detail by id.
func (s *MemStore) GetDetail(ctx context.Context, id string) (*models.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	detail, ok := s.details[id]
	if !ok {
		return nil, ErrNotFound
	}
	d := cloneDetail(detail)
	return &d, nil
}

// ListDetails returns all details belonging to the note.
func (s *MemStore) ListDetails(ctx context.Context, noteID string) ([]models.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Detail, 0)
	for _, d := range s.details {
		if d.NoteID == noteID {
			result = append(result, cloneDetail(d))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// SearchDetailsBySeries performs a contains-search like the SQL store.
func (s *MemStore) SearchDetailsBySeries(ctx context.Context, kind models.NoteKind, series string) ([]models.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]models.Detail, 0)
	for _, d := range s.details {
		note, ok := s.notes[d.NoteID]
		if !ok || note.Kind != kind {
			continue
		}
		if strings.Contains(models.JoinSeries(d.Series), series) {
			result = append(result, cloneDetail(d))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindClaim returns the detail of the note carrying the exact series, if any.
func (s *MemStore) FindClaim(ctx context.Context, noteID, series string) (*models.Detail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.details {
		if d.NoteID == noteID && d.HasSeries(series) {
			found := cloneDetail(d)
			return &found, nil
		}
	}
	return nil, nil
}

// CreateDetail appends a new line-item.
func (s *MemStore) CreateDetail(ctx context.Context, detail models.Detail) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.details[detail.ID] = cloneDetail(detail)
	return nil
}

// IncrementDetail applies the mutable fields if the version still matches.
func (s *MemStore) IncrementDetail(ctx context.Context, detail models.Detail) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.details[detail.ID]
	if !ok {
		return false, ErrNotFound
	}
	if current.Version != detail.Version {
		return false, nil
	}

	updated := cloneDetail(detail)
	updated.Version = detail.Version + 1
	s.details[detail.ID] = updated
	return true, nil
}

func cloneDetail(d models.Detail) models.Detail {
	if d.Series != nil {
		series := make([]string, len(d.Series))
		copy(series, d.Series)
		d.Series = series
	}
	return d
}
