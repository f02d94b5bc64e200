package notes_test

import (
	"context"
	"testing"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_CreateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid", func(t *testing.T) {
		store := notes.NewMemStore()
		svc := notes.NewService(store, zap.NewNop())

		note, err := svc.CreateNote(ctx, notes.CreateNoteRequest{
			Kind: models.KindImport,
			Name: "Morning delivery",
			Details: []notes.CreateDetailInput{
				{Code: "12", TargetQuantity: 4},
				{Code: "34", TargetQuantity: 2},
			},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, note.ID)
		assert.Equal(t, models.StatusCreated, note.Status)

		details, err := store.ListDetails(ctx, note.ID)
		require.NoError(t, err)
		require.Len(t, details, 2)
		for _, d := range details {
			assert.Equal(t, 0, d.FulfilledQuantity)
			assert.Equal(t, models.DetailPending, d.Status)
		}
	})

	t.Run("UnknownKind", func(t *testing.T) {
		svc := notes.NewService(notes.NewMemStore(), zap.NewNop())

		_, err := svc.CreateNote(ctx, notes.CreateNoteRequest{Kind: "lease"})
		assert.Error(t, err)
	})

	t.Run("RequiresDetails", func(t *testing.T) {
		svc := notes.NewService(notes.NewMemStore(), zap.NewNop())

		_, err := svc.CreateNote(ctx, notes.CreateNoteRequest{Kind: models.KindImport, Name: "empty"})
		assert.Error(t, err)
	})

	t.Run("WarrantyStartsEmpty", func(t *testing.T) {
		// Warranty notes collect claims as they happen, so no details up front
		svc := notes.NewService(notes.NewMemStore(), zap.NewNop())

		note, err := svc.CreateNote(ctx, notes.CreateNoteRequest{Kind: models.KindWarranty, Name: "claims"})
		require.NoError(t, err)
		assert.Equal(t, models.KindWarranty, note.Kind)
	})

	t.Run("InvalidDetail", func(t *testing.T) {
		svc := notes.NewService(notes.NewMemStore(), zap.NewNop())

		_, err := svc.CreateNote(ctx, notes.CreateNoteRequest{
			Kind:    models.KindImport,
			Details: []notes.CreateDetailInput{{Code: "12", TargetQuantity: 0}},
		})
		assert.Error(t, err)
	})
}

func TestService_GetProgress(t *testing.T) {
	store := notes.NewMemStore()
	svc := notes.NewService(store, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "n1", Kind: models.KindImport, Status: models.StatusCreated},
		[]models.Detail{
			{ID: "d1", NoteID: "n1", Code: "12", TargetQuantity: 4, FulfilledQuantity: 3, Status: models.DetailPending},
			{ID: "d2", NoteID: "n1", Code: "34", TargetQuantity: 2, FulfilledQuantity: 2, Status: models.DetailFulfilled},
		},
	))

	progress, err := svc.GetProgress(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "n1", progress.NoteID)
	assert.Equal(t, 5, progress.Scanned)
	assert.Equal(t, 6, progress.Target)
}
