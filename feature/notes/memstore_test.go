package notes_test

import (
	"context"
	"testing"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_IncrementDetail(t *testing.T) {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "n1", Kind: models.KindExport, Status: models.StatusCreated},
		[]models.Detail{{ID: "d1", NoteID: "n1", Code: "1234", TargetQuantity: 3, Status: models.DetailPending}},
	))

	first, err := store.GetDetail(ctx, "d1")
	require.NoError(t, err)
	second, err := store.GetDetail(ctx, "d1")
	require.NoError(t, err)

	// Two readers hold the same version; only one swap may land
	first.FulfilledQuantity = 1
	second.FulfilledQuantity = 1

	applied, err := store.IncrementDetail(ctx, *first)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = store.IncrementDetail(ctx, *second)
	require.NoError(t, err)
	assert.False(t, applied)

	fresh, err := store.GetDetail(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.FulfilledQuantity)
	assert.Equal(t, first.Version+1, fresh.Version)

	_, err = store.IncrementDetail(ctx, models.Detail{ID: "missing"})
	assert.ErrorIs(t, err, notes.ErrNotFound)
}

func TestMemStore_DefensiveCopies(t *testing.T) {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "n1", Kind: models.KindExport, Status: models.StatusCreated},
		[]models.Detail{{ID: "d1", NoteID: "n1", Code: "1234", TargetQuantity: 2,
			Series: []string{"A1"}, Status: models.DetailPending}},
	))

	got, err := store.GetDetail(ctx, "d1")
	require.NoError(t, err)
	got.Series[0] = "mutated"

	fresh, err := store.GetDetail(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1"}, fresh.Series)
}

func TestMemStore_SearchAndClaims(t *testing.T) {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "e1", Kind: models.KindExport, Status: models.StatusFulfilled},
		[]models.Detail{{ID: "d1", NoteID: "e1", Code: "1234", TargetQuantity: 1, FulfilledQuantity: 1,
			Series: []string{"A1B2"}, Status: models.DetailFulfilled}},
	))
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "w1", Kind: models.KindWarranty, Status: models.StatusCreated}, nil,
	))

	found, err := store.SearchDetailsBySeries(ctx, models.KindExport, "A1B2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "d1", found[0].ID)

	none, err := store.SearchDetailsBySeries(ctx, models.KindImport, "A1B2")
	require.NoError(t, err)
	assert.Empty(t, none)

	claim, err := store.FindClaim(ctx, "w1", "A1B2")
	require.NoError(t, err)
	assert.Nil(t, claim)

	require.NoError(t, store.CreateDetail(ctx, models.Detail{
		ID: "c1", NoteID: "w1", Code: "1234", TargetQuantity: 1, FulfilledQuantity: 1,
		Series: []string{"A1B2"}, Status: models.DetailFulfilled,
	}))

	claim, err = store.FindClaim(ctx, "w1", "A1B2")
	require.NoError(t, err)
	require.NotNil(t, claim)
	assert.Equal(t, "c1", claim.ID)
}

func TestMemStore_ListNotes(t *testing.T) {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx, models.Note{ID: "n1", Kind: models.KindImport, Status: models.StatusCreated}, nil))
	require.NoError(t, store.CreateNote(ctx, models.Note{ID: "n2", Kind: models.KindImport, Status: models.StatusFulfilled}, nil))

	pending, err := store.ListNotes(ctx, models.KindImport, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "n1", pending[0].ID)

	require.NoError(t, store.UpdateNoteStatus(ctx, "n1", models.StatusFulfilled))
	pending, err = store.ListNotes(ctx, models.KindImport, true)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, store.UpdateNoteStatus(ctx, "missing", models.StatusFulfilled), notes.ErrNotFound)
}
