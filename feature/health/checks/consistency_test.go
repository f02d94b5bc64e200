package checks

import (
	"context"
	"testing"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConsistency(t *testing.T) {
	store := notes.NewMemStore()
	ctx := context.Background()

	// Healthy in-progress note
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "ok", Kind: models.KindImport, Status: models.StatusCreated},
		[]models.Detail{{ID: "ok1", NoteID: "ok", Code: "12", TargetQuantity: 2, FulfilledQuantity: 1, Status: models.DetailPending}},
	))
	// All details complete but status never converged
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "stale", Kind: models.KindImport, Status: models.StatusCreated},
		[]models.Detail{{ID: "s1", NoteID: "stale", Code: "34", TargetQuantity: 1, FulfilledQuantity: 1, Status: models.DetailFulfilled}},
	))
	// Fulfilled although a detail is open
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "regressed", Kind: models.KindExport, Status: models.StatusFulfilled},
		[]models.Detail{{ID: "r1", NoteID: "regressed", Code: "1234", TargetQuantity: 3, FulfilledQuantity: 1, Status: models.DetailPending}},
	))
	// Count above target
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "over", Kind: models.KindImport, Status: models.StatusCreated},
		[]models.Detail{{ID: "o1", NoteID: "over", Code: "56", TargetQuantity: 1, FulfilledQuantity: 2, Status: models.DetailFulfilled}},
	))
	// Warranty notes with complete claims are the steady state, not stale
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "war", Kind: models.KindWarranty, Status: models.StatusCreated},
		[]models.Detail{{ID: "w1", NoteID: "war", Code: "1234", TargetQuantity: 1, FulfilledQuantity: 1, Status: models.DetailFulfilled}},
	))

	report, err := CheckConsistency(ctx, store)
	require.NoError(t, err)

	assert.False(t, report.OK)
	assert.Contains(t, report.Stale, "stale")
	assert.NotContains(t, report.Stale, "war")
	assert.Contains(t, report.Regressed, "regressed")
	assert.Contains(t, report.Overcounted, "o1")
	assert.NotContains(t, report.Stale, "ok")
}

func TestCheckConsistency_Healthy(t *testing.T) {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "done", Kind: models.KindImport, Status: models.StatusFulfilled},
		[]models.Detail{{ID: "d1", NoteID: "done", Code: "12", TargetQuantity: 1, FulfilledQuantity: 1, Status: models.DetailFulfilled}},
	))

	report, err := CheckConsistency(ctx, store)
	require.NoError(t, err)
	assert.True(t, report.OK)
	assert.Empty(t, report.Stale)
	assert.Empty(t, report.Overcounted)
	assert.Empty(t, report.Regressed)
}
