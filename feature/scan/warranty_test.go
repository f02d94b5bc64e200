package scan

import (
	"context"
	"testing"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedWarrantyStore(t *testing.T) *notes.MemStore {
	store := notes.NewMemStore()
	ctx := context.Background()

	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "exp", Kind: models.KindExport, Status: models.StatusFulfilled},
		[]models.Detail{{ID: "e1", NoteID: "exp", Code: "1234", TargetQuantity: 2, FulfilledQuantity: 2,
			Series: []string{"A1B2", "C3D4"}, Status: models.DetailFulfilled}},
	))
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "war", Kind: models.KindWarranty, Status: models.StatusCreated}, nil,
	))
	return store
}

func TestClaimValidator_ValidateAndClaim(t *testing.T) {
	store := seedWarrantyStore(t)
	validator := NewClaimValidator(store, zap.NewNop())
	ctx := context.Background()

	claim, err := validator.ValidateAndClaim(ctx, "war", "A1B2")
	require.NoError(t, err)

	// The claim carries the DOT of the export record and is complete at birth
	assert.Equal(t, "war", claim.NoteID)
	assert.Equal(t, "1234", claim.Code)
	assert.Equal(t, 1, claim.TargetQuantity)
	assert.Equal(t, 1, claim.FulfilledQuantity)
	assert.Equal(t, []string{"A1B2"}, claim.Series)
	assert.Equal(t, models.DetailFulfilled, claim.Status)

	stored, err := store.GetDetail(ctx, claim.ID)
	require.NoError(t, err)
	assert.True(t, stored.HasSeries("A1B2"))
}

func TestClaimValidator_UnknownSeries(t *testing.T) {
	store := seedWarrantyStore(t)
	validator := NewClaimValidator(store, zap.NewNop())
	ctx := context.Background()

	_, err := validator.ValidateAndClaim(ctx, "war", "ZZZZ")
	assert.ErrorIs(t, err, ErrUnknownSeries)

	_, err = validator.ValidateAndClaim(ctx, "war", "")
	assert.ErrorIs(t, err, ErrUnknownSeries)

	// A substring of an exported series is not provenance
	_, err = validator.ValidateAndClaim(ctx, "war", "A1")
	assert.ErrorIs(t, err, ErrUnknownSeries)
}

func TestClaimValidator_DuplicateClaim(t *testing.T) {
	store := seedWarrantyStore(t)
	validator := NewClaimValidator(store, zap.NewNop())
	ctx := context.Background()

	_, err := validator.ValidateAndClaim(ctx, "war", "A1B2")
	require.NoError(t, err)

	_, err = validator.ValidateAndClaim(ctx, "war", "A1B2")
	assert.ErrorIs(t, err, ErrDuplicateClaim)

	// The same series on a different warranty note is an independent claim
	require.NoError(t, store.CreateNote(ctx,
		models.Note{ID: "war2", Kind: models.KindWarranty, Status: models.StatusCreated}, nil,
	))
	_, err = validator.ValidateAndClaim(ctx, "war2", "A1B2")
	assert.NoError(t, err)
}
