package scan

import (
	"context"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimValidator validates a scanned series against prior exports and
// creates the warranty claim detail.
type ClaimValidator struct {
	store  notes.Store
	logger *zap.Logger
}

// NewClaimValidator creates a warranty claim validator.
func NewClaimValidator(store notes.Store, logger *zap.Logger) *ClaimValidator {
	return &ClaimValidator{store: store, logger: logger}
}

// ValidateAndClaim runs the three-step claim flow:
//
//  1. Provenance: the series must appear on some export detail
//     (ErrUnknownSeries otherwise).
//  2. Duplicate: the series must not already be claimed on this warranty
//     note (ErrDuplicateClaim otherwise).
//  3. Creation: a new detail with quantity 1, immediately complete, the DOT
//     copied from the provenance record.
//
// Failures are terminal for this scan attempt; nothing is retried here.
func (v *ClaimValidator) ValidateAndClaim(ctx context.Context, warrantyNoteID, series string) (*models.Detail, error) {
	if series == "" {
		return nil, ErrUnknownSeries
	}

	// Provenance check against the export collection. The store search is a
	// contains-match; exact membership decides, first match wins.
	candidates, err := v.store.SearchDetailsBySeries(ctx, models.KindExport, series)
	if err != nil {
		return nil, err
	}
	var provenance *models.Detail
	for i := range candidates {
		if candidates[i].HasSeries(series) {
			provenance = &candidates[i]
			break
		}
	}
	if provenance == nil {
		return nil, ErrUnknownSeries
	}

	// Duplicate check within the same warranty note.
	existing, err := v.store.FindClaim(ctx, warrantyNoteID, series)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateClaim
	}

	// A warranty claim has no partial-fulfillment state: quantity 1,
	// complete at creation.
	claim := models.Detail{
		ID:                uuid.NewString(),
		NoteID:            warrantyNoteID,
		Code:              provenance.Code,
		TargetQuantity:    1,
		FulfilledQuantity: 1,
		Series:            []string{series},
		Status:            models.DetailFulfilled,
	}
	if err := v.store.CreateDetail(ctx, claim); err != nil {
		return nil, err
	}

	v.logger.Info("Warranty claim recorded",
		zap.String("note_id", warrantyNoteID),
		zap.String("series", series),
		zap.String("dot", claim.Code),
	)
	return &claim, nil
}
