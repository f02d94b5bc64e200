package scan

import (
	"context"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"go.uber.org/zap"
)

// Aggregator re-evaluates a note after one of its details completes.
//
// It is idempotent and safe to re-run: setting an already fulfilled note to
// fulfilled again is harmless, so a failed run is recovered by the next scan
// or by the reconcile sweep.
type Aggregator struct {
	store  notes.Store
	logger *zap.Logger
}

// NewAggregator creates a note completion aggregator.
func NewAggregator(store notes.Store, logger *zap.Logger) *Aggregator {
	return &Aggregator{store: store, logger: logger}
}

// OnItemCompleted checks whether every detail of the note reached its
// target and, if so, marks the note fulfilled. It returns true when the
// note is (now) fulfilled.
func (a *Aggregator) OnItemCompleted(ctx context.Context, noteID string) (bool, error) {
	details, err := a.store.ListDetails(ctx, noteID)
	if err != nil {
		return false, err
	}
	if len(details) == 0 {
		return false, nil
	}

	for _, d := range details {
		if !d.Complete() {
			return false, nil
		}
	}

	if err := a.store.UpdateNoteStatus(ctx, noteID, models.StatusFulfilled); err != nil {
		return false, err
	}

	a.logger.Info("Note fulfilled",
		zap.String("note_id", noteID),
		zap.Int("details", len(details)),
	)
	return true, nil
}
