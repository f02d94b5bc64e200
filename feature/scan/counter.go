package scan

import (
	"context"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"go.uber.org/zap"
)

// ScanProgress is the outcome of one guarded increment.
type ScanProgress struct {
	// NewCount is the fulfilled quantity after the scan.
	NewCount int
	// ItemCompleted is true when this scan brought the detail to target.
	ItemCompleted bool
	// AlreadyComplete marks a redundant scan: the detail was at target
	// before this scan and nothing was written.
	AlreadyComplete bool
	// Detail is the post-scan state of the line-item.
	Detail models.Detail
}

// Counter advances a detail's fulfilled count by exactly one scan.
//
// The increment is a compare-and-swap against the detail's version: the
// fresh state is fetched, the already-at-target check and the increment
// happen against that snapshot, and the conditional write only applies if
// nobody else wrote in between. A lost swap retries with fresh state, so N
// concurrent scans of a detail with target N land at exactly N.
type Counter struct {
	store      notes.Store
	logger     *zap.Logger
	maxRetries int
}

// NewCounter creates a progress counter.
func NewCounter(store notes.Store, logger *zap.Logger, cfg Config) *Counter {
	cfg = cfg.withDefaults()
	return &Counter{store: store, logger: logger, maxRetries: cfg.MaxUpdateRetries}
}

// RecordScan increments the detail's fulfilled quantity by one. For series
// flows the recognized series is appended in the same write. A detail
// already at target yields AlreadyComplete without touching state.
func (c *Counter) RecordScan(ctx context.Context, detailID, series string) (*ScanProgress, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		detail, err := c.store.GetDetail(ctx, detailID)
		if err != nil {
			return nil, err
		}

		if detail.Complete() {
			return &ScanProgress{
				NewCount:        detail.FulfilledQuantity,
				AlreadyComplete: true,
				Detail:          *detail,
			}, nil
		}

		next := *detail
		next.FulfilledQuantity++
		if series != "" && !next.HasSeries(series) {
			next.Series = append(next.Series, series)
		}
		if next.FulfilledQuantity >= next.TargetQuantity {
			next.Status = models.DetailFulfilled
		}

		applied, err := c.store.IncrementDetail(ctx, next)
		if err != nil {
			return nil, err
		}
		if applied {
			next.Version++
			return &ScanProgress{
				NewCount:      next.FulfilledQuantity,
				ItemCompleted: next.Complete(),
				Detail:        next,
			}, nil
		}

		c.logger.Debug("Detail version conflict, retrying",
			zap.String("detail_id", detailID),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, ErrContention
}
