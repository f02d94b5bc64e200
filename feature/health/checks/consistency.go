package checks

import (
	"context"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"
)

// ConsistencyReport flags notes whose stored status disagrees with their
// line-item counts.
type ConsistencyReport struct {
	// Overcounted details exceed their target. The guarded increment should
	// make this impossible; an entry here points at a write outside the API.
	Overcounted []string `json:"overcounted,omitempty"`
	// Stale notes have every detail at target but were never marked
	// fulfilled. The reconcile sweep converges them.
	Stale []string `json:"stale,omitempty"`
	// Regressed notes are marked fulfilled although a detail is incomplete.
	Regressed []string `json:"regressed,omitempty"`
	OK        bool     `json:"ok"`
}

// CheckConsistency walks all notes and compares their status to their
// details. Read-only; fixing stale notes is the reconcile sweep's job.
func CheckConsistency(ctx context.Context, store notes.Store) (*ConsistencyReport, error) {
	report := &ConsistencyReport{}

	all, err := store.ListNotes(ctx, "", false)
	if err != nil {
		return nil, err
	}

	for _, note := range all {
		details, err := store.ListDetails(ctx, note.ID)
		if err != nil {
			return nil, err
		}

		complete := len(details) > 0
		for _, d := range details {
			if d.FulfilledQuantity > d.TargetQuantity {
				report.Overcounted = append(report.Overcounted, d.ID)
			}
			if !d.Complete() {
				complete = false
			}
		}

		// Warranty notes are never aggregated: claims are complete at
		// creation, so "all details complete" is their steady state.
		if complete && note.Status != models.StatusFulfilled && note.Kind != models.KindWarranty {
			report.Stale = append(report.Stale, note.ID)
		}
		if !complete && len(details) > 0 && note.Status == models.StatusFulfilled {
			report.Regressed = append(report.Regressed, note.ID)
		}
	}

	report.OK = len(report.Overcounted) == 0 && len(report.Stale) == 0 && len(report.Regressed) == 0
	return report, nil
}
