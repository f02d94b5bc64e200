package scan

import (
	"errors"

	"tiretrack/feature/notes/models"
)

var (
	// ErrNoMatch means the scanned code does not correspond to any detail
	// of the note. Recoverable: the user rescans.
	ErrNoMatch = errors.New("code does not match any detail of this note")

	// ErrUnknownSeries means a warranty series has no matching export record.
	ErrUnknownSeries = errors.New("series has no matching export record")

	// ErrDuplicateClaim means the series was already claimed on this
	// warranty note.
	ErrDuplicateClaim = errors.New("series already claimed on this note")

	// ErrContention means the guarded increment kept losing the version
	// swap. Retryable: the scan was not recorded.
	ErrContention = errors.New("concurrent update contention, scan not recorded")
)

// ScanEvent is one user-initiated capture: a note plus either an already
// recognized code or a raw image for the recognition collaborator.
type ScanEvent struct {
	NoteID string          `json:"note_id"`
	Kind   models.NoteKind `json:"kind"`
	Code   string          `json:"code"`
	Series string          `json:"series,omitempty"`
	Image  []byte          `json:"image,omitempty"`
}

// ScanResult is the structured outcome of a scan attempt. No failure
// propagates past the scan service as a fault; everything lands here.
type ScanResult struct {
	// OK is true when the scan was recorded (or harmlessly redundant).
	OK bool `json:"ok"`
	// Message is the user-facing outcome description.
	Message string `json:"message"`
	// Retryable marks failures where retrying the same scan may succeed
	// (adapter errors, unrecognized frames).
	Retryable bool `json:"retryable,omitempty"`

	// Code is the code the scan resolved against, after recognition.
	Code string `json:"code,omitempty"`
	// DetailID identifies the matched line-item.
	DetailID string `json:"detail_id,omitempty"`
	// NewCount is the fulfilled quantity after this scan.
	NewCount int `json:"new_count,omitempty"`
	// TargetQuantity is the matched detail's target.
	TargetQuantity int `json:"target_quantity,omitempty"`

	// AlreadyComplete marks a redundant scan of a finished detail.
	AlreadyComplete bool `json:"already_complete,omitempty"`
	// ItemCompleted is true when this scan brought the detail to target.
	ItemCompleted bool `json:"item_completed,omitempty"`
	// NoteCompleted is true when this scan brought the whole note to target.
	NoteCompleted bool `json:"note_completed,omitempty"`
}
