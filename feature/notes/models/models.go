package models

import "time"

// NoteKind identifies the transaction type of a note.
type NoteKind string

const (
	// KindImport is a receiving note: tires arriving at the warehouse.
	KindImport NoteKind = "import"
	// KindExport is a dispatch note: tires leaving the warehouse, each
	// registered with an individual series number.
	KindExport NoteKind = "export"
	// KindWarranty is a claim note: previously exported tires returned
	// under warranty, validated by series.
	KindWarranty NoteKind = "warranty"
)

// Valid reports whether the kind is one of the supported note kinds.
func (k NoteKind) Valid() bool {
	switch k {
	case KindImport, KindExport, KindWarranty:
		return true
	default:
		return false
	}
}

// UsesSeries reports whether details of this kind carry series numbers.
func (k NoteKind) UsesSeries() bool {
	return k == KindExport || k == KindWarranty
}

// NoteStatus is the lifecycle state of a note.
type NoteStatus string

const (
	// StatusCreated is the initial state of every note.
	StatusCreated NoteStatus = "created"
	// StatusPartiallyFulfilled is never persisted; partial progress is
	// observable by comparing scanned vs target sums at read time.
	StatusPartiallyFulfilled NoteStatus = "partially_fulfilled"
	// StatusFulfilled means every detail of the note reached its target.
	StatusFulfilled NoteStatus = "fulfilled"
)

// DetailStatus is the lifecycle state of a line-item.
type DetailStatus string

const (
	// DetailPending means the detail has not yet reached its target quantity.
	DetailPending DetailStatus = "pending"
	// DetailFulfilled means fulfilled quantity reached the target.
	DetailFulfilled DetailStatus = "fulfilled"
)

// Note is the header record of one import, export, or warranty transaction.
type Note struct {
	ID        string     `json:"id"`
	Kind      NoteKind   `json:"kind"`
	Name      string     `json:"name"`
	Status    NoteStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// Detail is a line-item within a note, tracking target vs fulfilled quantity
// for one DOT code and, for export/warranty notes, the individual series
// numbers registered against it.
type Detail struct {
	ID                string       `json:"id"`
	NoteID            string       `json:"note_id"`
	Code              string       `json:"code"`
	TargetQuantity    int          `json:"target_quantity"`
	FulfilledQuantity int          `json:"fulfilled_quantity"`
	Series            []string     `json:"series,omitempty"`
	Status            DetailStatus `json:"status"`

	// Version is the optimistic concurrency counter. Every conditional
	// write bumps it; a stale version means the write must be retried.
	Version int64 `json:"-"`
}

// Complete reports whether the detail reached its target quantity.
func (d Detail) Complete() bool {
	return d.FulfilledQuantity >= d.TargetQuantity
}

// Remaining returns how many scans are still expected for this detail.
func (d Detail) Remaining() int {
	if d.Complete() {
		return 0
	}
	return d.TargetQuantity - d.FulfilledQuantity
}

// HasSeries reports whether the exact series string was already registered
// on this detail. Comparison is exact, not substring.
func (d Detail) HasSeries(series string) bool {
	for _, s := range d.Series {
		if s == series {
			return true
		}
	}
	return false
}

// Validate checks the detail for the minimum required fields.
// It returns an empty string when valid, or a short problem description.
func (d Detail) Validate() string {
	if d.Code == "" {
		return "missing code"
	}
	if d.TargetQuantity <= 0 {
		return "target quantity must be positive"
	}
	if d.FulfilledQuantity < 0 {
		return "fulfilled quantity must not be negative"
	}
	if d.FulfilledQuantity > d.TargetQuantity {
		return "fulfilled quantity exceeds target"
	}
	return ""
}
