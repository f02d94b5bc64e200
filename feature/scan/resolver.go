package scan

import (
	"context"
	"strings"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"
)

// Resolver matches a recognized code against the details of one note.
type Resolver struct {
	store notes.Store
	cfg   Config
}

// NewResolver creates a resolver using the configured DOT widths.
func NewResolver(store notes.Store, cfg Config) *Resolver {
	return &Resolver{store: store, cfg: cfg.withDefaults()}
}

// DOTWidth returns the digit width used for DOT matching on the given note
// kind: receiving scans match a short fragment, registration scans the full
// production code.
func (r *Resolver) DOTWidth(kind models.NoteKind) int {
	if kind == models.KindImport {
		return r.cfg.ReceivingDOTWidth
	}
	return r.cfg.RegistrationDOTWidth
}

// Resolve finds the unique detail the code refers to.
//
// Matching is exact string equality after both the scanned code and the
// stored code are normalized to the note kind's digit width; no prefix or
// partial matching. When more than one detail carries the same code the
// first match wins.
func (r *Resolver) Resolve(ctx context.Context, noteID string, kind models.NoteKind, code string) (*models.Detail, error) {
	width := r.DOTWidth(kind)

	norm, ok := NormalizeDOT(code, width)
	if !ok {
		return nil, ErrNoMatch
	}

	details, err := r.store.ListDetails(ctx, noteID)
	if err != nil {
		return nil, err
	}

	for i := range details {
		stored, ok := NormalizeDOT(details[i].Code, width)
		if ok && stored == norm {
			return &details[i], nil
		}
	}

	return nil, ErrNoMatch
}

// NormalizeDOT brings a DOT code to the given digit width: shorter codes are
// left-padded with zeros, longer codes keep their trailing digits (the
// week/year fragment printed largest on the tire). Non-numeric codes are
// rejected.
func NormalizeDOT(code string, width int) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	if len(code) > width {
		return code[len(code)-width:], true
	}
	for len(code) < width {
		code = "0" + code
	}
	return code, true
}
