package scan

import (
	"context"
	"sync"
	"time"

	"tiretrack/feature/notes"
	"tiretrack/feature/notes/models"

	"golang.org/x/sync/singleflight"
)

// Entry mirrors one server detail inside a scan session.
type Entry struct {
	ID       string   `json:"id"`
	DOT      string   `json:"dot,omitempty"`
	Series   []string `json:"series,omitempty"`
	Quantity int      `json:"quantity"`
	Scanned  int      `json:"scanned"`
}

// Session is the client-facing mirror of in-progress note state. It is never
// authoritative: it drives UI feedback between round trips and must be
// reconciled against server responses after every scan.
type Session struct {
	mu      sync.Mutex
	noteID  string
	entries []Entry
	seeded  time.Time
	ttl     time.Duration
}

// SessionSnapshot is the JSON view of a session.
type SessionSnapshot struct {
	NoteID       string  `json:"note_id"`
	Entries      []Entry `json:"entries"`
	Scanned      int     `json:"scanned"`
	Target       int     `json:"target"`
	AllSatisfied bool    `json:"all_satisfied"`
}

func newSession(noteID string, details []models.Detail, ttl time.Duration) *Session {
	entries := make([]Entry, 0, len(details))
	for _, d := range details {
		entries = append(entries, Entry{
			ID:       d.ID,
			DOT:      d.Code,
			Series:   append([]string(nil), d.Series...),
			Quantity: d.TargetQuantity,
			Scanned:  d.FulfilledQuantity,
		})
	}
	return &Session{
		noteID:  noteID,
		entries: entries,
		seeded:  time.Now(),
		ttl:     ttl,
	}
}

// RecordLocalScan advances the entry whose DOT equals code by one, if it is
// not yet at quantity. It reports whether anything was counted. This is the
// optimistic local echo only; the server confirms separately.
func (s *Session) RecordLocalScan(code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].DOT == code && s.entries[i].Scanned < s.entries[i].Quantity {
			s.entries[i].Scanned++
			return true
		}
	}
	return false
}

// Reconcile overwrites the matching entry with the server's authoritative
// detail state.
func (s *Session) Reconcile(d models.Detail) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.entries {
		if s.entries[i].ID == d.ID {
			s.entries[i].Scanned = d.FulfilledQuantity
			s.entries[i].Quantity = d.TargetQuantity
			s.entries[i].Series = append([]string(nil), d.Series...)
			return
		}
	}
	// Unknown detail (e.g. a warranty claim created mid-session): append.
	s.entries = append(s.entries, Entry{
		ID:       d.ID,
		DOT:      d.Code,
		Series:   append([]string(nil), d.Series...),
		Quantity: d.TargetQuantity,
		Scanned:  d.FulfilledQuantity,
	})
}

// AllSatisfied reports whether every entry reached its quantity. It decides
// when the scanning screen can be left.
func (s *Session) AllSatisfied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return false
	}
	for _, e := range s.entries {
		if e.Scanned < e.Quantity {
			return false
		}
	}
	return true
}

// TotalProgress returns the scanned and quantity sums across entries.
func (s *Session) TotalProgress() (scanned, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		scanned += e.Scanned
		total += e.Quantity
	}
	return scanned, total
}

// Snapshot returns a copy suitable for JSON responses.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.Lock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	s.mu.Unlock()

	snap := SessionSnapshot{NoteID: s.noteID, Entries: entries}
	satisfied := len(entries) > 0
	for _, e := range entries {
		snap.Scanned += e.Scanned
		snap.Target += e.Quantity
		if e.Scanned < e.Quantity {
			satisfied = false
		}
	}
	snap.AllSatisfied = satisfied
	return snap
}

// isExpired reports whether the session should be reseeded from the server.
func (s *Session) isExpired() bool {
	if s.ttl == 0 {
		return true
	}
	return time.Since(s.seeded) > s.ttl
}

// SessionStore owns the active scan sessions, one per note. Sessions are
// explicit, scoped objects: seeded from the server on first access and
// discarded on End, never ambient global state.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	sf       singleflight.Group
	store    notes.Store
	ttl      time.Duration
}

// NewSessionStore creates a session store seeding from the given note store.
func NewSessionStore(store notes.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		store:    store,
		ttl:      ttl,
	}
}

// Get returns the active session for the note, seeding it from the server
// when missing or expired. Singleflight prevents concurrent seeds of the
// same note from stampeding the store.
func (ss *SessionStore) Get(ctx context.Context, noteID string) (*Session, error) {
	ss.mu.RLock()
	sess, exists := ss.sessions[noteID]
	ss.mu.RUnlock()

	if exists && !sess.isExpired() {
		return sess, nil
	}

	result, err, _ := ss.sf.Do(noteID, func() (interface{}, error) {
		// Double-check after acquiring the singleflight slot
		ss.mu.RLock()
		sess, exists := ss.sessions[noteID]
		ss.mu.RUnlock()
		if exists && !sess.isExpired() {
			return sess, nil
		}

		details, err := ss.store.ListDetails(ctx, noteID)
		if err != nil {
			return nil, err
		}

		fresh := newSession(noteID, details, ss.ttl)
		ss.mu.Lock()
		ss.sessions[noteID] = fresh
		ss.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Session), nil
}

// Peek returns the active session without seeding, or nil.
func (ss *SessionStore) Peek(noteID string) *Session {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return ss.sessions[noteID]
}

// End discards the session for the note. Called when the scanning screen is
// exited; a later Get reseeds from the server.
func (ss *SessionStore) End(noteID string) {
	ss.mu.Lock()
	delete(ss.sessions, noteID)
	ss.mu.Unlock()
}
