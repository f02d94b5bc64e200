// Package scan implements the scan reconciliation core.
//
// A scan event (one physical tire presented to a camera or keypad) is
// resolved to exactly one note line-item, the line-item's fulfilled count is
// advanced under concurrent access, and completion cascades from line-item to
// note. Warranty scans go through series validation against prior exports
// instead of DOT matching.
//
// # Components
//
//   - Resolver: exact DOT matching at the note kind's digit width.
//   - Counter: version-guarded increment; concurrent scans of the same
//     detail never lose updates.
//   - Aggregator: idempotent note-level completion check.
//   - ClaimValidator: provenance and duplicate checks for warranty series.
//   - SessionStore / Session: the non-authoritative client mirror driving
//     UI feedback between round trips.
//   - Service: the public entry point; every outcome is a structured
//     ScanResult, never a propagated fault.
//
// # HTTP Endpoints
//
//   - POST   /scan/:noteId : Record one scan event.
//   - POST   /scan/:noteId/claim : Record a warranty claim.
//   - GET    /scan/:noteId/session : Get (and seed) the scan session.
//   - DELETE /scan/:noteId/session : Discard the scan session.
package scan
