// Package notes implements the note store: headers and line-items for
// import, export, and warranty transactions.
//
// A Note is the header of one transaction; a Detail is a line-item tracking
// target vs fulfilled quantity for one DOT code. Export and warranty details
// additionally carry the series numbers registered against them.
//
// # Store
//
// The Store interface is the persistence boundary consumed by the scan
// reconciliation core (feature/scan). Two implementations exist:
//
//   - GormStore: MySQL/SQLite via GORM, the production store.
//   - MemStore: in-memory, used by tests and local development.
//
// Counts are only ever advanced through Store.IncrementDetail, which is a
// version-guarded compare-and-swap: concurrent scans of the same detail
// cannot lose updates.
//
// # HTTP Endpoints
//
//   - POST /notes : Create a note with its line-items.
//   - GET  /notes : List notes (optional ?kind= filter).
//   - GET  /notes/:id : Get a note header.
//   - GET  /notes/:id/details : List the note's line-items.
//   - GET  /notes/:id/progress : Scanned vs target sums.
package notes
