// Package store persists key-identified storable records in a single
// relational table.
//
// # Architecture
//
// Provider is the capability set callers depend on: AddOrUpdate, Get, GetAll,
// Delete, plus the lifecycle operations Init (idempotent detect-or-create),
// StoreExists, and DeleteStore. Two implementations exist:
//
//   - SQLiteProvider: maps each record onto one row of a SQLite table,
//     created lazily by Init and dropped by DeleteStore
//   - MemoryProvider: map-backed, for tests and lightweight embedding
//
// # Data Model
//
// Storable carries an opaque Contents payload with a ContentType tag, a
// verbatim CachePeriod duration string, and a Longevity classification.
// Longevity is persisted by name and re-parsed on read; a stored name outside
// the known set is reported as ErrUnknownLongevity rather than coerced.
//
// # Errors
//
// Misuse and misconfiguration are distinct sentinels checked in a fixed
// order: ErrBlankKey before ErrNoConnection before ErrNoStoreName, all before
// any I/O. ErrBootstrap marks a create that did not yield a detectable table.
// A missing record is not an error: Get returns (nil, nil).
package store
