// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [SettingsRepository] : key/value settings, including the persisted bearer token
//   - [SessionEventRepository] : append-only history of login, logout and invalidation events
//
// Sequence numbers provide stable ordering for session events (event #12 came after #11) independent of
// UUIDs and timestamps that may collide at clock resolution.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
