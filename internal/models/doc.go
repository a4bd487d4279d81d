// Package models defines domain entities and persistence interfaces for the filmax client.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): read-only snapshots decoded from the backend
//   - [Movie] : catalog entry, tolerant of the backend's alternate field names
//   - [Identity] : the user returned by /me
//   - [FavoriteFilm] : the condensed movie shape returned by /favorites
//
// 2. Client state
//   - [QueryState] : filter text, sort key, selected genre and page, with page-reset rules
//   - [SessionEvent] : locally persisted record of a session transition
//
// Persisted entities implement [Model]; [Repository] defines the storage operations for them.
package models
