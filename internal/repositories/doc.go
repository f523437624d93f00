// Package repositories implements SQLite persistence for the watchlist's records.
//
// Key Implementations:
//   - [UserRepository] : the sole account, including the [UserRepository.First] lookup
//   - [MovieRepository] : watchlist entries in insertion order
//
// Repositories run their statements against a [DBTX], which is either the shared *sql.DB or the
// *sql.Tx of a [Store.WithTx] call. A missing row is reported as an error wrapping [shared.ErrNotFound].
package repositories
