// Package repositories implements SQLite-backed persistence for crate's domain entities.
//
//   - [UserRepository] : account storage with unique emails
//   - [SessionRepository] : bearer token storage with expiry
//   - [RecordRepository] : per-user vinyl collections with JSON-encoded list columns
//   - [CustomColumnRepository] : user-defined metadata columns and per-record values
//
// All repositories use soft deletes (a deleted_at timestamp) except sessions,
// which are removed outright on logout.
package repositories
