// Package models defines domain entities and persistence interfaces for the crate collection service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with external services and the REST API
//   - [Release] : Release metadata returned by Discogs lookups
//   - [RecordData] : Wire format for collection records
//   - [ColumnData] : Wire format for custom columns
//   - [AlbumMatch] : Spotify album enrichment result
//
// 2. Persistent Entities: Database-backed models with full lifecycle management
//   - [User] : User accounts with bcrypt password hashes
//   - [Session] : Opaque bearer tokens authorizing API calls
//   - [Record] : A vinyl record in a user's collection
//   - [CustomColumn] : User-defined metadata columns (text, number, select, boolean)
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
