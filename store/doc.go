// Package store defines the storage abstraction layer for docvault.
//
// Two independent stores back the knowledge base: a relational
// DocumentStore (the system of record) and a semantic SearchIndex
// (nearest-neighbor text search keyed by document id). They are
// correlated 1:1 by id but are NOT written transactionally; the
// knowledge package owns the dual-write ordering and documents the
// inconsistency window.
//
// Implementation packages:
//
//   - store/sqlite: DocumentStore over an embedded SQLite database
//   - store/chromem: SearchIndex over an embedded chromem-go vector DB
//
// Public constructors return interface types so consumers never couple
// to a concrete backend.
package store
