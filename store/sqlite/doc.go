// Package sqlite implements store.DocumentStore over an embedded
// SQLite database (modernc.org/sqlite, pure Go, no CGO). The
// documents table carries secondary indexes on content_hash for dedup
// lookups and processed_at for recency ordering; the database runs in
// WAL mode so readers tolerate a partially-completed ingestion batch.
package sqlite
