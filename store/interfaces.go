package store

import (
	"context"

	"github.com/xentrohq/docvault/core"
)

// DocumentStore is the relational system of record for Document rows.
// Rows are append-only: there is no update or delete operation.
// Implementations must be thread-safe and support concurrent access.
type DocumentStore interface {
	// Insert writes one document row inside its own transaction.
	// A failed insert leaves no partial row behind.
	Insert(ctx context.Context, doc *core.Document) error

	// ByContentHash returns the document with the given fingerprint.
	// Returns ErrNotFound if no such document exists.
	ByContentHash(ctx context.Context, hash string) (*core.Document, error)

	// ByFilename returns the most recently processed document with the
	// given filename. Returns ErrNotFound if no such document exists.
	ByFilename(ctx context.Context, filename string) (*core.Document, error)

	// Recent returns up to limit documents, newest first.
	Recent(ctx context.Context, limit int) ([]*core.Document, error)

	// All returns every document row. Used for diagnostics and the
	// reconciliation sweep.
	All(ctx context.Context) ([]*core.Document, error)

	// Close closes the store and releases resources.
	Close() error
}

// SearchHit is one semantic-search result.
type SearchHit struct {
	ID       string
	Text     string
	Score    float32
	Filename string
	Vendor   string
	Total    string
}

// SearchIndex is the semantic nearest-neighbor index, keyed by
// document id and correlated 1:1 with DocumentStore rows.
// Implementations must be thread-safe and support concurrent access.
type SearchIndex interface {
	// Add writes one entry to the index.
	Add(ctx context.Context, entry core.SearchEntry) error

	// Query returns up to k nearest entries for the query text,
	// optionally restricted to one filename's entries. An empty
	// filenameFilter searches the entire index.
	Query(ctx context.Context, text string, k int, filenameFilter string) ([]SearchHit, error)

	// Has reports whether an entry with the given document id exists.
	// Used by the reconciliation sweep.
	Has(ctx context.Context, id string) (bool, error)

	// Close closes the index and releases resources.
	Close() error
}
