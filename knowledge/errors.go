package knowledge

import "errors"

var (
	// ErrDocumentStoreRequired is returned when no document store was provided.
	ErrDocumentStoreRequired = errors.New("document store is required")

	// ErrSearchIndexRequired is returned when no search index was provided.
	ErrSearchIndexRequired = errors.New("search index is required")
)
