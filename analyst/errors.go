package analyst

import "errors"

var (
	// ErrStoreRequired is returned when no knowledge store was provided.
	ErrStoreRequired = errors.New("knowledge store is required")

	// ErrAnalyzerRequired is returned when no analyzer was provided.
	ErrAnalyzerRequired = errors.New("analyzer is required")
)
