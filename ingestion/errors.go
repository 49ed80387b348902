package ingestion

import "errors"

var (
	// ErrKnowledgeStoreRequired is returned when no knowledge store was provided.
	ErrKnowledgeStoreRequired = errors.New("knowledge store is required")

	// ErrExtractorRequired is returned when no extractor was provided.
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrAnalyzerRequired is returned when no analyzer was provided.
	ErrAnalyzerRequired = errors.New("analyzer is required")

	// ErrUploadDirRequired is returned when an empty upload directory is configured.
	ErrUploadDirRequired = errors.New("upload directory is required")

	// ErrEmptyBatch is returned when Ingest is called with no files.
	ErrEmptyBatch = errors.New("ingestion batch is empty")
)
