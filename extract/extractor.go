package extract

import (
	"context"
	"path/filepath"
	"strings"
)

// Extractor turns a file on disk into raw text plus engine metadata.
// Implementations must be thread-safe for concurrent use.
type Extractor interface {
	// Extract reads the file at path and returns its textual content
	// and a metadata map describing how extraction was performed.
	// Failures are per-file: they abort this file only, never a batch.
	Extract(ctx context.Context, path string) (string, map[string]any, error)
}

// Service routes files to the right extraction path: tabular files are
// parsed locally, everything else goes through the external engine.
type Service struct {
	engine *Engine
}

// NewService creates the routing extractor over an engine adapter.
//
// Returns Extractor interface to enforce abstraction.
func NewService(engine *Engine) Extractor {
	return &Service{engine: engine}
}

// Extract dispatches on the file extension.
func (s *Service) Extract(ctx context.Context, path string) (string, map[string]any, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return extractCSV(path)
	}
	return s.engine.Extract(ctx, path)
}
