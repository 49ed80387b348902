// Copyright 2025 Xentro Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package knowledge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/core"
	"github.com/xentrohq/docvault/match"
	"github.com/xentrohq/docvault/store"
)

const (
	// vendorScanLimit bounds the recent-document scan backing a
	// vendor-history lookup.
	vendorScanLimit = 100

	// vendorHistoryCap bounds the entries returned per lookup.
	vendorHistoryCap = 10
)

// Store coordinates the relational system of record and the semantic
// index. The two stores are correlated 1:1 by document id but are NOT
// written transactionally: SaveDocument commits the relational row
// first and then writes the index entry best-effort, so a crash (or an
// index failure) between the two writes leaves an orphan Document that
// is findable by direct lookup but absent from semantic search. The
// Reconcile sweep detects those orphans out of band.
type Store struct {
	documents store.DocumentStore
	index     store.SearchIndex
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a knowledge store over the two backing stores.
func NewStore(documents store.DocumentStore, index store.SearchIndex, opts ...Option) (*Store, error) {
	if documents == nil {
		return nil, ErrDocumentStoreRequired
	}
	if index == nil {
		return nil, ErrSearchIndexRequired
	}

	s := &Store{
		documents: documents,
		index:     index,
		logger:    slog.Default().With("component", "knowledge"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SaveDocument persists one processed file to both stores and returns
// the new document id.
//
// This is the one operation in the ingestion core that is NOT
// best-effort: a relational failure is propagated to the caller and
// no index write occurs. An index failure after a successful commit is
// logged as a warning and the id is still returned (orphan window, see
// the type comment).
func (s *Store) SaveDocument(ctx context.Context, filename, filePath, rawText string, analysis ai.Analysis, engineMeta map[string]any, contentHash string) (string, error) {
	var size int64
	if info, err := os.Stat(filePath); err == nil {
		size = info.Size()
	}

	doc := &core.Document{
		ID:            uuid.NewString(),
		Filename:      filename,
		FilePath:      filePath,
		FileType:      strings.ToLower(filepath.Ext(filename)),
		FileSize:      size,
		ProcessedAt:   time.Now().UTC(),
		TextContent:   rawText,
		AISummary:     analysis.Summary(),
		Metadata:      map[string]any(analysis),
		EngineMetrics: engineMeta,
		ContentHash:   contentHash,
	}

	if err := s.documents.Insert(ctx, doc); err != nil {
		return "", fmt.Errorf("saving document %s: %w", filename, err)
	}

	if err := s.index.Add(ctx, core.EntryFromDocument(doc)); err != nil {
		s.logger.Warn("index write failed, document is an orphan",
			"id", doc.ID,
			"filename", filename,
			"err", err)
	}

	return doc.ID, nil
}

// CheckDuplicate returns the already-ingested document with the given
// content fingerprint, or nil when the file has not been seen before.
func (s *Store) CheckDuplicate(ctx context.Context, contentHash string) (*core.Document, error) {
	doc, err := s.documents.ByContentHash(ctx, contentHash)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checking duplicate: %w", err)
	}
	return doc, nil
}

// GetRecent returns up to limit documents, newest first.
func (s *Store) GetRecent(ctx context.Context, limit int) ([]*core.Document, error) {
	return s.documents.Recent(ctx, limit)
}

// GetByFilename returns the most recent document with the given filename.
func (s *Store) GetByFilename(ctx context.Context, filename string) (*core.Document, error) {
	return s.documents.ByFilename(ctx, filename)
}

// QuerySimilar runs a semantic nearest-neighbor search, optionally
// restricted to one filename's entries.
func (s *Store) QuerySimilar(ctx context.Context, queryText string, filenameFilter string, maxResults int) ([]store.SearchHit, error) {
	return s.index.Query(ctx, queryText, maxResults, filenameFilter)
}

// QueryGlobal searches the entire knowledge base with no filter.
// Distinguished from QuerySimilar for caller clarity: cross-document
// analytics is a first-class use case.
func (s *Store) QueryGlobal(ctx context.Context, queryText string, maxResults int) ([]store.SearchHit, error) {
	return s.index.Query(ctx, queryText, maxResults, "")
}

// GetVendorHistory returns past documents for a vendor using
// normalized fuzzy matching, newest first, capped at 10 entries.
// Names whose normalized slug is shorter than match.MinSlugLen return
// an empty history (not an error) to avoid spurious matches.
func (s *Store) GetVendorHistory(ctx context.Context, vendorName, excludeFilename string) ([]core.VendorHistoryEntry, error) {
	target := match.Normalize(vendorName)
	if len(target) < match.MinSlugLen {
		return []core.VendorHistoryEntry{}, nil
	}

	docs, err := s.documents.Recent(ctx, vendorScanLimit)
	if err != nil {
		return nil, fmt.Errorf("scanning vendor history: %w", err)
	}

	history := make([]core.VendorHistoryEntry, 0, vendorHistoryCap)
	for _, doc := range docs {
		if excludeFilename != "" && doc.Filename == excludeFilename {
			continue
		}
		stored := doc.Vendor()
		if !match.Matches(vendorName, stored) {
			continue
		}
		history = append(history, core.VendorHistoryEntry{
			Date:       doc.Date(),
			Total:      doc.TotalAmount(),
			VendorName: stored, // as stored, for context
			Filename:   doc.Filename,
		})
		if len(history) == vendorHistoryCap {
			break
		}
	}
	return history, nil
}

// GetAllVendors returns a frequency map of vendor names across every
// document. Full scan, used for diagnostics.
func (s *Store) GetAllVendors(ctx context.Context) (map[string]int, error) {
	docs, err := s.documents.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning vendors: %w", err)
	}

	counts := make(map[string]int)
	for _, doc := range docs {
		counts[doc.Vendor()]++
	}
	return counts, nil
}

// Reconcile sweeps the relational store against the semantic index and
// returns the ids of orphan documents (rows with no index entry). It
// repairs nothing itself; operators decide whether to re-index.
func (s *Store) Reconcile(ctx context.Context) ([]string, error) {
	docs, err := s.documents.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reconcile scan: %w", err)
	}

	var orphans []string
	for _, doc := range docs {
		ok, err := s.index.Has(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("reconcile lookup: %w", err)
		}
		if !ok {
			orphans = append(orphans, doc.ID)
		}
	}

	if len(orphans) > 0 {
		s.logger.Warn("reconcile found orphan documents", "count", len(orphans))
	}
	return orphans, nil
}

// Reindex repairs the semantic index by re-adding every orphan found
// by the reconciliation sweep. Returns the number of entries written.
// Individual failures are logged and skipped so one bad document does
// not abort the repair.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	docs, err := s.documents.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("reindex scan: %w", err)
	}

	var repaired int
	for _, doc := range docs {
		ok, err := s.index.Has(ctx, doc.ID)
		if err != nil {
			return repaired, fmt.Errorf("reindex lookup: %w", err)
		}
		if ok {
			continue
		}
		if err := s.index.Add(ctx, core.EntryFromDocument(doc)); err != nil {
			s.logger.Error("reindex write failed", "id", doc.ID, "err", err)
			continue
		}
		repaired++
	}

	if repaired > 0 {
		s.logger.Info("reindex complete", "repaired", repaired)
	}
	return repaired, nil
}

// Close closes both backing stores.
func (s *Store) Close() error {
	indexErr := s.index.Close()
	docErr := s.documents.Close()
	if docErr != nil {
		return docErr
	}
	return indexErr
}
