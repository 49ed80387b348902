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


package chromem

import (
	"context"
	"fmt"
	"log/slog"

	chromemgo "github.com/philippgille/chromem-go"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/core"
	"github.com/xentrohq/docvault/store"
)

// collectionName is the single collection holding one entry per document.
const collectionName = "docs"

// Index implements store.SearchIndex over chromem-go, an embeddable
// vector database with no external service dependency.
type Index struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	embedder   ai.Embedder
	logger     *slog.Logger
}

// NewIndex opens (or creates) a persistent semantic index under path.
// An empty path creates an in-memory index, used by tests.
//
// Returns store.SearchIndex interface to enforce abstraction.
func NewIndex(path string, embedder ai.Embedder) (store.SearchIndex, error) {
	return newIndex(path, embedder)
}

// newIndex is the internal constructor returning the concrete type.
func newIndex(path string, embedder ai.Embedder) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", store.ErrInvalidQuery)
	}

	var (
		db  *chromemgo.DB
		err error
	)
	if path == "" {
		db = chromemgo.NewDB()
	} else {
		db, err = chromemgo.NewPersistentDB(path, false)
		if err != nil {
			return nil, fmt.Errorf("opening vector db: %w", err)
		}
	}

	idx := &Index{
		db:       db,
		embedder: embedder,
		logger:   slog.Default().With("component", "chromem-index"),
	}

	idx.collection, err = db.GetOrCreateCollection(collectionName, nil, idx.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}
	return idx, nil
}

// embeddingFunc bridges the ai.Embedder to chromem's query-time embedding.
func (i *Index) embeddingFunc() chromemgo.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return i.embedder.EmbedText(ctx, text)
	}
}

// Add writes one entry to the index. The embedding is computed up
// front so chromem does not re-embed under its own concurrency.
func (i *Index) Add(ctx context.Context, entry core.SearchEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: entry id is required", store.ErrInvalidQuery)
	}

	vector, err := i.embedder.EmbedText(ctx, entry.Text)
	if err != nil {
		return fmt.Errorf("embedding document: %w", err)
	}

	doc := chromemgo.Document{
		ID:      entry.ID,
		Content: entry.Text,
		Metadata: map[string]string{
			"filename": entry.Filename,
			"doc_id":   entry.ID,
			"vendor":   entry.Vendor,
			"total":    entry.Total,
		},
		Embedding: vector,
	}

	if err := i.collection.AddDocuments(ctx, []chromemgo.Document{doc}, 1); err != nil {
		return fmt.Errorf("adding index entry: %w", err)
	}

	i.logger.Debug("indexed document", "id", entry.ID, "filename", entry.Filename)
	return nil
}

// Query returns up to k nearest entries for the query text, optionally
// restricted to one filename. k is capped at the collection size since
// chromem rejects nResults beyond the document count.
func (i *Index) Query(ctx context.Context, text string, k int, filenameFilter string) ([]store.SearchHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", store.ErrInvalidQuery)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: query text is required", store.ErrInvalidQuery)
	}

	count := i.collection.Count()
	if count == 0 {
		return []store.SearchHit{}, nil
	}

	// Filtered queries rank the whole collection and filter here:
	// chromem rejects nResults beyond the count of matching documents,
	// and the matching count is not knowable up front.
	nResults := k
	if filenameFilter != "" || nResults > count {
		nResults = count
	}

	results, err := i.collection.Query(ctx, text, nResults, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}

	hits := make([]store.SearchHit, 0, k)
	for _, r := range results {
		if filenameFilter != "" && r.Metadata["filename"] != filenameFilter {
			continue
		}
		hits = append(hits, store.SearchHit{
			ID:       r.ID,
			Text:     r.Content,
			Score:    r.Similarity,
			Filename: r.Metadata["filename"],
			Vendor:   r.Metadata["vendor"],
			Total:    r.Metadata["total"],
		})
		if len(hits) == k {
			break
		}
	}
	return hits, nil
}

// Has reports whether an entry with the given document id exists.
// chromem reports a missing id as an error, so any lookup failure is
// treated as absent.
func (i *Index) Has(ctx context.Context, id string) (bool, error) {
	if _, err := i.collection.GetByID(ctx, id); err != nil {
		return false, nil
	}
	return true, nil
}

// Close releases the index. chromem persists incrementally, so this is
// a no-op placeholder for the interface.
func (i *Index) Close() error {
	return nil
}
