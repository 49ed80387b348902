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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/core"
	"github.com/xentrohq/docvault/extract"
	"github.com/xentrohq/docvault/knowledge"
)

// DefaultPoolSize is the number of files processed concurrently.
const DefaultPoolSize = 5

// FileUpload is one file submitted to an ingestion batch.
type FileUpload struct {
	Filename string
	Data     []byte
}

// ProgressFunc is invoked once per file as its outcome is recorded.
// done counts finished files (including skips and failures), total is
// the batch size. Called from worker goroutines under the pipeline's
// outcome lock, so implementations should return quickly.
type ProgressFunc func(filename string, done, total int)

// Pipeline orchestrates the ingestion of document batches: staging
// uploads to disk, duplicate detection, text extraction, AI analysis
// and the final dual-store write. Files within a batch are processed
// concurrently on a shared worker pool; failures are per-file and
// never abort the batch.
type Pipeline struct {
	store     *knowledge.Store
	extractor extract.Extractor
	analyzer  ai.Analyzer
	pool      *ants.Pool
	uploadDir string
	progress  ProgressFunc
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is DefaultPoolSize.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithUploadDir sets the directory uploads are staged to before
// extraction. Default is "uploads" under the working directory.
func WithUploadDir(dir string) Option {
	return func(p *Pipeline) error {
		if dir == "" {
			return ErrUploadDirRequired
		}
		p.uploadDir = dir
		return nil
	}
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) error {
		p.progress = fn
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	store *knowledge.Store,
	extractor extract.Extractor,
	analyzer ai.Analyzer,
	opts ...Option,
) (*Pipeline, error) {
	if store == nil {
		return nil, ErrKnowledgeStoreRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	pool, err := ants.NewPool(DefaultPoolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		store:     store,
		extractor: extractor,
		analyzer:  analyzer,
		pool:      pool,
		uploadDir: "uploads",
		logger:    slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// stagedFile is an upload that passed the sequential staging phase and
// is ready for concurrent processing.
type stagedFile struct {
	filename    string
	path        string
	contentHash string
}

// Ingest processes one batch of uploads and returns one Outcome per
// input file, in no guaranteed order.
//
// Staging runs sequentially: each upload is fingerprinted, checked
// against the store and against earlier uploads in the same batch, and
// written to the upload directory, so duplicate files short-circuit as
// skips without touching the extraction engine or the AI backend. The
// surviving files then fan out onto the worker pool for extraction,
// analysis and persistence.
func (p *Pipeline) Ingest(ctx context.Context, uploads []FileUpload) ([]core.Outcome, error) {
	if len(uploads) == 0 {
		return nil, ErrEmptyBatch
	}

	if err := os.MkdirAll(p.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}

	total := len(uploads)
	outcomes := make([]core.Outcome, 0, total)
	var mu sync.Mutex

	record := func(o core.Outcome) {
		mu.Lock()
		outcomes = append(outcomes, o)
		done := len(outcomes)
		if p.progress != nil {
			p.progress(o.Filename, done, total)
		}
		mu.Unlock()
	}

	var staged []stagedFile
	stagedByHash := make(map[string]string) // contentHash -> first staged filename
	var batchDups []batchDuplicate
	for _, upload := range uploads {
		hash := core.HashContent(upload.Data)

		// A repeated hash within the batch is the same no-op skip a
		// store hit is. The existing id is not known until the first
		// copy's worker finishes, so the skip is resolved after join.
		if first, ok := stagedByHash[hash]; ok {
			p.logger.Info("skipping duplicate upload",
				"filename", upload.Filename,
				"duplicate_of", first)
			batchDups = append(batchDups, batchDuplicate{
				filename: upload.Filename,
				firstOf:  first,
			})
			continue
		}

		existing, err := p.store.CheckDuplicate(ctx, hash)
		if err != nil {
			record(core.Outcome{Filename: upload.Filename, Err: err})
			continue
		}
		if existing != nil {
			p.logger.Info("skipping duplicate upload",
				"filename", upload.Filename,
				"existing_id", existing.ID)
			record(core.Outcome{
				Filename:   upload.Filename,
				DocumentID: existing.ID,
				Skipped:    true,
			})
			continue
		}

		// Hash-prefixed staging path so basename collisions within a
		// batch cannot overwrite each other before workers run.
		path := filepath.Join(p.uploadDir, hash+"_"+filepath.Base(upload.Filename))
		if err := os.WriteFile(path, upload.Data, 0o644); err != nil {
			record(core.Outcome{
				Filename: upload.Filename,
				Err:      fmt.Errorf("staging upload: %w", err),
			})
			continue
		}

		stagedByHash[hash] = upload.Filename
		staged = append(staged, stagedFile{
			filename:    upload.Filename,
			path:        path,
			contentHash: hash,
		})
	}

	var wg sync.WaitGroup
	for _, f := range staged {
		f := f
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			record(p.processFile(ctx, f))
		}); err != nil {
			wg.Done()
			record(core.Outcome{Filename: f.filename, Err: err})
		}
	}
	wg.Wait()

	for _, dup := range batchDups {
		record(core.Outcome{
			Filename:   dup.filename,
			DocumentID: documentIDFor(outcomes, dup.firstOf),
			Skipped:    true,
		})
	}

	return outcomes, nil
}

// batchDuplicate is an upload whose bytes matched an earlier upload in
// the same batch.
type batchDuplicate struct {
	filename string
	firstOf  string
}

// documentIDFor returns the persisted id recorded for filename, or ""
// when that file's processing failed.
func documentIDFor(outcomes []core.Outcome, filename string) string {
	for _, o := range outcomes {
		if o.Filename == filename {
			return o.DocumentID
		}
	}
	return ""
}

// processFile runs the extract-analyze-persist chain for one staged file.
func (p *Pipeline) processFile(ctx context.Context, f stagedFile) core.Outcome {
	text, engineMeta, err := p.extractor.Extract(ctx, f.path)
	if err != nil {
		p.logger.Error("extraction failed", "filename", f.filename, "err", err)
		return core.Outcome{
			Filename: f.filename,
			Err:      fmt.Errorf("extracting %s: %w", f.filename, err),
		}
	}

	// Analysis never fails the file: a broken AI backend yields a
	// degraded analysis that is persisted like any other.
	analysis := p.analyzer.AnalyzeDocument(ctx, text)
	if analysis.Degraded() {
		p.logger.Warn("analysis degraded", "filename", f.filename)
	}

	id, err := p.store.SaveDocument(ctx, f.filename, f.path, text, analysis,
		engineMeta, f.contentHash)
	if err != nil {
		return core.Outcome{
			Filename: f.filename,
			Err:      fmt.Errorf("persisting %s: %w", f.filename, err),
		}
	}

	p.logger.Info("document ingested", "filename", f.filename, "id", id)
	return core.Outcome{Filename: f.filename, DocumentID: id}
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
