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


package docvault

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/ai/gemini"
	"github.com/xentrohq/docvault/analyst"
	"github.com/xentrohq/docvault/extract"
	"github.com/xentrohq/docvault/ingestion"
	"github.com/xentrohq/docvault/knowledge"
	"github.com/xentrohq/docvault/store/chromem"
	"github.com/xentrohq/docvault/store/sqlite"
)

// Workspace wires the document store, the semantic index, the AI
// provider and the extraction service together over one data
// directory. It is the single entry point embedding applications use.
type Workspace struct {
	store     *knowledge.Store
	provider  ai.Provider
	extractor extract.Extractor // nil until an ingestion pipeline needs one
	engineBin string
	uploadDir string
	logger    *slog.Logger
}

// WorkspaceOption configures a Workspace.
type WorkspaceOption func(*workspaceOptions)

type workspaceOptions struct {
	aiConfig  *ai.Config
	provider  ai.Provider
	extractor extract.Extractor
	engineBin string
	logger    *slog.Logger
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a prebuilt provider instead of the default
// hosted one. Used for tests and offline operation.
func WithAIProvider(provider ai.Provider) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.provider = provider
	}
}

// WithEngineBinary sets the path of the external extraction engine.
func WithEngineBinary(path string) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.engineBin = path
	}
}

// WithExtractor injects a prebuilt extractor, bypassing the engine
// binary entirely. Used for tests.
func WithExtractor(extractor extract.Extractor) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.extractor = extractor
	}
}

// WithWorkspaceLogger sets a custom logger.
// Default is slog.Default().
func WithWorkspaceLogger(logger *slog.Logger) WorkspaceOption {
	return func(o *workspaceOptions) {
		o.logger = logger
	}
}

// NewWorkspace opens (or creates) a workspace rooted at dataDir.
// The relational store lives at dataDir/documents.db, the semantic
// index under dataDir/index and staged uploads under dataDir/uploads.
func NewWorkspace(ctx context.Context, dataDir string, opts ...WorkspaceOption) (*Workspace, error) {
	options := &workspaceOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	documents, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = gemini.NewProvider(ctx, options.aiConfig)
		if err != nil {
			documents.Close()
			return nil, err
		}
	}

	index, err := chromem.NewIndex(filepath.Join(dataDir, "index"), provider.Embedder())
	if err != nil {
		provider.Close()
		documents.Close()
		return nil, err
	}

	store, err := knowledge.NewStore(documents, index,
		knowledge.WithLogger(options.logger))
	if err != nil {
		provider.Close()
		index.Close()
		documents.Close()
		return nil, err
	}

	return &Workspace{
		store:     store,
		provider:  provider,
		extractor: options.extractor,
		engineBin: options.engineBin,
		uploadDir: filepath.Join(dataDir, "uploads"),
		logger:    options.logger,
	}, nil
}

// Knowledge returns the underlying knowledge store.
func (w *Workspace) Knowledge() *knowledge.Store {
	return w.store
}

// Provider returns the AI provider.
func (w *Workspace) Provider() ai.Provider {
	return w.provider
}

// NewIngestionPipeline creates an ingestion pipeline bound to this
// workspace's stores and services. The extraction engine is built
// lazily here so read-only workflows never need the engine binary.
// Callers own the returned pipeline and must Release it.
func (w *Workspace) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	if w.extractor == nil {
		engine, err := extract.NewEngine(w.engineBin,
			extract.WithEngineLogger(w.logger))
		if err != nil {
			return nil, err
		}
		w.extractor = extract.NewService(engine)
	}

	base := []ingestion.Option{
		ingestion.WithUploadDir(w.uploadDir),
		ingestion.WithLogger(w.logger),
	}
	return ingestion.NewPipeline(w.store, w.extractor, w.provider.Analyzer(),
		append(base, opts...)...)
}

// NewAnalyst creates the read-side service over this workspace.
func (w *Workspace) NewAnalyst(opts ...analyst.Option) (*analyst.Analyst, error) {
	base := []analyst.Option{analyst.WithLogger(w.logger)}
	return analyst.New(w.store, w.provider.Analyzer(), append(base, opts...)...)
}

// Close releases the AI provider and both stores.
func (w *Workspace) Close() error {
	if err := w.provider.Close(); err != nil {
		w.logger.Error("error closing AI provider", "err", err)
	}
	if err := w.store.Close(); err != nil {
		w.logger.Error("error closing knowledge store", "err", err)
		return err
	}
	return nil
}
