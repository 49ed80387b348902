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


package gemini

import (
	"context"
	"log/slog"

	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/xentrohq/docvault/ai"
)

// Provider implements ai.Provider using the hosted Gemini API through
// langchaingo. It manages analyzer and embedder instances that share
// one underlying client.
type Provider struct {
	config   *ai.Config
	analyzer *Analyzer
	embedder *Embedder
	logger   *slog.Logger
}

// NewProvider creates a new AI provider backed by the Gemini API.
// The config is validated before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to Gemini-specific implementation details.
func NewProvider(ctx context.Context, config *ai.Config) (ai.Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := googleai.New(ctx,
		googleai.WithAPIKey(config.APIKey),
		googleai.WithDefaultModel(config.Model),
		googleai.WithDefaultEmbeddingModel(config.EmbeddingModel),
	)
	if err != nil {
		return nil, err
	}

	analyzer := newAnalyzer(client)

	embedder, err := newEmbedder(client)
	if err != nil {
		return nil, err
	}

	return &Provider{
		config:   config,
		analyzer: analyzer,
		embedder: embedder,
		logger:   slog.Default().With("component", "gemini-provider"),
	}, nil
}

// Analyzer returns the document analysis service.
func (p *Provider) Analyzer() ai.Analyzer {
	return p.analyzer
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying client doesn't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing Gemini provider")
	return nil
}
