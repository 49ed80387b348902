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


package analyst

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/knowledge"
	"github.com/xentrohq/docvault/store"
)

const (
	// chatGlobalK is the semantic context size for unfiltered chat.
	chatGlobalK = 5

	// chatFilteredK is the context size when chat is pinned to one document.
	chatFilteredK = 3

	// globalQueryK is the context size for cross-document queries.
	globalQueryK = 10
)

// Analyst exposes the read-side operations over an ingested knowledge
// base: conversational Q&A, cross-document queries, forensic audits,
// arithmetic verification and PII redaction.
type Analyst struct {
	store    *knowledge.Store
	analyzer ai.Analyzer
	logger   *slog.Logger
}

// Option configures an Analyst.
type Option func(*Analyst)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyst) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Analyst over a knowledge store and an analyzer.
func New(store *knowledge.Store, analyzer ai.Analyzer, opts ...Option) (*Analyst, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if analyzer == nil {
		return nil, ErrAnalyzerRequired
	}

	a := &Analyst{
		store:    store,
		analyzer: analyzer,
		logger:   slog.Default().With("component", "analyst"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Chat answers a question grounded in semantically similar document
// text. An empty filename searches the whole knowledge base; a
// non-empty filename pins the context to that document's entries.
// An empty knowledge base yields an empty context, which the analyzer
// answers with its not-found response.
func (a *Analyst) Chat(ctx context.Context, question, filename string) (string, error) {
	k := chatGlobalK
	if filename != "" {
		k = chatFilteredK
	}

	hits, err := a.store.QuerySimilar(ctx, question, filename, k)
	if err != nil {
		return "", fmt.Errorf("gathering chat context: %w", err)
	}

	return a.analyzer.Chat(ctx, joinHits(hits), question), nil
}

// GlobalQuery answers a question against the entire knowledge base and
// returns the answer together with the source hits backing it.
func (a *Analyst) GlobalQuery(ctx context.Context, question string) (string, []store.SearchHit, error) {
	hits, err := a.store.QueryGlobal(ctx, question, globalQueryK)
	if err != nil {
		return "", nil, fmt.Errorf("gathering query context: %w", err)
	}

	answer := a.analyzer.Chat(ctx, joinHits(hits), question)
	return answer, hits, nil
}

// Audit runs the forensic risk assessment for one document: the
// vendor's prior documents form the historical baseline the assessment
// is judged against. Returns store.ErrNotFound for unknown filenames.
func (a *Analyst) Audit(ctx context.Context, filename string) (ai.RiskAudit, error) {
	doc, err := a.store.GetByFilename(ctx, filename)
	if err != nil {
		return ai.RiskAudit{}, err
	}

	history, err := a.store.GetVendorHistory(ctx, doc.Vendor(), doc.Filename)
	if err != nil {
		return ai.RiskAudit{}, fmt.Errorf("loading vendor history: %w", err)
	}

	a.logger.Info("running forensic audit",
		"filename", filename,
		"vendor", doc.Vendor(),
		"history_entries", len(history))
	return a.analyzer.AuditDocument(ctx, doc.TextContent, history), nil
}

// VerifyMath re-checks the line-item arithmetic of one document.
// Returns store.ErrNotFound for unknown filenames.
func (a *Analyst) VerifyMath(ctx context.Context, filename string) (ai.MathAudit, error) {
	doc, err := a.store.GetByFilename(ctx, filename)
	if err != nil {
		return ai.MathAudit{}, err
	}
	return a.analyzer.VerifyMath(ctx, doc.TextContent), nil
}

// Redact produces a PII-scrubbed copy of one document's structured
// metadata. The document row itself is never modified.
// Returns store.ErrNotFound for unknown filenames.
func (a *Analyst) Redact(ctx context.Context, filename string) (map[string]any, error) {
	doc, err := a.store.GetByFilename(ctx, filename)
	if err != nil {
		return nil, err
	}
	return a.analyzer.Redact(ctx, doc.Metadata), nil
}

// joinHits flattens search hits into the chat context block.
func joinHits(hits []store.SearchHit) string {
	if len(hits) == 0 {
		return ""
	}
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
	}
	return strings.Join(texts, "\n")
}
