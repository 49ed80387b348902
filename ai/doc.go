// Package ai provides abstractions for the AI services used in docvault.
//
// This package defines interfaces for the two remote capabilities the
// ingestion core depends on: structured document analysis (Analyzer)
// and text embeddings (Embedder). The core domain and pipeline depend
// on these abstractions rather than concrete implementations.
//
// # Degraded results, never errors
//
// Analyzer operations follow a best-effort contract: a remote failure,
// timeout, or malformed model reply produces a degraded-but-valid
// value (Analysis with Type "ERROR", RiskAudit with RiskLevel "ERROR",
// and so on) instead of a returned error. This keeps a single bad
// document from aborting a multi-document batch. Consumers branch on
// the degraded markers, which forces the check at the point of use.
//
// # Implementation packages
//
//   - ai/gemini: production implementation over the hosted Gemini API
//   - ai/mock: test doubles for unit testing without remote services
//
// Production constructors (gemini.NewProvider) return interface types
// to enforce abstraction; mock constructors return concrete types so
// tests can inject behavior and make call-count assertions.
package ai
