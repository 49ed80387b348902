package ai

import (
	"context"

	"github.com/xentrohq/docvault/core"
)

// Analyzer performs structured document analysis through a remote LLM.
// Every operation is best-effort with structured degradation: on any
// remote failure, timeout, or malformed reply the method returns a
// degraded-but-valid value instead of an error, so a single bad
// document can never abort a batch. Callers must check the degraded
// markers (Analysis.Degraded, RiskAudit.Degraded, ...) rather than an
// error value.
// Implementations must be thread-safe for concurrent use.
type Analyzer interface {
	// AnalyzeDocument classifies a document and extracts structured
	// business fields from its raw text. Input is silently truncated to
	// a bounded prefix before being sent, which is lossy for very long
	// documents. On failure the result has Type "ERROR" and a summary
	// carrying the failure reason.
	AnalyzeDocument(ctx context.Context, text string) Analysis

	// VerifyMath extracts subtotal/discount/tax/shipping/total figures
	// from the text and checks whether the stated total is consistent.
	// The comparison and its tolerance are delegated to the model's own
	// judgment. On failure IsMathCorrect is false and Explanation
	// carries the reason.
	VerifyMath(ctx context.Context, text string) MathAudit

	// AuditDocument compares a document against the vendor's history
	// and returns a risk assessment. An empty history is expected to
	// produce a "new vendor" flag rather than a numeric comparison.
	// On failure RiskLevel is "ERROR" and the recommendation is
	// "Manual Review".
	AuditDocument(ctx context.Context, text string, history []core.VendorHistoryEntry) RiskAudit

	// Redact returns a structurally-identical mapping with personal
	// identifiers replaced by fixed sentinel tokens while vendor, date,
	// and monetary fields stay visible. On failure it returns a mapping
	// with a single "error" key.
	Redact(ctx context.Context, data map[string]any) map[string]any

	// Chat answers a free-form question strictly from the supplied
	// context text, replying "Information not found." when the context
	// holds no relevant facts. On failure it returns an
	// error-describing string.
	Chat(ctx context.Context, contextText, question string) string
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in one batch.
	// The returned slice matches the order of the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Analyzer and
// Embedder instances, ensuring they share configuration and resources.
type Provider interface {
	// Analyzer returns the document analysis service.
	Analyzer() Analyzer

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
