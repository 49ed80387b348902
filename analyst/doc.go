// Package analyst is the read side of the knowledge base: chat with
// semantic context, cross-document queries, forensic risk audits,
// arithmetic verification and metadata redaction. It composes the
// knowledge store with an AI analyzer and holds no state of its own.
package analyst
