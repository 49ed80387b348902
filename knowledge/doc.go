// Package knowledge coordinates the relational document store and the
// semantic search index behind a single synchronization surface.
//
// The relational store is the system of record; the index is the
// semantic projection. Writes go relational-first, index best-effort,
// so the worst failure mode is a document that exists but cannot be
// found by similarity search. Reconcile surfaces those orphans.
package knowledge
