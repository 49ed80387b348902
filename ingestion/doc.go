// Package ingestion turns uploaded files into persisted, searchable
// documents.
//
// A batch moves through two phases. Staging is sequential: uploads are
// written to disk, fingerprinted and deduplicated against the store.
// Processing is concurrent: staged files fan out onto a shared worker
// pool where each file is extracted, analyzed and written to both
// stores independently of its siblings.
package ingestion
