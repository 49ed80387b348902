package core

import (
	"fmt"
	"strings"
	"time"
)

// Document is the system-of-record row for one ingested file.
// Documents are append-only: created exactly once per unique file,
// never updated or deleted.
type Document struct {
	ID            string
	Filename      string
	FilePath      string
	FileType      string         // lowercased extension, e.g. ".pdf"
	FileSize      int64          // bytes
	ProcessedAt   time.Time
	TextContent   string         // full extracted text, stored untruncated
	AISummary     string
	Metadata      map[string]any // analysis output (vendor, date, totals, ...)
	EngineMetrics map[string]any // how extraction was performed
	ContentHash   string         // fingerprint of the original file bytes
}

// MetaString returns the named metadata field coerced to a string.
// The analysis schema is advisory, not enforced: any field may be
// absent, null, or a non-string value.
func (d *Document) MetaString(key, fallback string) string {
	if d.Metadata == nil {
		return fallback
	}
	v, ok := d.Metadata[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Vendor returns the vendor name from the analysis metadata.
func (d *Document) Vendor() string {
	return d.MetaString("vendor", "Unknown")
}

// TotalAmount returns the document total as stored, currency formatting included.
func (d *Document) TotalAmount() string {
	return d.MetaString("total_amount", "0")
}

// Date returns the document date from the analysis metadata.
func (d *Document) Date() string {
	return d.MetaString("date", "Unknown")
}

// SearchEntry is the semantic-index record derived from a Document.
// The index only stores scalar-like metadata, so all fields are
// coerced to strings before the write.
type SearchEntry struct {
	ID       string // same as the Document id
	Text     string
	Filename string
	Vendor   string
	Total    string
}

// EntryFromDocument derives the semantic-index record for a persisted document.
func EntryFromDocument(d *Document) SearchEntry {
	return SearchEntry{
		ID:       d.ID,
		Text:     d.TextContent,
		Filename: d.Filename,
		Vendor:   d.Vendor(),
		Total:    d.TotalAmount(),
	}
}

// VendorHistoryEntry is a derived view over past documents for one vendor.
// It is produced on demand and never persisted.
type VendorHistoryEntry struct {
	Date       string
	Total      string
	VendorName string // vendor name as stored, before normalization
	Filename   string
}

// Outcome is the per-file result of an ingestion batch.
type Outcome struct {
	Filename   string
	DocumentID string // set on success and on dedup skips (the existing id)
	Skipped    bool   // true when the content hash matched an existing document
	Err        error  // nil on success or skip
}

// Success reports whether the file was fully processed and persisted.
func (o Outcome) Success() bool {
	return o.Err == nil && !o.Skipped
}
