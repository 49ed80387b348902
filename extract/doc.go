// Package extract adapts the external extraction capability.
//
// PDF and image files are handed to a native binary invoked
// out-of-process under a wall-clock deadline; its stdout JSON contract
// is `{"content": "<text>", ...}` with extra fields passed through as
// engine metadata. Tabular files are parsed locally. Extraction
// failures are per-file and never retried automatically.
package extract
