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


package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/xentrohq/docvault/core"
	"github.com/xentrohq/docvault/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id             TEXT PRIMARY KEY,
	filename       TEXT NOT NULL,
	file_path      TEXT,
	file_type      TEXT,
	file_size      INTEGER,
	processed_at   TEXT NOT NULL,
	text_content   TEXT,
	ai_summary     TEXT,
	metadata_json  TEXT,
	engine_metrics TEXT,
	content_hash   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(content_hash);
CREATE INDEX IF NOT EXISTS idx_documents_processed_at ON documents(processed_at);
`

// Store implements store.DocumentStore over an embedded SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the document database under dataDir.
//
// Returns store.DocumentStore interface to enforce abstraction.
func NewStore(dataDir string) (store.DocumentStore, error) {
	return newStore(dataDir)
}

// newStore is the internal constructor returning the concrete type.
func newStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "documents.db")

	// WAL mode for concurrent readers during ingestion.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Insert writes one document row inside its own transaction. Each call
// is independently atomic; concurrent inserts from different workers
// never share a transaction.
func (s *Store) Insert(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	metrics, err := json.Marshal(doc.EngineMetrics)
	if err != nil {
		return fmt.Errorf("encoding engine metrics: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents
			(id, filename, file_path, file_type, file_size, processed_at,
			 text_content, ai_summary, metadata_json, engine_metrics, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Filename, doc.FilePath, doc.FileType, doc.FileSize,
		doc.ProcessedAt.UTC().Format(time.RFC3339Nano),
		doc.TextContent, doc.AISummary, string(metadata), string(metrics), doc.ContentHash,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("inserting document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing document: %w", err)
	}
	return nil
}

const selectColumns = `
	id, filename, file_path, file_type, file_size, processed_at,
	text_content, ai_summary, metadata_json, engine_metrics, content_hash`

// ByContentHash returns the document with the given fingerprint.
func (s *Store) ByContentHash(ctx context.Context, hash string) (*core.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+selectColumns+` FROM documents WHERE content_hash = ? LIMIT 1`, hash)
	return scanDocument(row)
}

// ByFilename returns the most recently processed document with the
// given filename.
func (s *Store) ByFilename(ctx context.Context, filename string) (*core.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+selectColumns+` FROM documents WHERE filename = ? ORDER BY processed_at DESC LIMIT 1`,
		filename)
	return scanDocument(row)
}

// Recent returns up to limit documents, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*core.Document, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", store.ErrInvalidQuery)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT`+selectColumns+` FROM documents ORDER BY processed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// All returns every document row, newest first.
func (s *Store) All(ctx context.Context) ([]*core.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+selectColumns+` FROM documents ORDER BY processed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*core.Document, error) {
	var (
		doc         core.Document
		processedAt string
		metadata    string
		metrics     string
	)
	err := row.Scan(
		&doc.ID, &doc.Filename, &doc.FilePath, &doc.FileType, &doc.FileSize,
		&processedAt, &doc.TextContent, &doc.AISummary, &metadata, &metrics,
		&doc.ContentHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ProcessedAt, err = time.Parse(time.RFC3339Nano, processedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing processed_at: %w", err)
	}
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("decoding metadata: %w", err)
		}
	}
	if metrics != "" {
		if err := json.Unmarshal([]byte(metrics), &doc.EngineMetrics); err != nil {
			return nil, fmt.Errorf("decoding engine metrics: %w", err)
		}
	}
	return &doc, nil
}

func scanDocuments(rows *sql.Rows) ([]*core.Document, error) {
	var docs []*core.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}
