// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists review sessions: uploaded document text plus
// the suggested citations and their accept/dismiss state, backed by
// SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citation-engine/pkg/types"
)

// ErrNotFound is returned when a document or citation does not exist.
var ErrNotFound = fmt.Errorf("not found")

// Store manages the review-session SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the review database at path and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "citations.db"
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS citations (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			document_id TEXT NOT NULL REFERENCES documents(id),
			original_sentence TEXT NOT NULL,
			paper_details TEXT NOT NULL,
			status TEXT NOT NULL
				CHECK (status IN ('pending_review', 'accepted', 'dismissed')),
			paragraph_index INTEGER,
			sentence_index INTEGER,
			page INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_document_id ON citations(document_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateDocument stores an uploaded document's extracted content under
// the given session ID.
func (s *Store) CreateDocument(ctx context.Context, id, filename, content string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, filename, content, created_at) VALUES (?, ?, ?, ?)`,
		id, filename, content, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// Document returns the stored filename and content for a session.
func (s *Store) Document(ctx context.Context, id string) (filename, content string, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT filename, content FROM documents WHERE id = ?`, id,
	).Scan(&filename, &content)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", "", fmt.Errorf("querying document: %w", err)
	}
	return filename, content, nil
}

// AddSuggestions stores the pipeline's suggestions for a document in
// one transaction. Insertion order is preserved for listing.
func (s *Store) AddSuggestions(ctx context.Context, documentID string, citations []types.Citation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO citations
			(id, document_id, original_sentence, paper_details, status, paragraph_index, sentence_index, page)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range citations {
		details, err := json.Marshal(c.PaperDetails)
		if err != nil {
			return fmt.Errorf("encoding paper details for %s: %w", c.ID, err)
		}
		status := c.Status
		if status == "" {
			status = types.StatusPendingReview
		}
		if _, err := stmt.ExecContext(ctx,
			c.ID, documentID, c.OriginalSentence, string(details), string(status),
			c.Metadata.ParagraphIndex, c.Metadata.SentenceIndex, c.Page,
		); err != nil {
			return fmt.Errorf("inserting citation %s: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// ListCitations returns a document's citations in insertion order.
func (s *Store) ListCitations(ctx context.Context, documentID string) ([]types.Citation, error) {
	return s.list(ctx, documentID, "")
}

// Accepted returns a document's accepted citations in insertion order.
func (s *Store) Accepted(ctx context.Context, documentID string) ([]types.Citation, error) {
	return s.list(ctx, documentID, types.StatusAccepted)
}

func (s *Store) list(ctx context.Context, documentID string, status types.CitationStatus) ([]types.Citation, error) {
	query := `SELECT id, original_sentence, paper_details, status, paragraph_index, sentence_index, page
		FROM citations WHERE document_id = ?`
	args := []any{documentID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying citations: %w", err)
	}
	defer rows.Close()

	var citations []types.Citation
	for rows.Next() {
		var c types.Citation
		var details, st string
		if err := rows.Scan(&c.ID, &c.OriginalSentence, &details, &st,
			&c.Metadata.ParagraphIndex, &c.Metadata.SentenceIndex, &c.Page); err != nil {
			return nil, fmt.Errorf("scanning citation: %w", err)
		}
		if err := json.Unmarshal([]byte(details), &c.PaperDetails); err != nil {
			return nil, fmt.Errorf("decoding paper details for %s: %w", c.ID, err)
		}
		c.Status = types.CitationStatus(st)
		citations = append(citations, c)
	}
	return citations, rows.Err()
}

// Citation returns one citation by ID within a document.
func (s *Store) Citation(ctx context.Context, documentID, citationID string) (types.Citation, error) {
	var c types.Citation
	var details, st string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, original_sentence, paper_details, status, paragraph_index, sentence_index, page
		 FROM citations WHERE document_id = ? AND id = ?`,
		documentID, citationID,
	).Scan(&c.ID, &c.OriginalSentence, &details, &st,
		&c.Metadata.ParagraphIndex, &c.Metadata.SentenceIndex, &c.Page)
	if err == sql.ErrNoRows {
		return types.Citation{}, fmt.Errorf("citation %s: %w", citationID, ErrNotFound)
	}
	if err != nil {
		return types.Citation{}, fmt.Errorf("querying citation: %w", err)
	}
	if err := json.Unmarshal([]byte(details), &c.PaperDetails); err != nil {
		return types.Citation{}, fmt.Errorf("decoding paper details for %s: %w", c.ID, err)
	}
	c.Status = types.CitationStatus(st)
	return c, nil
}

// SetStatus moves a citation to accepted or dismissed. An optional page
// number can be recorded alongside an accept.
func (s *Store) SetStatus(ctx context.Context, documentID, citationID string, status types.CitationStatus, page int) error {
	if status != types.StatusAccepted && status != types.StatusDismissed {
		return fmt.Errorf("invalid status %q", status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE citations SET status = ?, page = ? WHERE document_id = ? AND id = ?`,
		string(status), page, documentID, citationID,
	)
	if err != nil {
		return fmt.Errorf("updating citation status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("citation %s: %w", citationID, ErrNotFound)
	}
	return nil
}

// DeleteDocument removes a session and its citations.
func (s *Store) DeleteDocument(ctx context.Context, documentID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM citations WHERE document_id = ?`, documentID); err != nil {
		return fmt.Errorf("deleting citations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return tx.Commit()
}
