package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is a cached subtitle source.
type Document struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Title     string    `json:"title,omitempty"`
	Language  string    `json:"language,omitempty"`
	Checksum  string    `json:"checksum"`
	Size      int64     `json:"size"`
	Body      string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const documentColumns = "id, source, title, language, checksum, size, body, created_at, updated_at"

// timestampLayout keeps a fixed-width fraction so stored values sort
// chronologically as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Checksum returns the hex SHA-256 of body.
func Checksum(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// Put inserts doc or replaces the body of the document with the same source.
// The returned document carries the stored ID and timestamps; changed is false
// when the body was already cached unchanged.
func (s *Store) Put(ctx context.Context, doc Document) (*Document, bool, error) {
	doc.Source = strings.TrimSpace(doc.Source)
	if doc.Source == "" {
		return nil, false, errors.New("document source is required")
	}
	checksum := Checksum(doc.Body)

	existing, err := s.FindBySource(ctx, doc.Source)
	if err != nil {
		return nil, false, err
	}
	if existing != nil && existing.Checksum == checksum && existing.Title == doc.Title && existing.Language == doc.Language {
		return existing, false, nil
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	_, err = s.execWithRetry(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			title = excluded.title,
			language = excluded.language,
			checksum = excluded.checksum,
			size = excluded.size,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		id, doc.Source, doc.Title, doc.Language, checksum, int64(len(doc.Body)), doc.Body,
		formatTimestamp(now), formatTimestamp(now),
	)
	if err != nil {
		return nil, false, fmt.Errorf("upsert document: %w", err)
	}

	stored, err := s.FindBySource(ctx, doc.Source)
	if err != nil {
		return nil, false, err
	}
	if stored == nil {
		return nil, false, fmt.Errorf("document %q vanished after upsert", doc.Source)
	}
	return stored, true, nil
}

// Get returns the document with the given ID, or nil when none exists.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+documentColumns+" FROM documents WHERE id = ?", strings.TrimSpace(id))
	return scanDocument(row)
}

// FindBySource returns the document cached for source, or nil when none exists.
func (s *Store) FindBySource(ctx context.Context, source string) (*Document, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT "+documentColumns+" FROM documents WHERE source = ?", strings.TrimSpace(source))
	return scanDocument(row)
}

// List returns every cached document, most recently updated first. Bodies
// are omitted.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT id, source, title, language, checksum, size, '', created_at, updated_at FROM documents ORDER BY updated_at DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document. It reports whether a row was deleted.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM documents WHERE id = ?", strings.TrimSpace(id))
	if err != nil {
		return false, fmt.Errorf("delete document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete document rows: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc       Document
		createdAt string
		updatedAt string
	)
	err := row.Scan(&doc.ID, &doc.Source, &doc.Title, &doc.Language, &doc.Checksum, &doc.Size, &doc.Body, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}
	doc.CreatedAt = parseTimestamp(createdAt)
	doc.UpdatedAt = parseTimestamp(updatedAt)
	return &doc, nil
}

func formatTimestamp(ts time.Time) string {
	return ts.UTC().Format(timestampLayout)
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
