// Package knowledge is the document store behind knowledge_search. Documents
// live in SQLite and are ranked against a query by lexical distance.
package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

var ErrStoreClosed = errors.New("knowledge store is closed")

// Document is a unit of searchable text.
type Document struct {
	ID       string            `json:"id,omitempty"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Result is a ranked search hit. Distance is in [0, 1); lower is closer.
type Result struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Distance float64           `json:"distance"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store is a SQLite-backed document collection. Safe for concurrent use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL,
	metadata TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Open opens or creates the store at path, seeding the sample documents
// when the collection is empty.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A second pooled connection to :memory: would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	s := &Store{db: db}

	n, err := s.Count(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if n == 0 {
		if err := s.AddDocuments(ctx, SampleDocuments()); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed documents: %w", err)
		}
	}

	return s, nil
}

// Close releases the database. Further calls return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// AddDocuments inserts docs in one transaction. Documents without an ID
// receive a generated one; an existing ID is overwritten.
func (s *Store) AddDocuments(ctx context.Context, docs []Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, text, metadata) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET text = excluded.text, metadata = excluded.metadata`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		if doc.Text == "" {
			return fmt.Errorf("document %q has empty text", doc.ID)
		}
		id := doc.ID
		if id == "" {
			id = uuid.NewString()
		}
		meta := doc.Metadata
		if meta == nil {
			meta = map[string]string{}
		}
		metaJSON, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for %s: %w", id, err)
		}
		if _, err := stmt.ExecContext(ctx, id, doc.Text, string(metaJSON)); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// Search returns up to topK documents sharing terms with query, ordered by
// ascending distance. Documents with no shared term are never returned, so
// the result may be empty.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if topK <= 0 {
		return nil, nil
	}

	q := terms(query)
	if len(q) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, text, metadata FROM documents ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r        Result
			metaJSON string
		)
		if err := rows.Scan(&r.ID, &r.Text, &metaJSON); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		d := distance(q, terms(r.Text))
		if d >= 1 {
			continue
		}
		r.Distance = d

		if err := json.Unmarshal([]byte(metaJSON), &r.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode metadata for %s: %w", r.ID, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}
