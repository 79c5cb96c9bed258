// Package store persists reading positions keyed by book path. The reader
// core hands it a position indicator and a progress fraction after every
// completed navigation; it attaches no semantics to the path beyond using
// it as the key.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Reading modes. Positions recorded under different modes are not
// comparable: chapter mode stores a spine index, scroll mode a continuous
// fraction. A host that switches strategies for the same book starts over.
const (
	ModeChapter = "chapter"
	ModeScroll  = "scroll"
)

// Record is one book's persisted reading state.
type Record struct {
	BookPath  string
	Mode      string  // ModeChapter or ModeScroll
	Position  float64 // spine index (chapter) or scroll fraction (scroll)
	Progress  float64 // always in [0,1]
	UpdatedAt time.Time
}

// Store is a SQLite-backed progress store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS reading_progress (
	book_path  TEXT PRIMARY KEY,
	mode       TEXT NOT NULL,
	position   REAL NOT NULL,
	progress   REAL NOT NULL,
	updated_at TIMESTAMP NOT NULL
);`

// Open opens (creating if necessary) the progress database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening progress database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating progress schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the reading state for a book.
func (s *Store) Save(ctx context.Context, rec Record) error {
	if rec.BookPath == "" {
		return errors.New("book path is required")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_progress (book_path, mode, position, progress, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(book_path) DO UPDATE SET
			mode = excluded.mode,
			position = excluded.position,
			progress = excluded.progress,
			updated_at = excluded.updated_at`,
		rec.BookPath, rec.Mode, rec.Position, rec.Progress, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving progress for %s: %w", rec.BookPath, err)
	}
	return nil
}

// Load returns the reading state for a book. The second return is false
// when the book has never been opened.
func (s *Store) Load(ctx context.Context, bookPath string) (Record, bool, error) {
	var rec Record
	err := s.db.QueryRowContext(ctx, `
		SELECT book_path, mode, position, progress, updated_at
		FROM reading_progress WHERE book_path = ?`, bookPath).
		Scan(&rec.BookPath, &rec.Mode, &rec.Position, &rec.Progress, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("loading progress for %s: %w", bookPath, err)
	}
	return rec, true, nil
}

// Delete removes the reading state for a book.
func (s *Store) Delete(ctx context.Context, bookPath string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM reading_progress WHERE book_path = ?`, bookPath); err != nil {
		return fmt.Errorf("deleting progress for %s: %w", bookPath, err)
	}
	return nil
}
