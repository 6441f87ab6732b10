// Package sqlite persists the board document to a single SQLite row as a
// versioned JSON payload. It snapshots the full state after every
// successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"jobdeck/internal/infra/persistence/memory"
	"jobdeck/pkg/domain"
)

// Option configures a Store.
type Option func(*Store)

// WithSeed installs a document factory used when no stored document exists
// (or the stored one is corrupt). Demo mode passes the fixed demo dataset.
func WithSeed(seed func() domain.Document) Option {
	return func(s *Store) { s.seed = seed }
}

// Store wraps the in-memory store and snapshots it into SQLite.
type Store struct {
	*memory.Store
	db          *sql.DB
	mu          sync.Mutex
	path        string
	seed        func() domain.Document
	loadWarning error
}

// NewStore constructs a snapshotting SQLite-backed persistent store. A
// missing or unreadable document never fails the open: the store degrades
// to an empty (or seeded) state and records the problem in LoadWarning.
func NewStore(path string, engine *domain.RulesEngine, opts ...Option) (*Store, error) {
	if path == "" {
		path = "jobdeck.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create document table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, path: path}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load hydrates the memory store from the stored document. Corrupt
// documents are replaced by a fresh (optionally seeded) state rather than
// failing the application start.
func (s *Store) load() error {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM document WHERE id = 1`).Scan(&payload)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.reset(nil)
	case err != nil:
		return fmt.Errorf("select document: %w", err)
	}

	var doc domain.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return s.reset(domain.CorruptStateError{Reason: "document payload unparsable", Err: err})
	}
	if err := doc.Migrate(); err != nil {
		return s.reset(err)
	}
	if err := doc.Validate(); err != nil {
		return s.reset(err)
	}
	return s.ImportDocument(doc)
}

// reset installs an empty or seeded state, remembering why when the stored
// document had to be discarded.
func (s *Store) reset(cause error) error {
	s.loadWarning = cause
	if s.seed == nil {
		return nil
	}
	doc := s.seed()
	doc.Version = domain.DocumentVersion
	if err := doc.Validate(); err != nil {
		return fmt.Errorf("seed document: %w", err)
	}
	return s.ImportDocument(doc)
}

// LoadWarning reports why the stored document was discarded at open time,
// or nil when it loaded cleanly.
func (s *Store) LoadWarning() error { return s.loadWarning }

func (s *Store) persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.NowFunc()()
	doc := s.ExportDocument()
	doc.LastSavedAt = now
	payload, err := json.Marshal(doc)
	if err != nil {
		return domain.PersistError{Op: "encode document", Err: err}
	}
	if _, err := s.db.Exec(
		`INSERT INTO document(id,payload) VALUES(1,?) ON CONFLICT(id) DO UPDATE SET payload=excluded.payload`,
		payload,
	); err != nil {
		return domain.PersistError{Op: "write document", Err: err}
	}
	s.MarkSaved(now)
	return nil
}

// RunInTransaction applies fn in memory, then snapshots the document to
// SQLite. A failed snapshot does not roll the memory commit back: the
// returned PersistError tells the caller that changes may not survive a
// restart while the session keeps working.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// ImportDocument replaces state and snapshots the replacement.
func (s *Store) ImportDocument(doc domain.Document) error {
	if err := s.Store.ImportDocument(doc); err != nil {
		return err
	}
	return s.persist()
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }
