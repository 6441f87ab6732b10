// Package postgres provides a Postgres-backed persistent store that mirrors
// the SQLite snapshot semantics for deployments that already run Postgres.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"jobdeck/internal/infra/persistence/memory"
	"jobdeck/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/jobdeck?sslmode=disable"
)

// Option configures a Store.
type Option func(*Store)

// WithSeed installs a document factory used when no stored document exists
// (or the stored one is corrupt). Demo mode passes the fixed demo dataset.
func WithSeed(seed func() domain.Document) Option {
	return func(s *Store) { s.seed = seed }
}

// Store persists the board document to Postgres while reusing the in-memory
// implementation for transactions.
type Store struct {
	*memory.Store
	db          *sql.DB
	mu          sync.Mutex
	seed        func() domain.Document
	loadWarning error
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), ensures the document table exists, and hydrates the
// in-memory store from any stored document.
func NewStore(dsn string, engine *domain.RulesEngine, opts ...Option) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload JSONB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create document table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM document WHERE id = 1`).Scan(&payload)
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
	return s.Store.ImportDocument(doc)
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

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.NowFunc()()
	doc := s.ExportDocument()
	doc.LastSavedAt = now
	payload, err := json.Marshal(doc)
	if err != nil {
		return domain.PersistError{Op: "encode document", Err: err}
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO document(id,payload) VALUES(1,$1) ON CONFLICT (id) DO UPDATE SET payload=excluded.payload`,
		payload,
	); err != nil {
		return domain.PersistError{Op: "write document", Err: err}
	}
	s.MarkSaved(now)
	return nil
}

// RunInTransaction applies fn in memory, then snapshots the document to
// Postgres. Snapshot failures surface as PersistError without rolling back
// the memory commit.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(ctx); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// ImportDocument replaces state and snapshots the replacement.
func (s *Store) ImportDocument(doc domain.Document) error {
	if err := s.Store.ImportDocument(doc); err != nil {
		return err
	}
	return s.persist(context.Background())
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
