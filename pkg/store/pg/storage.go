package pg

import (
	"context"
	"fmt"
	"sync"

	"github.com/mynah-ai/mynah/pkg/ai"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// KnowledgeDBStorage implements the KnowledgeStore interface on PostgreSQL
// with pgvector for semantic synonym expansion. Writes are serialized with a
// mutex so concurrent extraction jobs cannot interleave partial graph updates.
type KnowledgeDBStorage struct {
	conn        pgxIConn
	pool        *pgxpool.Pool
	embedder    ai.Client
	databaseURL string
	dbLock      sync.Mutex
}

type KnowledgeDBStorageOption func(*KnowledgeDBStorage)

// WithEmbedder enables vector-based synonym expansion. Without it the store
// falls back to the symbolic synonym table only.
func WithEmbedder(embedder ai.Client) KnowledgeDBStorageOption {
	return func(s *KnowledgeDBStorage) {
		s.embedder = embedder
	}
}

// New creates a KnowledgeDBStorage backed by a fresh connection pool. The
// pgvector types are registered on every connection so term embeddings can
// round-trip through query parameters.
func New(ctx context.Context, databaseURL string, opts ...KnowledgeDBStorageOption) (*KnowledgeDBStorage, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	cfg.AfterConnect = pgxvec.RegisterTypes

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	s := &KnowledgeDBStorage{
		conn:        pool,
		pool:        pool,
		databaseURL: databaseURL,
		dbLock:      sync.Mutex{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// NewWithConnection creates a KnowledgeDBStorage on an existing connection.
// Schema migrations are unavailable in this mode because migrate needs its
// own database handle.
func NewWithConnection(conn pgxIConn, opts ...KnowledgeDBStorageOption) (*KnowledgeDBStorage, error) {
	s := &KnowledgeDBStorage{
		conn:   conn,
		dbLock: sync.Mutex{},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

func (s *KnowledgeDBStorage) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
