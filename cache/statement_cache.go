package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Preparer is satisfied by *sql.DB and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// StatementCache keeps prepared statements by SQL text. Evicted statements
// are closed. Statements belong to the connection pool that prepared them,
// so a cache must not be shared between pools or used with transactions.
type StatementCache struct {
	cache *lru.Cache[string, *sql.Stmt]
	mu    sync.Mutex
}

func NewStatementCache(size int) *StatementCache {
	if size <= 0 {
		size = DefaultSize
	}
	cache, _ := lru.NewWithEvict(size, func(_ string, stmt *sql.Stmt) {
		stmt.Close()
	})

	return &StatementCache{
		cache: cache,
	}
}

// GetOrPrepare returns the cached statement for query, preparing it on a miss.
func (s *StatementCache) GetOrPrepare(ctx context.Context, db Preparer, query string) (*sql.Stmt, error) {
	// Fast path
	if stmt, ok := s.cache.Get(query); ok {
		return stmt, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the lock
	if stmt, ok := s.cache.Get(query); ok {
		return stmt, nil
	}

	stmt, err := db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	s.cache.Add(query, stmt)
	return stmt, nil
}

// Len returns the number of cached statements.
func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close closes every cached statement.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge() // This will trigger the evict callback for all items
	return nil
}
