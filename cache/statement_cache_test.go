package cache

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementCache(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	c := NewStatementCache(1)

	first, err := c.GetOrPrepare(ctx, db, "SELECT @a + 1")
	require.NoError(t, err)
	again, err := c.GetOrPrepare(ctx, db, "SELECT @a + 1")
	require.NoError(t, err)
	assert.Same(t, first, again)

	var n int
	require.NoError(t, first.QueryRowContext(ctx, sql.Named("a", 41)).Scan(&n))
	assert.Equal(t, 42, n)

	_, err = c.GetOrPrepare(ctx, db, "SELECT 2")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	// The evicted statement is closed.
	assert.Error(t, first.QueryRowContext(ctx, sql.Named("a", 1)).Scan(&n))

	_, err = c.GetOrPrepare(ctx, db, "SELEKT")
	assert.Error(t, err)

	require.NoError(t, c.Close())
	assert.Zero(t, c.Len())
}
