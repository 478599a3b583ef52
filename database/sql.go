package database

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/sqlinterp/cache"
	"github.com/Konsultn-Engineering/sqlinterp/fragment"
	"github.com/Konsultn-Engineering/sqlinterp/params"
)

// SQLConn is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type SQLConn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

var (
	_ SQLConn = (*sql.DB)(nil)
	_ SQLConn = (*sql.Tx)(nil)
	_ SQLConn = (*sql.Conn)(nil)
)

// SQLExecutor implements Executor for database/sql.
//
// Input parameters are bound with sql.Named, the others with sql.Out. Output
// values are written back into the statement's parameters and their
// callbacks run after Exec returns, or after the rows of Query are closed.
type SQLExecutor struct {
	conn  SQLConn
	stmts *cache.StatementCache
}

// SQLOption configures an SQLExecutor.
type SQLOption func(*SQLExecutor)

// WithStatementCache prepares each distinct SQL text once and reuses it.
// It has no effect unless the connection can prepare statements. The cache
// must belong to this connection only.
func WithStatementCache(stmts *cache.StatementCache) SQLOption {
	return func(e *SQLExecutor) {
		e.stmts = stmts
	}
}

// NewSQLExecutor creates a new SQLExecutor.
func NewSQLExecutor(conn SQLConn, opts ...SQLOption) *SQLExecutor {
	e := &SQLExecutor{conn: conn}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// prepared returns the cached statement for query, or nil when statements
// are not cached. Transactions are never cached since their statements die
// with them.
func (e *SQLExecutor) prepared(ctx context.Context, query string) (*sql.Stmt, error) {
	if e.stmts == nil {
		return nil, nil
	}
	if _, ok := e.conn.(*sql.Tx); ok {
		return nil, nil
	}
	p, ok := e.conn.(cache.Preparer)
	if !ok {
		return nil, nil
	}
	return e.stmts.GetOrPrepare(ctx, p, query)
}

func (e *SQLExecutor) query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	stmt, err := e.prepared(ctx, query)
	if err != nil {
		return nil, err
	}
	if stmt != nil {
		return stmt.QueryContext(ctx, args...)
	}
	return e.conn.QueryContext(ctx, query, args...)
}

func (e *SQLExecutor) exec(ctx context.Context, query string, args []any) (sql.Result, error) {
	stmt, err := e.prepared(ctx, query)
	if err != nil {
		return nil, err
	}
	if stmt != nil {
		return stmt.ExecContext(ctx, args...)
	}
	return e.conn.ExecContext(ctx, query, args...)
}

// Query executes a statement that returns rows.
func (e *SQLExecutor) Query(ctx context.Context, stmt fragment.Statement) (Rows, error) {
	args, outs := namedArgs(stmt.Params)
	rows, err := e.query(ctx, stmt.SQL, args)
	if err != nil {
		return nil, err
	}
	r := &SQLRows{rows: rows}
	if len(outs) > 0 {
		r.onClose = func() error { return outs.deliver(stmt.Params) }
	}
	return r, nil
}

// Exec executes a statement without returning rows.
func (e *SQLExecutor) Exec(ctx context.Context, stmt fragment.Statement) (Result, error) {
	args, outs := namedArgs(stmt.Params)
	res, err := e.exec(ctx, stmt.SQL, args)
	if err != nil {
		return nil, err
	}
	if len(outs) > 0 {
		if err := outs.deliver(stmt.Params); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// outputs holds the destinations handed to the driver, by parameter name.
type outputs map[string]*any

func namedArgs(reg *params.Registry) ([]any, outputs) {
	if reg == nil {
		return nil, nil
	}
	ps := reg.Parameters()
	args := make([]any, 0, len(ps))
	var outs outputs
	for _, p := range ps {
		if p.IsInput() {
			args = append(args, sql.Named(p.Name, p.Value))
			continue
		}
		dest := new(any)
		*dest = p.Value
		if outs == nil {
			outs = make(outputs)
		}
		outs[p.Name] = dest
		args = append(args, sql.Named(p.Name, sql.Out{Dest: dest, In: p.Direction == params.InputOutput}))
	}
	return args, outs
}

func (o outputs) deliver(reg *params.Registry) error {
	values := make(map[string]any, len(o))
	for name, dest := range o {
		values[name] = *dest
	}
	if err := reg.SetOutputs(values); err != nil {
		return err
	}
	reg.InvokeCallbacks()
	return nil
}

// SQLRows implements Rows for *sql.Rows.
type SQLRows struct {
	rows    *sql.Rows
	onClose func() error
}

// Next prepares the next result row for reading.
func (s *SQLRows) Next() bool { return s.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (s *SQLRows) Scan(dest ...any) error { return s.rows.Scan(dest...) }

// Close closes the rows iterator and delivers output parameters.
func (s *SQLRows) Close() error {
	if err := s.rows.Close(); err != nil {
		return err
	}
	if s.onClose != nil {
		done := s.onClose
		s.onClose = nil
		return done()
	}
	return nil
}

// Columns returns the column names.
func (s *SQLRows) Columns() ([]string, error) { return s.rows.Columns() }

// Err returns the error, if any, that was encountered during iteration.
func (s *SQLRows) Err() error { return s.rows.Err() }

var _ Executor = (*SQLExecutor)(nil)
