package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/Konsultn-Engineering/sqlinterp/fragment"
	"github.com/Konsultn-Engineering/sqlinterp/params"
)

// PgxConn is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type PgxConn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	_ PgxConn = (*pgxpool.Pool)(nil)
	_ PgxConn = (*pgx.Conn)(nil)
	_ PgxConn = (pgx.Tx)(nil)
)

// PgxExecutor implements Executor for pgx. Parameters are passed as
// pgx.NamedArgs, which rewrites the @name references to positional ones.
type PgxExecutor struct {
	conn PgxConn
}

// NewPgxExecutor creates a new PgxExecutor.
func NewPgxExecutor(conn PgxConn) *PgxExecutor {
	return &PgxExecutor{conn: conn}
}

// Query executes a statement that returns rows.
func (e *PgxExecutor) Query(ctx context.Context, stmt fragment.Statement) (Rows, error) {
	args, err := pgxNamedArgs(stmt.Params)
	if err != nil {
		return nil, err
	}
	rows, err := e.conn.Query(ctx, stmt.SQL, args)
	if err != nil {
		return nil, err
	}
	return &PgxRows{rows: rows}, nil
}

// Exec executes a statement without returning rows.
func (e *PgxExecutor) Exec(ctx context.Context, stmt fragment.Statement) (Result, error) {
	args, err := pgxNamedArgs(stmt.Params)
	if err != nil {
		return nil, err
	}
	cmdTag, err := e.conn.Exec(ctx, stmt.SQL, args)
	if err != nil {
		return nil, err
	}
	return &PgxResult{cmdTag: cmdTag}, nil
}

func pgxNamedArgs(reg *params.Registry) (pgx.NamedArgs, error) {
	args := pgx.NamedArgs{}
	if reg == nil {
		return args, nil
	}
	for _, p := range reg.Parameters() {
		if !p.IsInput() {
			return nil, errors.Wrapf(ErrOutputUnsupported, "pgx: parameter %q is %s", p.Name, p.Direction)
		}
		args[p.Name] = p.Value
	}
	return args, nil
}

// PgxRows implements Rows for pgx.Rows.
type PgxRows struct {
	rows              pgx.Rows
	fieldDescriptions []pgconn.FieldDescription
}

// Next prepares the next result row for reading.
func (p *PgxRows) Next() bool { return p.rows.Next() }

// Scan copies the columns from the current row into the provided destinations.
func (p *PgxRows) Scan(dest ...any) error { return p.rows.Scan(dest...) }

// Close closes the rows iterator.
func (p *PgxRows) Close() error { p.rows.Close(); return nil }

// Columns returns the column names.
func (p *PgxRows) Columns() ([]string, error) {
	if p.fieldDescriptions == nil {
		p.fieldDescriptions = p.rows.FieldDescriptions()
	}
	columns := make([]string, len(p.fieldDescriptions))
	for i, fd := range p.fieldDescriptions {
		columns[i] = fd.Name
	}
	return columns, nil
}

// Err returns the error, if any, that was encountered during iteration.
func (p *PgxRows) Err() error { return p.rows.Err() }

// PgxResult implements Result for pgx command tags.
type PgxResult struct {
	cmdTag pgconn.CommandTag
}

// LastInsertId is not supported in PostgreSQL; use RETURNING instead.
func (r *PgxResult) LastInsertId() (int64, error) {
	return 0, errors.New("LastInsertId not supported in PostgreSQL")
}

// RowsAffected returns the number of rows affected by the command.
func (r *PgxResult) RowsAffected() (int64, error) {
	return r.cmdTag.RowsAffected(), nil
}

var _ Executor = (*PgxExecutor)(nil)
