// Package database hands finished statements to a driver. Parameters are
// bound by name, so the @name references in the SQL text stay as rendered.
package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Konsultn-Engineering/sqlinterp/fragment"
)

// ErrOutputUnsupported is returned when a statement has output parameters
// and the driver cannot bind them.
var ErrOutputUnsupported = errors.New("output parameters are not supported")

// Executor runs statements. Driver errors are returned unchanged.
type Executor interface {
	Query(ctx context.Context, stmt fragment.Statement) (Rows, error)
	Exec(ctx context.Context, stmt fragment.Statement) (Result, error)
}

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Columns() ([]string, error)
	Err() error
}

type Result interface {
	LastInsertId() (int64, error)
	RowsAffected() (int64, error)
}
