// Package dialect renders the paging clause, the one piece of statement
// text that differs between databases.
package dialect

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownDialect is returned by ByName.
var ErrUnknownDialect = errors.New("unknown dialect")

type Dialect interface {
	Name() string
	// Paging returns the clause that skips offset rows and returns at most
	// rowCount rows. A rowCount <= 0 means no upper bound; it returns "" when
	// neither bound applies.
	Paging(offset, rowCount int) string
}

// ByName looks a dialect up by name or common alias, ignoring case.
func ByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ansi", "sqlserver", "mssql":
		return NewANSIDialect(), nil
	case "postgres", "postgresql", "pgx":
		return NewPostgresDialect(), nil
	case "mysql", "mariadb":
		return NewMySQLDialect(), nil
	case "tidb":
		return NewTiDBDialect(), nil
	case "sqlite", "sqlite3":
		return NewSQLiteDialect(), nil
	default:
		return nil, errors.Wrapf(ErrUnknownDialect, "%q", name)
	}
}
