package dialect

import "strconv"

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) Name() string { return "postgres" }

func (Postgres) Paging(offset, rowCount int) string {
	return limitOffset(offset, rowCount, "ALL")
}

// limitOffset renders LIMIT m OFFSET n, using unbounded as the limit when
// only an offset is given.
func limitOffset(offset, rowCount int, unbounded string) string {
	switch {
	case rowCount > 0 && offset > 0:
		return "LIMIT " + strconv.Itoa(rowCount) + " OFFSET " + strconv.Itoa(offset)
	case rowCount > 0:
		return "LIMIT " + strconv.Itoa(rowCount)
	case offset > 0:
		return "LIMIT " + unbounded + " OFFSET " + strconv.Itoa(offset)
	default:
		return ""
	}
}
