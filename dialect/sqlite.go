package dialect

type SQLite struct{}

func NewSQLiteDialect() Dialect {
	return &SQLite{}
}

func (SQLite) Name() string { return "sqlite" }

func (SQLite) Paging(offset, rowCount int) string {
	return limitOffset(offset, rowCount, "-1")
}
