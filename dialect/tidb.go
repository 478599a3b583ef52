package dialect

// TiDB speaks MySQL paging.
type TiDB struct {
	*MySQL
}

func NewTiDBDialect() Dialect {
	return &TiDB{
		MySQL: NewMySQLDialect().(*MySQL),
	}
}

func (*TiDB) Name() string { return "tidb" }
