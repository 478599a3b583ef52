package dialect

import "strconv"

// mysqlMaxRows is the row count MySQL documents for "no limit".
const mysqlMaxRows = "18446744073709551615"

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (MySQL) Name() string { return "mysql" }

func (MySQL) Paging(offset, rowCount int) string {
	switch {
	case rowCount > 0 && offset > 0:
		return "LIMIT " + strconv.Itoa(offset) + ", " + strconv.Itoa(rowCount)
	case rowCount > 0:
		return "LIMIT " + strconv.Itoa(rowCount)
	case offset > 0:
		return "LIMIT " + strconv.Itoa(offset) + ", " + mysqlMaxRows
	default:
		return ""
	}
}
