package dialect

import "strconv"

// ANSI renders SQL:2008 paging, as used by SQL Server and Oracle.
type ANSI struct{}

func NewANSIDialect() Dialect {
	return &ANSI{}
}

func (ANSI) Name() string { return "ansi" }

func (ANSI) Paging(offset, rowCount int) string {
	if offset <= 0 && rowCount <= 0 {
		return ""
	}
	clause := "OFFSET " + strconv.Itoa(max(offset, 0)) + " ROWS"
	if rowCount > 0 {
		clause += " FETCH NEXT " + strconv.Itoa(rowCount) + " ROWS ONLY"
	}
	return clause
}
