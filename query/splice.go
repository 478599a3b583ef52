package query

import "github.com/Konsultn-Engineering/sqlinterp/fragment"

type clause int

const (
	clauseSelect clause = iota
	clauseFrom
	clauseJoins
	clauseWhere
	clauseGroupBy
	clauseHaving
	clauseOrderBy
)

// canonicalOrder is the clause order of a synthesized statement.
var canonicalOrder = []clause{
	clauseSelect,
	clauseFrom,
	clauseJoins,
	clauseWhere,
	clauseGroupBy,
	clauseHaving,
	clauseOrderBy,
}

// splice is one way of placing a clause in a base template: each alias is
// replaced by prefix followed by the clause text. The primary splice of a
// clause also supplies the prefix for synthesized statements and for
// clauses a base template has no keyword for.
type splice struct {
	clause  clause
	aliases []string
	prefix  string
	primary bool
}

// splices is processed in order; keywords match case-insensitively.
var splices = []splice{
	{clause: clauseWhere, aliases: []string{"/**where**/", "{where}"}, prefix: "WHERE ", primary: true},
	{clause: clauseWhere, aliases: []string{"/**filters**/", "{filters}"}, prefix: "AND "},
	{clause: clauseFrom, aliases: []string{"/**from**/", "{from}"}, prefix: "FROM ", primary: true},
	{clause: clauseJoins, aliases: []string{"/**joins**/", "{joins}"}, primary: true},
	{clause: clauseSelect, aliases: []string{"/**select**/", "{select}"}, prefix: "SELECT ", primary: true},
	{clause: clauseSelect, aliases: []string{"/**selects**/", "{selects}"}, prefix: ", "},
	{clause: clauseGroupBy, aliases: []string{"/**groupby**/", "{groupby}"}, prefix: "GROUP BY ", primary: true},
	{clause: clauseHaving, aliases: []string{"/**having**/", "{having}"}, prefix: "HAVING ", primary: true},
	{clause: clauseOrderBy, aliases: []string{"/**orderby**/", "{orderby}"}, prefix: "ORDER BY ", primary: true},
}

func primarySplice(c clause) splice {
	for _, s := range splices {
		if s.clause == c && s.primary {
			return s
		}
	}
	panic("query: clause without primary splice")
}

// prefix returns the text placed before the clause.
func (b *Builder) prefix(s splice) string {
	if s.clause == clauseSelect && s.primary && b.distinct {
		return "SELECT DISTINCT "
	}
	return s.prefix
}

// clauseText returns the fragment the caller built for c, nil if none.
func (b *Builder) clauseText(c clause) *fragment.Builder {
	switch c {
	case clauseSelect:
		return b.selects
	case clauseFrom:
		return b.from
	case clauseJoins:
		return b.joins
	case clauseWhere:
		return b.where.Render()
	case clauseGroupBy:
		return b.groupBy
	case clauseHaving:
		return b.having.Render()
	case clauseOrderBy:
		return b.orderBy
	}
	return nil
}

// provide returns the text spliced for s. An empty column list selects *.
func (b *Builder) provide(s splice) *fragment.Builder {
	f := b.clauseText(s.clause)
	if s.clause == clauseSelect && s.primary && f.IsEmpty() {
		return b.seed.Derive("*")
	}
	return f
}
