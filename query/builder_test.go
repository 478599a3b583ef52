package query

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/sqlinterp/dialect"
	"github.com/Konsultn-Engineering/sqlinterp/filter"
	"github.com/Konsultn-Engineering/sqlinterp/params"
	"github.com/Konsultn-Engineering/sqlinterp/template"
)

func TestSpliceWhere(t *testing.T) {
	q := NewFrom("SELECT * FROM t /**where**/ ORDER BY id").
		Where("age>{0}", 18).
		Where("name={0}", "Al")

	stmt, err := q.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE age>@p0 AND name=@p1 ORDER BY id", stmt.SQL)
	assert.Equal(t, map[string]any{"p0": 18, "p1": "Al"}, stmt.Params.Values())
}

func TestBuildIsCached(t *testing.T) {
	q := New().From("t").Where("a={0}", 1)

	first, err := q.Build()
	require.NoError(t, err)
	second, err := q.Build()
	require.NoError(t, err)
	assert.Same(t, first.Params, second.Params)
	assert.Equal(t, first.SQL, second.SQL)

	q.Where("b={0}", 2)
	third, err := q.Build()
	require.NoError(t, err)
	assert.NotSame(t, first.Params, third.Params)
	assert.Equal(t, "SELECT * FROM t WHERE a=@p0 AND b=@p1", third.SQL)
}

func TestSynthesize(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
		want  string
	}{
		{
			name:  "default select",
			build: func() *Builder { return New().From("users") },
			want:  "SELECT * FROM users",
		},
		{
			name: "all clauses",
			build: func() *Builder {
				return New().
					Select("u.id").Select("count(*) AS n").
					From("users u").
					Join("JOIN orders o ON o.user_id = u.id").
					Join("LEFT JOIN x ON x.id = o.x_id").
					Where("u.active = {0}", true).
					GroupBy("u.id").
					Having("count(*) > {0}", 3).
					OrderBy("n DESC").OrderBy("u.id")
			},
			want: "SELECT u.id, count(*) AS n FROM users u JOIN orders o ON o.user_id = u.id LEFT JOIN x ON x.id = o.x_id " +
				"WHERE u.active = @p0 GROUP BY u.id HAVING count(*) > @p1 ORDER BY n DESC, u.id",
		},
		{
			name:  "distinct",
			build: func() *Builder { return New().SelectDistinct("city").From("users") },
			want:  "SELECT DISTINCT city FROM users",
		},
		{
			name:  "paging",
			build: func() *Builder { return New().From("t").OrderBy("id").Limit(20, 10) },
			want:  "SELECT * FROM t ORDER BY id OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
		},
		{
			name: "postgres paging",
			build: func() *Builder {
				return New(WithDialect(dialect.NewPostgresDialect())).From("t").Limit(0, 5)
			},
			want: "SELECT * FROM t LIMIT 5",
		},
		{
			name: "filter tree",
			build: func() *Builder {
				return New().From("t").
					Where("a={0}", 1).
					WhereFilter(filter.Or(filter.Cond("b={0}", 2), filter.Cond("c IN {0}", []int{3, 4})))
			},
			want: "SELECT * FROM t WHERE a=@p0 AND (b=@p1 OR c IN (@parray01,@parray02))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, err := tt.build().SQL()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestSpliceKeywords(t *testing.T) {
	q := NewFrom("/**select**/ /**from**/ /**joins**/ WHERE x = {0} /**filters**/ /**groupby**/ /**having**/ /**orderby**/", 0).
		Select("a").
		From("t").
		Join("JOIN u ON u.id = t.u").
		Where("a={0}", 1).
		GroupBy("a").
		Having("count(*)>{0}", 2).
		OrderBy("a")

	stmt, err := q.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t JOIN u ON u.id = t.u WHERE x = @p0 AND a=@p1 GROUP BY a HAVING count(*)>@p2 ORDER BY a", stmt.SQL)
	assert.Equal(t, map[string]any{"p0": 0, "p1": 1, "p2": 2}, stmt.Params.Values())
}

func TestSpliceBraceKeywords(t *testing.T) {
	sql, err := NewFrom("SELECT id{{selects}} FROM t {{WHERE}}").Select("name").Where("id={0}", 9).SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, name FROM t WHERE id=@p0", sql)
}

func TestSpliceEmptyClauses(t *testing.T) {
	sql, err := NewFrom("SELECT * FROM t /**where**/").SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t ", sql)

	sql, err = NewFrom("/**select**/ FROM t").SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t", sql)
}

func TestSpliceUnmatchedClauses(t *testing.T) {
	sql, err := NewFrom("SELECT * FROM t").Where("a={0}", 1).OrderBy("a").Limit(0, 10).SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t\nWHERE a=@p0\nORDER BY a\nOFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY", sql)
}

func TestBaseParametersKeepTheirNames(t *testing.T) {
	sql, err := NewFrom("SELECT * FROM t WHERE tenant={0} /**filters**/", 7).Where("a={0}", 1).SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE tenant=@p0 AND a=@p1", sql)
}

func TestBuildErrors(t *testing.T) {
	_, err := New().From("t").Where("a={1}", 1).Build()
	assert.True(t, errors.Is(err, template.ErrTemplate))

	_, err = NewFrom("SELECT * FROM t").Where("a IN {0}", []int{}).Build()
	assert.True(t, errors.Is(err, params.ErrArrayArgument))

	_, err = NewFrom("SELECT {0:blob}", 1).Build()
	assert.True(t, errors.Is(err, params.ErrFormatSpec))
}

func TestNamingOption(t *testing.T) {
	sql, err := New(WithNaming(params.WithPrefixes("v", "vs"))).
		From("t").
		Where("a={0}", 1).
		Where("b IN {0}", []string{"x"}).
		SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a=@v0 AND b IN (@vs01)", sql)
}

func TestParserOption(t *testing.T) {
	p := template.NewParser(16)
	q := New(WithParser(p)).From("t")
	for i := range 3 {
		q.Where("a={0}", i)
	}
	_, err := q.Build()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p.Stats().Hits)
}

func TestOrFilterKeepsItsGrouping(t *testing.T) {
	or := filter.Or(filter.Cond("a={0}", 1), filter.Cond("b={0}", 2))

	stmt, err := NewFrom("SELECT * FROM t WHERE tenant={0} /**filters**/", 7).WhereFilter(or).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE tenant=@p0 AND (a=@p2 OR b=@p1)", stmt.SQL)
	assert.Equal(t, map[string]any{"p0": 7, "p1": 2, "p2": 1}, stmt.Params.Values())

	sql, err := New().From("t").WhereFilter(or).SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE (a=@p0 OR b=@p1)", sql)
}

func TestOrHavingFilterKeepsItsGrouping(t *testing.T) {
	or := filter.Or(filter.Cond("count(*)>{0}", 1), filter.Cond("max(y)<{0}", 2))

	sql, err := NewFrom("SELECT a FROM t GROUP BY a /**having**/").HavingFilter(or).SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t GROUP BY a HAVING (count(*)>@p0 OR max(y)<@p1)", sql)

	sql, err = NewFrom("SELECT a FROM t GROUP BY a /**having**/").
		HavingFilter(or).
		Having("sum(x)>{0}", 3).
		SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT a FROM t GROUP BY a HAVING (count(*)>@p0 OR max(y)<@p1) AND sum(x)>@p2", sql)
}

func TestFilterChangesAfterAddingDoNotLeak(t *testing.T) {
	g := filter.And()
	leaf := filter.Cond("a={0}", 1)
	q := New().From("t").WhereFilter(g).WhereFilter(leaf)

	first, err := q.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a=@p0", first)

	g.Add(filter.Cond("x={0}", 1))
	leaf.Fragment.Append("OR 1=1")
	again, err := q.SQL()
	require.NoError(t, err)
	assert.Equal(t, first, again)

	q.Where("y={0}", 2)
	sql, err := q.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a=@p0 AND y=@p1", sql)
}

func TestComposedNamesAvoidLaterNames(t *testing.T) {
	stmt, err := New().From("t").Where("a={0}", 1).Where("b={0} AND c={1}", 2, 3).Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a=@p0 AND b=@p2 AND c=@p1", stmt.SQL)
	assert.Equal(t, []string{"p0", "p2", "p1"}, stmt.Params.Names())
}
