// Package query assembles complete statements from clause fragments, either
// by splicing them into a base template at placeholder keywords such as
// /**where**/ or by synthesizing the canonical clause order.
package query

import (
	"github.com/Konsultn-Engineering/sqlinterp/dialect"
	"github.com/Konsultn-Engineering/sqlinterp/filter"
	"github.com/Konsultn-Engineering/sqlinterp/fragment"
	"github.com/Konsultn-Engineering/sqlinterp/internal/debug"
	"github.com/Konsultn-Engineering/sqlinterp/params"
	"github.com/Konsultn-Engineering/sqlinterp/template"
)

// Builder collects clauses and renders them into one statement.
//
// Every clause method returns the builder for chaining. Template errors are
// reported by Build. A Builder is not safe for concurrent use.
type Builder struct {
	dialect  dialect.Dialect
	fragOpts []fragment.Option
	// seed is an empty fragment carrying the parser and naming configuration.
	seed *fragment.Builder

	base     *fragment.Builder
	selects  *fragment.Builder
	distinct bool
	from     *fragment.Builder
	joins    *fragment.Builder
	where    *filter.Group
	groupBy  *fragment.Builder
	having   *filter.Group
	orderBy  *fragment.Builder
	offset   int
	rowCount int

	built *fragment.Statement
}

// Option configures a Builder.
type Option func(*Builder)

// WithDialect sets the dialect used for Limit. The default is ANSI.
func WithDialect(d dialect.Dialect) Option {
	return func(b *Builder) {
		if d != nil {
			b.dialect = d
		}
	}
}

// WithNaming configures parameter naming.
func WithNaming(opts ...params.Option) Option {
	return func(b *Builder) {
		b.fragOpts = append(b.fragOpts, fragment.WithNaming(opts...))
	}
}

// WithParser parses clause templates with p.
func WithParser(p *template.Parser) Option {
	return func(b *Builder) {
		b.fragOpts = append(b.fragOpts, fragment.WithParser(p))
	}
}

// New creates a builder that synthesizes the statement.
func New(opts ...Option) *Builder {
	b := &Builder{
		dialect: dialect.NewANSIDialect(),
		where:   filter.And(),
		having:  filter.And(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.seed = fragment.Empty(b.fragOpts...)
	return b
}

// NewFrom creates a builder that splices clauses into a base template.
func NewFrom(tmpl string, args ...any) *Builder {
	return New().Base(tmpl, args...)
}

// Base sets the base template.
func (b *Builder) Base(tmpl string, args ...any) *Builder {
	b.base = b.seed.Derive(tmpl, args...)
	return b.changed()
}

func (b *Builder) changed() *Builder {
	b.built = nil
	return b
}

// list appends a comma separated item to *f.
func (b *Builder) list(f **fragment.Builder, tmpl string, args []any) *Builder {
	if *f == nil {
		*f = b.seed.Derive(tmpl, args...)
	} else {
		(*f).AppendRaw(", ").AppendFragment(b.seed.Derive(tmpl, args...))
	}
	return b.changed()
}

// Select adds columns to the select list.
func (b *Builder) Select(tmpl string, args ...any) *Builder {
	return b.list(&b.selects, tmpl, args)
}

// SelectDistinct adds columns and makes the select DISTINCT.
func (b *Builder) SelectDistinct(tmpl string, args ...any) *Builder {
	b.distinct = true
	return b.Select(tmpl, args...)
}

// From adds a table source. Several sources are comma separated.
func (b *Builder) From(tmpl string, args ...any) *Builder {
	return b.list(&b.from, tmpl, args)
}

// Join adds a join, including its JOIN keyword.
func (b *Builder) Join(tmpl string, args ...any) *Builder {
	if b.joins == nil {
		b.joins = b.seed.Derive(tmpl, args...)
	} else {
		b.joins.AppendFragment(b.seed.Derive(tmpl, args...))
	}
	return b.changed()
}

// Where adds a condition. Conditions are joined with AND.
func (b *Builder) Where(tmpl string, args ...any) *Builder {
	return b.WhereFilter(filter.Of(b.seed.Derive(tmpl, args...)))
}

// WhereFilter adds a condition tree, ANDed with the other conditions. The
// tree is copied, so changing it afterwards does not affect the builder.
func (b *Builder) WhereFilter(node filter.Node) *Builder {
	b.where.Add(filter.Copy(node))
	return b.changed()
}

// GroupBy adds grouping expressions.
func (b *Builder) GroupBy(tmpl string, args ...any) *Builder {
	return b.list(&b.groupBy, tmpl, args)
}

// Having adds a group condition. Conditions are joined with AND.
func (b *Builder) Having(tmpl string, args ...any) *Builder {
	return b.HavingFilter(filter.Of(b.seed.Derive(tmpl, args...)))
}

// HavingFilter adds a group condition tree. Like WhereFilter it copies the
// tree.
func (b *Builder) HavingFilter(node filter.Node) *Builder {
	b.having.Add(filter.Copy(node))
	return b.changed()
}

// OrderBy adds ordering expressions.
func (b *Builder) OrderBy(tmpl string, args ...any) *Builder {
	return b.list(&b.orderBy, tmpl, args)
}

// Limit skips offset rows and returns at most rowCount rows; rowCount <= 0
// leaves the row count unbounded.
func (b *Builder) Limit(offset, rowCount int) *Builder {
	b.offset, b.rowCount = offset, rowCount
	return b.changed()
}

// Build renders the statement. The result is cached until the next change
// to the builder, so building twice returns the same statement.
func (b *Builder) Build() (fragment.Statement, error) {
	if b.built != nil {
		return *b.built, nil
	}
	out := b.synthesize
	if b.base != nil {
		out = b.spliceBase
	}
	stmt, err := out().Statement()
	if err != nil {
		return fragment.Statement{}, err
	}
	b.built = &stmt
	debug.Debug("query rendered", "sql", stmt.SQL, "params", stmt.Params.Len(), "dialect", b.dialect.Name())
	return stmt, nil
}

// SQL renders the statement and returns its text.
func (b *Builder) SQL() (string, error) {
	stmt, err := b.Build()
	return stmt.SQL, err
}

func (b *Builder) synthesize() *fragment.Builder {
	out := b.seed.Derive("")
	for _, c := range canonicalOrder {
		s := primarySplice(c)
		f := b.provide(s)
		if blank(f) {
			continue
		}
		if !out.IsEmpty() {
			out.AppendRaw(" ")
		}
		if s.prefix == "" {
			out.AppendFragment(f)
			continue
		}
		out.AppendRaw(b.prefix(s)).AppendFragment(f)
	}
	if paging := b.dialect.Paging(b.offset, b.rowCount); paging != "" {
		out.AppendRaw(" " + paging)
	}
	return out
}

func (b *Builder) spliceBase() *fragment.Builder {
	out := b.base.Clone()
	matched := make(map[clause]bool, len(canonicalOrder))
	for _, s := range splices {
		f := b.provide(s)
		for _, alias := range s.aliases {
			if out.Splice(alias, b.prefix(s), f) {
				matched[s.clause] = true
			}
		}
	}
	for _, c := range canonicalOrder {
		if matched[c] {
			continue
		}
		f := b.clauseText(c)
		if blank(f) {
			continue
		}
		out.AppendRaw("\n" + b.prefix(primarySplice(c))).AppendFragment(f)
	}
	if paging := b.dialect.Paging(b.offset, b.rowCount); paging != "" {
		out.AppendRaw("\n" + paging)
	}
	return out
}

// blank reports whether f contributes neither text nor errors.
func blank(f *fragment.Builder) bool {
	return f == nil || (f.IsEmpty() && f.Err() == nil)
}
