package fragment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/Konsultn-Engineering/sqlinterp/params"
	"github.com/Konsultn-Engineering/sqlinterp/template"
)

// Builder is a mutable SQL fragment.
//
// Errors from templates are collected instead of returned, so calls can be
// chained; Err reports the first one and Statement refuses to build while
// any are present. A Builder is not safe for concurrent use.
type Builder struct {
	sql    string
	params *params.Registry
	parse  parseFunc
	errors []error
}

// Option configures a Builder.
type Option func(*Builder)

// WithParser parses templates with p instead of the package-level parser.
func WithParser(p *template.Parser) Option {
	return func(b *Builder) {
		if p != nil {
			b.parse = p.Parse
		}
	}
}

// WithNaming configures the registry of the fragment.
func WithNaming(opts ...params.Option) Option {
	return func(b *Builder) {
		b.params = params.NewRegistry(opts...)
	}
}

// Empty creates an empty fragment.
func Empty(opts ...Option) *Builder {
	b := &Builder{params: params.NewRegistry(), parse: template.Parse}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// New creates a fragment from a template.
func New(tmpl string, args ...any) *Builder {
	return Empty().Append(tmpl, args...)
}

// Derive creates a fragment from a template with the same parser and
// naming configuration as b.
func (b *Builder) Derive(tmpl string, args ...any) *Builder {
	return b.derive().Append(tmpl, args...)
}

func (b *Builder) derive() *Builder {
	return &Builder{params: b.params.Fresh(), parse: b.parse}
}

// AddError records err. Nil errors are ignored.
func (b *Builder) AddError(err error) {
	if err != nil {
		b.errors = append(b.errors, err)
	}
}

// Err returns the first recorded error or nil.
func (b *Builder) Err() error {
	if len(b.errors) > 0 {
		return b.errors[0]
	}
	return nil
}

// Errors returns every recorded error.
func (b *Builder) Errors() []error {
	return b.errors
}

// renderTemplate renders tmpl into a registry of its own and merges it into
// b, returning the text to splice.
func (b *Builder) renderTemplate(tmpl string, args []any) (string, bool) {
	reg := b.params.Fresh()
	sql, err := render(b.parse, reg, tmpl, args)
	if err != nil {
		b.AddError(errors.Wrapf(err, "template %q", tmpl))
		return "", false
	}
	return b.merge(reg, sql)
}

func (b *Builder) merge(reg *params.Registry, sql string) (string, bool) {
	sql, _, err := b.params.MergeAll(reg, sql)
	if err != nil {
		b.AddError(err)
		return "", false
	}
	return sql, true
}

// Append renders tmpl and appends it, separated by a space unless either
// side already has whitespace at the boundary.
func (b *Builder) Append(tmpl string, args ...any) *Builder {
	if sql, ok := b.renderTemplate(tmpl, args); ok {
		b.appendSpaced(sql)
	}
	return b
}

// AppendLine renders tmpl and appends it on a new line.
func (b *Builder) AppendLine(tmpl string, args ...any) *Builder {
	if sql, ok := b.renderTemplate(tmpl, args); ok {
		if b.sql != "" {
			b.sql += "\n"
		}
		b.sql += sql
	}
	return b
}

// AppendRaw appends text as is. Braces are not interpreted.
func (b *Builder) AppendRaw(text string) *Builder {
	b.sql += text
	return b
}

// AppendFragment merges other into b and appends its text with the same
// spacing rule as Append. other is not modified.
func (b *Builder) AppendFragment(other *Builder) *Builder {
	if other == nil {
		return b
	}
	b.errors = append(b.errors, other.errors...)
	if sql, ok := b.merge(other.params, other.sql); ok {
		b.appendSpaced(sql)
	}
	return b
}

func (b *Builder) appendSpaced(sql string) {
	if sql == "" {
		return
	}
	if b.sql != "" && !endsWithSpace(b.sql) && !startsWithSpace(sql) {
		b.sql += " "
	}
	b.sql += sql
}

// Insert merges other into b and inserts its text at byte offset pos.
func (b *Builder) Insert(pos int, other *Builder) *Builder {
	if other == nil {
		return b
	}
	if !b.checkPos(pos) {
		return b
	}
	b.errors = append(b.errors, other.errors...)
	if sql, ok := b.merge(other.params, other.sql); ok {
		b.sql = b.sql[:pos] + sql + b.sql[pos:]
	}
	return b
}

// InsertText inserts literal text at byte offset pos.
func (b *Builder) InsertText(pos int, text string) *Builder {
	if b.checkPos(pos) {
		b.sql = b.sql[:pos] + text + b.sql[pos:]
	}
	return b
}

// Remove deletes n bytes starting at pos and drops the parameters the
// remaining text no longer references.
func (b *Builder) Remove(pos, n int) *Builder {
	if n < 0 || pos < 0 || pos+n > len(b.sql) {
		b.AddError(errors.Errorf("remove %d bytes at %d out of range (length %d)", n, pos, len(b.sql)))
		return b
	}
	b.sql = b.sql[:pos] + b.sql[pos+n:]
	b.params.Prune(b.sql)
	return b
}

func (b *Builder) checkPos(pos int) bool {
	if pos < 0 || pos > len(b.sql) {
		b.AddError(errors.Errorf("position %d out of range (length %d)", pos, len(b.sql)))
		return false
	}
	return true
}

// Splice replaces every case-insensitive occurrence of keyword with prefix
// followed by the text of other, merging the parameters of other once. An
// empty other removes the keyword without adding the prefix. It reports
// whether keyword occurs in b.
func (b *Builder) Splice(keyword, prefix string, other *Builder) bool {
	if keyword == "" || indexFold(b.sql, keyword) < 0 {
		return false
	}
	var text string
	if other != nil {
		b.errors = append(b.errors, other.errors...)
		if !other.IsEmpty() {
			sql, ok := b.merge(other.params, other.sql)
			if !ok {
				return true
			}
			text = prefix + sql
		}
	}

	var out strings.Builder
	rest := b.sql
	for {
		i := indexFold(rest, keyword)
		if i < 0 {
			break
		}
		out.WriteString(rest[:i])
		out.WriteString(text)
		rest = rest[i+len(keyword):]
	}
	out.WriteString(rest)
	b.sql = out.String()
	return true
}

// IndexOf returns the byte offset of the first case-insensitive occurrence
// of keyword, or -1.
func (b *Builder) IndexOf(keyword string) int {
	return indexFold(b.sql, keyword)
}

// TrimEnd removes trailing whitespace.
func (b *Builder) TrimEnd() *Builder {
	b.sql = strings.TrimRightFunc(b.sql, unicode.IsSpace)
	return b
}

// IsEmpty reports whether the fragment has no text other than whitespace.
func (b *Builder) IsEmpty() bool {
	return b == nil || strings.TrimSpace(b.sql) == ""
}

// Len returns the length of the text in bytes.
func (b *Builder) Len() int { return len(b.sql) }

// String returns the rendered text.
func (b *Builder) String() string { return b.sql }

// Params returns the registry of the fragment. It must not be modified.
func (b *Builder) Params() *params.Registry { return b.params }

// Clone returns an independent copy of b.
func (b *Builder) Clone() *Builder {
	c := &Builder{sql: b.sql, params: b.params.Clone(), parse: b.parse}
	c.errors = append(c.errors, b.errors...)
	return c
}

// Statement returns the text and parameters of the fragment for execution.
func (b *Builder) Statement() (Statement, error) {
	if err := b.Err(); err != nil {
		return Statement{}, err
	}
	return Statement{SQL: b.sql, Params: b.params.Clone()}, nil
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}

func indexFold(s, sub string) int {
	if sub == "" {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(sub)], sub) {
			return i
		}
	}
	return -1
}
