// Package template tokenizes parameterized SQL templates.
//
// A template is literal text containing positional slots:
//
//	SELECT * FROM t WHERE a <= {0} AND b = {1:nvarchar(50)}
//
// {N} refers to the N-th (zero-based) argument, an optional ":format" suffix
// is passed through untouched for the parameter mapper, and "{{" / "}}" are
// escaped braces. Tokens depend only on the template text, so they can be
// cached and bound to different argument lists.
package template

// Kind distinguishes literal text from argument slots.
type Kind int

const (
	KindLiteral Kind = iota
	KindSlot
)

// Token is one lexical unit of a template.
type Token struct {
	Kind   Kind
	Text   string // unescaped literal text
	Index  int    // argument index, slots only
	Format string // format annotation without the colon, slots only
	Offset int    // byte offset of the token in the source
}

// Slot is a token resolved against an argument list.
type Slot struct {
	Index  int
	Value  any
	Format string
}

// Part is either literal text or a bound slot.
type Part struct {
	Text string
	Slot *Slot
}

// IsSlot reports whether the part carries an argument.
func (p Part) IsSlot() bool { return p.Slot != nil }
