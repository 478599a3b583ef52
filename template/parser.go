package template

import (
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/sqlinterp/cache"
	"github.com/Konsultn-Engineering/sqlinterp/internal/debug"
)

// Template is a tokenized template.
type Template struct {
	Source string
	Tokens []Token
	// Slots is the number of slot tokens.
	Slots int
	// MaxIndex is the highest argument index referenced, -1 if none.
	MaxIndex int
}

// Parser tokenizes templates and memoizes the result by source text.
type Parser struct {
	cache *cache.LRU[string, *Template]
}

// NewParser creates a parser with an LRU of the given size.
func NewParser(cacheSize int) *Parser {
	return &Parser{cache: cache.New[string, *Template](cacheSize)}
}

var defaultParser = NewParser(cache.DefaultSize)

// Parse tokenizes src using the package-level cached parser.
func Parse(src string) (*Template, error) {
	return defaultParser.Parse(src)
}

// Parse tokenizes src. Returned templates are shared and must not be mutated.
func (p *Parser) Parse(src string) (*Template, error) {
	if src == "" {
		return &Template{MaxIndex: -1}, nil
	}
	if tpl, ok := p.cache.Get(src); ok {
		debug.Debug("template cache hit", "len", len(src))
		return tpl, nil
	}
	tpl, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p.cache.Set(src, tpl)
	debug.Debug("template parsed", "len", len(src), "slots", tpl.Slots)
	return tpl, nil
}

// Stats exposes the parse cache counters.
func (p *Parser) Stats() cache.Stats {
	return p.cache.Stats()
}

func tokenize(src string) (*Template, error) {
	tpl := &Template{Source: src, MaxIndex: -1}
	var lit strings.Builder
	litStart := 0

	flush := func() {
		if lit.Len() > 0 {
			tpl.Tokens = append(tpl.Tokens, Token{Kind: KindLiteral, Text: lit.String(), Offset: litStart})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				if lit.Len() == 0 {
					litStart = i
				}
				lit.WriteByte('{')
				i += 2
				continue
			}
			end := strings.IndexByte(src[i+1:], '}')
			if end < 0 {
				return nil, newTemplateError(src, i, "unterminated '{'")
			}
			body := src[i+1 : i+1+end]
			if strings.IndexByte(body, '{') >= 0 {
				return nil, newTemplateError(src, i, "nested '{' in slot")
			}
			tok, err := parseSlot(src, i, body)
			if err != nil {
				return nil, err
			}
			flush()
			tpl.Tokens = append(tpl.Tokens, tok)
			tpl.Slots++
			if tok.Index > tpl.MaxIndex {
				tpl.MaxIndex = tok.Index
			}
			i += end + 2
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				if lit.Len() == 0 {
					litStart = i
				}
				lit.WriteByte('}')
				i += 2
				continue
			}
			return nil, newTemplateError(src, i, "unescaped '}'")
		default:
			if lit.Len() == 0 {
				litStart = i
			}
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return tpl, nil
}

func parseSlot(src string, offset int, body string) (Token, error) {
	index, format, _ := strings.Cut(body, ":")
	if index == "" {
		return Token{}, newTemplateError(src, offset, "empty argument index")
	}
	for j := 0; j < len(index); j++ {
		if index[j] < '0' || index[j] > '9' {
			return Token{}, newTemplateError(src, offset, "argument index %q is not a number", index)
		}
	}
	n, err := strconv.Atoi(index)
	if err != nil {
		return Token{}, newTemplateError(src, offset, "argument index %q out of range", index)
	}
	return Token{
		Kind:   KindSlot,
		Index:  n,
		Format: strings.TrimSpace(format),
		Offset: offset,
	}, nil
}

// Bind resolves every slot against args, eagerly and in order.
func (t *Template) Bind(args []any) ([]Part, error) {
	if t.MaxIndex >= len(args) {
		for _, tok := range t.Tokens {
			if tok.Kind == KindSlot && tok.Index >= len(args) {
				return nil, newTemplateError(t.Source, tok.Offset,
					"argument index %d out of range (%d arguments)", tok.Index, len(args))
			}
		}
	}
	parts := make([]Part, 0, len(t.Tokens))
	for _, tok := range t.Tokens {
		if tok.Kind == KindLiteral {
			parts = append(parts, Part{Text: tok.Text})
			continue
		}
		parts = append(parts, Part{Slot: &Slot{
			Index:  tok.Index,
			Value:  args[tok.Index],
			Format: tok.Format,
		}})
	}
	return parts, nil
}

// Escape doubles braces so text survives tokenizing as a literal.
func Escape(text string) string {
	if strings.IndexAny(text, "{}") < 0 {
		return text
	}
	r := strings.NewReplacer("{", "{{", "}", "}}")
	return r.Replace(text)
}
