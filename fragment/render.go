// Package fragment composes SQL text from parameterized templates.
//
// A fragment is rendered SQL with @name parameter references plus the
// registry holding those parameters. Fragments are rendered as soon as they
// are created and combined by merging registries, so a parameter name is
// unique within any fragment built from others.
package fragment

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Konsultn-Engineering/sqlinterp/params"
	"github.com/Konsultn-Engineering/sqlinterp/template"
)

// Render parses tmpl, binds args and returns the SQL text together with a
// new registry of the generated parameters, named p0, p1, ... in order of
// appearance.
func Render(tmpl string, args ...any) (string, *params.Registry, error) {
	reg := params.NewRegistry()
	sql, err := render(template.Parse, reg, tmpl, args)
	if err != nil {
		return "", nil, err
	}
	return sql, reg, nil
}

type parseFunc func(src string) (*template.Template, error)

// render writes the parameters of tmpl into reg and returns the SQL text.
func render(parse parseFunc, reg *params.Registry, tmpl string, args []any) (string, error) {
	if tmpl == "" {
		return "", nil
	}
	tpl, err := parse(tmpl)
	if err != nil {
		return "", err
	}
	if tpl.Slots == 0 {
		return tpl.Tokens[0].Text, nil
	}
	parts, err := tpl.Bind(args)
	if err != nil {
		return "", err
	}

	texts := make([]string, len(parts))
	for i, part := range parts {
		if !part.IsSlot() {
			texts[i] = part.Text
		}
	}
	for i, part := range parts {
		if !part.IsSlot() {
			continue
		}
		text, err := params.Map(reg, part.Slot.Value, part.Slot.Format)
		if err != nil {
			return "", errors.Wrapf(err, "argument %d", part.Slot.Index)
		}
		if !params.IsRaw(part.Slot.Format) && quoted(parts, texts, i) {
			texts[i-1] = texts[i-1][:len(texts[i-1])-1]
			texts[i+1] = texts[i+1][1:]
		}
		texts[i] = text
	}
	return strings.Join(texts, ""), nil
}

// quoted reports whether the slot at i sits between a literal ending in a
// single quote and a literal starting with one, as in '{0}'.
func quoted(parts []template.Part, texts []string, i int) bool {
	if i == 0 || i+1 >= len(parts) || parts[i-1].IsSlot() || parts[i+1].IsSlot() {
		return false
	}
	return strings.HasSuffix(texts[i-1], "'") && strings.HasPrefix(texts[i+1], "'")
}
