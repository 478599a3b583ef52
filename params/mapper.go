package params

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Map turns one slot value into SQL text, registering the parameters it
// needs in reg. format is the slot annotation.
//
// Scalars become a single reference such as @p0, sequences become a
// parenthesized list such as (@parray01,@parray02), and the raw format
// returns the value's text without registering anything. A *Parameter value
// is how output parameters are passed; a copy of it is registered, so the
// caller's parameter keeps its name and type.
func Map(reg *Registry, value any, format string) (string, error) {
	spec, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	if spec.Raw {
		return Text(value), nil
	}
	if elems, ok := Sequence(value); ok {
		return mapSequence(reg, elems, spec)
	}

	p := asParameter(value)
	if err := spec.Apply(p); err != nil {
		return "", err
	}
	name, err := reg.Add(p)
	if err != nil {
		return "", err
	}
	return string(Marker) + name, nil
}

func asParameter(value any) *Parameter {
	if p, ok := value.(*Parameter); ok && p != nil {
		return p.clone()
	}
	return NewParameter("", value)
}

func mapSequence(reg *Registry, elems []any, spec FormatSpec) (string, error) {
	if len(elems) == 0 {
		return "", errors.Wrap(ErrArrayArgument, "empty sequence")
	}
	base, err := reg.NextArray()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteByte('(')
	for i, v := range elems {
		if _, nested := Sequence(v); nested {
			return "", errors.Wrapf(ErrArrayArgument, "element %d is a sequence", i)
		}
		p := asParameter(v)
		if p.Name == "" {
			p.Name = base + strconv.Itoa(i+1)
		}
		if err := spec.Apply(p); err != nil {
			return "", err
		}
		name, err := reg.Add(p)
		if err != nil {
			return "", err
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(Marker)
		b.WriteString(name)
	}
	b.WriteByte(')')
	return b.String(), nil
}
