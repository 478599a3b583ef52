package params

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultStringSize is the size given to variable-length types without an
// explicit size, as in {0:nvarchar} or {0:nvarchar()}.
const DefaultStringSize = 4000

// RawFormat splices the value's text into the SQL without a parameter.
// The value is not escaped.
const RawFormat = "raw"

// FormatSpec is a parsed slot annotation.
//
//	""                no type information; the driver infers it
//	"raw"             the value's text is spliced verbatim
//	"nvarchar"        String, Size = DefaultStringSize
//	"nvarchar(50)"    String, Size = 50
//	"nvarchar(max)"   String, Size = -1
//	"char"            AnsiStringFixedLength, Size = length of the value's text
//	"decimal(18,2)"   Decimal, Precision = 18, Scale = 2
type FormatSpec struct {
	Source    string
	Raw       bool
	DbType    DbType
	Size      int
	Precision int
	Scale     int

	sizeFromValue bool
}

// ParseFormat parses a slot annotation.
func ParseFormat(spec string) (FormatSpec, error) {
	spec = strings.TrimSpace(spec)
	f := FormatSpec{Source: spec}
	if spec == "" {
		return f, nil
	}
	if IsRaw(spec) {
		f.Raw = true
		return f, nil
	}

	name, args, hasArgs := spec, "", false
	if open := strings.IndexByte(spec, '('); open >= 0 {
		if !strings.HasSuffix(spec, ")") {
			return f, formatSpecError(spec, "missing ')'")
		}
		name = strings.TrimSpace(spec[:open])
		args = strings.TrimSpace(spec[open+1 : len(spec)-1])
		hasArgs = args != ""
	}

	info, ok := lookupType(name)
	if !ok {
		return f, formatSpecError(spec, "unknown type %q", name)
	}
	f.DbType = info.dbType

	switch info.size {
	case sizeVariable:
		f.Size = DefaultStringSize
		if hasArgs {
			n, err := parseSize(spec, args)
			if err != nil {
				return f, err
			}
			f.Size = n
		}
	case sizeFixed:
		if !hasArgs {
			f.sizeFromValue = true
			break
		}
		n, err := parseSize(spec, args)
		if err != nil {
			return f, err
		}
		f.Size = n
	case sizePrecision:
		if !hasArgs {
			break
		}
		p, s, hasScale := strings.Cut(args, ",")
		prec, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || prec <= 0 {
			return f, formatSpecError(spec, "invalid precision %q", p)
		}
		f.Precision = prec
		if hasScale {
			scale, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil || scale < 0 || scale > prec {
				return f, formatSpecError(spec, "invalid scale %q", s)
			}
			f.Scale = scale
		}
	default:
		if hasArgs {
			return f, formatSpecError(spec, "type %q takes no size", name)
		}
	}
	return f, nil
}

func parseSize(spec, args string) (int, error) {
	if strings.EqualFold(args, "max") {
		return -1, nil
	}
	n, err := strconv.Atoi(args)
	if err != nil || n <= 0 {
		return 0, formatSpecError(spec, "invalid size %q", args)
	}
	return n, nil
}

// Apply copies the type information onto p. A spec without type
// information leaves p untouched.
func (f FormatSpec) Apply(p *Parameter) error {
	if f.DbType == DbTypeUnset {
		return nil
	}
	p.DbType = f.DbType
	p.Size = f.Size
	p.Precision = f.Precision
	p.Scale = f.Scale
	if f.sizeFromValue {
		p.Size = valueLength(p.Value)
	}
	if f.DbType == Guid {
		if s, ok := p.Value.(string); ok {
			id, err := uuid.Parse(s)
			if err != nil {
				return formatSpecError(f.Source, "value %q is not a uuid", s)
			}
			p.Value = id
		}
	}
	return nil
}

// valueLength is the length of a fixed-length value: bytes for binary
// values, characters otherwise.
func valueLength(value any) int {
	if b, ok := value.([]byte); ok {
		return len(b)
	}
	return utf8.RuneCountInString(Text(value))
}

// Text renders a value the way the raw format splices it.
func Text(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case *Parameter:
		return Text(v.Value)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// Sequence returns the elements of a slice or array argument. Byte slices,
// driver.Valuer implementations and parameters are scalars.
func Sequence(value any) ([]any, bool) {
	switch value.(type) {
	case nil, []byte, driver.Valuer, *Parameter:
		return nil, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	elems := make([]any, rv.Len())
	for i := range elems {
		elems[i] = rv.Index(i).Interface()
	}
	return elems, true
}

// IsRaw reports whether a slot annotation is the raw format.
func IsRaw(format string) bool {
	return strings.EqualFold(strings.TrimSpace(format), RawFormat)
}
