package params

import "strings"

// isNameByte reports whether c can continue a parameter name.
func isNameByte(c byte) bool {
	return c == '_' || c == '$' || c == '#' ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// scan walks sql and calls fn for every parameter reference outside quoted
// literals and comments, with the byte range of the name (marker excluded).
// "@@" variables are not references. A quote without its closing quote is
// ordinary text, so partial fragments scan the same as whole statements.
func scan(sql string, fn func(start, end int)) {
	for i := 0; i < len(sql); {
		c := sql[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			if end := closingQuote(sql, i+1, c); end > 0 {
				i = end + 1
				continue
			}
			i++
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			nl := strings.IndexByte(sql[i:], '\n')
			if nl < 0 {
				return
			}
			i += nl + 1
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				i++
				continue
			}
			i += end + 4
		case c == Marker:
			if i+1 < len(sql) && sql[i+1] == Marker {
				i += 2
				for i < len(sql) && isNameByte(sql[i]) {
					i++
				}
				continue
			}
			j := i + 1
			for j < len(sql) && isNameByte(sql[j]) {
				j++
			}
			if j > i+1 {
				fn(i+1, j)
			}
			i = j
		default:
			i++
		}
	}
}

// closingQuote returns the index of the quote that closes a literal opened
// before from, skipping doubled quotes, or -1.
func closingQuote(sql string, from int, quote byte) int {
	for i := from; i < len(sql); i++ {
		if sql[i] != quote {
			continue
		}
		if i+1 < len(sql) && sql[i+1] == quote {
			i++
			continue
		}
		return i
	}
	return -1
}

// ScanNames returns the parameter names referenced by sql in order of
// appearance, duplicates included.
func ScanNames(sql string) []string {
	var names []string
	scan(sql, func(start, end int) {
		names = append(names, sql[start:end])
	})
	return names
}

// RewriteNames replaces parameter references in one pass. Keys of renames
// are lower-case old names. A reference is only replaced as a whole token, so
// renaming p1 leaves @p10 alone.
func RewriteNames(sql string, renames map[string]string) string {
	if len(renames) == 0 {
		return sql
	}
	var b strings.Builder
	last := 0
	scan(sql, func(start, end int) {
		repl, ok := renames[strings.ToLower(sql[start:end])]
		if !ok {
			return
		}
		b.WriteString(sql[last:start])
		b.WriteString(repl)
		last = end
	})
	if last == 0 {
		return sql
	}
	b.WriteString(sql[last:])
	return b.String()
}
