package transcript

import (
	"encoding/json"
	"regexp"
	"strings"
)

var callExprRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s*\((.*)\)\s*$`)

// ParseCallExpression recognizes argument text written as a call expression,
// e.g. `search(query="outage", limit=5)`, and converts it to a JSON object
// keyed by argument name. Returns ok=false for anything it cannot fully
// account for; callers fall back to the raw text.
func ParseCallExpression(s string) (name string, args string, ok bool) {
	m := callExprRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	name = m[1]

	fields, ok := splitArgList(m[2])
	if !ok {
		return "", "", false
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, f := range fields {
		eq := strings.Index(f, "=")
		if eq <= 0 {
			return "", "", false
		}
		key := strings.TrimSpace(f[:eq])
		val := strings.TrimSpace(f[eq+1:])
		if key == "" || val == "" {
			return "", "", false
		}
		if i > 0 {
			b.WriteByte(',')
		}
		kb, _ := json.Marshal(key)
		b.Write(kb)
		b.WriteByte(':')
		b.WriteString(normalizeValue(val))
	}
	b.WriteByte('}')
	return name, b.String(), true
}

// splitArgList splits a comma-separated argument list, respecting quotes
// and bracket nesting so values like lists or quoted strings with commas
// survive intact.
func splitArgList(s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}

	var fields []string
	depth := 0
	var quote byte
	start := 0
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case quote != 0:
			if c == '\\' {
				escaped = true
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth < 0 {
				return nil, false
			}
		case c == ',' && depth == 0:
			fields = append(fields, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, false
	}
	fields = append(fields, s[start:])
	return fields, true
}

// normalizeValue turns one argument value into valid JSON: single-quoted
// strings become double-quoted, bare words become strings, and anything
// already valid JSON passes through.
func normalizeValue(v string) string {
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		inner := strings.ReplaceAll(v[1:len(v)-1], `\'`, `'`)
		b, _ := json.Marshal(inner)
		return string(b)
	}
	if json.Valid([]byte(v)) {
		return v
	}
	b, _ := json.Marshal(v)
	return string(b)
}
