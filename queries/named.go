package queries

import "strings"

// compileNamed rewrites :name placeholders into positional "?" markers and
// returns the placeholder names in order. Quoted literals and "::" casts
// are left untouched.
func compileNamed(template string) (string, []string) {
	var (
		out   strings.Builder
		names []string
		quote byte
	)
	out.Grow(len(template))

	for i := 0; i < len(template); i++ {
		ch := template[i]

		if quote != 0 {
			out.WriteByte(ch)
			if ch == quote {
				quote = 0
			}
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			quote = ch
			out.WriteByte(ch)
		case ch == ':' && i+1 < len(template) && template[i+1] == ':':
			out.WriteString("::")
			i++
		case ch == ':' && i+1 < len(template) && isNameStart(template[i+1]):
			j := i + 1
			for j < len(template) && isNamePart(template[j]) {
				j++
			}
			names = append(names, template[i+1:j])
			out.WriteByte('?')
			i = j - 1
		default:
			out.WriteByte(ch)
		}
	}
	return out.String(), names
}

func isNameStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isNamePart(ch byte) bool {
	return isNameStart(ch) || (ch >= '0' && ch <= '9')
}
