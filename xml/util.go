package xml

import "strings"

var escapes = [256]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'\'': "&apos;",
	'"':  "&quot;",
}

// attribute values are whitespace normalized on parsing, only references keep these
var whitespaceRefs = [256]string{
	'\t': "&#9;",
	'\n': "&#10;",
	'\r': "&#13;",
}

// Escape replaces the five characters with a predefined entity by their reference, so that the result parses back to s.
func Escape(s string) string {
	i := 0
	for i < len(s) && escapes[s[i]] == "" {
		i++
	}
	if i == len(s) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 8)
	sb.WriteString(s[:i])
	for ; i < len(s); i++ {
		if e := escapes[s[i]]; e != "" {
			sb.WriteString(e)
		} else {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// EscapeAttrVal returns the quoted attribute value. It uses the quote that needs no escaping when possible and escapes '&' and '<' always, as well as tab, newline and carriage return.
func EscapeAttrVal(s string) string {
	quote := byte('"')
	if strings.IndexByte(s, '"') != -1 && strings.IndexByte(s, '\'') == -1 {
		quote = '\''
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '&', '<':
			sb.WriteString(escapes[c])
		case quote:
			sb.WriteString(escapes[c])
		case '\t', '\n', '\r':
			sb.WriteString(whitespaceRefs[c])
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte(quote)
	return sb.String()
}
