// Package sax contains the character source, position tracking, encoding detection and error taxonomy shared by the streaming XML parser in its xml subpackage.
package sax // import "github.com/meiqinyan/SimpleSaxParser"

// MaxRefLen is the maximum length of an entity or character reference between '&' and ';'.
const MaxRefLen = 64

// PredefinedEntity returns the character a predefined entity name stands for.
func PredefinedEntity(name []byte) (byte, bool) {
	switch string(name) {
	case "lt":
		return '<', true
	case "gt":
		return '>', true
	case "amp":
		return '&', true
	case "apos":
		return '\'', true
	case "quot":
		return '"', true
	}
	return 0, false
}

// CharRef parses the digits of a decimal or hexadecimal character reference, that is the part after '&#' or '&#x'. It returns false when the digits are invalid or do not denote an XML character.
func CharRef(digits []byte, hex bool) (rune, bool) {
	if len(digits) == 0 {
		return 0, false
	}
	var r rune
	for _, c := range digits {
		var d rune
		switch {
		case isDigit(c):
			d = rune(c - '0')
		case hex && 'a' <= c && c <= 'f':
			d = rune(c-'a') + 10
		case hex && 'A' <= c && c <= 'F':
			d = rune(c-'A') + 10
		default:
			return 0, false
		}
		if hex {
			r = r*16 + d
		} else {
			r = r*10 + d
		}
		if r > 0x10FFFF {
			return 0, false
		}
	}
	return r, IsXMLChar(r)
}

// IsXMLChar reports whether r is a valid XML 1.0 character.
func IsXMLChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}
