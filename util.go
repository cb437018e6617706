package sax

// IsWhitespace returns true for space, tab, line feed and carriage return.
func IsWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// IsNameStart returns true when c can start an element, attribute, entity or processing instruction name.
// Bytes above 0x7F are accepted so that non-ASCII names pass through unchanged.
func IsNameStart(c byte) bool {
	return isLetter(c) || c == '_' || c == ':' || c >= 0x80
}

// IsNameChar returns true when c can continue a name.
func IsNameChar(c byte) bool {
	return IsNameStart(c) || isDigit(c) || c == '-' || c == '.'
}

// IsName returns true when b is a non-empty name.
func IsName(b []byte) bool {
	if len(b) == 0 || !IsNameStart(b[0]) {
		return false
	}
	for _, c := range b[1:] {
		if !IsNameChar(c) {
			return false
		}
	}
	return true
}

// EqualFold returns true when s is equal to targetLower in a case-insensitive way, targetLower must be lowercase ASCII.
func EqualFold(s, targetLower []byte) bool {
	if len(s) != len(targetLower) {
		return false
	}
	for i, c := range targetLower {
		d := s[i]
		if d != c && (d < 'A' || d > 'Z' || d+('a'-'A') != c) {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsHexDigit returns true for 0-9, a-f and A-F.
func IsHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// IsDigit returns true for 0-9.
func IsDigit(c byte) bool {
	return isDigit(c)
}
