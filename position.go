package sax

import "strconv"

// Pos is a line and column position in the input. Line starts at 1, Column is the number of characters consumed on the current line, so the last consumed character sits at Column.
// It only treats \n, \r, and \r\n as newlines, which might be different from some languages also recognizing \f, \u2028, and \u2029 to be newlines.
type Pos struct {
	Line   int
	Column int

	cr bool // last character was \r, so a following \n does not start another line
}

// StartPos is the position before the first character.
var StartPos = Pos{Line: 1}

// Advance returns the position after consuming c.
func (p Pos) Advance(c byte) Pos {
	if c == '\n' {
		if !p.cr {
			p.Line++
		}
		p.Column = 0
		p.cr = false
	} else if c == '\r' {
		p.Line++
		p.Column = 0
		p.cr = true
	} else {
		p.Column++
		p.cr = false
	}
	return p
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}
