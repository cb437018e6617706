package xml

import (
	sax "github.com/meiqinyan/SimpleSaxParser"
)

type attr struct {
	name, value string
}

// enterOpenElement is called after '<' and the first character c of the element name.
func (s *session) enterOpenElement(c byte) error {
	name, err := s.readName(c)
	if err != nil {
		return err
	}

	s.attrs = s.attrs[:0]
	for {
		ws, err := s.skipWhitespace()
		if err != nil {
			return err
		}
		c, err := s.next()
		if err != nil {
			return err
		}
		switch {
		case c == '>':
			return s.openElement(name, false)
		case c == '/':
			if c, err = s.next(); err != nil {
				return err
			} else if c == '>' {
				return s.openElement(name, true)
			} else if sax.IsWhitespace(c) {
				return s.fail(sax.ErrWhitespaceClose, name)
			}
			return s.fail(sax.ErrInvalidFormat, name)
		case sax.IsNameStart(c):
			if !ws {
				return s.fail(sax.ErrAttrDescr, name)
			}
			a, err := s.enterAttribute(c)
			if err != nil {
				return err
			}
			for _, b := range s.attrs {
				if b.name == a.name {
					return s.fail(sax.ErrDuplicateAttribute, a.name)
				}
			}
			s.attrs = append(s.attrs, a)
		case len(s.attrs) == 0 && !ws:
			return s.fail(sax.ErrElementName, name+string([]byte{c}))
		default:
			return s.fail(sax.ErrAttrName, string([]byte{c}))
		}
	}
}

// openElement reports a complete start tag with the collected attributes.
func (s *session) openElement(name string, single bool) error {
	if err := s.h.OpenTag(); err != nil {
		return err
	}
	if single {
		if err := s.h.CloseSingleElement(name); err != nil {
			return err
		}
	} else if err := s.h.ElementBegin(name); err != nil {
		return err
	}
	for _, a := range s.attrs {
		if err := s.h.Attribute(a.name, a.value); err != nil {
			return err
		}
	}
	if err := s.h.CloseTag(); err != nil {
		return err
	}

	if !single {
		s.stack.Push(name)
		s.state = rootState
	} else if s.stack.IsEmpty() {
		s.state = epilogState
	}
	return nil
}

// enterClosingElement is called after '</'.
func (s *session) enterClosingElement() error {
	c, err := s.next()
	if err != nil {
		return err
	} else if sax.IsWhitespace(c) {
		return s.fail(sax.ErrWhitespaceClose, "")
	} else if !sax.IsNameStart(c) {
		return s.fail(sax.ErrElementName, string([]byte{c}))
	}
	name, err := s.readName(c)
	if err != nil {
		return err
	}
	if _, err := s.skipWhitespace(); err != nil {
		return err
	}
	if c, err = s.next(); err != nil {
		return err
	} else if c != '>' {
		return s.fail(sax.ErrElementName, name)
	}

	top, ok := s.stack.Peek()
	if !ok {
		return s.fail(sax.ErrMissingClosing, name)
	} else if top != name {
		return s.fail(sax.ErrMatch, "</"+name+"> does not close <"+top+">")
	}
	s.stack.Pop()

	if err := s.h.OpenTag(); err != nil {
		return err
	}
	if err := s.h.ElementEnd(name); err != nil {
		return err
	}
	if err := s.h.CloseTag(); err != nil {
		return err
	}
	if s.stack.IsEmpty() {
		s.state = epilogState
	}
	return nil
}

// enterAttribute is called with the first character c of the attribute name.
func (s *session) enterAttribute(c byte) (attr, error) {
	name, err := s.readName(c)
	if err != nil {
		return attr{}, err
	}
	if _, err := s.skipWhitespace(); err != nil {
		return attr{}, err
	}
	if c, err = s.next(); err != nil {
		return attr{}, err
	} else if c != '=' {
		return attr{}, s.fail(sax.ErrAttrDescr, name)
	}
	if _, err := s.skipWhitespace(); err != nil {
		return attr{}, err
	}
	quote, err := s.next()
	if err != nil {
		return attr{}, err
	} else if quote != '"' && quote != '\'' {
		return attr{}, s.fail(sax.ErrMissingQuote, name)
	}

	v := s.newValue(true)
	for {
		c, err := s.next()
		if err != nil {
			return attr{}, sax.Substitute(err, sax.ErrEOF, sax.ErrMissingQuote)
		}
		switch c {
		case quote:
			return attr{name, v.String()}, nil
		case '<':
			return attr{}, s.fail(sax.ErrAttrDescr, name)
		case '&':
			if err := s.enterEntity(&v); err != nil {
				return attr{}, err
			}
		case '\r':
			// \r\n is a single line break, normalized like the others
			c, err := s.next()
			if err != nil {
				return attr{}, sax.Substitute(err, sax.ErrEOF, sax.ErrMissingQuote)
			} else if c != '\n' {
				s.src.Unread(c)
			}
			v.add(' ')
		case '\t', '\n':
			v.add(' ')
		default:
			v.add(c)
		}
		if v.exceeds() {
			return attr{}, s.fail(sax.ErrTooBigValue, name)
		}
	}
}
