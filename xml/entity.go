package xml

import (
	sax "github.com/meiqinyan/SimpleSaxParser"
)

// enterEntity is called after '&' and appends the character the reference stands for to v.
func (s *session) enterEntity(v *value) error {
	c, err := s.nextInRef()
	if err != nil {
		return err
	} else if c == ';' {
		return s.fail(sax.ErrEmptyRef, "")
	}

	if c == '#' {
		return s.enterCharRef(v)
	} else if !sax.IsNameStart(c) {
		return s.fail(sax.ErrRefSymbol, string([]byte{c}))
	}

	name := []byte{c}
	for {
		if c, err = s.nextInRef(); err != nil {
			return err
		} else if c == ';' {
			break
		} else if !sax.IsNameChar(c) {
			return s.fail(sax.ErrMissingSemi, string(name))
		} else if len(name) == sax.MaxRefLen {
			return s.fail(sax.ErrRefSymbol, string(name))
		}
		name = append(name, c)
	}

	ch, ok := sax.PredefinedEntity(name)
	if !ok {
		return s.fail(sax.ErrUnknownEntity, string(name))
	}
	v.add(ch)
	return nil
}

// enterCharRef is called after '&#'.
func (s *session) enterCharRef(v *value) error {
	c, err := s.nextInRef()
	if err != nil {
		return err
	}
	hex := c == 'x'
	if hex {
		if c, err = s.nextInRef(); err != nil {
			return err
		}
	}

	var digits []byte
	for c != ';' {
		if sax.IsDigit(c) || hex && sax.IsHexDigit(c) {
			if len(digits) == sax.MaxRefLen {
				return s.fail(sax.ErrRefSymbol, "#"+string(digits))
			}
			digits = append(digits, c)
		} else if sax.IsNameChar(c) || c == '#' {
			return s.fail(sax.ErrRefSymbol, "#"+string(digits)+string([]byte{c}))
		} else {
			return s.fail(sax.ErrMissingSemi, "#"+string(digits))
		}
		if c, err = s.nextInRef(); err != nil {
			return err
		}
	}

	r, ok := sax.CharRef(digits, hex)
	if !ok {
		return s.fail(sax.ErrRefSymbol, "#"+string(digits))
	}
	v.addRune(r)
	return nil
}

// nextInRef returns the next character of a reference, the end of the input means the ';' is missing.
func (s *session) nextInRef() (byte, error) {
	c, err := s.next()
	return c, sax.Substitute(err, sax.ErrEOF, sax.ErrMissingSemi)
}
