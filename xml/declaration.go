package xml

import (
	sax "github.com/meiqinyan/SimpleSaxParser"
)

type declaration struct {
	version, encoding, standalone string
}

// enterDeclaration is called after '<?xml' at the very start of the document.
func (s *session) enterDeclaration() error {
	d, err := s.scanDeclaration()
	if err != nil {
		return sax.Substitute(err, sax.ErrEOF, sax.ErrDeclarationClose)
	}
	if d.encoding != "" {
		if err := s.declareEncoding(d.encoding); err != nil {
			return err
		}
	}
	return s.h.Declaration(d.version, d.encoding, d.standalone)
}

func (s *session) scanDeclaration() (declaration, error) {
	d := declaration{}
	n := 0 // pseudo-attributes read, in the order version, encoding, standalone
	for {
		ws, err := s.skipWhitespace()
		if err != nil {
			return d, err
		}
		c, err := s.next()
		if err != nil {
			return d, err
		}
		if c == '?' {
			if c, err = s.next(); err != nil {
				return d, err
			} else if c != '>' {
				return d, s.fail(sax.ErrDeclarationClose, "")
			}
			break
		} else if c == '>' {
			return d, s.fail(sax.ErrDeclarationClose, "")
		} else if !sax.IsNameStart(c) {
			return d, s.fail(sax.ErrInvalidDecl, string([]byte{c}))
		} else if !ws {
			return d, s.fail(sax.ErrInvalidDecl, "missing whitespace")
		}

		name, val, err := s.scanPseudoAttribute(c)
		if err != nil {
			return d, err
		}
		switch {
		case n == 0:
			if name != "version" {
				return d, s.fail(sax.ErrVersion, name)
			} else if !validVersion(val) {
				return d, s.fail(sax.ErrVersion, val)
			}
			d.version = val
			n = 1
		case name == "encoding" && n == 1:
			if !sax.IsEncodingName([]byte(val)) {
				return d, s.fail(sax.ErrEncoding, val)
			}
			d.encoding = val
			n = 2
		case name == "standalone" && n < 3:
			if val != "yes" && val != "no" {
				return d, s.fail(sax.ErrInvalidDecl, "standalone="+val)
			}
			d.standalone = val
			n = 3
		default:
			return d, s.fail(sax.ErrInvalidDecl, name)
		}
	}
	if n == 0 {
		return d, s.fail(sax.ErrVersion, "")
	}
	return d, nil
}

// scanPseudoAttribute reads name="value" or name='value' of which the first character c was already consumed.
func (s *session) scanPseudoAttribute(c byte) (string, string, error) {
	name, err := s.readName(c)
	if err != nil {
		return "", "", err
	}
	if _, err := s.skipWhitespace(); err != nil {
		return "", "", err
	}
	if c, err = s.next(); err != nil {
		return "", "", err
	} else if c != '=' {
		return "", "", s.fail(sax.ErrInvalidDecl, name)
	}
	if _, err := s.skipWhitespace(); err != nil {
		return "", "", err
	}
	quote, err := s.next()
	if err != nil {
		return "", "", err
	} else if quote != '"' && quote != '\'' {
		return "", "", s.fail(sax.ErrInvalidDecl, name)
	}

	var val []byte
	for {
		if c, err = s.next(); err != nil {
			return "", "", err
		} else if c == quote {
			return name, string(val), nil
		} else if c == '<' || c == '>' || c == '&' || len(val) == sax.MaxRefLen {
			return "", "", s.fail(sax.ErrInvalidDecl, name)
		}
		val = append(val, c)
	}
}

// validVersion reports whether v is of the form 1.<digits>.
func validVersion(v string) bool {
	if len(v) < 3 || v[0] != '1' || v[1] != '.' {
		return false
	}
	for i := 2; i < len(v); i++ {
		if !sax.IsDigit(v[i]) {
			return false
		}
	}
	return true
}

// declareEncoding applies the encoding named by the declaration. A byte order mark and an explicit UTF-8 hint take precedence.
func (s *session) declareEncoding(name string) error {
	enc, cm, code := sax.LookupEncoding(name)
	if code != 0 {
		return s.fail(code, name)
	}
	if s.bom {
		if enc != sax.EncodingUTF8 {
			return s.fail(sax.ErrEncoding, name)
		}
		return nil
	} else if s.hint == sax.EncodingUTF8 {
		return nil
	}
	s.charset = cm
	return nil
}
