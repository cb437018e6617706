package xml

import (
	sax "github.com/meiqinyan/SimpleSaxParser"
)

var (
	xmlBytes   = []byte("xml")
	cdataBytes = []byte("CDATA[")
)

// enterComment is called after '<!-'.
func (s *session) enterComment() error {
	text, err := s.scanComment()
	if err != nil {
		return sax.Substitute(err, sax.ErrEOF, sax.ErrCommentClose)
	}
	return s.h.Comment(text)
}

func (s *session) scanComment() (string, error) {
	if c, err := s.next(); err != nil {
		return "", err
	} else if c != '-' {
		return "", s.fail(sax.ErrComment, "")
	}

	v := s.newValue(true)
	for {
		c, err := s.next()
		if err != nil {
			return "", err
		}
		if c == '-' {
			c2, err := s.next()
			if err != nil {
				return "", err
			} else if c2 == '-' {
				if c3, err := s.next(); err != nil {
					return "", err
				} else if c3 == '>' {
					return v.String(), nil
				}
				return "", s.fail(sax.ErrComment, "--")
			}
			s.src.Unread(c2)
		}
		v.add(c)
		if v.exceeds() {
			return "", s.fail(sax.ErrTooBigValue, "comment")
		}
	}
}

// enterCDATA is called after '<!['.
func (s *session) enterCDATA() error {
	for _, want := range cdataBytes {
		if c, err := s.next(); err != nil {
			return sax.Substitute(err, sax.ErrEOF, sax.ErrCDATA)
		} else if c != want {
			return s.fail(sax.ErrCDATA, "")
		}
	}
	text, err := s.scanCDATA()
	if err != nil {
		return sax.Substitute(err, sax.ErrEOF, sax.ErrCDATAClose)
	}
	return s.h.CDATA(text)
}

func (s *session) scanCDATA() (string, error) {
	v := s.newValue(true)
	for {
		c, err := s.next()
		if err != nil {
			return "", err
		}
		if c == ']' {
			c2, err := s.next()
			if err != nil {
				return "", err
			}
			if c2 == ']' {
				c3, err := s.next()
				if err != nil {
					return "", err
				} else if c3 == '>' {
					return v.String(), nil
				}
				s.src.Unread(c3)
			}
			s.src.Unread(c2)
		}
		v.add(c)
		if v.exceeds() {
			return "", s.fail(sax.ErrTooBigValue, "CDATA")
		}
	}
}

// enterProcessing is called after '<?'.
func (s *session) enterProcessing() error {
	c, err := s.next()
	if err != nil {
		return sax.Substitute(err, sax.ErrEOF, sax.ErrProcessingClose)
	} else if sax.IsWhitespace(c) {
		return s.fail(sax.ErrWhitespaceProcess, "")
	} else if !sax.IsNameStart(c) {
		return s.fail(sax.ErrProcessingName, string([]byte{c}))
	}
	target, err := s.readName(c)
	if err != nil {
		return sax.Substitute(err, sax.ErrEOF, sax.ErrProcessingClose)
	}

	if target == "xml" && !s.headerRead {
		return s.enterDeclaration()
	} else if sax.EqualFold([]byte(target), xmlBytes) {
		return s.fail(sax.ErrReservedName, target)
	}

	body, err := s.scanProcessing(target)
	if err != nil {
		return sax.Substitute(err, sax.ErrEOF, sax.ErrProcessingClose)
	}
	if body != "" {
		target += " " + body
	}
	return s.h.Processing(target)
}

func (s *session) scanProcessing(target string) (string, error) {
	c, err := s.next()
	if err != nil {
		return "", err
	} else if c == '?' {
		if c, err = s.next(); err != nil {
			return "", err
		} else if c != '>' {
			return "", s.fail(sax.ErrProcessingName, target)
		}
		return "", nil
	} else if !sax.IsWhitespace(c) {
		return "", s.fail(sax.ErrProcessingName, target+string([]byte{c}))
	}
	if _, err := s.skipWhitespace(); err != nil {
		return "", err
	}

	v := s.newValue(true)
	for {
		c, err := s.next()
		if err != nil {
			return "", err
		}
		if c == '?' {
			c2, err := s.next()
			if err != nil {
				return "", err
			} else if c2 == '>' {
				return v.String(), nil
			}
			s.src.Unread(c2)
		}
		v.add(c)
		if v.exceeds() {
			return "", s.fail(sax.ErrTooBigValue, target)
		}
	}
}

// enterDTD is called after '<!' and the uppercase letter c.
func (s *session) enterDTD(c byte) error {
	keyword := []byte{c}
	for {
		c, err := s.next()
		if err != nil {
			return err
		}
		if c < 'A' || 'Z' < c {
			s.src.Unread(c)
			break
		}
		keyword = append(keyword, c)
	}

	switch string(keyword) {
	case "DOCTYPE", "ELEMENT", "ATTLIST", "ENTITY", "NOTATION":
		return s.fail(sax.ErrDTDSupport, string(keyword))
	}
	return s.fail(sax.ErrInvalidFormat, "<!"+string(keyword))
}
