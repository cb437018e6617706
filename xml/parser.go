// Package xml is a streaming, validating XML 1.0 parser. It reads a document exactly once and reports its structure to a Handler while enforcing well-formedness; the first malformed construct stops the parse with a *sax.Error.
package xml // import "github.com/meiqinyan/SimpleSaxParser/xml"

import (
	"fmt"
	"io"
	"sync/atomic"
	"unicode/utf8"

	sax "github.com/meiqinyan/SimpleSaxParser"
	"golang.org/x/text/encoding/charmap"
)

// Parser parses XML documents. Its zero value is ready to use and has no value limit.
// A Parser can be reused for consecutive documents but runs only one Parse at a time.
type Parser struct {
	limit   int
	running atomic.Bool
}

// NewParser returns a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// SetLimit sets the maximum length in bytes of a value: texts, attribute values, CDATA sections, comments and processing instruction bodies. Zero means no limit.
func (p *Parser) SetLimit(n int) {
	if n < 0 {
		n = 0
	}
	p.limit = n
}

// Limit returns the maximum length of a value, zero when there is no limit.
func (p *Parser) Limit() int {
	return p.limit
}

// Parse parses a document using a new Parser.
func Parse(r io.Reader, h Handler, enc sax.Encoding) error {
	return NewParser().Parse(r, h, enc)
}

// Parse reads r to the end or to the first error and reports the document to h. The encoding is a hint which is used when the input has no byte order mark; pass sax.EncodingUnknown to autodetect.
// It returns nil only for a well-formed document. Parsing errors are of type *sax.Error, errors returned by h are returned unchanged.
func (p *Parser) Parse(r io.Reader, h Handler, enc sax.Encoding) error {
	if r == nil || h == nil {
		return sax.NewError(sax.ErrInvalidInstance, sax.StartPos, "nil reader or handler")
	}
	if !p.running.CompareAndSwap(false, true) {
		return sax.NewError(sax.ErrInvalidInstance, sax.StartPos, "parser is already running")
	}
	defer p.running.Store(false)

	s := &session{
		src:   sax.NewSource(r),
		h:     h,
		limit: p.limit,
		hint:  enc,
		empty: true,
	}
	return s.parse()
}

////////////////////////////////////////////////////////////////

type state int

const (
	prologState state = iota
	rootState
	epilogState
)

// session is the state of a single Parse call.
type session struct {
	src   *sax.Source
	h     Handler
	limit int

	hint    sax.Encoding
	bom     bool
	charset *charmap.Charmap // decodes bytes above 0x7F of a declared 8-bit encoding

	stack      stack
	attrs      []attr
	state      state
	headerRead bool // anything was read, so a declaration is no longer allowed
	empty      bool // only whitespace was read
}

func (s *session) parse() error {
	if err := s.h.DocumentBegin(); err != nil {
		return err
	}
	if err := s.readSignature(); err != nil {
		return err
	}
	for {
		c, err := s.read()
		if err == io.EOF {
			return s.finish()
		} else if err != nil {
			return err
		}
		if err := s.dispatch(c); err != nil {
			return err
		}
		s.headerRead = true
	}
}

func (s *session) dispatch(c byte) error {
	if c == '<' {
		s.empty = false
		return s.enterMarkup()
	} else if s.state == rootState {
		return s.enterText(c)
	} else if sax.IsWhitespace(c) {
		return nil
	}

	s.empty = false
	if c == '&' {
		if s.state == prologState {
			return s.fail(sax.ErrEntityDocOpen, "")
		}
		return s.fail(sax.ErrRootData, "")
	}
	if s.state == prologState {
		return s.fail(sax.ErrTextBeforeRoot, "")
	}
	return s.fail(sax.ErrTextAfterRoot, "")
}

// finish handles the end of the input.
func (s *session) finish() error {
	switch s.state {
	case prologState:
		if s.empty {
			return s.fail(sax.ErrEmpty, "")
		}
		return s.fail(sax.ErrEOF, "no root element")
	case rootState:
		name, _ := s.stack.Peek()
		return s.fail(sax.ErrMissingClosing, name)
	}
	return s.h.DocumentEnd()
}

func (s *session) readSignature() error {
	sig, first, err := s.src.ReadSignature()
	if err != nil {
		return s.inputError(err)
	}
	switch sig {
	case sax.SignatureUTF8:
		s.bom = true
	case sax.SignatureUTF16:
		return s.fail(sax.ErrEncoding, "UTF-16")
	case sax.SignatureUTF32:
		return s.fail(sax.ErrEncoding32, "UTF-32")
	case sax.SignatureBroken:
		if err := s.h.NotLeadingChar(first); err != nil {
			return err
		}
		return s.fail(sax.ErrInvalidFormat, "byte order mark")
	}
	return nil
}

// enterMarkup is called after '<'.
func (s *session) enterMarkup() error {
	c, err := s.next()
	if err != nil {
		return err
	}
	switch {
	case c == '?':
		return s.enterProcessing()
	case c == '!':
		return s.enterBang()
	case c == '/':
		return s.enterClosingElement()
	case sax.IsWhitespace(c):
		return s.fail(sax.ErrWhitespaceOpen, "")
	case sax.IsNameStart(c):
		if s.state == epilogState {
			name, err := s.readName(c)
			if err != nil {
				return err
			}
			return s.fail(sax.ErrRootClose, name)
		}
		return s.enterOpenElement(c)
	}
	return s.fail(sax.ErrElementName, string([]byte{c}))
}

// enterBang is called after '<!'.
func (s *session) enterBang() error {
	c, err := s.next()
	if err != nil {
		return err
	}
	switch {
	case c == '-':
		return s.enterComment()
	case c == '[':
		if s.state == prologState {
			return s.fail(sax.ErrCDATADocOpen, "")
		} else if s.state == epilogState {
			return s.fail(sax.ErrRootData, "")
		}
		return s.enterCDATA()
	case 'A' <= c && c <= 'Z':
		return s.enterDTD(c)
	}
	if err := s.h.NotLeadingChar(c); err != nil {
		return err
	}
	return s.fail(sax.ErrInvalidFormat, "<!"+string([]byte{c}))
}

// enterText is called with the first character of character data inside the root element.
func (s *session) enterText(c byte) error {
	v := s.newValue(true)
	brackets := 0 // consecutive ']' read, "]]>" may not appear in character data
	for {
		if c == '<' {
			s.src.Unread(c)
			return s.h.Text(v.String())
		} else if c == '&' {
			if err := s.enterEntity(&v); err != nil {
				return err
			}
			brackets = 0
		} else if c == '>' && 1 < brackets {
			return s.fail(sax.ErrInvalidFormat, "]]>")
		} else {
			if c == ']' {
				brackets++
			} else {
				brackets = 0
			}
			v.add(c)
		}
		if v.exceeds() {
			name, _ := s.stack.Peek()
			return s.fail(sax.ErrTooBigValue, name)
		}

		var err error
		if c, err = s.read(); err == io.EOF {
			return s.finish()
		} else if err != nil {
			return err
		}
	}
}

////////////////////////////////////////////////////////////////

func (s *session) fail(code sax.ErrorCode, context string) error {
	return sax.NewError(code, s.src.Pos(), context)
}

func (s *session) inputError(err error) error {
	e := sax.NewError(sax.ErrInputData, s.src.Pos(), "")
	e.Err = err
	return e
}

// read returns the next character and passes io.EOF through. Control characters other than whitespace are not XML characters.
func (s *session) read() (byte, error) {
	c, err := s.src.Next()
	if err != nil {
		if err != io.EOF {
			err = s.inputError(err)
		}
		return 0, err
	} else if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
		return 0, s.fail(sax.ErrInvalidFormat, fmt.Sprintf("character 0x%02x", c))
	}
	return c, nil
}

// next returns the next character, the end of the input is an ErrEOF error.
func (s *session) next() (byte, error) {
	c, err := s.read()
	if err == io.EOF {
		return 0, s.fail(sax.ErrEOF, "")
	}
	return c, err
}

// skipWhitespace consumes whitespace and returns whether there was any.
func (s *session) skipWhitespace() (bool, error) {
	skipped := false
	for {
		c, err := s.next()
		if err != nil {
			return skipped, err
		}
		if !sax.IsWhitespace(c) {
			s.src.Unread(c)
			return skipped, nil
		}
		skipped = true
	}
}

// readName reads a name of which the first character c was already consumed.
func (s *session) readName(c byte) (string, error) {
	v := s.newValue(false)
	v.add(c)
	for {
		c, err := s.next()
		if err != nil {
			return "", err
		}
		if !sax.IsNameChar(c) {
			s.src.Unread(c)
			return v.String(), nil
		}
		v.add(c)
	}
}

////////////////////////////////////////////////////////////////

// value accumulates the decoded characters of a name or value.
type value struct {
	buf     []byte
	limit   int
	charset *charmap.Charmap
}

func (s *session) newValue(limited bool) value {
	v := value{charset: s.charset}
	if limited {
		v.limit = s.limit
	}
	return v
}

func (v *value) add(c byte) {
	if v.charset != nil && c >= utf8.RuneSelf {
		v.buf = utf8.AppendRune(v.buf, v.charset.DecodeByte(c))
		return
	}
	v.buf = append(v.buf, c)
}

func (v *value) addRune(r rune) {
	v.buf = utf8.AppendRune(v.buf, r)
}

func (v *value) exceeds() bool {
	return v.limit > 0 && len(v.buf) > v.limit
}

func (v *value) String() string {
	return string(v.buf)
}
