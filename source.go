package sax

import (
	"bufio"
	"io"
)

// Source is the character source of the parser. It reads single bytes from an io.Reader, keeps track of the position and allows up to LookaheadSize characters to be pushed back.
type Source struct {
	r   *bufio.Reader
	la  Lookahead
	pos Pos

	// positions before each of the last consumed characters, so that Unread can restore them
	hist  [LookaheadSize]Pos
	hhead int
	nhist int
}

// NewSource returns a new Source for a given io.Reader.
func NewSource(r io.Reader) *Source {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Source{
		r:   br,
		pos: StartPos,
	}
}

// ReadSignature detects and consumes a byte order mark at the start of the input. It must be called before the first Next. The returned byte is the first byte of the input, used to report a broken signature.
func (s *Source) ReadSignature() (Signature, byte, error) {
	b, err := s.r.Peek(4)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return SignatureNone, 0, err
	}
	sig, n := DetectSignature(b)
	if n > 0 {
		if _, err := s.r.Discard(n); err != nil {
			return SignatureNone, 0, err
		}
	}
	var first byte
	if len(b) > 0 {
		first = b[0]
	}
	return sig, first, nil
}

// Next returns the next character and advances the position. At the end of the input it returns io.EOF; any other error is a failure of the underlying reader.
func (s *Source) Next() (byte, error) {
	c, ok := s.la.Take()
	if !ok {
		var err error
		if c, err = s.r.ReadByte(); err != nil {
			return 0, err
		}
	}
	s.hist[s.hhead] = s.pos
	s.hhead = (s.hhead + 1) % LookaheadSize
	if s.nhist < LookaheadSize {
		s.nhist++
	}
	s.pos = s.pos.Advance(c)
	return c, nil
}

// Unread pushes back c, which must be the last character returned by Next, and restores the position from before it was read.
func (s *Source) Unread(c byte) {
	if s.nhist == 0 {
		panic("sax: unread without a matching read")
	}
	s.hhead = (s.hhead + LookaheadSize - 1) % LookaheadSize
	s.nhist--
	s.pos = s.hist[s.hhead]
	s.la.PushBack(c)
}

// Pos returns the current position, which is the position of the last consumed character.
func (s *Source) Pos() Pos {
	return s.pos
}
