package sax

// LookaheadSize is the number of characters that can be pushed back at once.
const LookaheadSize = 4

// Lookahead is a fixed-capacity ring of pushed back characters. The most recently pushed back character is taken first.
type Lookahead struct {
	buf  [LookaheadSize]byte
	head int // index of the next character to take
	n    int
}

// PushBack puts c in front of the pending characters. It panics when the buffer already holds LookaheadSize characters, which is a bug in the caller and never a property of the input.
func (z *Lookahead) PushBack(c byte) {
	if z.n == LookaheadSize {
		panic("sax: lookahead buffer overflow")
	}
	z.head = (z.head + LookaheadSize - 1) % LookaheadSize
	z.buf[z.head] = c
	z.n++
}

// Take returns the next pending character.
func (z *Lookahead) Take() (byte, bool) {
	if z.n == 0 {
		return 0, false
	}
	c := z.buf[z.head]
	z.head = (z.head + 1) % LookaheadSize
	z.n--
	return c, true
}

// Len returns the number of pending characters.
func (z *Lookahead) Len() int {
	return z.n
}

// Reset drops all pending characters.
func (z *Lookahead) Reset() {
	z.head, z.n = 0, 0
}
