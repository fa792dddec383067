package demangle

// cursor is a read-only view over the remaining mangled bytes.
// pos only moves forward and never exceeds len(s).
type cursor struct {
	s   string
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.s)
}

// remaining returns the number of unread bytes.
func (c *cursor) remaining() int {
	return len(c.s) - c.pos
}

// peek returns the next byte without consuming it, or 0 at end of input.
func (c *cursor) peek() byte {
	if c.pos >= len(c.s) {
		return 0
	}
	return c.s[c.pos]
}

// next consumes one byte.
func (c *cursor) next() (byte, error) {
	if c.pos >= len(c.s) {
		return 0, ErrUnexpectedEnd
	}
	b := c.s[c.pos]
	c.pos++
	return b, nil
}

// eat consumes b if it is the next byte.
func (c *cursor) eat(b byte) bool {
	if c.pos < len(c.s) && c.s[c.pos] == b {
		c.pos++
		return true
	}
	return false
}

// take consumes n bytes and returns them without copying.
func (c *cursor) take(n int) (string, error) {
	if n < 0 || n > c.remaining() {
		return "", ErrUnexpectedEnd
	}
	v := c.s[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

// rest returns the unread input without consuming it.
func (c *cursor) rest() string {
	if c.pos >= len(c.s) {
		return ""
	}
	return c.s[c.pos:]
}
