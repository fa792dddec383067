package demangle

import "unicode/utf8"

// sink is a bounded accumulator over a caller-owned buffer.
//
// n never exceeds len(buf). The first write that does not fit latches
// ErrBufferTooSmall and every later write is dropped. While silent is
// non-zero writes are discarded, which lets the parser consume productions
// it does not display.
type sink struct {
	buf    []byte
	n      int
	silent int
	err    error
}

func newSink(buf []byte) sink {
	return sink{buf: buf}
}

// fits reports whether n more bytes can be written.
func (s *sink) fits(n int) bool {
	return s.err == nil && n <= len(s.buf)-s.n
}

func (s *sink) write(str string) {
	if s.silent > 0 || s.err != nil {
		return
	}
	if !s.fits(len(str)) {
		s.err = ErrBufferTooSmall
		return
	}
	s.n += copy(s.buf[s.n:], str)
}

func (s *sink) writeByte(b byte) {
	if s.silent > 0 || s.err != nil {
		return
	}
	if !s.fits(1) {
		s.err = ErrBufferTooSmall
		return
	}
	s.buf[s.n] = b
	s.n++
}

func (s *sink) writeRune(r rune) {
	if s.silent > 0 || s.err != nil {
		return
	}
	size := utf8.RuneLen(r)
	if size < 0 || !s.fits(size) {
		s.err = ErrBufferTooSmall
		return
	}
	s.n += utf8.EncodeRune(s.buf[s.n:], r)
}

// writeDecimal writes v in base 10 using a fixed stack scratch array.
func (s *sink) writeDecimal(v int32) {
	var digits [10]byte
	i := len(digits)
	u := uint32(v)
	for {
		i--
		digits[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	for _, d := range digits[i:] {
		s.writeByte(d)
	}
}

func (s *sink) quiet() { s.silent++ }
func (s *sink) loud()  { s.silent-- }

// terminate writes the trailing NUL. An empty rendering into an empty
// buffer is accepted without a terminator.
func (s *sink) terminate() error {
	if s.err != nil {
		return s.err
	}
	if s.n == 0 && len(s.buf) == 0 {
		return nil
	}
	if !s.fits(1) {
		return ErrBufferTooSmall
	}
	s.buf[s.n] = 0
	return nil
}
