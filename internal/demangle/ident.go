package demangle

import "math"

// ident is an undisambiguated identifier as it appears in the input.
type ident struct {
	name     string
	punycode bool
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isUpper(b byte) bool { return b >= 'A' && b <= 'Z' }

// decimal parses <decimal-number> = "0" | <nonzero-digit> {<digit>}.
// A leading '0' is the whole number. Values larger than the input itself
// cannot be valid lengths and are rejected before they can overflow.
func (d *demangler) decimal() (int, error) {
	b := d.in.peek()
	if !isDigit(b) {
		if d.in.eof() {
			return 0, ErrUnexpectedEnd
		}
		return 0, ErrInvalidMangled
	}
	d.in.pos++
	if b == '0' {
		return 0, nil
	}

	v := int(b - '0')
	for isDigit(d.in.peek()) {
		v = v*10 + int(d.in.peek()-'0')
		if v > len(d.in.s) {
			return 0, ErrInvalidMangled
		}
		d.in.pos++
	}
	return v, nil
}

// base62Digit maps 0-9, a-z, A-Z onto 0..61.
func base62Digit(b byte) (int64, bool) {
	switch {
	case isDigit(b):
		return int64(b - '0'), true
	case isLower(b):
		return int64(b-'a') + 10, true
	case isUpper(b):
		return int64(b-'A') + 36, true
	}
	return 0, false
}

// base62 parses <base-62-number> = {<0-9a-zA-Z>} "_".
//
// "_" is 0 and "<digits>_" is the digit value plus one. When the value does
// not fit in an int32 the digits are still consumed and overflow is set; the
// caller decides how to render that.
func (d *demangler) base62() (v int32, overflow bool, err error) {
	if d.in.eat('_') {
		return 0, false, nil
	}

	var acc int64
	digits := 0
	for {
		b, err := d.in.next()
		if err != nil {
			return 0, false, err
		}
		if b == '_' {
			break
		}
		digit, ok := base62Digit(b)
		if !ok {
			return 0, false, ErrInvalidMangled
		}
		digits++
		if !overflow {
			acc = acc*62 + digit
			if acc > math.MaxInt32 {
				overflow = true
			}
		}
	}
	if digits == 0 {
		return 0, false, ErrInvalidMangled
	}
	if overflow || acc+1 > math.MaxInt32 {
		return 0, true, nil
	}
	return int32(acc + 1), false, nil
}

// disambiguator parses an optional "s" <base-62-number>.
// Absent is 0, "s_" is 1, and "s<v>_" is v+2.
func (d *demangler) disambiguator() (v int32, overflow bool, err error) {
	if !d.in.eat('s') {
		return 0, false, nil
	}
	v, overflow, err = d.base62()
	if err != nil || overflow {
		return 0, overflow, err
	}
	if v == math.MaxInt32 {
		return 0, true, nil
	}
	return v + 1, false, nil
}

// undisambiguatedIdent parses ["u"] <decimal-number> ["_"] <bytes>.
func (d *demangler) undisambiguatedIdent() (ident, error) {
	punycode := d.in.eat('u')
	n, err := d.decimal()
	if err != nil {
		return ident{}, err
	}
	d.in.eat('_')
	name, err := d.in.take(n)
	if err != nil {
		return ident{}, err
	}
	return ident{name: name, punycode: punycode}, nil
}

// writeIdent renders id, decoding Punycode when needed.
func (d *demangler) writeIdent(id ident) {
	if !id.punycode {
		d.out.write(id.name)
		return
	}

	var runes [maxPunycodeRunes]rune
	n, ok := decodePunycode(id.name, &runes)
	if !ok {
		d.out.write("{Punycode ")
		d.out.write(id.name)
		d.out.writeByte('}')
		return
	}
	for _, r := range runes[:n] {
		d.out.writeRune(r)
	}
}
