package demangle

import "strings"

// legacyEscapes are the "$...$" escapes used by the legacy scheme.
var legacyEscapes = [...]struct {
	code string
	text string
}{
	{"SP", "@"},
	{"BP", "*"},
	{"RF", "&"},
	{"LT", "<"},
	{"GT", ">"},
	{"LP", "("},
	{"RP", ")"},
	{"C", ","},
}

// DemangleLegacy decodes a legacy Itanium-style Rust symbol
// ("_ZN...E", also "ZN" and "__ZN") into out. The trailing hash segment
// is dropped. Buffer rules match Demangle.
func DemangleLegacy(mangled string, out []byte) (n int, ok bool) {
	n, err := DecodeLegacy(mangled, out)
	return n, err == nil
}

// DecodeLegacy is DemangleLegacy with the failure reason.
func DecodeLegacy(mangled string, out []byte) (int, error) {
	if i := strings.IndexByte(mangled, 0); i >= 0 {
		mangled = mangled[:i]
	}

	var rest string
	switch {
	case strings.HasPrefix(mangled, "_ZN"):
		rest = mangled[3:]
	case strings.HasPrefix(mangled, "__ZN"):
		rest = mangled[4:]
	case strings.HasPrefix(mangled, "ZN"):
		rest = mangled[2:]
	default:
		return 0, ErrNotRust
	}

	d := demangler{
		in:  cursor{s: rest},
		out: newSink(out),
	}

	elements := 0
	for !d.in.eat('E') {
		if d.in.eof() {
			return 0, ErrUnexpectedEnd
		}
		n, err := d.legacyLength()
		if err != nil {
			return 0, err
		}
		name, err := d.in.take(n)
		if err != nil {
			return 0, err
		}
		if d.in.peek() == 'E' && isLegacyHash(name) {
			continue
		}
		if elements > 0 {
			d.out.write("::")
		}
		if err := d.writeLegacyElement(name); err != nil {
			return 0, err
		}
		elements++
	}
	if elements == 0 {
		return 0, ErrInvalidMangled
	}

	// LLVM appends ".llvm.<n>" and similar after the E.
	if !d.in.eof() && d.in.peek() != '.' {
		return 0, ErrTrailingData
	}

	if err := d.out.terminate(); err != nil {
		return 0, err
	}
	return d.out.n, nil
}

// legacyLength parses a non-zero decimal element length.
func (d *demangler) legacyLength() (int, error) {
	b := d.in.peek()
	if !isDigit(b) || b == '0' {
		return 0, ErrInvalidMangled
	}
	return d.decimal()
}

// isLegacyHash reports whether s is "h" followed by 16 hex digits.
func isLegacyHash(s string) bool {
	if len(s) != 17 || s[0] != 'h' {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func (d *demangler) writeLegacyElement(s string) error {
	if strings.HasPrefix(s, "_$") {
		s = s[1:]
	}
	for len(s) > 0 {
		switch {
		case strings.HasPrefix(s, ".."):
			d.out.write("::")
			s = s[2:]
		case s[0] == '.':
			d.out.writeByte('.')
			s = s[1:]
		case s[0] == '$':
			end := strings.IndexByte(s[1:], '$')
			if end < 0 {
				return ErrInvalidMangled
			}
			if !d.writeLegacyEscape(s[1 : end+1]) {
				return ErrInvalidMangled
			}
			s = s[end+2:]
		default:
			i := strings.IndexAny(s, "$.")
			if i < 0 {
				i = len(s)
			}
			d.out.write(s[:i])
			s = s[i:]
		}
	}
	return nil
}

func (d *demangler) writeLegacyEscape(code string) bool {
	for _, e := range legacyEscapes {
		if code == e.code {
			d.out.write(e.text)
			return true
		}
	}
	if len(code) < 2 || code[0] != 'u' {
		return false
	}

	var r rune
	for i := 1; i < len(code); i++ {
		c := code[i]
		var v byte
		switch {
		case isDigit(c):
			v = c - '0'
		case c >= 'a' && c <= 'f':
			v = c - 'a' + 10
		default:
			return false
		}
		r = r<<4 | rune(v)
		if r > 0x10ffff {
			return false
		}
	}
	if r == 0 || (r >= 0xd800 && r <= 0xdfff) {
		return false
	}
	d.out.writeRune(r)
	return true
}
