package demangle

import (
	"strings"
	"unicode"
)

// maxPunycodeRunes bounds the decoded length of one identifier. Longer
// identifiers fall back to the raw encoded form.
const maxPunycodeRunes = 256

// RFC 3492 parameters.
const (
	punyBase        = 36
	punyTMin        = 1
	punyTMax        = 26
	punySkew        = 38
	punyDamp        = 700
	punyInitialBias = 72
	punyInitialN    = 128
	punyMaxInt      = 1<<31 - 1
)

func punyDigit(b byte) (int, bool) {
	switch {
	case isLower(b):
		return int(b - 'a'), true
	case isUpper(b):
		return int(b - 'A'), true
	case isDigit(b):
		return int(b-'0') + 26, true
	}
	return 0, false
}

func punyAdapt(delta, count int, first bool) int {
	if first {
		delta /= punyDamp
	} else {
		delta /= 2
	}
	delta += delta / count

	k := 0
	for delta > ((punyBase-punyTMin)*punyTMax)/2 {
		delta /= punyBase - punyTMin
		k += punyBase
	}
	return k + (punyBase-punyTMin+1)*delta/(delta+punySkew)
}

// decodePunycode decodes encoded into out and returns the rune count.
//
// The encoding uses '_' instead of '-' to separate the basic code points
// from the deltas. ok is false on malformed input, arithmetic overflow,
// more than maxPunycodeRunes runes, or a decoded rune that cannot appear in
// an identifier.
func decodePunycode(encoded string, out *[maxPunycodeRunes]rune) (int, bool) {
	length := 0
	deltas := encoded
	if i := strings.LastIndexByte(encoded, '_'); i >= 0 {
		basic := encoded[:i]
		deltas = encoded[i+1:]
		if len(basic) > len(out) {
			return 0, false
		}
		for j := 0; j < len(basic); j++ {
			b := basic[j]
			if !isDigit(b) && !isLower(b) && !isUpper(b) && b != '_' {
				return 0, false
			}
			out[length] = rune(b)
			length++
		}
	}

	n := punyInitialN
	bias := punyInitialBias
	i := 0
	pos := 0
	for pos < len(deltas) {
		oldi := i
		w := 1
		for k := punyBase; ; k += punyBase {
			if pos >= len(deltas) {
				return 0, false
			}
			digit, ok := punyDigit(deltas[pos])
			pos++
			if !ok {
				return 0, false
			}
			if digit > (punyMaxInt-i)/w {
				return 0, false
			}
			i += digit * w

			t := k - bias
			if t < punyTMin {
				t = punyTMin
			} else if t > punyTMax {
				t = punyTMax
			}
			if digit < t {
				break
			}
			if w > punyMaxInt/(punyBase-t) {
				return 0, false
			}
			w *= punyBase - t
		}

		count := length + 1
		bias = punyAdapt(i-oldi, count, oldi == 0)
		if i/count > punyMaxInt-n {
			return 0, false
		}
		n += i / count
		i %= count

		if length >= len(out) || !identRune(rune(n)) {
			return 0, false
		}
		copy(out[i+1:length+1], out[i:length])
		out[i] = rune(n)
		length++
		i++
	}
	return length, true
}

// identRune reports whether r may appear in a displayed identifier.
func identRune(r rune) bool {
	if r > unicode.MaxRune || (r >= 0xd800 && r <= 0xdfff) {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}
