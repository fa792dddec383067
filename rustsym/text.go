package rustsym

import (
	"regexp"
	"strings"
)

// symbolToken matches the characters a mangled Rust name may contain,
// including the '.' and '$' of vendor suffixes and legacy escapes.
var symbolToken = regexp.MustCompile(`[0-9A-Za-z_$.]+`)

// DemangleText replaces every mangled Rust name in text with its
// demangled form. Tokens that do not decode are left verbatim.
func DemangleText(text string, opts ...Option) string {
	o := buildOptions(opts)
	return symbolToken.ReplaceAllStringFunc(text, func(tok string) string {
		// A symbol at the end of a sentence keeps its full stop.
		name := strings.TrimRight(tok, ".")
		if Detect(name) == SchemeNone {
			return tok
		}
		s, scheme := demangleName(name, o)
		if scheme == SchemeNone {
			return tok
		}
		return s + tok[len(name):]
	})
}
