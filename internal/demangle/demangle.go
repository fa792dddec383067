// Package demangle decodes Rust symbol names into readable paths.
//
// The decoders write into a caller-supplied buffer and never allocate, so
// they can run while a crashing process is being unwound.
package demangle

import (
	"errors"
	"strings"
)

// Errors
var (
	ErrNotRust        = errors.New("demangle: not a Rust symbol")
	ErrInvalidMangled = errors.New("demangle: invalid mangled name")
	ErrUnexpectedEnd  = errors.New("demangle: unexpected end of input")
	ErrUnsupported    = errors.New("demangle: unsupported production")
	ErrTrailingData   = errors.New("demangle: unrecognized trailing data")
	ErrBufferTooSmall = errors.New("demangle: output buffer too small")
	ErrTooDeep        = errors.New("demangle: nesting too deep")
)

// Demangle decodes a v0 symbol ("_R...") into out and returns the length of
// the rendered text. out[n] is set to 0 on success, so a buffer holding
// exactly n bytes is too small; the only exception is an empty rendering
// into an empty buffer. On failure ok is false and out holds unspecified
// bytes, none of them past len(out).
func Demangle(mangled string, out []byte) (n int, ok bool) {
	n, err := Decode(mangled, out)
	return n, err == nil
}

// Decode is Demangle with the failure reason.
func Decode(mangled string, out []byte) (int, error) {
	if i := strings.IndexByte(mangled, 0); i >= 0 {
		mangled = mangled[:i]
	}
	if !strings.HasPrefix(mangled, "_R") {
		return 0, ErrNotRust
	}

	d := demangler{
		in:  cursor{s: mangled, pos: 2},
		out: newSink(out),
	}

	// An explicit encoding version would precede the path.
	if isDigit(d.in.peek()) {
		return 0, ErrUnsupported
	}

	if err := d.parsePath(); err != nil {
		return 0, err
	}

	// Optional instantiating crate, parsed but not shown.
	if !d.in.eof() && !isSuffixStart(d.in.peek()) {
		d.out.quiet()
		err := d.parsePath()
		d.out.loud()
		if err != nil {
			return 0, err
		}
	}

	if !d.in.eof() && !isSuffixStart(d.in.peek()) {
		return 0, ErrTrailingData
	}

	if err := d.out.terminate(); err != nil {
		return 0, err
	}
	return d.out.n, nil
}

// isSuffixStart reports whether b starts a vendor-specific suffix.
func isSuffixStart(b byte) bool {
	return b == '.' || b == '$'
}

// IsRust reports whether name carries the v0 prefix.
func IsRust(name string) bool {
	return strings.HasPrefix(name, "_R")
}
