package rustsym

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/skdltmxn/rustsym-go/internal/demangle"
)

// MaxNameLength is the default upper bound on the demangled length
// DemangleString will grow its buffer to.
const MaxNameLength = 64 << 10

// stackBufSize covers nearly every real symbol without touching the heap
// for the buffer itself.
const stackBufSize = 512

// Scheme identifies how a symbol name was mangled.
type Scheme uint8

const (
	SchemeNone Scheme = iota
	SchemeV0
	SchemeLegacy
)

func (s Scheme) String() string {
	switch s {
	case SchemeV0:
		return "v0"
	case SchemeLegacy:
		return "legacy"
	default:
		return "none"
	}
}

// Option configures demangling behaviour.
type Option func(*options)

type options struct {
	legacy    bool
	maxLength int
}

func defaultOptions() options {
	return options{legacy: true, maxLength: MaxNameLength}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLegacy enables or disables the "_ZN" fallback.
func WithLegacy(enabled bool) Option {
	return func(o *options) { o.legacy = enabled }
}

// WithMaxLength bounds the length of a demangled name. Values below one
// keep the default.
func WithMaxLength(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLength = n
		}
	}
}

// Demangle decodes a v0 mangled name into out, writing a NUL after the
// text. It returns the text length and whether decoding succeeded; on
// failure the contents of out are unspecified. Nothing past len(out) is
// ever written.
func Demangle(mangled string, out []byte) (int, bool) {
	return demangle.Demangle(mangled, out)
}

// DemangleString decodes a v0 mangled name. It returns ErrNotMangled for
// names without the "_R" prefix.
func DemangleString(mangled string) (string, error) {
	return decodeString(mangled, SchemeV0, MaxNameLength)
}

// decodeString runs the decoder for scheme, first into a stack buffer and
// then into doubling heap buffers while the output does not fit.
func decodeString(mangled string, scheme Scheme, limit int) (string, error) {
	decode := demangle.Decode
	if scheme == SchemeLegacy {
		decode = demangle.DecodeLegacy
	}

	var stack [stackBufSize]byte
	buf := stack[:]
	for {
		n, err := decode(mangled, buf)
		switch {
		case err == nil:
			return string(buf[:n]), nil
		case errors.Is(err, demangle.ErrNotRust):
			return "", ErrNotMangled
		case !errors.Is(err, demangle.ErrBufferTooSmall):
			return "", err
		}
		if len(buf) > limit {
			return "", err
		}
		buf = make([]byte, 2*len(buf))
	}
}

// Detect reports the mangling scheme of a raw symbol name, accepting the
// extra leading underscore Mach-O adds.
func Detect(raw string) Scheme {
	name := trimPlatformPrefix(raw)
	switch {
	case demangle.IsRust(name):
		return SchemeV0
	case strings.HasPrefix(name, "_ZN"):
		return SchemeLegacy
	default:
		return SchemeNone
	}
}

// DemangledName returns the human-readable form of raw. It tries the v0
// scheme, then the legacy scheme, and otherwise returns raw unchanged.
func DemangledName(raw string, opts ...Option) string {
	name, _ := demangleName(raw, buildOptions(opts))
	return name
}

// DemangleAny is DemangledName that also reports the scheme the name
// decoded with. SchemeNone means raw was returned unchanged.
func DemangleAny(raw string, opts ...Option) (string, Scheme) {
	return demangleName(raw, buildOptions(opts))
}

func demangleName(raw string, o options) (string, Scheme) {
	scheme := Detect(raw)
	if scheme == SchemeNone || (scheme == SchemeLegacy && !o.legacy) {
		return raw, SchemeNone
	}
	s, err := decodeString(trimPlatformPrefix(raw), scheme, o.maxLength)
	if err != nil {
		Logger().Debug("demangle failed",
			zap.String("name", raw),
			zap.Stringer("scheme", scheme),
			zap.Error(err))
		return raw, SchemeNone
	}
	return s, scheme
}

// trimPlatformPrefix drops the one extra underscore Mach-O prepends to
// C-level symbol names.
func trimPlatformPrefix(raw string) string {
	if strings.HasPrefix(raw, "__R") || strings.HasPrefix(raw, "__ZN") {
		return raw[1:]
	}
	return raw
}
