package rustsym

import (
	"sync"

	"github.com/skdltmxn/rustsym-go/objfile"
)

// SymbolKind identifies what a symbol refers to.
type SymbolKind uint8

const (
	SymbolKindOther SymbolKind = iota
	SymbolKindText
	SymbolKindData
	SymbolKindBSS
	SymbolKindUndefined
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolKindText:
		return "text"
	case SymbolKindData:
		return "data"
	case SymbolKindBSS:
		return "bss"
	case SymbolKindUndefined:
		return "undefined"
	default:
		return "other"
	}
}

// ParseSymbolKind is the inverse of SymbolKind.String.
func ParseSymbolKind(s string) (SymbolKind, bool) {
	for k := SymbolKindOther; k <= SymbolKindUndefined; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return SymbolKindOther, false
}

func kindOf(k objfile.Kind) SymbolKind {
	switch k {
	case objfile.KindText:
		return SymbolKindText
	case objfile.KindData:
		return SymbolKindData
	case objfile.KindBSS:
		return SymbolKindBSS
	case objfile.KindUndefined:
		return SymbolKindUndefined
	default:
		return SymbolKindOther
	}
}

// Symbol is one entry of a binary's symbol table.
// The demangled name is computed on first use.
type Symbol struct {
	name    string
	address uint64
	size    uint64
	kind    SymbolKind
	opts    *options

	demangledName string
	scheme        Scheme
	demangledOnce sync.Once
}

func newSymbol(s objfile.Sym, opts *options) *Symbol {
	return &Symbol{
		name:    s.Name,
		address: s.Addr,
		size:    s.Size,
		kind:    kindOf(s.Kind),
		opts:    opts,
	}
}

func (s *Symbol) Name() string     { return s.name }
func (s *Symbol) Address() uint64  { return s.address }
func (s *Symbol) Size() uint64     { return s.size }
func (s *Symbol) Kind() SymbolKind { return s.kind }
func (s *Symbol) IsDefined() bool  { return s.kind != SymbolKindUndefined }
func (s *Symbol) IsRust() bool     { return s.Scheme() != SchemeNone }
func (s *Symbol) End() uint64      { return s.address + s.size }
func (s *Symbol) String() string   { return s.DemangledName() }

// Contains reports whether pc falls inside the symbol's extent.
func (s *Symbol) Contains(pc uint64) bool {
	return pc >= s.address && pc < s.End()
}

// DemangledName returns the demangled name, or the raw name if it is not
// a Rust symbol or fails to decode.
func (s *Symbol) DemangledName() string {
	s.demangle()
	return s.demangledName
}

// Scheme returns the mangling scheme the name decoded with.
func (s *Symbol) Scheme() Scheme {
	s.demangle()
	return s.scheme
}

func (s *Symbol) demangle() {
	s.demangledOnce.Do(func() {
		o := defaultOptions()
		if s.opts != nil {
			o = *s.opts
		}
		s.demangledName, s.scheme = demangleName(s.name, o)
	})
}
