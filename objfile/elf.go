package objfile

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"
)

type elfReader struct {
	f *elf.File
}

func newELF(r io.ReaderAt) (*elfReader, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &elfReader{f: f}, nil
}

func (e *elfReader) close() error { return e.f.Close() }

// symbols merges the static and dynamic tables. Stripped binaries carry
// only the latter; a name at the same address appears once.
func (e *elfReader) symbols() ([]Sym, error) {
	type key struct {
		name string
		addr uint64
	}
	seen := make(map[key]struct{})
	var out []Sym

	for _, load := range []func() ([]elf.Symbol, error){e.f.Symbols, e.f.DynamicSymbols} {
		syms, err := load()
		if errors.Is(err, elf.ErrNoSymbols) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ELF symbols: %w", err)
		}
		for _, s := range syms {
			typ := elf.ST_TYPE(s.Info)
			if typ == elf.STT_SECTION || typ == elf.STT_FILE || s.Name == "" {
				continue
			}
			k := key{s.Name, s.Value}
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, Sym{
				Name: s.Name,
				Addr: s.Value,
				Size: s.Size,
				Kind: e.kind(s),
			})
		}
	}
	return out, nil
}

func (e *elfReader) kind(s elf.Symbol) Kind {
	switch s.Section {
	case elf.SHN_UNDEF:
		return KindUndefined
	case elf.SHN_ABS, elf.SHN_COMMON:
		return KindOther
	}

	var sec *elf.Section
	if int(s.Section) < len(e.f.Sections) {
		sec = e.f.Sections[s.Section]
	}

	switch elf.ST_TYPE(s.Info) {
	case elf.STT_FUNC, elf.STT_GNU_IFUNC:
		return KindText
	case elf.STT_TLS:
		// Values are offsets into the TLS block, not addresses.
		return KindOther
	case elf.STT_OBJECT:
		if sec != nil && sec.Type == elf.SHT_NOBITS {
			return KindBSS
		}
		return KindData
	}

	if sec == nil {
		return KindOther
	}
	switch {
	case sec.Flags&elf.SHF_EXECINSTR != 0:
		return KindText
	case sec.Type == elf.SHT_NOBITS:
		return KindBSS
	case sec.Flags&elf.SHF_ALLOC != 0:
		return KindData
	default:
		return KindOther
	}
}
