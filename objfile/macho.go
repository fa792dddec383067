package objfile

import (
	"io"
	"sort"
	"strings"

	"github.com/blacktop/go-macho"
	"github.com/blacktop/go-macho/types"
)

// nlist n_type bits.
const (
	nStab = 0xe0
	nType = 0x0e
	nUndf = 0x00
	nSect = 0x0e
)

type machoReader struct {
	f *macho.File
}

func newMachO(r io.ReaderAt) (*machoReader, error) {
	f, err := macho.NewFile(r)
	if err != nil {
		return nil, err
	}
	return &machoReader{f: f}, nil
}

func (m *machoReader) close() error { return m.f.Close() }

// symbols reads the nlist table. Mach-O records no symbol sizes, so each
// defined symbol extends to the next one in its section, or to the end of
// the section.
func (m *machoReader) symbols() ([]Sym, error) {
	if m.f.Symtab == nil {
		return nil, nil
	}

	type entry struct {
		Sym
		sect uint8
	}
	var entries []entry
	for _, s := range m.f.Symtab.Syms {
		t := uint8(s.Type)
		if t&nStab != 0 || s.Name == "" {
			continue
		}
		e := entry{
			Sym: Sym{
				Name: machoName(s.Name),
				Addr: s.Value,
			},
			sect: s.Sect,
		}
		switch t & nType {
		case nUndf:
			e.Kind = KindUndefined
			e.Addr = 0
		case nSect:
			e.Kind = m.sectionKind(s.Sect)
		default:
			e.Kind = KindOther
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Addr < entries[j].Addr
	})
	for i := range entries {
		e := &entries[i]
		if e.Kind == KindUndefined || e.Kind == KindOther {
			continue
		}
		end := m.sectionEnd(e.sect)
		for j := i + 1; j < len(entries); j++ {
			if next := entries[j]; next.sect == e.sect && next.Addr > e.Addr {
				end = next.Addr
				break
			}
		}
		if end > e.Addr {
			e.Size = end - e.Addr
		}
	}

	out := make([]Sym, len(entries))
	for i, e := range entries {
		out[i] = e.Sym
	}
	return out, nil
}

// machoName drops the underscore the toolchain prepends to C-level names.
// The reader already drops it from names containing a '.', so a name that
// still starts with a Rust prefix after one underscore is left alone.
func machoName(name string) string {
	if strings.HasPrefix(name, "__") {
		return name[1:]
	}
	if strings.HasPrefix(name, "_R") || strings.HasPrefix(name, "_ZN") {
		return name
	}
	return strings.TrimPrefix(name, "_")
}

func (m *machoReader) section(n uint8) *types.Section {
	if n == 0 || int(n) > len(m.f.Sections) {
		return nil
	}
	return m.f.Sections[n-1]
}

func (m *machoReader) sectionEnd(n uint8) uint64 {
	if sec := m.section(n); sec != nil {
		return sec.Addr + sec.Size
	}
	return 0
}

func (m *machoReader) sectionKind(n uint8) Kind {
	sec := m.section(n)
	if sec == nil {
		return KindOther
	}
	switch sec.Name {
	case "__text", "__stubs", "__stub_helper", "__init_stub":
		return KindText
	case "__bss", "__common", "__thread_bss":
		return KindBSS
	default:
		return KindData
	}
}
