// Package elftest assembles small little-endian ELF64 executables with a
// .text section, a .bss section and a static symbol table.
package elftest

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// Section indices and extents of the generated image.
const (
	TextSection elf.SectionIndex = 1
	BSSSection  elf.SectionIndex = 2

	TextAddr = 0x401000
	TextSize = 0x200
	BSSAddr  = 0x402000
	BSSSize  = 0x100
)

// Symbol is one .symtab entry.
type Symbol struct {
	Name    string
	Type    elf.SymType
	Bind    elf.SymBind
	Section elf.SectionIndex
	Value   uint64
	Size    uint64
}

// Symbols is a representative mix of Rust v0, legacy, plain C and
// undefined symbols.
var Symbols = []Symbol{
	{Name: "main.rs", Type: elf.STT_FILE, Bind: elf.STB_LOCAL, Section: elf.SHN_ABS},
	{Name: "helper", Type: elf.STT_FUNC, Bind: elf.STB_LOCAL, Section: TextSection, Value: 0x4010c0, Size: 0x20},
	{Name: "_RNvC7mycrate4main", Type: elf.STT_FUNC, Bind: elf.STB_GLOBAL, Section: TextSection, Value: 0x401000, Size: 0x40},
	{Name: "_ZN4core3fmt5write17h0123456789abcdefE", Type: elf.STT_FUNC, Bind: elf.STB_GLOBAL, Section: TextSection, Value: 0x401040, Size: 0x80},
	{Name: "COUNTER", Type: elf.STT_OBJECT, Bind: elf.STB_GLOBAL, Section: BSSSection, Value: 0x402000, Size: 8},
	{Name: "memcpy", Type: elf.STT_FUNC, Bind: elf.STB_GLOBAL, Section: elf.SHN_UNDEF},
}

// Build returns an executable image holding syms. Local symbols must come
// before global ones.
func Build(syms []Symbol) []byte {
	const (
		headerSize  = 64
		sectionSize = 64
		symSize     = 24
	)

	strtab := []byte{0}
	symtab := new(bytes.Buffer)
	w := func(buf *bytes.Buffer, v any) {
		// Writes to a bytes.Buffer of fixed-size values cannot fail.
		_ = binary.Write(buf, binary.LittleEndian, v)
	}
	w(symtab, elf.Sym64{})
	firstGlobal := uint32(len(syms) + 1)
	for i, s := range syms {
		if s.Bind != elf.STB_LOCAL && firstGlobal > uint32(i+1) {
			firstGlobal = uint32(i + 1)
		}
		w(symtab, elf.Sym64{
			Name:  uint32(len(strtab)),
			Info:  elf.ST_INFO(s.Bind, s.Type),
			Shndx: uint16(s.Section),
			Value: s.Value,
			Size:  s.Size,
		})
		strtab = append(strtab, s.Name...)
		strtab = append(strtab, 0)
	}

	shstrtab := []byte{0}
	nameOf := func(name string) uint32 {
		off := uint32(len(shstrtab))
		shstrtab = append(shstrtab, name...)
		shstrtab = append(shstrtab, 0)
		return off
	}

	textOff := uint64(headerSize)
	symOff := textOff + TextSize
	strOff := symOff + uint64(symtab.Len())
	shstrOff := strOff + uint64(len(strtab))

	sections := []elf.Section64{
		{},
		{
			Name:      nameOf(".text"),
			Type:      uint32(elf.SHT_PROGBITS),
			Flags:     uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addr:      TextAddr,
			Off:       textOff,
			Size:      TextSize,
			Addralign: 16,
		},
		{
			Name:      nameOf(".bss"),
			Type:      uint32(elf.SHT_NOBITS),
			Flags:     uint64(elf.SHF_ALLOC | elf.SHF_WRITE),
			Addr:      BSSAddr,
			Off:       symOff,
			Size:      BSSSize,
			Addralign: 8,
		},
		{
			Name:      nameOf(".symtab"),
			Type:      uint32(elf.SHT_SYMTAB),
			Off:       symOff,
			Size:      uint64(symtab.Len()),
			Link:      4,
			Info:      firstGlobal,
			Addralign: 8,
			Entsize:   symSize,
		},
		{
			Name:      nameOf(".strtab"),
			Type:      uint32(elf.SHT_STRTAB),
			Off:       strOff,
			Size:      uint64(len(strtab)),
			Addralign: 1,
		},
	}
	shstrName := nameOf(".shstrtab")
	sections = append(sections, elf.Section64{
		Name:      shstrName,
		Type:      uint32(elf.SHT_STRTAB),
		Off:       shstrOff,
		Size:      uint64(len(shstrtab)),
		Addralign: 1,
	})

	shOff := shstrOff + uint64(len(shstrtab))
	shOff = (shOff + 7) &^ 7

	var ident [elf.EI_NIDENT]byte
	copy(ident[:], elf.ELFMAG)
	ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	out := new(bytes.Buffer)
	w(out, elf.Header64{
		Ident:     ident,
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     TextAddr,
		Shoff:     shOff,
		Ehsize:    headerSize,
		Shentsize: sectionSize,
		Shnum:     uint16(len(sections)),
		Shstrndx:  uint16(len(sections) - 1),
	})
	out.Write(make([]byte, TextSize))
	out.Write(symtab.Bytes())
	out.Write(strtab)
	out.Write(shstrtab)
	out.Write(make([]byte, int(shOff)-out.Len()))
	for _, sec := range sections {
		w(out, sec)
	}
	return out.Bytes()
}
