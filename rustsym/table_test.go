package rustsym

import (
	"bytes"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/rustsym-go/objfile"
)

func testTable(opts ...Option) *SymbolTable {
	return NewSymbolTable([]objfile.Sym{
		{Name: "memcpy", Kind: objfile.KindUndefined},
		{Name: "_RNvC7mycrate4main", Addr: 0x1000, Size: 0x40, Kind: objfile.KindText},
		{Name: "_RNvNtC7mycrate4util6helper", Addr: 0x1040, Kind: objfile.KindText},
		{Name: "_ZN4core3fmt5write17h0123456789abcdefE", Addr: 0x2000, Size: 0x20, Kind: objfile.KindText},
		{Name: "COUNTER", Addr: 0x3000, Size: 8, Kind: objfile.KindData},
	}, opts...)
}

func names(seq func(func(*Symbol) bool)) []string {
	var out []string
	for s := range seq {
		out = append(out, s.DemangledName())
	}
	return out
}

func TestSymbolTableAll(t *testing.T) {
	st := testTable()
	assert.Equal(t, 5, st.Count())
	assert.Equal(t, []string{
		"memcpy",
		"mycrate::main",
		"mycrate::util::helper",
		"core::fmt::write",
		"COUNTER",
	}, names(st.All()))
}

func TestSymbolTableAllStopsEarly(t *testing.T) {
	st := testTable()
	count := 0
	for range st.All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestSymbolTableByName(t *testing.T) {
	st := testTable()

	sym, ok := st.FindByName("mycrate::main")
	require.True(t, ok)
	assert.Equal(t, "_RNvC7mycrate4main", sym.Name())

	sym, ok = st.FindByName("_RNvC7mycrate4main")
	require.True(t, ok)
	assert.Equal(t, uint64(0x1000), sym.Address())

	sym, ok = st.FindByName("core::fmt::write")
	require.True(t, ok)
	assert.Equal(t, SchemeLegacy, sym.Scheme())

	_, ok = st.FindByName("mycrate")
	assert.False(t, ok)

	assert.Equal(t, []string{"COUNTER"}, names(st.ByName("COUNTER")))
	assert.Empty(t, names(st.ByName("nothing")))
}

func TestSymbolTableSearch(t *testing.T) {
	st := testTable()
	assert.Equal(t, []string{"mycrate::main", "mycrate::util::helper"}, names(st.Search("mycrate")))
	assert.Equal(t, []string{"core::fmt::write"}, names(st.Search("17h0123")))
	assert.Empty(t, names(st.Search("absent")))
}

func TestSymbolTableByAddress(t *testing.T) {
	st := testTable()
	tests := []struct {
		pc   uint64
		want string
	}{
		{0x1000, "mycrate::main"},
		{0x103f, "mycrate::main"},
		{0x1040, "mycrate::util::helper"},
		{0x1fff, "mycrate::util::helper"},
		{0x2000, "core::fmt::write"},
		{0x201f, "core::fmt::write"},
		{0x2020, ""},
		{0x3004, "COUNTER"},
		{0x3008, ""},
		{0x0fff, ""},
		{0, ""},
	}
	for _, tt := range tests {
		sym, ok := st.ByAddress(tt.pc)
		if tt.want == "" {
			assert.False(t, ok, "%#x resolved to %v", tt.pc, sym)
			continue
		}
		require.True(t, ok, "%#x", tt.pc)
		assert.Equal(t, tt.want, sym.DemangledName(), "%#x", tt.pc)
	}
}

func TestSymbolTableByAddressAliases(t *testing.T) {
	st := NewSymbolTable([]objfile.Sym{
		{Name: "outer", Addr: 0x100, Size: 0x100, Kind: objfile.KindText},
		{Name: "inner", Addr: 0x100, Size: 0x10, Kind: objfile.KindText},
		{Name: "label", Addr: 0x100, Kind: objfile.KindText},
	})

	sym, ok := st.ByAddress(0x108)
	require.True(t, ok)
	assert.Equal(t, "inner", sym.Name())

	sym, ok = st.ByAddress(0x180)
	require.True(t, ok)
	assert.Equal(t, "outer", sym.Name())

	sym, ok = st.ByAddress(0x280)
	require.True(t, ok)
	assert.Equal(t, "label", sym.Name())
}

func TestSymbolTableByAddressNested(t *testing.T) {
	st := NewSymbolTable([]objfile.Sym{
		{Name: "big", Addr: 0x1000, Size: 0x100, Kind: objfile.KindText},
		{Name: "inner", Addr: 0x1010, Size: 0x10, Kind: objfile.KindText},
		{Name: "label", Addr: 0x1080, Kind: objfile.KindText},
		{Name: "tail", Addr: 0x1200, Kind: objfile.KindText},
	})
	tests := []struct {
		pc   uint64
		want string
	}{
		{0x1004, "big"},
		{0x1015, "inner"},
		{0x1050, "big"},
		{0x1080, "big"},
		{0x1090, "big"},
		{0x10ff, "big"},
		{0x1100, "label"},
		{0x1300, "tail"},
	}
	for _, tt := range tests {
		sym, ok := st.ByAddress(tt.pc)
		require.True(t, ok, "%#x", tt.pc)
		assert.Equal(t, tt.want, sym.Name(), "%#x", tt.pc)
	}

	sz := NewSymbolizer(st)
	assert.Equal(t, "0x1050 big+0x50", sz.Symbolize(0x1050).String())
}

func TestSymbolTableOptions(t *testing.T) {
	st := testTable(WithLegacy(false))
	sym, ok := st.FindByName("_ZN4core3fmt5write17h0123456789abcdefE")
	require.True(t, ok)
	assert.Equal(t, sym.Name(), sym.DemangledName())
	assert.False(t, sym.IsRust())

	_, ok = st.FindByName("core::fmt::write")
	assert.False(t, ok)
}

func TestSymbolizer(t *testing.T) {
	sz := NewSymbolizer(testTable())

	fr := sz.Symbolize(0x1010)
	require.NotNil(t, fr.Symbol)
	assert.Equal(t, uint64(0x10), fr.Offset)
	assert.Equal(t, "mycrate::main", fr.Name())
	assert.Equal(t, "0x1010 mycrate::main+0x10", fr.String())

	fr = sz.Symbolize(0x10)
	assert.Nil(t, fr.Symbol)
	assert.Equal(t, "??", fr.Name())
	assert.Equal(t, "0x10 ??", fr.String())

	var buf bytes.Buffer
	require.NoError(t, sz.WriteTrace(&buf, []uint64{0x1010, 0x2004, 0x10, 0x1040}))
	assert.Equal(t, "#0 0x1010 mycrate::main+0x10\n"+
		"#1 0x2004 core::fmt::write+0x4\n"+
		"#2 0x10 ??\n"+
		"#3 0x1040 mycrate::util::helper+0x0\n", buf.String())
}

func TestSymbolizerRawFallback(t *testing.T) {
	sz := NewSymbolizer(NewSymbolTable([]objfile.Sym{
		{Name: "_RNvC7mycrate", Addr: 0x40, Size: 0x10, Kind: objfile.KindText},
	}))
	assert.Equal(t, "0x44 _RNvC7mycrate+0x4", sz.Symbolize(0x44).String())
}

func TestSymbolAccessors(t *testing.T) {
	st := testTable()
	syms := slices.Collect(st.All())

	main := syms[1]
	assert.Equal(t, SymbolKindText, main.Kind())
	assert.Equal(t, uint64(0x40), main.Size())
	assert.Equal(t, uint64(0x1040), main.End())
	assert.True(t, main.Contains(0x1000))
	assert.False(t, main.Contains(0x1040))
	assert.True(t, main.IsRust())
	assert.Equal(t, SchemeV0, main.Scheme())
	assert.Equal(t, "mycrate::main", main.String())

	memcpy := syms[0]
	assert.False(t, memcpy.IsDefined())
	assert.Equal(t, SymbolKindUndefined, memcpy.Kind())
	assert.Equal(t, SchemeNone, memcpy.Scheme())

	assert.Equal(t, SymbolKindData, syms[4].Kind())
}

func TestParseSymbolKind(t *testing.T) {
	for _, k := range []SymbolKind{SymbolKindOther, SymbolKindText, SymbolKindData, SymbolKindBSS, SymbolKindUndefined} {
		got, ok := ParseSymbolKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := ParseSymbolKind("function")
	assert.False(t, ok)
}
