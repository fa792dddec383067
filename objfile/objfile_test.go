package objfile

import (
	"bytes"
	"debug/elf"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/rustsym-go/internal/elftest"
)

func TestSniff(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Format
	}{
		{"elf", []byte("\x7fELF\x02\x01"), FormatELF},
		{"macho32 be", []byte{0xfe, 0xed, 0xfa, 0xce}, FormatMachO},
		{"macho32 le", []byte{0xce, 0xfa, 0xed, 0xfe}, FormatMachO},
		{"macho64 be", []byte{0xfe, 0xed, 0xfa, 0xcf}, FormatMachO},
		{"macho64 le", []byte{0xcf, 0xfa, 0xed, 0xfe}, FormatMachO},
		{"fat", []byte{0xca, 0xfe, 0xba, 0xbe}, FormatUnknown},
		{"pe", []byte("MZ\x90\x00"), FormatUnknown},
		{"short", []byte("\x7fEL"), FormatUnknown},
		{"empty", nil, FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sniff(tt.header))
		})
	}
}

func TestNewFileUnknownFormat(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("ab"),
		[]byte("not an object file"),
		{0xca, 0xfe, 0xba, 0xbe, 0, 0, 0, 1},
	} {
		_, err := NewFile(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrUnknownFormat, "%q", data)
	}
}

func TestNewFileTruncatedELF(t *testing.T) {
	_, err := NewFile(bytes.NewReader([]byte("\x7fELF\x02\x01\x01")))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "failed to parse elf")
}

func TestOpenMissing(t *testing.T) {
	_, err := Open("testdata/does-not-exist")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestELFSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app")
	require.NoError(t, os.WriteFile(path, elftest.Build(elftest.Symbols), 0o755))

	f, err := Open(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, FormatELF, f.Format())

	syms, err := f.Symbols()
	require.NoError(t, err)
	assert.Equal(t, []Sym{
		{Name: "memcpy", Kind: KindUndefined},
		{Name: "_RNvC7mycrate4main", Addr: 0x401000, Size: 0x40, Kind: KindText},
		{Name: "_ZN4core3fmt5write17h0123456789abcdefE", Addr: 0x401040, Size: 0x80, Kind: KindText},
		{Name: "helper", Addr: 0x4010c0, Size: 0x20, Kind: KindText},
		{Name: "COUNTER", Addr: 0x402000, Size: 8, Kind: KindBSS},
	}, syms)
}

func TestELFSymbolKinds(t *testing.T) {
	data := elftest.Build([]elftest.Symbol{
		{Name: "tls_slot", Type: elf.STT_TLS, Bind: elf.STB_GLOBAL, Section: elftest.BSSSection, Value: 0x10, Size: 8},
		{Name: "text_label", Type: elf.STT_NOTYPE, Bind: elf.STB_GLOBAL, Section: elftest.TextSection, Value: 0x401100},
		{Name: "bss_label", Type: elf.STT_NOTYPE, Bind: elf.STB_GLOBAL, Section: elftest.BSSSection, Value: 0x402010},
		{Name: "absolute", Type: elf.STT_NOTYPE, Bind: elf.STB_GLOBAL, Section: elf.SHN_ABS, Value: 0x1234},
		{Name: "ifunc", Type: elf.STT_GNU_IFUNC, Bind: elf.STB_GLOBAL, Section: elftest.TextSection, Value: 0x401180, Size: 4},
	})
	f, err := NewFile(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	syms, err := f.Symbols()
	require.NoError(t, err)

	kinds := make(map[string]Kind, len(syms))
	for _, s := range syms {
		kinds[s.Name] = s.Kind
	}
	assert.Equal(t, map[string]Kind{
		"tls_slot":   KindOther,
		"text_label": KindText,
		"bss_label":  KindBSS,
		"absolute":   KindOther,
		"ifunc":      KindText,
	}, kinds)
	assert.True(t, sort.SliceIsSorted(syms, func(i, j int) bool {
		return syms[i].Addr < syms[j].Addr
	}))
}

func TestCloseTwice(t *testing.T) {
	f, err := NewFile(bytes.NewReader(buildMachO(t)))
	require.NoError(t, err)

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	_, err = f.Symbols()
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "text", KindText.String())
	assert.Equal(t, "data", KindData.String())
	assert.Equal(t, "bss", KindBSS.String())
	assert.Equal(t, "undefined", KindUndefined.String())
	assert.Equal(t, "other", KindOther.String())
	assert.Equal(t, "elf", FormatELF.String())
	assert.Equal(t, "macho", FormatMachO.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}
