// Package objfile reads symbol tables from ELF and thin Mach-O binaries.
package objfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// ErrUnknownFormat indicates the input is neither ELF nor thin Mach-O.
var ErrUnknownFormat = errors.New("objfile: unknown object file format")

// Format identifies the container of a binary.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatELF
	FormatMachO
)

func (f Format) String() string {
	switch f {
	case FormatELF:
		return "elf"
	case FormatMachO:
		return "macho"
	default:
		return "unknown"
	}
}

// Kind classifies a symbol by what it refers to.
type Kind uint8

const (
	KindOther Kind = iota
	KindText
	KindData
	KindBSS
	KindUndefined
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindData:
		return "data"
	case KindBSS:
		return "bss"
	case KindUndefined:
		return "undefined"
	default:
		return "other"
	}
}

// Sym is one entry of a symbol table.
type Sym struct {
	Name string
	Addr uint64
	Size uint64
	Kind Kind
}

// reader is implemented by each container backend.
type reader interface {
	symbols() ([]Sym, error)
	close() error
}

// File is an opened binary.
type File struct {
	format Format
	r      reader
	closer io.Closer

	mu     sync.Mutex
	closed bool
}

var magics = []struct {
	magic  []byte
	format Format
}{
	{[]byte("\x7fELF"), FormatELF},
	{[]byte{0xfe, 0xed, 0xfa, 0xce}, FormatMachO},
	{[]byte{0xce, 0xfa, 0xed, 0xfe}, FormatMachO},
	{[]byte{0xfe, 0xed, 0xfa, 0xcf}, FormatMachO},
	{[]byte{0xcf, 0xfa, 0xed, 0xfe}, FormatMachO},
}

// Sniff returns the format indicated by the first bytes of a file.
func Sniff(header []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.magic) {
			return m.format
		}
	}
	return FormatUnknown
}

// Open opens the named binary.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	ff, err := NewFile(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	ff.closer = f
	return ff, nil
}

// NewFile reads a binary from r. Closing the returned File does not
// close r.
func NewFile(r io.ReaderAt) (*File, error) {
	var header [4]byte
	if n, err := r.ReadAt(header[:], 0); n < len(header) {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrUnknownFormat
		}
		return nil, fmt.Errorf("objfile: failed to read header: %w", err)
	}

	format := Sniff(header[:])
	var (
		rd  reader
		err error
	)
	switch format {
	case FormatELF:
		rd, err = newELF(r)
	case FormatMachO:
		rd, err = newMachO(r)
	default:
		return nil, ErrUnknownFormat
	}
	if err != nil {
		return nil, fmt.Errorf("objfile: failed to parse %s: %w", format, err)
	}

	Logger().Debug("opened object file", zap.Stringer("format", format))
	return &File{format: format, r: rd}, nil
}

// Format returns the container format.
func (f *File) Format() Format { return f.format }

// Symbols returns the symbol table sorted by address, then name.
func (f *File) Symbols() ([]Sym, error) {
	f.mu.Lock()
	closed := f.closed
	f.mu.Unlock()
	if closed {
		return nil, os.ErrClosed
	}

	syms, err := f.r.symbols()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(syms, func(i, j int) bool {
		if syms[i].Addr != syms[j].Addr {
			return syms[i].Addr < syms[j].Addr
		}
		return syms[i].Name < syms[j].Name
	})
	Logger().Debug("read symbol table",
		zap.Stringer("format", f.format),
		zap.Int("count", len(syms)))
	return syms, nil
}

// Close releases the file. It is safe to call more than once.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	err := f.r.close()
	if f.closer != nil {
		if cerr := f.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
