package rustsym

import (
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/skdltmxn/rustsym-go/objfile"
)

// ErrUnknownFormat indicates the binary is neither ELF nor thin Mach-O.
var ErrUnknownFormat = objfile.ErrUnknownFormat

// Format identifies the container of a binary.
type Format = objfile.Format

// File represents an opened binary.
// It is safe for concurrent read access after opening.
type File struct {
	path   string
	obj    *objfile.File
	opts   []Option
	closed bool
	mu     sync.RWMutex

	symbolTable     *SymbolTable
	symbolTableOnce sync.Once
	symbolTableErr  error
}

// Open opens the binary at path. The options apply to every symbol's
// demangled name.
func Open(path string, opts ...Option) (*File, error) {
	obj, err := objfile.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Op: "open", Err: err}
	}
	Logger().Debug("opened binary",
		zap.String("path", path),
		zap.Stringer("format", obj.Format()))
	return &File{path: path, obj: obj, opts: opts}, nil
}

// OpenReader opens a binary from an io.ReaderAt.
func OpenReader(r io.ReaderAt, opts ...Option) (*File, error) {
	obj, err := objfile.NewFile(r)
	if err != nil {
		return nil, &OpenError{Path: "<reader>", Op: "open", Err: err}
	}
	return &File{path: "<reader>", obj: obj, opts: opts}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Format returns the container format.
func (f *File) Format() Format { return f.obj.Format() }

// Symbols returns the symbol table, reading it on first use.
func (f *File) Symbols() (*SymbolTable, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, ErrFileClosed
	}

	f.symbolTableOnce.Do(func() {
		f.symbolTable, f.symbolTableErr = f.loadSymbolTable()
	})

	if f.symbolTableErr != nil {
		return nil, f.symbolTableErr
	}
	return f.symbolTable, nil
}

func (f *File) loadSymbolTable() (*SymbolTable, error) {
	syms, err := f.obj.Symbols()
	if err != nil {
		if errors.Is(err, ErrUnknownFormat) {
			return nil, err
		}
		return nil, &OpenError{Path: f.path, Op: "read symbols", Err: err}
	}
	Logger().Debug("loaded symbol table",
		zap.String("path", f.path),
		zap.Int("count", len(syms)))
	return NewSymbolTable(syms, f.opts...), nil
}

// Close releases resources associated with the file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}

	f.closed = true
	return f.obj.Close()
}
