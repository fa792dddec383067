// Package rustsym demangles Rust symbol names and symbolizes addresses
// against the symbol tables of ELF and Mach-O binaries.
package rustsym

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotMangled indicates the name uses no known Rust mangling scheme.
	ErrNotMangled = errors.New("rustsym: not a mangled Rust name")

	// ErrSymbolNotFound indicates no symbol matched a lookup.
	ErrSymbolNotFound = errors.New("rustsym: symbol not found")

	// ErrFileClosed indicates the file has been closed.
	ErrFileClosed = errors.New("rustsym: file is closed")
)

// OpenError describes a failure to open or read a binary.
type OpenError struct {
	Path string // File being read
	Op   string // Operation that failed
	Err  error  // Underlying error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("rustsym: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }
