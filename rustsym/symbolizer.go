package rustsym

import (
	"fmt"
	"io"
)

// Frame is one symbolized program counter.
type Frame struct {
	PC     uint64
	Symbol *Symbol // nil when no symbol contains PC
	Offset uint64  // PC minus the symbol start
}

// Name returns the demangled symbol name, the raw name if it does not
// decode, or "??" for an unknown PC.
func (fr Frame) Name() string {
	if fr.Symbol == nil {
		return "??"
	}
	return fr.Symbol.DemangledName()
}

func (fr Frame) String() string {
	if fr.Symbol == nil {
		return fmt.Sprintf("%#x ??", fr.PC)
	}
	return fmt.Sprintf("%#x %s+%#x", fr.PC, fr.Name(), fr.Offset)
}

// Symbolizer maps program counters to symbol names.
type Symbolizer struct {
	table *SymbolTable
}

// NewSymbolizer returns a symbolizer over table.
func NewSymbolizer(table *SymbolTable) *Symbolizer {
	return &Symbolizer{table: table}
}

// Symbolize resolves pc against the symbol table.
func (s *Symbolizer) Symbolize(pc uint64) Frame {
	sym, ok := s.table.ByAddress(pc)
	if !ok {
		return Frame{PC: pc}
	}
	return Frame{PC: pc, Symbol: sym, Offset: pc - sym.address}
}

// WriteTrace writes one "#<i> <frame>" line per pc.
func (s *Symbolizer) WriteTrace(w io.Writer, pcs []uint64) error {
	for i, pc := range pcs {
		if _, err := fmt.Fprintf(w, "#%d %s\n", i, s.Symbolize(pc)); err != nil {
			return err
		}
	}
	return nil
}
