package rustsym

import (
	"iter"
	"sort"
	"strings"
	"sync"

	"github.com/skdltmxn/rustsym-go/objfile"
)

// SymbolTable provides lookups over the symbols of one binary.
// It is safe for concurrent use.
type SymbolTable struct {
	symbols []*Symbol
	opts    options

	// Fast lookup indices (lazy-built)
	nameIndex     map[string][]*Symbol
	nameIndexOnce sync.Once

	addrIndex     []*Symbol
	maxEnd        []uint64 // maxEnd[i] is the largest End() in addrIndex[:i+1]
	addrIndexOnce sync.Once
}

// NewSymbolTable builds a table from raw symbol entries.
func NewSymbolTable(syms []objfile.Sym, opts ...Option) *SymbolTable {
	st := &SymbolTable{opts: buildOptions(opts)}
	st.symbols = make([]*Symbol, len(syms))
	for i, s := range syms {
		st.symbols[i] = newSymbol(s, &st.opts)
	}
	return st
}

// All returns an iterator over all symbols in table order.
func (st *SymbolTable) All() iter.Seq[*Symbol] {
	return func(yield func(*Symbol) bool) {
		for _, s := range st.symbols {
			if !yield(s) {
				return
			}
		}
	}
}

// Count returns the total number of symbols.
func (st *SymbolTable) Count() int {
	return len(st.symbols)
}

// ByName looks up symbols whose raw or demangled name is exactly name.
func (st *SymbolTable) ByName(name string) iter.Seq[*Symbol] {
	return func(yield func(*Symbol) bool) {
		st.buildNameIndex()
		for _, s := range st.nameIndex[name] {
			if !yield(s) {
				return
			}
		}
	}
}

// FindByName returns the first symbol matching name.
func (st *SymbolTable) FindByName(name string) (*Symbol, bool) {
	st.buildNameIndex()
	syms := st.nameIndex[name]
	if len(syms) == 0 {
		return nil, false
	}
	return syms[0], true
}

// Search returns symbols whose demangled or raw name contains substr.
func (st *SymbolTable) Search(substr string) iter.Seq[*Symbol] {
	return func(yield func(*Symbol) bool) {
		for _, s := range st.symbols {
			if !strings.Contains(s.DemangledName(), substr) && !strings.Contains(s.name, substr) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// ByAddress returns the symbol containing pc. Sized symbols at the closest
// start at or below pc win, then the nearest earlier symbol whose extent
// still covers pc. A symbol with no recorded size at the closest start
// covers every address up to the next start.
func (st *SymbolTable) ByAddress(pc uint64) (*Symbol, bool) {
	st.buildAddrIndex()
	idx := st.addrIndex

	// First symbol starting after pc.
	i := sort.Search(len(idx), func(i int) bool {
		return idx[i].address > pc
	})
	if i == 0 {
		return nil, false
	}

	var unsized *Symbol
	start := idx[i-1].address
	j := i - 1
	for ; j >= 0 && idx[j].address == start; j-- {
		s := idx[j]
		if s.size == 0 {
			unsized = s
			continue
		}
		if s.Contains(pc) {
			return s, true
		}
	}

	// Enclosing symbols, e.g. a function with nested local labels.
	for ; j >= 0 && st.maxEnd[j] > pc; j-- {
		if idx[j].Contains(pc) {
			return idx[j], true
		}
	}

	if unsized != nil {
		return unsized, true
	}
	return nil, false
}

func (st *SymbolTable) buildNameIndex() {
	st.nameIndexOnce.Do(func() {
		index := make(map[string][]*Symbol, len(st.symbols))
		for _, s := range st.symbols {
			index[s.name] = append(index[s.name], s)
			if d := s.DemangledName(); d != s.name {
				index[d] = append(index[d], s)
			}
		}
		st.nameIndex = index
	})
}

// buildAddrIndex keeps defined code and data symbols sorted by address.
// Larger symbols sort first among those sharing a start.
func (st *SymbolTable) buildAddrIndex() {
	st.addrIndexOnce.Do(func() {
		idx := make([]*Symbol, 0, len(st.symbols))
		for _, s := range st.symbols {
			switch s.kind {
			case SymbolKindText, SymbolKindData, SymbolKindBSS:
				if s.address != 0 {
					idx = append(idx, s)
				}
			}
		}
		sort.SliceStable(idx, func(i, j int) bool {
			if idx[i].address != idx[j].address {
				return idx[i].address < idx[j].address
			}
			return idx[i].size > idx[j].size
		})
		maxEnd := make([]uint64, len(idx))
		var end uint64
		for i, s := range idx {
			end = max(end, s.End())
			maxEnd[i] = end
		}
		st.addrIndex = idx
		st.maxEnd = maxEnd
	})
}
