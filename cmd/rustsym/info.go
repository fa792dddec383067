package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

var infoCmd = &cobra.Command{
	Use:   "info <binary>",
	Short: "Display binary symbol statistics",
	Long:  `Display the container format of a binary and counts of its symbols by kind and mangling scheme.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

// symbolStats counts symbols by kind and scheme.
type symbolStats struct {
	Total  int
	Kinds  map[rustsym.SymbolKind]int
	V0     int
	Legacy int
}

func collectStats(symbols *rustsym.SymbolTable) symbolStats {
	stats := symbolStats{Kinds: make(map[rustsym.SymbolKind]int)}
	for sym := range symbols.All() {
		stats.Total++
		stats.Kinds[sym.Kind()]++
		switch sym.Scheme() {
		case rustsym.SchemeV0:
			stats.V0++
		case rustsym.SchemeLegacy:
			stats.Legacy++
		}
	}
	return stats
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]

	f, symbols, err := openBinary(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stats := collectStats(symbols)

	fmt.Fprintf(output, "File: %s\n", path)
	fmt.Fprintf(output, "Format: %s\n", f.Format())
	fmt.Fprintf(output, "Symbols: %d\n", stats.Total)
	for _, k := range []rustsym.SymbolKind{
		rustsym.SymbolKindText,
		rustsym.SymbolKindData,
		rustsym.SymbolKindBSS,
		rustsym.SymbolKindUndefined,
		rustsym.SymbolKindOther,
	} {
		fmt.Fprintf(output, "  %-10s %d\n", k.String()+":", stats.Kinds[k])
	}
	fmt.Fprintf(output, "Rust v0 Symbols: %d\n", stats.V0)
	fmt.Fprintf(output, "Rust Legacy Symbols: %d\n", stats.Legacy)

	return nil
}
