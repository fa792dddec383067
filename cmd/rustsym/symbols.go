package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

var (
	symbolsKind      string
	symbolsDemangled bool
	symbolsLimit     int
	symbolsRustOnly  bool
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <binary>",
	Short: "List symbols in a binary",
	Long: `List symbols from an ELF or Mach-O binary, sorted by address.

Use --kind to filter by symbol kind (text, data, bss, undefined, other).
Use --rust-only to show only symbols mangled by rustc.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().StringVarP(&symbolsKind, "kind", "k", "", "filter by symbol kind (text, data, bss, undefined, other)")
	symbolsCmd.Flags().BoolVarP(&symbolsDemangled, "demangle", "d", false, "show demangled names")
	symbolsCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", 0, "limit number of symbols shown (0 = unlimited)")
	symbolsCmd.Flags().BoolVarP(&symbolsRustOnly, "rust-only", "r", false, "show only Rust symbols")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	var (
		kindFilter    rustsym.SymbolKind
		hasKindFilter bool
	)
	if symbolsKind != "" {
		k, ok := rustsym.ParseSymbolKind(strings.ToLower(symbolsKind))
		if !ok {
			return fmt.Errorf("unknown symbol kind: %s", symbolsKind)
		}
		kindFilter, hasKindFilter = k, true
	}

	f, symbols, err := openBinary(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(output, "%s\n", headerColor(fmt.Sprintf("%-10s %-18s %-10s %s", "KIND", "ADDRESS", "SIZE", "NAME")))
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 90))

	count := 0
	for sym := range symbols.All() {
		if hasKindFilter && sym.Kind() != kindFilter {
			continue
		}
		if symbolsRustOnly && !sym.IsRust() {
			continue
		}
		printSymbol(sym)
		count++
		if symbolsLimit > 0 && count >= symbolsLimit {
			break
		}
	}

	fmt.Fprintf(output, "\nTotal: %d symbols\n", count)
	return nil
}

func printSymbol(sym *rustsym.Symbol) {
	name := sym.Name()
	if symbolsDemangled {
		name = displayName(sym)
	}

	if !sym.IsDefined() {
		fmt.Fprintf(output, "%-10s %-18s %-10s %s\n", sym.Kind(), "-", "-", name)
		return
	}
	fmt.Fprintf(output, "%-10s 0x%016x %-10d %s\n", sym.Kind(), sym.Address(), sym.Size(), name)
}

// displayName colors names that decoded and leaves the others plain.
func displayName(sym *rustsym.Symbol) string {
	if sym.IsRust() {
		return nameColor(sym.DemangledName())
	}
	return sym.Name()
}
