package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <binary> <query>",
	Short: "Look up symbols by name or address",
	Long: `Look up symbols in a binary.

Query can be:
  - Symbol name: lookup app mycrate::main (raw or demangled, exact match
    first, then substring)
  - Address: lookup app 0x1234 (the symbol containing that address)`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	f, symbols, err := openBinary(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	query := args[1]
	if strings.HasPrefix(query, "0x") || strings.HasPrefix(query, "0X") {
		return lookupAddress(symbols, query)
	}
	return lookupName(symbols, query)
}

func lookupName(symbols *rustsym.SymbolTable, name string) error {
	found := 0
	for sym := range symbols.ByName(name) {
		printSymbolDetail(sym)
		found++
	}

	// Also search by substring if no exact match
	if found == 0 {
		for sym := range symbols.Search(name) {
			printSymbolDetail(sym)
			found++
		}
	}

	if found == 0 {
		fmt.Fprintf(output, "No symbols found matching '%s'\n", name)
		return rustsym.ErrSymbolNotFound
	}
	fmt.Fprintf(output, "Found %d symbol(s)\n", found)
	return nil
}

func lookupAddress(symbols *rustsym.SymbolTable, addrStr string) error {
	pc, err := strconv.ParseUint(addrStr[2:], 16, 64)
	if err != nil {
		return fmt.Errorf("invalid address: %s", addrStr)
	}

	frame := rustsym.NewSymbolizer(symbols).Symbolize(pc)
	if frame.Symbol == nil {
		fmt.Fprintf(output, "No symbol contains address 0x%x\n", pc)
		return rustsym.ErrSymbolNotFound
	}

	printSymbolDetail(frame.Symbol)
	fmt.Fprintf(output, "%s\n", frame)
	return nil
}

func printSymbolDetail(sym *rustsym.Symbol) {
	fmt.Fprintf(output, "Symbol:\n")
	fmt.Fprintf(output, "  Name: %s\n", sym.Name())
	fmt.Fprintf(output, "  Demangled: %s\n", displayName(sym))
	fmt.Fprintf(output, "  Scheme: %s\n", sym.Scheme())
	fmt.Fprintf(output, "  Kind: %s\n", sym.Kind())
	if sym.IsDefined() {
		fmt.Fprintf(output, "  Address: 0x%x\n", sym.Address())
		fmt.Fprintf(output, "  Size: %d\n", sym.Size())
	}
	fmt.Fprintln(output)
}
