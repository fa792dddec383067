package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

var (
	dumpFormat string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <binary>",
	Short: "Dump all symbol information",
	Long: `Dump every symbol of a binary with its demangled name in structured format.

Supported formats:
  - text: Human-readable text (default)
  - json: JSON format`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", "text", "output format (text, json)")
}

func runDump(cmd *cobra.Command, args []string) error {
	path := args[0]
	if dumpFormat != "json" && dumpFormat != "text" {
		return fmt.Errorf("unknown format: %s", dumpFormat)
	}

	f, symbols, err := openBinary(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if dumpFormat == "json" {
		return dumpJSON(f, symbols)
	}
	return dumpText(f, symbols)
}

type BinaryDump struct {
	File    string       `json:"file"`
	Format  string       `json:"format"`
	Stats   StatsDump    `json:"stats"`
	Symbols []SymbolDump `json:"symbols"`
}

type StatsDump struct {
	Total  int            `json:"total"`
	Kinds  map[string]int `json:"kinds"`
	V0     int            `json:"rust_v0"`
	Legacy int            `json:"rust_legacy"`
}

type SymbolDump struct {
	Name      string `json:"name"`
	Demangled string `json:"demangled,omitempty"`
	Scheme    string `json:"scheme"`
	Kind      string `json:"kind"`
	Address   uint64 `json:"address"`
	Size      uint64 `json:"size"`
}

func dumpJSON(f *rustsym.File, symbols *rustsym.SymbolTable) error {
	stats := collectStats(symbols)
	dump := BinaryDump{
		File:   f.Path(),
		Format: f.Format().String(),
		Stats: StatsDump{
			Total:  stats.Total,
			Kinds:  make(map[string]int, len(stats.Kinds)),
			V0:     stats.V0,
			Legacy: stats.Legacy,
		},
		Symbols: make([]SymbolDump, 0, symbols.Count()),
	}
	for k, n := range stats.Kinds {
		dump.Stats.Kinds[k.String()] = n
	}

	for sym := range symbols.All() {
		sd := SymbolDump{
			Name:    sym.Name(),
			Scheme:  sym.Scheme().String(),
			Kind:    sym.Kind().String(),
			Address: sym.Address(),
			Size:    sym.Size(),
		}
		if sym.IsRust() {
			sd.Demangled = sym.DemangledName()
		}
		dump.Symbols = append(dump.Symbols, sd)
	}

	encoder := json.NewEncoder(output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}

func dumpText(f *rustsym.File, symbols *rustsym.SymbolTable) error {
	stats := collectStats(symbols)

	fmt.Fprintf(output, "=== Binary: %s ===\n\n", f.Path())
	fmt.Fprintf(output, "Format: %s\n", f.Format())
	fmt.Fprintf(output, "Symbols: %d (v0: %d, legacy: %d)\n\n", stats.Total, stats.V0, stats.Legacy)

	fmt.Fprintf(output, "=== Symbols ===\n\n")
	for sym := range symbols.All() {
		fmt.Fprintf(output, "%-10s 0x%016x %-8d %-7s %s\n",
			sym.Kind(),
			sym.Address(),
			sym.Size(),
			sym.Scheme(),
			displayName(sym))
	}
	return nil
}
