package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

var traceBinary string

var traceCmd = &cobra.Command{
	Use:   "trace [file]",
	Short: "Demangle the symbols in a stack trace",
	Long: `Rewrite a stack trace read from a file or stdin, replacing every
mangled Rust name with its demangled form.

With --binary, the input is instead a list of hexadecimal program counters,
one per line, which are symbolized against the binary's symbol table.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().StringVarP(&traceBinary, "binary", "b", "", "symbolize program counters against this binary")
}

func runTrace(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open trace: %w", err)
		}
		defer f.Close()
		in = f
	}

	if traceBinary != "" {
		return symbolizeTrace(in)
	}

	opts := demangleOptions()
	err := eachLine(in, func(line string) {
		fmt.Fprintln(output, rustsym.DemangleText(line, opts...))
	})
	if err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}
	return nil
}

func symbolizeTrace(in io.Reader) error {
	var (
		pcs     []uint64
		lineErr error
	)
	err := eachLine(in, func(line string) {
		line = strings.TrimSpace(line)
		if line == "" || lineErr != nil {
			return
		}
		pc, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(line, "0x"), "0X"), 16, 64)
		if err != nil {
			lineErr = fmt.Errorf("invalid address: %s", line)
			return
		}
		pcs = append(pcs, pc)
	})
	if err != nil {
		return fmt.Errorf("failed to read trace: %w", err)
	}
	if lineErr != nil {
		return lineErr
	}

	f, symbols, err := openBinary(traceBinary)
	if err != nil {
		return err
	}
	defer f.Close()

	return rustsym.NewSymbolizer(symbols).WriteTrace(output, pcs)
}
