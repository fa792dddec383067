package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

var (
	demangleStrict bool
	demangleScheme bool
)

var demangleCmd = &cobra.Command{
	Use:   "demangle [names...]",
	Short: "Demangle Rust symbol names",
	Long: `Demangle Rust symbol names given as arguments, or one per line on stdin.

Names that cannot be decoded are printed unchanged. Use --strict to exit
with an error when any name fails.`,
	RunE: runDemangle,
}

func init() {
	demangleCmd.Flags().BoolVarP(&demangleStrict, "strict", "s", false, "fail if any name cannot be demangled")
	demangleCmd.Flags().BoolVar(&demangleScheme, "scheme", false, "prefix each result with its mangling scheme")
}

func runDemangle(cmd *cobra.Command, args []string) error {
	failed := 0
	emit := func(raw string) {
		if !demangleOne(raw) {
			failed++
		}
	}

	if len(args) > 0 {
		for _, raw := range args {
			emit(raw)
		}
	} else if err := eachLine(cmd.InOrStdin(), emit); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if demangleStrict && failed > 0 {
		return fmt.Errorf("failed to demangle %d name(s)", failed)
	}
	return nil
}

func demangleOne(raw string) bool {
	name, scheme := rustsym.DemangleAny(raw, demangleOptions()...)
	ok := scheme != rustsym.SchemeNone
	if !ok {
		log.Debug("left name unchanged", zap.String("name", raw))
	}

	if demangleScheme {
		fmt.Fprintf(output, "%-7s ", scheme)
	}
	if ok {
		fmt.Fprintln(output, nameColor(name))
	} else {
		fmt.Fprintln(output, rawColor(raw))
	}
	return ok
}

// maxLineSlack is how much text a line may carry besides one name of the
// configured maximum length.
const maxLineSlack = 1 << 20

// eachLine calls fn for every line of r.
func eachLine(r io.Reader, fn func(string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), cfg.MaxNameLength+maxLineSlack)
	for sc.Scan() {
		fn(sc.Text())
	}
	return sc.Err()
}
