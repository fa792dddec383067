// Command rustsym demangles Rust symbol names and inspects the symbol
// tables of Rust binaries.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
