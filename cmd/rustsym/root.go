package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/skdltmxn/rustsym-go/objfile"
	"github.com/skdltmxn/rustsym-go/rustsym"
)

var (
	outputFile string
	configPath string
	verbose    bool
	colorMode  string

	output io.Writer
	cfg    *Config
	log    = zap.NewNop()
)

var (
	nameColor   = color.New(color.FgGreen).SprintFunc()
	rawColor    = color.New(color.FgYellow).SprintFunc()
	headerColor = color.New(color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "rustsym",
	Short: "Rust symbol demangler and symbolizer",
	Long: `rustsym decodes Rust mangled symbol names.

It understands the v0 scheme ("_R...") and the legacy scheme ("_ZN...E"),
lists and searches the symbol tables of ELF and Mach-O binaries, and
rewrites mangled names in stack traces.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		if colorMode != "" {
			c.Color = colorMode
			if err := validateConfig(c); err != nil {
				return err
			}
		}
		cfg = c

		if err := setupLogger(); err != nil {
			return err
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = cmd.OutOrStdout()
		}
		setupColor()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
		log.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".rustsym.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "", "colorize output (auto, always, never)")

	rootCmd.AddCommand(demangleCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(dumpCmd)
}

func setupLogger() error {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigValidation, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	l, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}

	log = l
	rustsym.SetLogger(l.Named("rustsym"))
	objfile.SetLogger(l.Named("objfile"))
	log.Debug("configuration loaded",
		zap.String("path", configPath),
		zap.String("color", cfg.Color),
		zap.Bool("legacy", cfg.LegacyEnabled()),
		zap.Int("max_name_length", cfg.MaxNameLength))
	return nil
}

func setupColor() {
	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default:
		if f, ok := output.(*os.File); !ok || f != os.Stdout {
			color.NoColor = true
		}
	}
}

// demangleOptions returns the rustsym options selected by configuration.
func demangleOptions() []rustsym.Option {
	return []rustsym.Option{
		rustsym.WithLegacy(cfg.LegacyEnabled()),
		rustsym.WithMaxLength(cfg.MaxNameLength),
	}
}

func openBinary(path string) (*rustsym.File, *rustsym.SymbolTable, error) {
	f, err := rustsym.Open(path, demangleOptions()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open binary: %w", err)
	}
	symbols, err := f.Symbols()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to get symbols: %w", err)
	}
	return f, symbols, nil
}
