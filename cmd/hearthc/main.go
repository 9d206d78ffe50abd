// Command hearthc compiles home-automation rule files: tokenize, parse,
// type-check, lower to HIR, and (re)format source.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hearthc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hearthc",
	Short: "Compiler for the hearth automation rule language",
	Long:  `hearthc tokenizes, parses, checks, and lowers automation rule files.`,
}

func main() {
	rootCmd.Version = version.VersionString()

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().String("registry", "", "path to a registry TOML document (required for check/build)")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk compile cache")
	rootCmd.PersistentFlags().String("format", "text", "output format (text|json)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
