package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/parser"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file.rule>",
	Short: "Reformat a rule file to its canonical textual form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

func init() {
	fmtCmd.Flags().Bool("write", false, "write the formatted output back to the file instead of stdout")
}

func runFmt(cmd *cobra.Command, args []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	bag := diag.NewBag(maxDiagnostics)
	rep := diag.BagReporter{Bag: bag}
	prog := parser.Parse(content, 0, rep)
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", d.Severity, d.Primary, d.Message)
			os.Exit(1)
		}
	}

	formatted := ast.Print(prog)

	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	if !write {
		fmt.Fprint(cmd.OutOrStdout(), formatted)
		return nil
	}
	return os.WriteFile(args[0], []byte(formatted), 0o644)
}
