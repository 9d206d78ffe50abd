package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hearthc/internal/ast"
	"hearthc/internal/diag"
	"hearthc/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file.rule>",
	Short: "Parse a rule file and pretty-print its AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
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
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", d.Severity, d.Primary, d.Message)
	}
	fmt.Fprint(cmd.OutOrStdout(), ast.Print(prog))
	return nil
}
