package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hearthc/internal/diag"
	"hearthc/internal/lexer"
	"hearthc/internal/source"
	"hearthc/internal/token"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file.rule>",
	Short: "Tokenize a rule file and print its token stream",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
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
	file := &source.File{ID: 0, Path: args[0], Content: content}
	lx := lexer.New(file, rep)

	for {
		tok := lx.Next()
		printToken(cmd, tok)
		if tok.Kind == token.EOF {
			break
		}
	}

	for _, d := range bag.Items() {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", d.Severity, d.Primary, d.Message)
	}
	return nil
}

func printToken(cmd *cobra.Command, tok token.Token) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-12s %q\n", tok.Span, tok.Kind, tok.Text)
}
