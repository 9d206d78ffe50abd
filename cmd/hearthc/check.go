package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"hearthc/internal/cache"
	"hearthc/internal/diag"
	"hearthc/internal/driver"
	"hearthc/internal/registry"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
)

var checkCmd = &cobra.Command{
	Use:   "check <file.rule>",
	Short: "Type-check a rule file and report diagnostics and entity constraints",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Bool("constraints", false, "print the entity constraints a runtime must validate")
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := loadCompileOptions(cmd)
	if err != nil {
		return err
	}

	result, err := driver.CompileFile(args[0], opts)
	if err != nil {
		return err
	}

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	showConstraints, err := cmd.Flags().GetBool("constraints")
	if err != nil {
		return err
	}

	if format == formatJSON {
		if err := writeCheckJSON(cmd.OutOrStdout(), result, showConstraints); err != nil {
			return err
		}
	} else {
		useColor, err := wantsColor(cmd)
		if err != nil {
			return err
		}
		reportDiagnostics(os.Stderr, result, useColor)
		if showConstraints {
			for _, c := range result.Constraints {
				fmt.Fprintf(cmd.OutOrStdout(), "entity constraint: %s.%s at %s\n", c.Domain, c.Entity, c.Span)
			}
		}
	}

	if hasErrors(result) {
		os.Exit(1)
	}
	return nil
}

// loadCompileOptions assembles driver.Options from the persistent --registry
// and --no-cache flags, shared by check and build.
func loadCompileOptions(cmd *cobra.Command) (driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, err
	}
	registryPath, err := cmd.Root().PersistentFlags().GetString("registry")
	if err != nil {
		return driver.Options{}, err
	}
	if registryPath == "" {
		return driver.Options{}, fmt.Errorf("--registry is required")
	}
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return driver.Options{}, err
	}

	doc, err := os.ReadFile(registryPath)
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to read registry %s: %w", registryPath, err)
	}
	reg, err := registry.LoadStaticBytes(doc)
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to load registry %s: %w", registryPath, err)
	}

	var diskCache *cache.Disk
	if !noCache {
		diskCache, err = cache.OpenDisk("hearthc")
		if err != nil {
			return driver.Options{}, fmt.Errorf("failed to open compile cache: %w", err)
		}
	}

	return driver.Options{
		MaxDiagnostics: maxDiagnostics,
		Registry:       reg,
		RegistryDoc:    doc,
		Cache:          diskCache,
	}, nil
}

// wantsColor resolves the --color flag (auto|on|off) against whether
// stderr is actually a terminal.
func wantsColor(cmd *cobra.Command) (bool, error) {
	flag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return isTerminal(os.Stderr), nil
	}
}

const (
	formatText = "text"
	formatJSON = "json"
)

// outputFormat resolves the persistent --format flag, rejecting anything
// other than the two formats the CLI supports.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Root().PersistentFlags().GetString("format")
	if err != nil {
		return "", err
	}
	switch format {
	case formatText, formatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("--format must be %q or %q, got %q", formatText, formatJSON, format)
	}
}

// reportDiagnostics renders a Result's diagnostics as stable one-line-per-
// entry text via diag.FormatGolden, the same rendering golden tests check
// against, then colorizes each line's leading severity word when requested.
func reportDiagnostics(w io.Writer, r driver.Result, useColor bool) {
	text := diag.FormatGolden(r.Bag.Items(), r.FileSet)
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintln(w, colorizeSeverity(line, useColor))
	}
}

// colorizeSeverity recolors the leading "error"/"warning" word of a
// FormatGolden line, leaving the rest of the line untouched.
func colorizeSeverity(line string, useColor bool) string {
	if !useColor {
		return line
	}
	word, rest, ok := strings.Cut(line, " ")
	if !ok {
		return line
	}
	switch word {
	case diag.SevError.String():
		return errorColor.Sprint(word) + " " + rest
	case diag.SevWarning.String():
		return warningColor.Sprint(word) + " " + rest
	default:
		return line
	}
}

// jsonDiagnostic is the --format json shape for a single diagnostic.
type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     uint32 `json:"line,omitempty"`
	Col      uint32 `json:"col,omitempty"`
}

// jsonEntityConstraint is the --format json shape for an EntityConstraint.
type jsonEntityConstraint struct {
	Domain string `json:"domain"`
	Entity string `json:"entity"`
	Span   string `json:"span"`
}

// jsonCheckResult is the top-level --format json document for `check`.
type jsonCheckResult struct {
	Path        string                 `json:"path"`
	Diagnostics []jsonDiagnostic       `json:"diagnostics"`
	Constraints []jsonEntityConstraint `json:"constraints,omitempty"`
}

func toJSONDiagnostics(r driver.Result) []jsonDiagnostic {
	items := r.Bag.Items()
	out := make([]jsonDiagnostic, len(items))
	for i, d := range items {
		jd := jsonDiagnostic{Severity: d.Severity.String(), Code: d.Code.ID(), Message: d.Message}
		if r.FileSet != nil {
			if f := r.FileSet.Get(d.Primary.File); f != nil {
				jd.File = f.Path
				jd.Line, jd.Col = f.Offset(d.Primary.Start)
			}
		}
		out[i] = jd
	}
	return out
}

func writeCheckJSON(w io.Writer, r driver.Result, includeConstraints bool) error {
	doc := jsonCheckResult{Path: r.Path, Diagnostics: toJSONDiagnostics(r)}
	if includeConstraints {
		doc.Constraints = make([]jsonEntityConstraint, len(r.Constraints))
		for i, c := range r.Constraints {
			doc.Constraints[i] = jsonEntityConstraint{Domain: c.Domain, Entity: c.Entity, Span: c.Span.String()}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func hasErrors(r driver.Result) bool {
	for _, d := range r.Bag.Items() {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}
