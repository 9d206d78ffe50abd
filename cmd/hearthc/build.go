package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"hearthc/internal/driver"
	"hearthc/internal/hir"
)

var buildCmd = &cobra.Command{
	Use:   "build <file.rule|directory>",
	Short: "Check and lower a rule file or directory of rule files to HIR",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().Int("jobs", 0, "max parallel workers for directory builds (0=auto)")
}

// jsonBuildResult is the --format json shape for one compiled file under
// `build`, alongside jsonDiagnostic (shared with `check`).
type jsonBuildResult struct {
	Path        string           `json:"path"`
	Diagnostics []jsonDiagnostic `json:"diagnostics"`
	HIR         string           `json:"hir,omitempty"`
}

func toJSONBuildResult(r driver.Result) jsonBuildResult {
	out := jsonBuildResult{Path: r.Path, Diagnostics: toJSONDiagnostics(r)}
	if r.HIR != nil {
		out.HIR = hir.Print(r.HIR)
	}
	return out
}

func runBuild(cmd *cobra.Command, args []string) error {
	opts, err := loadCompileOptions(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	useColor, err := wantsColor(cmd)
	if err != nil {
		return err
	}

	st, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", args[0], err)
	}

	if !st.IsDir() {
		result, err := driver.CompileFile(args[0], opts)
		if err != nil {
			return err
		}
		if format == formatJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(toJSONBuildResult(result)); err != nil {
				return err
			}
		} else {
			reportDiagnostics(os.Stderr, result, useColor)
			if result.HIR != nil {
				fmt.Fprint(cmd.OutOrStdout(), hir.Print(result.HIR))
			}
		}
		if hasErrors(result) {
			os.Exit(1)
		}
		return nil
	}

	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	_, results, err := driver.CompileDir(context.Background(), args[0], opts, jobs)
	if err != nil {
		return err
	}

	var anyErrors bool
	if format == formatJSON {
		docs := make([]jsonBuildResult, len(results))
		for i, r := range results {
			docs[i] = toJSONBuildResult(r)
			if hasErrors(r) {
				anyErrors = true
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(docs); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			reportDiagnostics(os.Stderr, r, useColor)
			if hasErrors(r) {
				anyErrors = true
				continue
			}
			if r.HIR != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "== %s ==\n", r.Path)
				fmt.Fprint(cmd.OutOrStdout(), hir.Print(r.HIR))
			}
		}
	}
	if anyErrors {
		os.Exit(1)
	}
	return nil
}
