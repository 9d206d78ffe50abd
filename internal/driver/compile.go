// Package driver wires the lex/parse/desugar/check/lower pipeline together
// for the CLI: single-file compiles, directory-wide concurrent compiles,
// and disk-cache lookups around both.
package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"hearthc/internal/cache"
	"hearthc/internal/diag"
	"hearthc/internal/hir"
	"hearthc/internal/lowered"
	"hearthc/internal/parser"
	"hearthc/internal/registry"
	"hearthc/internal/sema"
	"hearthc/internal/source"
)

// Result is the outcome of running one file through the full pipeline.
type Result struct {
	Path        string
	FileID      source.FileID
	FileSet     *source.FileSet // registers Path under FileID, for diagnostic rendering
	Bag         *diag.Bag
	HIR         *hir.Program
	Constraints []sema.EntityConstraint
	CacheHit    bool
}

// Options configures a compile pass shared across one or many files.
type Options struct {
	MaxDiagnostics int
	Registry       registry.Registry
	RegistryDoc    []byte      // raw registry TOML, only used to key the cache
	Cache          *cache.Disk // nil disables caching
}

// CompileFile reads path and runs it through the pipeline.
func CompileFile(path string, opts Options) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	fset := source.NewFileSet()
	f := fset.AddFile(path, content)
	result := compile(path, f.ID, content, opts)
	result.FileSet = fset
	return result, nil
}

func compile(path string, fileID source.FileID, content []byte, opts Options) Result {
	bag := diag.NewBag(opts.MaxDiagnostics)
	rep := diag.BagReporter{Bag: bag}

	if opts.Cache != nil {
		key := cache.Key(content, opts.RegistryDoc)
		if art, ok := opts.Cache.Get(key); ok {
			for _, d := range art.Diagnostics {
				bag.Add(d)
			}
			return Result{Path: path, FileID: fileID, Bag: bag, Constraints: art.Constraints, CacheHit: true}
		}
	}

	prog := parser.Parse(content, fileID, rep)
	low := lowered.NewDesugarer().DesugarProgram(prog)
	checker := sema.NewChecker(opts.Registry, rep)
	checked := checker.Check(low)
	program := hir.LowerProgram(checked.Program)

	if opts.Cache != nil {
		key := cache.Key(content, opts.RegistryDoc)
		_ = opts.Cache.Put(key, cache.Artifact{
			Diagnostics: bag.Items(),
			Constraints: checked.Constraints,
			HIRText:     hir.Print(program),
		})
	}

	return Result{Path: path, FileID: fileID, Bag: bag, HIR: program, Constraints: checked.Constraints}
}

// CompileDir walks dir for *.rule files and compiles each concurrently,
// capped at jobs simultaneous compiles (0 means GOMAXPROCS). Results come
// back sorted by path so output is deterministic regardless of scheduling
// order.
func CompileDir(ctx context.Context, dir string, opts Options, jobs int) (*source.FileSet, []Result, error) {
	paths, err := listRuleFiles(dir)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return source.NewFileSet(), nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	fset := source.NewFileSet()
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			f := fset.AddFile(path, content)
			results[i] = compile(path, f.ID, content, opts)
			results[i].FileSet = fset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return fset, results, nil
}

func listRuleFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(p, ".rule") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
