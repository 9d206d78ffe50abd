package diag

import (
	"fmt"
	"sort"
	"strings"

	"hearthc/internal/source"
)

// FormatGolden renders diagnostics into a stable, single-line-per-entry
// form suitable for snapshot tests. Output is sorted by path, line,
// column and then code, so golden files are stable across runs
// regardless of the order passes happened to emit them in.
func FormatGolden(diags []Diagnostic, fs *source.FileSet) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	type rendered struct {
		path      string
		line, col uint32
		severity  string
		code      string
		msg       string
	}

	out := make([]rendered, 0, len(diags))
	for _, d := range diags {
		f := fs.Get(d.Primary.File)
		if f == nil {
			continue
		}
		line, col := f.Offset(d.Primary.Start)
		out = append(out, rendered{
			path:     f.Path,
			line:     line,
			col:      col,
			severity: d.Severity.String(),
			code:     d.Code.ID(),
			msg:      d.Message,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.path != b.path {
			return a.path < b.path
		}
		if a.line != b.line {
			return a.line < b.line
		}
		if a.col != b.col {
			return a.col < b.col
		}
		return a.code < b.code
	})

	var b strings.Builder
	for i, r := range out {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", r.severity, r.code, r.path, r.line, r.col, r.msg)
		if i < len(out)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
