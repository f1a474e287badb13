package search

import (
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// applyFilters narrows results by Options.TypeFilter (ANDed) and
// Options.PathFilters (ORed among themselves), per ยง4.10's filter
// semantics: a file matches the path filter set if it matches any one of
// them, but must still satisfy an explicit type filter.
func applyFilters(results []Result, opts Options) []Result {
	if opts.TypeFilter == "" && len(opts.PathFilters) == 0 {
		return results
	}

	typeFilter := strings.ToLower(opts.TypeFilter)
	matchers := compilePathFilters(opts.PathFilters)

	out := results[:0]
	for _, r := range results {
		if typeFilter != "" && strings.ToLower(filepath.Ext(r.FilePath)) != typeFilter {
			continue
		}
		if len(matchers) > 0 && !matchAny(matchers, r.FilePath) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// pathMatcher is one compiled PathFilters entry.
type pathMatcher struct {
	ext    string // non-empty for a "*.ext"-style filter
	prefix string // non-empty for a bare path-prefix filter
	g      glob.Glob
}

func compilePathFilters(filters []string) []pathMatcher {
	out := make([]pathMatcher, 0, len(filters))
	for _, f := range filters {
		f = strings.Trim(strings.TrimSpace(f), "/")
		if f == "" {
			continue
		}
		if strings.HasPrefix(f, "*.") && !strings.ContainsAny(f[2:], "*?[{") {
			out = append(out, pathMatcher{ext: strings.ToLower(f[1:])}) // "*.ts" -> ".ts"
			continue
		}
		if strings.ContainsAny(f, "*?[{") {
			if g, err := glob.Compile(f, '/'); err == nil {
				out = append(out, pathMatcher{g: g})
				continue
			}
		}
		out = append(out, pathMatcher{prefix: f})
	}
	return out
}

func matchAny(matchers []pathMatcher, relPath string) bool {
	relPath = strings.TrimPrefix(relPath, "/")
	for _, m := range matchers {
		switch {
		case m.ext != "":
			if strings.ToLower(filepath.Ext(relPath)) == m.ext {
				return true
			}
		case m.g != nil:
			if m.g.Match(relPath) {
				return true
			}
		case m.prefix != "":
			if relPath == m.prefix || strings.HasPrefix(relPath, m.prefix+"/") {
				return true
			}
		}
	}
	return false
}
