package coordinator

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/rgerr"
)

// discovery compiles a config's extension allow-list and ignore globs
// once per run, grounded on the teacher's internal/indexer/discovery.go
// FileDiscovery (compiled glob.Glob slices plus a matchesAnyPattern
// helper), generalized from its separate code/docs pattern lists to a
// single extension allow-set since this system gates file kind by
// per-module SupportsFile rather than by discovery-time bucketing.
type discovery struct {
	extensions map[string]bool
	ignore     []glob.Glob
}

func newDiscovery(cfg *config.Config) (*discovery, error) {
	extSet := make(map[string]bool, len(cfg.Extensions))
	for _, e := range cfg.Extensions {
		extSet[strings.ToLower(e)] = true
	}

	patterns := make([]glob.Glob, 0, len(cfg.Ignore))
	for _, p := range cfg.Ignore {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, rgerr.Wrap(rgerr.Config, "coordinator.newDiscovery", err)
		}
		patterns = append(patterns, g)
	}

	return &discovery{extensions: extSet, ignore: patterns}, nil
}

func (d *discovery) ignored(relPath string) bool {
	for _, g := range d.ignore {
		if g.Match(relPath) {
			return true
		}
	}
	return false
}

func (d *discovery) supportsExtension(relPath string) bool {
	return d.extensions[strings.ToLower(filepath.Ext(relPath))]
}

// walkCandidates enumerates every regular file under root that isn't
// ignored and whose extension is configured, returning relative,
// forward-slash-normalized paths sorted lexically. Sorting (rather than
// raw directory-walk order) is what makes "final per-file result list
// has the same order as the input file list" (ยง5) a stable, reproducible
// guarantee across filesystems with different readdir ordering.
func walkCandidates(root string, d *discovery) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			if de != nil && de.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if de.IsDir() {
			if d.ignored(rel) || d.ignored(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}

		if d.ignored(rel) || !d.supportsExtension(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.walkCandidates", err)
	}

	sort.Strings(out)
	return out, nil
}

// walkAllFiles is the hybrid search exact-match pass's file universe:
// every file not excluded by Ignore, regardless of extension — the
// remedy for file kinds with no parser (YAML, .env, compose files).
func walkAllFiles(root string, d *discovery) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			if de != nil && de.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if de.IsDir() {
			if d.ignored(rel) || d.ignored(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if d.ignored(rel) {
			return nil
		}
		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.walkAllFiles", err)
	}
	sort.Strings(out)
	return out, nil
}

// WalkAllFiles exposes walkAllFiles to internal/search's hybrid
// exact-match pass, which needs the same ignore-filtered, extension-
// unfiltered file universe but lives in a different package.
func WalkAllFiles(root string, cfg *config.Config) ([]string, error) {
	d, err := newDiscovery(cfg)
	if err != nil {
		return nil, err
	}
	return walkAllFiles(root, d)
}
