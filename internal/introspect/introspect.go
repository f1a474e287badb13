// Package introspect builds the per-project and per-file tagging used to
// boost search results: monorepo package detection, scope/layer/domain
// tags, and the inter-package dependency graph. Package discovery skips
// the directories listed in skipDirs (.git, node_modules, vendor, build
// output and the like) and does not recurse below the convention
// directories' immediate children.
package introspect

import (
	"os"
	"path/filepath"
	"strings"
)

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	".cortex":      true,
	".raggrep":     true,
	"dist":         true,
	"build":        true,
}

// DefaultMaxDepth is a directory-depth bound for package discovery.
// DiscoverProject does not consult it: it reads only root's entries and
// the immediate children of the recognized convention directories.
const DefaultMaxDepth = 12

// PackageKind is the monorepo convention a directory matched.
type PackageKind string

const (
	KindApp     PackageKind = "app"
	KindPackage PackageKind = "package"
	KindLib     PackageKind = "lib"
	KindService PackageKind = "service"
)

// packagePatterns maps a top-level directory name to the PackageKind its
// immediate children are assumed to represent. A directory is matched by
// exact name, so it satisfies at most one entry; a repo may use several
// conventions side by side and each matching directory contributes its
// own packages.
var packagePatterns = []struct {
	dir  string
	kind PackageKind
}{
	{"apps", KindApp},
	{"services", KindService},
	{"packages", KindPackage},
	{"libs", KindLib},
}

// Package is one detected monorepo unit: a directory directly under one
// of the recognized convention roots (apps/, packages/, libs/, services/).
type Package struct {
	Name string
	Path string // relative to project root
	Kind PackageKind
}

// Project is the Tier-0 introspection record for one indexed root.
type Project struct {
	RootDir  string
	Packages []Package
}

// DiscoverProject walks root looking for monorepo convention directories
// and returns the packages found. A root with none of the recognized
// top-level directories yields a Project with zero Packages — introspection
// tagging then degrades to single-package defaults, it never fails
// indexing.
func DiscoverProject(root string) (*Project, error) {
	proj := &Project{RootDir: root}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	matchedDirs := make(map[string]PackageKind)
	for _, e := range entries {
		if !e.IsDir() || skipDirs[e.Name()] {
			continue
		}
		for _, pat := range packagePatterns {
			if e.Name() == pat.dir {
				matchedDirs[e.Name()] = pat.kind
				break
			}
		}
	}

	for dirName, kind := range matchedDirs {
		children, err := os.ReadDir(filepath.Join(root, dirName))
		if err != nil {
			continue
		}
		for _, child := range children {
			if !child.IsDir() || skipDirs[child.Name()] {
				continue
			}
			proj.Packages = append(proj.Packages, Package{
				Name: child.Name(),
				Path: filepath.Join(dirName, child.Name()),
				Kind: kind,
			})
		}
	}

	return proj, nil
}

// PackageFor returns the most specific (longest matching path prefix)
// package containing relPath, or nil if relPath isn't inside any detected
// package.
func (p *Project) PackageFor(relPath string) *Package {
	var best *Package
	bestLen := -1
	for i := range p.Packages {
		pkg := &p.Packages[i]
		if relPath == pkg.Path || strings.HasPrefix(relPath, pkg.Path+string(filepath.Separator)) {
			if len(pkg.Path) > bestLen {
				best = pkg
				bestLen = len(pkg.Path)
			}
		}
	}
	return best
}
