package introspect

import (
	"regexp"
	"strings"

	"github.com/dominikbraun/graph"
)

// DependencyGraph is the directed, acyclic-in-practice graph of detected
// package references: an edge A -> B means a file in package A imports
// something that resolves to package B. Built with dominikbraun/graph
// since it's a pure in-memory graph library with no persistence
// opinions. The graph is not persisted, and the coordinator neither
// builds it nor fills FileIndex.References.
type DependencyGraph struct {
	g graph.Graph[string, string]
}

// NewDependencyGraph returns an empty graph over package names.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		g: graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles()),
	}
}

// AddPackage registers a vertex for name, idempotently.
func (d *DependencyGraph) AddPackage(name string) {
	_ = d.g.AddVertex(name)
}

// AddDependency records that from imports to. Edges that would introduce
// a cycle are dropped rather than erroring: a package-level import cycle
// is a fact about the codebase, not a bug in this graph, and silently
// refusing the edge keeps the rest of indexing moving.
func (d *DependencyGraph) AddDependency(from, to string) {
	if from == "" || to == "" || from == to {
		return
	}
	d.AddPackage(from)
	d.AddPackage(to)
	_ = d.g.AddEdge(from, to)
}

// Dependencies returns the set of packages pkg depends on directly.
func (d *DependencyGraph) Dependencies(pkg string) []string {
	adjacency, err := d.g.AdjacencyMap()
	if err != nil {
		return nil
	}
	edges, ok := adjacency[pkg]
	if !ok {
		return nil
	}
	var deps []string
	for target := range edges {
		deps = append(deps, target)
	}
	return deps
}

// Dependents returns the set of packages that depend directly on pkg.
func (d *DependencyGraph) Dependents(pkg string) []string {
	predecessors, err := d.g.PredecessorMap()
	if err != nil {
		return nil
	}
	edges, ok := predecessors[pkg]
	if !ok {
		return nil
	}
	var deps []string
	for source := range edges {
		deps = append(deps, source)
	}
	return deps
}

var (
	goImportPath      = regexp.MustCompile(`^\s*"([^"]+)"\s*$`)
	tsImportPath      = regexp.MustCompile(`from\s+['"]([^'"]+)['"]`)
	pythonImportPath  = regexp.MustCompile(`^\s*(?:from\s+(\S+)\s+import|import\s+(\S+))`)
	rustUseDecl       = regexp.MustCompile(`^\s*use\s+([\w:]+)`)
)

// ExtractImportTargets does a line-oriented best-effort scan for import
// targets, used only to resolve which detected packages reference which
// others — it does not need full import-path resolution, just enough to
// match a target against a Project's known package names.
func ExtractImportTargets(language, content string) []string {
	var targets []string
	for _, line := range strings.Split(content, "\n") {
		switch language {
		case "go":
			if m := goImportPath.FindStringSubmatch(line); m != nil {
				targets = append(targets, m[1])
			}
		case "typescript":
			if m := tsImportPath.FindStringSubmatch(line); m != nil {
				targets = append(targets, m[1])
			}
		case "python":
			if m := pythonImportPath.FindStringSubmatch(line); m != nil {
				if m[1] != "" {
					targets = append(targets, m[1])
				} else {
					targets = append(targets, m[2])
				}
			}
		case "rust":
			if m := rustUseDecl.FindStringSubmatch(line); m != nil {
				targets = append(targets, m[1])
			}
		}
	}
	return targets
}

// ResolvePackageReferences maps raw import target strings to detected
// package names, keeping only those that resolve — e.g. "../auth/client"
// matching the "auth" package under packages/.
func (p *Project) ResolvePackageReferences(targets []string) []string {
	var resolved []string
	seen := make(map[string]bool)
	for _, target := range targets {
		for _, pkg := range p.Packages {
			if strings.Contains(target, pkg.Name) && !seen[pkg.Name] {
				seen[pkg.Name] = true
				resolved = append(resolved, pkg.Name)
			}
		}
	}
	return resolved
}
