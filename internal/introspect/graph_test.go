package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDependencyGraphTracksEdges(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("web", "auth")
	g.AddDependency("web", "billing")
	g.AddDependency("billing", "auth")

	assert.ElementsMatch(t, []string{"auth", "billing"}, g.Dependencies("web"))
	assert.ElementsMatch(t, []string{"web", "billing"}, g.Dependents("auth"))
}

func TestDependencyGraphDropsCycles(t *testing.T) {
	g := NewDependencyGraph()
	g.AddDependency("a", "b")
	g.AddDependency("b", "a")

	assert.ElementsMatch(t, []string{"b"}, g.Dependencies("a"))
	assert.Empty(t, g.Dependencies("b"))
}

func TestExtractImportTargetsGo(t *testing.T) {
	src := "import (\n\t\"fmt\"\n\t\"github.com/conradkoh/raggrep/internal/auth\"\n)\n"
	targets := ExtractImportTargets("go", src)
	assert.Contains(t, targets, "github.com/conradkoh/raggrep/internal/auth")
}

func TestResolvePackageReferences(t *testing.T) {
	proj := &Project{Packages: []Package{{Name: "auth", Path: "packages/auth"}}}
	resolved := proj.ResolvePackageReferences([]string{"../auth/client", "./unrelated"})
	assert.Equal(t, []string{"auth"}, resolved)
}
