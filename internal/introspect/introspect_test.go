package introspect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func TestDiscoverProjectFindsPackages(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "packages/auth", "packages/billing", "apps/web", "node_modules/ignored")

	proj, err := DiscoverProject(root)
	require.NoError(t, err)

	var names []string
	for _, p := range proj.Packages {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "auth")
	assert.Contains(t, names, "billing")
	assert.Contains(t, names, "web")
	assert.NotContains(t, names, "ignored")
}

func TestPackageForMostSpecificMatch(t *testing.T) {
	proj := &Project{Packages: []Package{
		{Name: "auth", Path: "packages/auth"},
	}}

	pkg := proj.PackageFor("packages/auth/internal/token.go")
	require.NotNil(t, pkg)
	assert.Equal(t, "auth", pkg.Name)

	assert.Nil(t, proj.PackageFor("cmd/main.go"))
}

func TestTagFileDetectsLayer(t *testing.T) {
	proj := &Project{}
	tags := proj.TagFile("internal/handlers/user.go", "go")
	assert.Equal(t, LayerAPI, tags.Layer)

	tags = proj.TagFile("internal/repository/user_repo.go", "go")
	assert.Equal(t, LayerData, tags.Layer)
}

func TestExtractKeywords(t *testing.T) {
	tags := FileTags{Domain: "auth", Layer: LayerAPI}
	kws := ExtractKeywords("packages/auth/userService.go", tags)
	assert.Contains(t, kws, "user")
	assert.Contains(t, kws, "service")
	assert.Contains(t, kws, "auth")
	assert.Contains(t, kws, "api")
}
