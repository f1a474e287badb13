package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/config"
	_ "github.com/conradkoh/raggrep/internal/module"
	"github.com/conradkoh/raggrep/internal/registry"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.EnabledModules = []string{"core"}
	cfg.Embedding.Provider = "mock"
	return cfg
}

// Scenario 1 (ยง8): a filename-signal-only file must surface for a
// plain search, not just hybridSearch.
func TestSearchFindsFilenameSignal(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "test"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "test", "password.txt"), []byte("password 123"), 0o644))

	results, err := Search(context.Background(), root, "password", testConfig(), registry.Default, Options{TopK: 10, MinScore: 0.01})
	require.NoError(t, err)

	found := false
	for _, r := range results {
		if r.FilePath == "test/password.txt" {
			found = true
		}
	}
	assert.True(t, found, "expected test/password.txt among results: %+v", results)
}

func TestSearchDedupesSameChunk(t *testing.T) {
	all := []Result{
		{FilePath: "a.go", StartLine: 1, EndLine: 5, Score: 0.4},
		{FilePath: "a.go", StartLine: 1, EndLine: 5, Score: 0.9},
		{FilePath: "b.go", StartLine: 1, EndLine: 3, Score: 0.5},
	}
	deduped := dedupe(all)
	require.Len(t, deduped, 2)
	for _, r := range deduped {
		if r.FilePath == "a.go" {
			assert.Equal(t, 0.9, r.Score)
		}
	}
}

func TestApplyFiltersTypeAndPath(t *testing.T) {
	all := []Result{
		{FilePath: "src/a.go"},
		{FilePath: "src/b.ts"},
		{FilePath: "docs/readme.md"},
	}
	out := applyFilters(all, Options{TypeFilter: ".go"})
	require.Len(t, out, 1)
	assert.Equal(t, "src/a.go", out[0].FilePath)

	out = applyFilters(all, Options{PathFilters: []string{"docs"}})
	require.Len(t, out, 1)
	assert.Equal(t, "docs/readme.md", out[0].FilePath)

	out = applyFilters(all, Options{PathFilters: []string{"*.ts"}})
	require.Len(t, out, 1)
	assert.Equal(t, "src/b.ts", out[0].FilePath)
}

// Scenario 4 (ยง8): an explicit literal query's top result must expose a
// LiteralMultiplier > 1.
func TestSearchExposesLiteralMultiplier(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "auth"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "auth", "hash.go"), []byte(
		"package auth\n\nfunc HashPassword(pw string) string {\n\treturn pw\n}\n"), 0o644))

	results, err := Search(context.Background(), root, "`HashPassword`", testConfig(), registry.Default, Options{TopK: 10, MinScore: 0.01})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Greater(t, results[0].LiteralMultiplier, 1.0)
}

func TestHybridSearchFlagsExactMatches(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "config.env"), []byte("AUTH_SERVICE_GRPC_URL=localhost:9000"), 0o644))

	result, err := HybridSearch(context.Background(), root, "AUTH_SERVICE_GRPC_URL", testConfig(), registry.Default, Options{})
	require.NoError(t, err)
	require.NotEmpty(t, result.ExactMatches)
	assert.Equal(t, "config.env", result.ExactMatches[0].FilePath)
}
