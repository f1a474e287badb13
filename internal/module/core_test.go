package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/introspect"
	"github.com/conradkoh/raggrep/internal/parser"
)

func newTestCoreModule(t *testing.T) (*coreModule, string) {
	t.Helper()
	dir := t.TempDir()
	m := NewCoreModule("language/go", "Go", "go", []string{".go"}, parser.NewGoParser()).(*coreModule)
	require.NoError(t, m.Initialize(context.Background(), Config{
		IndexDir:  dir,
		Embedding: embed.NewMockProvider(),
	}))
	return m, dir
}

const sampleGoSource = `package sample

// HashPassword hashes a password. HashPassword HashPassword HashPassword.
func HashPassword(pw string) string {
	return pw
}
`

const decoyGoSource = `package sample

// ParseConfig reads settings from disk.
func ParseConfig(path string) error {
	return nil
}
`

func TestCoreModuleIndexAndSearch(t *testing.T) {
	m, _ := newTestCoreModule(t)
	ctx := context.Background()

	require.NoError(t, m.IndexFile(ctx, "config/parse.go", []byte(decoyGoSource), introspect.FileTags{}))
	require.NoError(t, m.IndexFile(ctx, "config/other.go", []byte(decoyGoSource+"\n// pad"), introspect.FileTags{}))
	require.NoError(t, m.IndexFile(ctx, "auth/hash.go", []byte(sampleGoSource), introspect.FileTags{Domain: "auth"}))

	results, err := m.Search(ctx, "HashPassword", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "HashPassword", results[0].Name)
}

func TestCoreModuleRemoveFile(t *testing.T) {
	m, _ := newTestCoreModule(t)
	ctx := context.Background()

	require.NoError(t, m.IndexFile(ctx, "auth/hash.go", []byte(sampleGoSource), introspect.FileTags{}))
	require.NoError(t, m.RemoveFile(ctx, "auth/hash.go"))

	results, err := m.Search(ctx, "HashPassword", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCoreModuleReindexReplacesPriorContribution(t *testing.T) {
	m, _ := newTestCoreModule(t)
	ctx := context.Background()

	require.NoError(t, m.IndexFile(ctx, "auth/hash.go", []byte(sampleGoSource), introspect.FileTags{}))
	require.NoError(t, m.IndexFile(ctx, "auth/hash.go", []byte(sampleGoSource), introspect.FileTags{}))

	assert.Equal(t, 1, m.bm25.DocCount())
}

// Scenario 4 (spec.md ยง8): an explicit backtick literal query must rank
// the defining file first with a literal contribution greater than zero,
// the raw signal search.Result.LiteralMultiplier is built from.
func TestCoreModuleSearchExposesLiteralContribution(t *testing.T) {
	m, _ := newTestCoreModule(t)
	ctx := context.Background()

	require.NoError(t, m.IndexFile(ctx, "config/parse.go", []byte(decoyGoSource), introspect.FileTags{}))
	require.NoError(t, m.IndexFile(ctx, "auth/hash.go", []byte(sampleGoSource), introspect.FileTags{}))

	results, err := m.Search(ctx, "`HashPassword`", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "HashPassword", results[0].Name)
	assert.Greater(t, results[0].LiteralPart, 0.0)
}

func TestCoreModuleFinalizePersistsSidecars(t *testing.T) {
	m, dir := newTestCoreModule(t)
	ctx := context.Background()

	require.NoError(t, m.IndexFile(ctx, "auth/hash.go", []byte(sampleGoSource), introspect.FileTags{}))
	require.NoError(t, m.Finalize(ctx))

	m2 := NewCoreModule("language/go", "Go", "go", []string{".go"}, parser.NewGoParser()).(*coreModule)
	require.NoError(t, m2.Initialize(ctx, Config{IndexDir: dir, Embedding: embed.NewMockProvider()}))
	assert.Equal(t, 1, m2.bm25.DocCount())
}
