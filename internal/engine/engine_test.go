package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/conradkoh/raggrep/internal/module"
	"github.com/conradkoh/raggrep/internal/search"
)

func setEngineMockEmbedding(t *testing.T, e *Engine, dir string) {
	t.Helper()
	cfg, _, err := e.loadConfig(dir)
	require.NoError(t, err)
	cfg.Embedding.Provider = "mock"
	cfg.EnabledModules = []string{"core"}
}

func TestIndexSearchRoundTrip(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello password 123"), 0o644))

	e := New()
	setEngineMockEmbedding(t, e, root)

	results, err := e.Index(context.Background(), root, IndexOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Indexed)

	found, err := e.Search(context.Background(), root, "password", search.Options{TopK: 5, MinScore: 0.01, SkipFreshness: true})
	require.NoError(t, err)
	assert.NotEmpty(t, found)
}

func TestResetRemovesIndexDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("content"), 0o644))

	e := New()
	setEngineMockEmbedding(t, e, root)
	_, err := e.Index(context.Background(), root, IndexOptions{})
	require.NoError(t, err)

	require.NoError(t, e.Reset(root))
	_, err = e.Status(root)
	assert.Error(t, err)
}

func TestResetOnMissingIndexIsUserError(t *testing.T) {
	root := t.TempDir()
	e := New()
	err := e.Reset(root)
	assert.Error(t, err)
}
