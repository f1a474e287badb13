package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/config"
	_ "github.com/conradkoh/raggrep/internal/module" // registers into registry.Default
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.EnabledModules = []string{"core"}
	cfg.Embedding.Provider = "mock"
	return cfg
}

func TestRunIndexesNewFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello password 123"), 0o644))

	results, err := Run(context.Background(), root, testConfig(), registry.Default, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Indexed)
	assert.Equal(t, 0, results[0].Errors)
}

func TestRunIsIncrementalOnSecondPass(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("unchanged content"), 0o644))

	cfg := testConfig()
	_, err := Run(context.Background(), root, cfg, registry.Default, Options{})
	require.NoError(t, err)

	results, err := Run(context.Background(), root, cfg, registry.Default, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0, results[0].Indexed)
	assert.Equal(t, 1, results[0].Unchanged)
}

func TestRunRemovesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "a.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("some content here"), 0o644))

	cfg := testConfig()
	_, err := Run(context.Background(), root, cfg, registry.Default, Options{})
	require.NoError(t, err)

	require.NoError(t, os.Remove(filePath))

	results, err := Run(context.Background(), root, cfg, registry.Default, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].Removed)
}

func TestRunRejectsConcurrentWriter(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("content"), 0o644))

	indexDir, err := storage.EnsureLocation(root)
	require.NoError(t, err)
	lock := storage.NewLock(indexDir)
	held, err := lock.TryLock()
	require.NoError(t, err)
	require.True(t, held)
	defer lock.Unlock()

	_, err = Run(context.Background(), root, testConfig(), registry.Default, Options{})
	assert.Error(t, err)
}
