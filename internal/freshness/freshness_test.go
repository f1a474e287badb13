package freshness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/model"
	_ "github.com/conradkoh/raggrep/internal/module"
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/storage"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.EnabledModules = []string{"core"}
	cfg.Embedding.Provider = "mock"
	return cfg
}

func TestEnsureFreshIndexesThenNoOpsOnRepeat(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello world"), 0o644))

	cfg := testConfig()
	res, err := EnsureFresh(context.Background(), root, cfg, registry.Default, logging.Silent{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Indexed)

	res2, err := EnsureFresh(context.Background(), root, cfg, registry.Default, logging.Silent{})
	require.NoError(t, err)
	assert.Equal(t, 0, res2.Indexed)
	assert.Equal(t, 0, res2.Removed)
}

func TestEnsureFreshRebuildsOnSchemaMismatch(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hello world"), 0o644))

	cfg := testConfig()
	_, err := EnsureFresh(context.Background(), root, cfg, registry.Default, logging.Silent{})
	require.NoError(t, err)

	indexDir, err := storage.Location(root)
	require.NoError(t, err)
	gm, err := storage.ReadGlobalManifest(indexDir)
	require.NoError(t, err)
	gm.SchemaVersion = model.SchemaVersion + 1
	require.NoError(t, storage.WriteGlobalManifest(indexDir, gm))

	res, err := EnsureFresh(context.Background(), root, cfg, registry.Default, logging.Silent{})
	require.NoError(t, err)
	assert.True(t, res.Rebuilt)
	assert.Equal(t, 1, res.Indexed)
}
