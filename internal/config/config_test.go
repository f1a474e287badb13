package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default().Extensions, cfg.Extensions)
	assert.Contains(t, cfg.Extensions, ".txt")
	assert.FileExists(t, Path(dir))
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Save(dir, Default()))

	t.Setenv("RAGGREP_EMBEDDING_MODEL", "custom/model")
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "custom/model", cfg.Embedding.Model)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Concurrency = 7
	cfg.EnabledModules = []string{"core"}
	require.NoError(t, Save(dir, cfg))

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Concurrency)
	assert.Equal(t, []string{"core"}, reloaded.EnabledModules)
}
