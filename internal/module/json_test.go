package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/introspect"
)

const sampleJSON = `{"database":{"host":"localhost","port":5432},"name":"svc"}`

func TestJSONModuleIndexAndSearchByDotPath(t *testing.T) {
	dir := t.TempDir()
	m := NewJSONModule().(*jsonModule)
	require.NoError(t, m.Initialize(context.Background(), Config{IndexDir: dir}))

	ctx := context.Background()
	require.NoError(t, m.IndexFile(ctx, "config/app.json", []byte(sampleJSON), introspect.FileTags{}))

	results, err := m.Search(ctx, "database.host", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "config/app.json", results[0].FilePath)
}

func TestJSONModuleRemoveFile(t *testing.T) {
	dir := t.TempDir()
	m := NewJSONModule().(*jsonModule)
	require.NoError(t, m.Initialize(context.Background(), Config{IndexDir: dir}))

	ctx := context.Background()
	require.NoError(t, m.IndexFile(ctx, "config/app.json", []byte(sampleJSON), introspect.FileTags{}))
	require.NoError(t, m.RemoveFile(ctx, "config/app.json"))

	results, err := m.Search(ctx, "database.host", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
