package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/introspect"
)

const sampleMarkdown = `# Setup

## Configuration

Edit config.json to set the database host and port before starting the
service. The configuration file controls every runtime setting.
`

func TestMarkdownModuleIndexAndSearch(t *testing.T) {
	dir := t.TempDir()
	m := NewMarkdownModule().(*markdownModule)
	require.NoError(t, m.Initialize(context.Background(), Config{
		IndexDir:  dir,
		Embedding: embed.NewMockProvider(),
	}))

	ctx := context.Background()
	require.NoError(t, m.IndexFile(ctx, "docs/setup.md", []byte(sampleMarkdown), introspect.FileTags{}))

	results, err := m.Search(ctx, "how do I configure the database", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "docs/setup.md", results[0].FilePath)
}

func TestMarkdownModuleRemoveFile(t *testing.T) {
	dir := t.TempDir()
	m := NewMarkdownModule().(*markdownModule)
	require.NoError(t, m.Initialize(context.Background(), Config{
		IndexDir:  dir,
		Embedding: embed.NewMockProvider(),
	}))

	ctx := context.Background()
	require.NoError(t, m.IndexFile(ctx, "docs/setup.md", []byte(sampleMarkdown), introspect.FileTags{}))
	require.NoError(t, m.RemoveFile(ctx, "docs/setup.md"))

	results, err := m.Search(ctx, "configuration", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}
