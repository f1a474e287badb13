package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mdSample = `# Setup

Intro text.

## Prerequisites

Install Go.

## Configuration

Edit config.json.
`

func TestMarkdownParserChunksByHeading(t *testing.T) {
	p := NewMarkdownParser()
	chunks, err := p.Parse(context.Background(), "doc.md", []byte(mdSample))
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "Setup", chunks[0].Name)
	assert.Equal(t, "Setup > Prerequisites", chunks[1].Name)
	assert.Equal(t, "Setup > Configuration", chunks[2].Name)
}

func TestMarkdownParserNoHeadingsFallsBackToFile(t *testing.T) {
	p := NewMarkdownParser()
	chunks, err := p.Parse(context.Background(), "doc.md", []byte("just a paragraph, no headings"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}
