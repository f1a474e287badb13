package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryFallsBackToWholeFile(t *testing.T) {
	r := NewRegistry()
	p := r.For(".unknown")
	require.NotNil(t, p)

	chunks, err := p.Parse(context.Background(), "x.unknown", []byte("line one\nline two"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "line one\nline two", chunks[0].Content)
}

func TestRegistryFirstRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first := NewGoParser()
	second := NewJSONParser()

	r.Register(first, ".foo")
	r.Register(second, ".foo")

	assert.Equal(t, first, r.For(".foo"))
}

func TestRegistryHas(t *testing.T) {
	r := NewRegistry()
	r.Register(NewGoParser(), ".go")

	assert.True(t, r.Has(".go"))
	assert.False(t, r.Has(".py"))
}
