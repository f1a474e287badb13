package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conradkoh/raggrep/internal/model"
)

const goSample = `package sample

// Greeter says hello.
type Greeter struct {
	Name string
}

// Greet returns a greeting.
func (g Greeter) Greet() string {
	return "hello " + g.Name
}

func unexportedHelper() int {
	return 1
}
`

func TestGoParserExtractsFunctionsAndStructs(t *testing.T) {
	p := NewGoParser()
	chunks, err := p.Parse(context.Background(), "sample.go", []byte(goSample))
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	var names []string
	for _, c := range chunks {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Greeter")
	assert.Contains(t, names, "Greet")
	assert.Contains(t, names, "unexportedHelper")

	for _, c := range chunks {
		if c.Name == "Greeter" {
			assert.Equal(t, model.KindClass, c.Kind)
			assert.True(t, c.Exported)
		}
		if c.Name == "unexportedHelper" {
			assert.False(t, c.Exported)
		}
	}
}

func TestGoParserFallsBackOnUnparseableInput(t *testing.T) {
	p := NewGoParser()
	chunks, err := p.Parse(context.Background(), "broken.go", []byte("not even close to go"))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
}
