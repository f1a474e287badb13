package parser

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/conradkoh/raggrep/internal/model"
)

var pyNodeKinds = map[string]model.ChunkKind{
	"class_definition":    model.KindClass,
	"function_definition": model.KindFunction,
}

type pyChunker struct{ *treeSitterChunker }

// NewPythonParser returns the Python language chunker.
func NewPythonParser() Parser {
	lang := sitter.NewLanguage(python.Language())
	return &pyChunker{treeSitterChunker: newTreeSitterChunker(lang, "python", pyNodeKinds)}
}

func (c *pyChunker) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	tree, err := c.parseTree(source)
	if err != nil {
		return fallbackChunk(source), nil
	}
	defer tree.Close()
	return c.chunkDeclarations(source, tree), nil
}
