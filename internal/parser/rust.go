package parser

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
	rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/conradkoh/raggrep/internal/model"
)

var rustNodeKinds = map[string]model.ChunkKind{
	"struct_item":   model.KindClass,
	"enum_item":     model.KindEnum,
	"trait_item":    model.KindInterface,
	"function_item": model.KindFunction,
	"impl_item":     model.KindBlock,
}

type rustChunker struct{ *treeSitterChunker }

// NewRustParser returns the Rust language chunker.
func NewRustParser() Parser {
	lang := sitter.NewLanguage(rust.Language())
	return &rustChunker{treeSitterChunker: newTreeSitterChunker(lang, "rust", rustNodeKinds)}
}

func (c *rustChunker) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	tree, err := c.parseTree(source)
	if err != nil {
		return fallbackChunk(source), nil
	}
	defer tree.Close()
	return c.chunkDeclarations(source, tree), nil
}
