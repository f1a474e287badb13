package parser

import (
	"context"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/conradkoh/raggrep/internal/model"
)

var tsNodeKinds = map[string]model.ChunkKind{
	"class_declaration":      model.KindClass,
	"interface_declaration":  model.KindInterface,
	"type_alias_declaration": model.KindType,
	"function_declaration":   model.KindFunction,
	"enum_declaration":       model.KindEnum,
}

type tsChunker struct{ *treeSitterChunker }

// NewTypeScriptParser returns the TypeScript language chunker. It uses the
// TypeScript grammar only, also for the .tsx/.js/.jsx files that
// language/typescript claims; the TSX grammar is not used.
func NewTypeScriptParser() Parser {
	lang := sitter.NewLanguage(typescript.LanguageTypescript())
	return &tsChunker{treeSitterChunker: newTreeSitterChunker(lang, "typescript", tsNodeKinds)}
}

func (c *tsChunker) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	tree, err := c.parseTree(source)
	if err != nil {
		return fallbackChunk(source), nil
	}
	defer tree.Close()
	return c.chunkDeclarations(source, tree), nil
}
