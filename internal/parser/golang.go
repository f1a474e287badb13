package parser

import (
	"context"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	golang "github.com/tree-sitter/tree-sitter-go/bindings/go"

	"github.com/conradkoh/raggrep/internal/model"
)

// goNodeKinds maps tree-sitter-go's function and method declaration node
// kinds to chunk kinds. type_declaration is not in this map: it covers
// struct/interface/alias bodies alike, so extractGoTypeDeclarations chunks
// those separately and resolves KindClass-equivalent (struct) vs.
// KindInterface itself, since tree-sitter-go doesn't split them at the
// type_declaration level.
var goNodeKinds = map[string]model.ChunkKind{
	"function_declaration": model.KindFunction,
	"method_declaration":   model.KindFunction,
}

// goChunker chunks Go source via tree-sitter-go.
type goChunker struct {
	*treeSitterChunker
}

// NewGoParser returns the Go language chunker.
func NewGoParser() Parser {
	lang := sitter.NewLanguage(golang.Language())
	return &goChunker{treeSitterChunker: newTreeSitterChunker(lang, "go", goNodeKinds)}
}

func (c *goChunker) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	tree, err := c.parseTree(source)
	if err != nil {
		return fallbackChunk(source), nil
	}
	defer tree.Close()

	chunks := c.chunkDeclarations(source, tree)
	extra := c.extractGoTypeDeclarations(source, tree)
	return append(chunks, extra...), nil
}

// extractGoTypeDeclarations walks type_declaration nodes separately from
// chunkDeclarations because Go's grammar nests struct_type/interface_type
// under type_spec under type_declaration, one level deeper than the
// function/method declarations chunkDeclarations already handles.
func (c *goChunker) extractGoTypeDeclarations(source []byte, tree *sitter.Tree) []ParsedChunk {
	var chunks []ParsedChunk
	lines := strings.Split(string(source), "\n")

	walkTree(tree.RootNode(), func(n *sitter.Node) bool {
		if n.Kind() != "type_declaration" {
			return true
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			spec := n.Child(uint(i))
			if spec.Kind() != "type_spec" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			typeNode := spec.ChildByFieldName("type")
			if nameNode == nil || typeNode == nil {
				continue
			}
			kind := model.KindType
			switch typeNode.Kind() {
			case "struct_type":
				kind = model.KindClass
			case "interface_type":
				kind = model.KindInterface
			}
			name := extractNodeText(nameNode, source)
			startLine := int(n.StartPosition().Row) + 1
			endLine := int(n.EndPosition().Row) + 1
			chunks = append(chunks, ParsedChunk{
				Content:    extractLines(lines, startLine, endLine),
				StartLine:  startLine,
				EndLine:    endLine,
				Kind:       kind,
				Name:       name,
				Exported:   isExported(name, "go"),
				DocComment: leadingComment(n, source),
			})
		}
		return true
	})
	return chunks
}

func fallbackChunk(source []byte) []ParsedChunk {
	lines := strings.Split(string(source), "\n")
	return []ParsedChunk{{
		Content:   string(source),
		StartLine: 1,
		EndLine:   len(lines),
		Kind:      model.KindFile,
	}}
}
