package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/conradkoh/raggrep/internal/model"
)

// treeSitterChunker holds what every grammar-backed Parser needs: the
// compiled language and a node-kind dispatch table mapping a grammar's
// declaration node kinds to a ChunkKind. Every matched node gets the same
// leading-comment lookup.
type treeSitterChunker struct {
	language *sitter.Language
	lang     string
	kinds    map[string]model.ChunkKind
}

func newTreeSitterChunker(language *sitter.Language, lang string, kinds map[string]model.ChunkKind) *treeSitterChunker {
	return &treeSitterChunker{language: language, lang: lang, kinds: kinds}
}

func (c *treeSitterChunker) Language() string { return c.lang }

func (c *treeSitterChunker) parseTree(source []byte) (*sitter.Tree, error) {
	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(c.language)
	tree := p.Parse(source, nil)
	if tree == nil {
		return nil, errParseFailed
	}
	return tree, nil
}

// chunkDeclarations walks the tree and emits one ParsedChunk per node
// whose kind is in c.kinds, plus a trailing file-kind chunk if nothing
// matched (keeps every file searchable even when it's all plumbing).
func (c *treeSitterChunker) chunkDeclarations(source []byte, tree *sitter.Tree) []ParsedChunk {
	root := tree.RootNode()
	lines := strings.Split(string(source), "\n")
	var chunks []ParsedChunk

	walkTree(root, func(n *sitter.Node) bool {
		kind, ok := c.kinds[n.Kind()]
		if !ok {
			return true
		}
		startLine := int(n.StartPosition().Row) + 1
		endLine := int(n.EndPosition().Row) + 1
		name := nodeName(n, source)
		chunks = append(chunks, ParsedChunk{
			Content:    extractLines(lines, startLine, endLine),
			StartLine:  startLine,
			EndLine:    endLine,
			Kind:       kind,
			Name:       name,
			Exported:   isExported(name, c.lang),
			DocComment: leadingComment(n, source),
		})
		return true
	})

	if len(chunks) == 0 {
		chunks = append(chunks, ParsedChunk{
			Content:   string(source),
			StartLine: 1,
			EndLine:   len(lines),
			Kind:      model.KindFile,
		})
	}
	return chunks
}

func nodeName(n *sitter.Node, source []byte) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return extractNodeText(nameNode, source)
}

// isExported applies Go's upper-case-identifier export rule for "go" and
// Python's leading-underscore convention for "python", and treats
// everything else (TS, Rust) as exported by default since those languages
// don't encode visibility in the identifier alone and a false
// "unexported" would unfairly suppress ranking boosts.
func isExported(name, lang string) bool {
	if name == "" {
		return false
	}
	switch lang {
	case "go":
		r := name[0]
		return r >= 'A' && r <= 'Z'
	case "python":
		return name[0] != '_'
	default:
		return true
	}
}

// leadingComment collects the contiguous block of "comment"-kind sibling
// nodes immediately preceding n, joined as n's doc comment.
func leadingComment(n *sitter.Node, source []byte) string {
	parent := n.Parent()
	if parent == nil {
		return ""
	}
	var comments []string
	idx := childIndex(parent, n)
	for i := idx - 1; i >= 0; i-- {
		sibling := parent.Child(uint(i))
		if sibling == nil || sibling.Kind() != "comment" {
			break
		}
		comments = append([]string{extractNodeText(sibling, source)}, comments...)
	}
	return strings.Join(comments, "\n")
}

func childIndex(parent, target *sitter.Node) int {
	for i := 0; i < int(parent.ChildCount()); i++ {
		if parent.Child(uint(i)).Id() == target.Id() {
			return i
		}
	}
	return -1
}

// extractNodeText extracts the text content of a tree-sitter node.
func extractNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// extractLines extracts source code lines from startLine to endLine (1-indexed).
func extractLines(lines []string, startLine, endLine int) string {
	if startLine < 1 || endLine < 1 || startLine > len(lines) {
		return ""
	}
	start := startLine - 1
	end := endLine
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// walkTree recursively walks a tree-sitter tree and calls the visitor for each node.
func walkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visitor(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(uint(i)), visitor)
	}
}

type parseError string

func (e parseError) Error() string { return string(e) }

const errParseFailed = parseError("tree-sitter parse returned nil tree")
