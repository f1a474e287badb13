// Package parser defines the chunker port that every indexer module calls
// through, plus the extension-keyed registry used to pick an implementation
// for a given file.
package parser

import (
	"context"
	"strings"

	"github.com/conradkoh/raggrep/internal/model"
)

// ParsedChunk is one chunker-produced unit, prior to ID assignment and
// embedding. StartLine/EndLine are 1-indexed and inclusive.
type ParsedChunk struct {
	Content    string
	StartLine  int
	EndLine    int
	Kind       model.ChunkKind
	Name       string
	Exported   bool
	DocComment string
	Comments   []string
}

// Parser turns one file's source bytes into chunks. Implementations must
// never fail on syntactically invalid input: fall back to a single
// file-kind chunk rather than returning an error for recoverable parse
// failures, so one malformed file never stalls an entire index run.
type Parser interface {
	// Language is the registry key used for logging and module config, e.g.
	// "go", "typescript", "json".
	Language() string

	// Parse chunks source, the verbatim bytes of the file at path.
	Parse(ctx context.Context, path string, source []byte) ([]ParsedChunk, error)
}

// WholeFileParser is the mandatory fallback: one Kind=file chunk spanning
// the whole source. Every registry includes it, keyed to no extension in
// particular, so Registry.For never returns a nil Parser.
type WholeFileParser struct{}

func (WholeFileParser) Language() string { return "text" }

func (WholeFileParser) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	lineCount := strings.Count(string(source), "\n") + 1
	return []ParsedChunk{{
		Content:   string(source),
		StartLine: 1,
		EndLine:   lineCount,
		Kind:      model.KindFile,
	}}, nil
}
