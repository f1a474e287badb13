package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/conradkoh/raggrep/internal/model"
)

var atxHeading = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// mdSection is one entry in the open-heading stack while scanning a
// markdown document.
type mdSection struct {
	level     int
	title     string
	startLine int
}

// markdownParser chunks a document at ATX heading boundaries. A chunk's
// Name is the ancestor heading path ("Setup > Prerequisites") so search
// results carry the document's section context rather than a bare
// heading title.
type markdownParser struct{}

// NewMarkdownParser returns the docs/markdown chunker.
func NewMarkdownParser() Parser { return markdownParser{} }

func (markdownParser) Language() string { return "markdown" }

func (markdownParser) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	lines := strings.Split(string(source), "\n")

	var stack []mdSection
	var chunks []ParsedChunk

	flush := func(endLine int) {
		if len(stack) == 0 {
			return
		}
		top := stack[len(stack)-1]
		chunks = append(chunks, ParsedChunk{
			Content:   strings.Join(lines[top.startLine-1:endLine], "\n"),
			StartLine: top.startLine,
			EndLine:   endLine,
			Kind:      model.KindBlock,
			Name:      headingPath(stack),
		})
	}

	for i, line := range lines {
		lineNo := i + 1
		m := atxHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		level := len(m[1])
		title := strings.TrimSpace(m[2])

		flush(lineNo - 1)

		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, mdSection{level: level, title: title, startLine: lineNo})
	}
	flush(len(lines))

	if len(chunks) == 0 {
		return []ParsedChunk{{
			Content:   string(source),
			StartLine: 1,
			EndLine:   len(lines),
			Kind:      model.KindFile,
		}}, nil
	}
	return chunks, nil
}

func headingPath(stack []mdSection) string {
	titles := make([]string, len(stack))
	for i, s := range stack {
		titles[i] = s.title
	}
	return strings.Join(titles, " > ")
}
