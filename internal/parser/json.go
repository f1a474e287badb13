package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conradkoh/raggrep/internal/model"
)

// jsonParser produces a single Kind=file chunk per document. The data/json
// module does not search chunk content semantically; it instead calls
// ExtractDotPaths separately to build its literal index, so this chunker
// stays intentionally shallow.
type jsonParser struct{}

// NewJSONParser returns the data/json chunker.
func NewJSONParser() Parser { return jsonParser{} }

func (jsonParser) Language() string { return "json" }

func (jsonParser) Parse(_ context.Context, _ string, source []byte) ([]ParsedChunk, error) {
	lineCount := strings.Count(string(source), "\n") + 1
	return []ParsedChunk{{
		Content:   string(source),
		StartLine: 1,
		EndLine:   lineCount,
		Kind:      model.KindFile,
	}}, nil
}

// ExtractDotPaths flattens a JSON document into dot-path identifiers, e.g.
// {"database":{"host":"x"}} yields "database.host". Array indices are
// included as numeric path segments so "servers.0.port" round-trips.
// Malformed JSON returns an empty slice rather than an error: literal
// extraction is best-effort and must never fail indexing of the file.
func ExtractDotPaths(source []byte) []string {
	var doc any
	if err := json.Unmarshal(source, &doc); err != nil {
		return nil
	}
	var paths []string
	walkJSONPaths("", doc, &paths)
	return paths
}

func walkJSONPaths(prefix string, v any, out *[]string) {
	switch val := v.(type) {
	case map[string]any:
		for key, child := range val {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			*out = append(*out, path)
			walkJSONPaths(path, child, out)
		}
	case []any:
		for i, child := range val {
			path := fmt.Sprintf("%s.%d", prefix, i)
			*out = append(*out, path)
			walkJSONPaths(path, child, out)
		}
	}
}
