package search

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/coordinator"
	"github.com/conradkoh/raggrep/internal/literal"
)

// ExactMatch is a single literal-substring hit found by the hybrid
// exact-match pass, the remedy for file kinds no module parses (ยง4.10):
// .env files, YAML, and anything else outside the indexed extension set.
type ExactMatch struct {
	FilePath string
	Line     int
	Text     string
}

// exactMatchTerm picks what to grep for: the query's first explicit or
// implicit literal if it has one, otherwise the trimmed raw query.
func exactMatchTerm(query string) string {
	pq := literal.ParseQuery(query)
	if len(pq.Literals) > 0 {
		return pq.Literals[0]
	}
	return strings.TrimSpace(query)
}

// exactMatchPass scans every non-ignored file under root (regardless of
// configured extension) for a literal, case-sensitive substring match,
// skipping files that look binary. It is a grep-equivalent pass, not a
// ranked search: every hit is reported.
func exactMatchPass(root string, query string, cfg *config.Config) ([]ExactMatch, error) {
	term := exactMatchTerm(query)
	if term == "" {
		return nil, nil
	}

	files, err := coordinator.WalkAllFiles(root, cfg)
	if err != nil {
		return nil, err
	}

	var matches []ExactMatch
	needle := []byte(term)
	for _, rel := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		f, openErr := os.Open(full)
		if openErr != nil {
			continue
		}
		matches = append(matches, scanFile(f, rel, needle)...)
		f.Close()
	}
	return matches, nil
}

const binarySniffBytes = 8000

func scanFile(f *os.File, relPath string, needle []byte) []ExactMatch {
	head := make([]byte, binarySniffBytes)
	n, _ := f.Read(head)
	if bytes.IndexByte(head[:n], 0) != -1 {
		return nil // null byte within the first sniff window: treat as binary
	}
	if _, err := f.Seek(0, 0); err != nil {
		return nil
	}

	var out []ExactMatch
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if bytes.Contains(text, needle) {
			out = append(out, ExactMatch{
				FilePath: relPath,
				Line:     line,
				Text:     strings.TrimSpace(string(text)),
			})
		}
	}
	return out
}
