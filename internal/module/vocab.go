package module

import (
	"regexp"
	"strings"

	porterstemmer "github.com/blevesearch/go-porterstemmer"

	"github.com/conradkoh/raggrep/internal/introspect"
	"github.com/conradkoh/raggrep/internal/vectormath"
)

// vocabWordSplitter breaks a camel-split string into words on any
// non-word character or underscore, so "validate_user_session" (already
// camel-split by introspect.SplitCamel upstream) becomes three tokens
// rather than one.
var vocabWordSplitter = regexp.MustCompile(`[\W_]+`)

// vocabularyOverlapCap bounds the vocabulary-overlap bonus so it can
// refine the semantic+lexical score without dominating it.
const vocabularyOverlapCap = 0.2

// vocabularyOverlap computes a stemmed-Jaccard overlap between query and
// content, scaled into [0, vocabularyOverlapCap]. This catches the case
// where a query and a chunk share vocabulary (e.g. "validate" / "validation")
// that neither BM25's exact tokens nor a single embedding vector reliably
// surfaces on its own.
func vocabularyOverlap(query, content string) float64 {
	qSet := stemmedSet(query)
	cSet := stemmedSet(content)
	if len(qSet) == 0 || len(cSet) == 0 {
		return 0
	}

	intersection := 0
	for term := range qSet {
		if cSet[term] {
			intersection++
		}
	}
	union := len(qSet) + len(cSet) - intersection
	if union == 0 {
		return 0
	}

	jaccard := float64(intersection) / float64(union)
	bonus := jaccard * vocabularyOverlapCap
	if bonus > vocabularyOverlapCap {
		return vocabularyOverlapCap
	}
	return bonus
}

// stemmedSet tokenizes text into a stemmed word set, splitting
// camelCase and snake_case identifiers apart first (ยง4.10's vocabulary
// scorer: "split camelCase and snake_case, stem") so an identifier like
// validateUserSession overlaps with query words like "user"/"session".
func stemmedSet(text string) map[string]bool {
	lower := strings.ToLower(introspect.SplitCamel(text))
	parts := vocabWordSplitter.Split(lower, -1)
	set := make(map[string]bool, len(parts))
	for _, p := range parts {
		if len(p) <= 1 {
			continue
		}
		set[porterstemmer.StemString(p)] = true
	}
	return set
}

// cosineSimilaritySafe wraps vectormath.CosineSimilarity, treating a
// length mismatch (a stale embedding from a prior model) as "no
// semantic signal" instead of propagating an error up through Search.
func cosineSimilaritySafe(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, nil
	}
	return vectormath.CosineSimilarity(a, b)
}
