// Package literal implements the exact-identifier inverted index: the
// definition/reference-aware literal occurrence store, its scoring
// contribution, and free-text query literal parsing.
package literal

import (
	"regexp"
	"sort"
	"strings"
)

// OccurrenceKind distinguishes a declaration site from a mere reference.
type OccurrenceKind string

const (
	Definition OccurrenceKind = "definition"
	Reference  OccurrenceKind = "reference"
)

// Occurrence is a single recorded sighting of an identifier.
type Occurrence struct {
	ChunkID    string         `json:"chunk_id"`
	FilePath   string         `json:"filepath"`
	Kind       OccurrenceKind `json:"kind"`
	Confidence float64        `json:"confidence"`
	Line       int            `json:"line"`
}

// Index is a term -> occurrences inverted index, with exact case-sensitive
// lookup at query time.
type Index struct {
	terms map[string][]Occurrence
}

// New returns an empty literal index.
func New() *Index {
	return &Index{terms: make(map[string][]Occurrence)}
}

// Add records an occurrence of term.
func (idx *Index) Add(term string, occ Occurrence) {
	idx.terms[term] = append(idx.terms[term], occ)
}

// RemoveFile drops every occurrence recorded against filepath, used when a
// source file is deleted or reindexed from scratch.
func (idx *Index) RemoveFile(filepath string) {
	for term, occs := range idx.terms {
		filtered := occs[:0]
		for _, o := range occs {
			if o.FilePath != filepath {
				filtered = append(filtered, o)
			}
		}
		if len(filtered) == 0 {
			delete(idx.terms, term)
		} else {
			idx.terms[term] = filtered
		}
	}
}

// Lookup returns every occurrence recorded for the exact term, sorted so
// definitions precede references at equal confidence.
func (idx *Index) Lookup(term string) []Occurrence {
	occs := idx.terms[term]
	if len(occs) == 0 {
		return nil
	}
	out := make([]Occurrence, len(occs))
	copy(out, occs)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind == Definition
		}
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// Match is a single chunk's literal hits for a query.
type Match struct {
	ChunkID    string
	Terms      []string
	Occurrence Occurrence
}

// BuildMatchMap looks up every literal in queryLiterals and groups the
// resulting occurrences by chunk id.
func (idx *Index) BuildMatchMap(queryLiterals []string) map[string][]Match {
	out := make(map[string][]Match)
	for _, term := range queryLiterals {
		for _, occ := range idx.Lookup(term) {
			out[occ.ChunkID] = append(out[occ.ChunkID], Match{
				ChunkID:    occ.ChunkID,
				Terms:      []string{term},
				Occurrence: occ,
			})
		}
	}
	return out
}

// Contribution computes the literal-match scoring contribution for a
// chunk given its matches and whether it already carries a non-trivial
// BM25 or semantic signal. A definition contributes more than a reference;
// multiple matches compound sub-linearly; confidence scales linearly.
// base_boost is higher when the chunk has no other signal, so literal-only
// hits still surface.
func Contribution(matches []Match, hasOtherSignal bool) float64 {
	if len(matches) == 0 {
		return 0
	}

	baseBoost := 0.3
	if !hasOtherSignal {
		baseBoost = 0.6
	}

	multiplier := 0.0
	for i, m := range matches {
		weight := 1.0
		if m.Occurrence.Kind == Reference {
			weight = 0.6
		}
		weight *= m.Occurrence.Confidence

		// Sub-linear compounding: each additional match counts for less.
		decay := 1.0 / float64(i+1)
		multiplier += weight * decay
	}

	return baseBoost * multiplier
}

// --- Query literal parsing -------------------------------------------------

var (
	backtickOrQuoted = regexp.MustCompile("`([^`]+)`|\"([^\"]+)\"")
	// camelCase / PascalCase: a letter followed, later in the same word,
	// by at least one uppercase letter; all-caps words such as "API" match
	// too.
	camelOrPascal = regexp.MustCompile(`\b[A-Za-z][a-zA-Z0-9]*[A-Z][a-zA-Z0-9]*\b`)
	screamingSnake = regexp.MustCompile(`\b[A-Z][A-Z0-9_]*_[A-Z0-9_]*\b`)
	underscoreWord = regexp.MustCompile(`\b\w*_\w*\b`)
)

// ParsedQuery is the result of splitting a free-text query into explicit
// identifier literals and the residual lexical text.
type ParsedQuery struct {
	// Literals are explicit (backtick/quoted) or implicit
	// (camelCase/PascalCase/SCREAMING_SNAKE/underscore) identifiers.
	Literals []string
	// Residual is the remaining text after literal removal, passed on to
	// BM25 and embedding.
	Residual string
}

// ParseQuery extracts literals from free text per this engine's rules:
// backtick/double-quote delimited substrings are taken verbatim; any
// remaining camelCase, PascalCase, SCREAMING_SNAKE_CASE, or
// underscore-containing token is taken implicitly. What remains after
// removing all matched spans is the lexical residual.
func ParseQuery(query string) ParsedQuery {
	seen := make(map[string]bool)
	var literals []string
	remaining := query

	// Explicit literals first; each match (both the delimiters and the
	// contents) is stripped from the residual.
	explicit := backtickOrQuoted.FindAllStringSubmatchIndex(remaining, -1)
	var builder strings.Builder
	last := 0
	for _, m := range explicit {
		// m[0],m[1] = full match span; the content group is whichever of
		// group 1 (backtick) or group 2 (quote) matched.
		var content string
		if m[2] != -1 {
			content = remaining[m[2]:m[3]]
		} else {
			content = remaining[m[4]:m[5]]
		}
		builder.WriteString(remaining[last:m[0]])
		last = m[1]

		if content != "" && !seen[content] {
			seen[content] = true
			literals = append(literals, content)
		}
	}
	builder.WriteString(remaining[last:])
	remaining = builder.String()

	// Implicit identifier patterns over what's left.
	for _, re := range []*regexp.Regexp{screamingSnake, camelOrPascal, underscoreWord} {
		for _, tok := range re.FindAllString(remaining, -1) {
			if !looksLikeIdentifier(tok) {
				continue
			}
			if !seen[tok] {
				seen[tok] = true
				literals = append(literals, tok)
			}
			remaining = strings.Replace(remaining, tok, "", 1)
		}
	}

	return ParsedQuery{
		Literals: literals,
		Residual: strings.TrimSpace(collapseSpaces(remaining)),
	}
}

func looksLikeIdentifier(tok string) bool {
	hasLetter := false
	for _, r := range tok {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			hasLetter = true
			break
		}
	}
	return hasLetter
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
