// Package bm25 implements the probabilistic BM25 ranking function over
// tokenized chunk documents, per this engine's tokenization, scoring, and
// normalization contract.
package bm25

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

const (
	k1 = 1.5
	b  = 0.75
)

var tokenSplitter = regexp.MustCompile(`\W+`)

// Tokenize lowercases, splits on \W+, and drops tokens of length <= 1.
// No stemming happens here — stemming is reserved for the vocabulary
// scorer layered on top of BM25 at query time.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	parts := tokenSplitter.Split(lower, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 1 {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Result is a single scored document.
type Result struct {
	DocID string
	Score float64
}

// Index accumulates per-document token statistics and answers BM25 queries.
// It is not safe for concurrent writes; callers serialize index-build
// access themselves (the coordinator's single-owner finalize step).
type Index struct {
	docTokens  map[string][]string
	docLength  map[string]int
	docFreq    map[string]int // term -> number of docs containing it
	totalDocs  int
	totalLen   int
	docOrder   []string // insertion order, for deterministic re-serialization
}

// New returns an empty BM25 index.
func New() *Index {
	return &Index{
		docTokens: make(map[string][]string),
		docLength: make(map[string]int),
		docFreq:   make(map[string]int),
	}
}

// AddDocument indexes (or re-indexes) a document under docID. Re-adding an
// existing docID first removes its old contribution so incremental
// finalize passes stay correct.
func (idx *Index) AddDocument(docID, text string) {
	if _, exists := idx.docTokens[docID]; exists {
		idx.RemoveDocument(docID)
	}

	tokens := Tokenize(text)
	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			idx.docFreq[t]++
			seen[t] = true
		}
	}

	idx.docTokens[docID] = tokens
	idx.docLength[docID] = len(tokens)
	idx.docOrder = append(idx.docOrder, docID)
	idx.totalDocs++
	idx.totalLen += len(tokens)
}

// RemoveDocument removes a previously indexed document, decrementing
// document-frequency counts. A no-op if docID was never indexed.
func (idx *Index) RemoveDocument(docID string) {
	tokens, exists := idx.docTokens[docID]
	if !exists {
		return
	}

	seen := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			idx.docFreq[t]--
			if idx.docFreq[t] <= 0 {
				delete(idx.docFreq, t)
			}
			seen[t] = true
		}
	}

	idx.totalLen -= idx.docLength[docID]
	idx.totalDocs--
	delete(idx.docTokens, docID)
	delete(idx.docLength, docID)

	for i, id := range idx.docOrder {
		if id == docID {
			idx.docOrder = append(idx.docOrder[:i], idx.docOrder[i+1:]...)
			break
		}
	}
}

func (idx *Index) avgDocLength() float64 {
	if idx.totalDocs == 0 {
		return 0
	}
	return float64(idx.totalLen) / float64(idx.totalDocs)
}

// idf computes the smoothed inverse document frequency:
// log(1 + (N - df + 0.5) / (df + 0.5))
func (idx *Index) idf(term string) float64 {
	df := float64(idx.docFreq[term])
	n := float64(idx.totalDocs)
	return math.Log(1 + (n-df+0.5)/(df+0.5))
}

// Search tokenizes the query identically to documents, sums per-term BM25
// contributions for every document containing at least one term, and
// returns the top-k results sorted by descending score. Empty queries
// produce no results.
func (idx *Index) Search(query string, k int) []Result {
	terms := Tokenize(query)
	if len(terms) == 0 {
		return nil
	}

	avgLen := idx.avgDocLength()
	scores := make(map[string]float64)

	for _, term := range terms {
		df := idx.docFreq[term]
		if df == 0 {
			continue
		}
		idf := idx.idf(term)

		for _, docID := range idx.docOrder {
			tokens := idx.docTokens[docID]
			tf := termFreq(tokens, term)
			if tf == 0 {
				continue
			}
			dl := float64(idx.docLength[docID])
			denom := tf + k1*(1-b+b*dl/maxNonZero(avgLen))
			scores[docID] += idf * (tf * (k1 + 1) / denom)
		}
	}

	results := make([]Result, 0, len(scores))
	for docID, score := range scores {
		results = append(results, Result{DocID: docID, Score: score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].DocID < results[j].DocID
		}
		return results[i].Score > results[j].Score
	})

	if k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

func maxNonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func termFreq(tokens []string, term string) float64 {
	count := 0.0
	for _, t := range tokens {
		if t == term {
			count++
		}
	}
	return count
}

// Normalize maps a raw BM25 score into [0, 1] via
// 1 / (1 + exp(-score/midpoint + 1)). Chunk-level fusion uses midpoint 3,
// file-level filtering uses midpoint 5 (see NormalizeChunk/NormalizeFile).
func Normalize(score, midpoint float64) float64 {
	return 1 / (1 + math.Exp(-score/midpoint+1))
}

// NormalizeChunk normalizes a chunk-level BM25 score (midpoint 3).
func NormalizeChunk(score float64) float64 { return Normalize(score, 3) }

// NormalizeFile normalizes a file-level BM25 score (midpoint 5).
func NormalizeFile(score float64) float64 { return Normalize(score, 5) }

// DocCount returns the number of documents currently indexed.
func (idx *Index) DocCount() int { return idx.totalDocs }
