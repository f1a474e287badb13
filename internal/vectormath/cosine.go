// Package vectormath implements the small numeric primitive the hybrid
// ranker needs over embedding vectors: cosine similarity. The sigmoid that
// normalizes lexical scores into [0, 1] lives in internal/bm25.
package vectormath

import (
	"math"

	"github.com/conradkoh/raggrep/internal/rgerr"
)

// CosineSimilarity computes the cosine similarity of two equal-length
// vectors. Vectors are assumed L2-normalized on write, so this reduces to
// a dot product in the common case; it is still computed robustly when
// either norm is zero (returning 0 rather than dividing by zero).
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, rgerr.Wrap(rgerr.Input, "CosineSimilarity", errLengthMismatch(len(a), len(b)))
	}

	var dot, normA, normB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

type lengthMismatchError struct {
	lenA, lenB int
}

func (e lengthMismatchError) Error() string {
	return "vector length mismatch"
}

func errLengthMismatch(lenA, lenB int) error {
	return lengthMismatchError{lenA: lenA, lenB: lenB}
}
