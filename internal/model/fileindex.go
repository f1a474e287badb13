package model

import "time"

// EmbeddingPayload carries one module's embedding matrix for a file: one
// vector per chunk, plus the model identifier that produced them.
type EmbeddingPayload struct {
	Model   string      `json:"model"`
	Vectors [][]float32 `json:"vectors"`
}

// FileIndex is the per-(file, module) persisted unit. Invariant: the
// length of Embeddings.Vectors equals len(Chunks) whenever Embeddings is
// non-nil (literal-only modules such as data/json omit it).
type FileIndex struct {
	FilePath     string            `json:"filepath"`
	LastModified time.Time         `json:"last_modified"`
	Chunks       []Chunk           `json:"chunks"`
	Embeddings   *EmbeddingPayload `json:"embeddings,omitempty"`
	References   []string          `json:"references,omitempty"`
}

// Validate checks the FileIndex invariants.
func (fi *FileIndex) Validate() error {
	for _, c := range fi.Chunks {
		if c.StartLine > c.EndLine {
			return &InvariantError{Detail: "chunk startLine > endLine: " + c.ID}
		}
	}
	if fi.Embeddings != nil && len(fi.Embeddings.Vectors) != len(fi.Chunks) {
		return &InvariantError{Detail: "embeddings length mismatch for " + fi.FilePath}
	}
	return nil
}

// InvariantError reports a violated data-model invariant.
type InvariantError struct{ Detail string }

func (e *InvariantError) Error() string { return "invariant violated: " + e.Detail }
