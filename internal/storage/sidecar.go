package storage

import (
	"os"
	"path/filepath"

	"github.com/conradkoh/raggrep/internal/bm25"
	"github.com/conradkoh/raggrep/internal/literal"
)

func bm25SidecarPath(indexDir, moduleID string) string {
	return filepath.Join(indexDir, "modules", moduleID, "bm25.json")
}

func literalSidecarPath(indexDir, moduleID string) string {
	return filepath.Join(indexDir, "modules", moduleID, "literal.json")
}

// WriteBM25Index persists idx atomically. A module that doesn't use BM25
// simply never calls this.
func WriteBM25Index(indexDir, moduleID string, idx *bm25.Index) error {
	return WriteJSON(bm25SidecarPath(indexDir, moduleID), idx)
}

// ReadBM25Index returns a fresh empty index if no sidecar is persisted —
// an optional sidecar missing is normal on first run, not corruption.
func ReadBM25Index(indexDir, moduleID string) (*bm25.Index, error) {
	idx := bm25.New()
	if err := ReadJSON(bm25SidecarPath(indexDir, moduleID), idx); err != nil {
		if os.IsNotExist(err) {
			return bm25.New(), nil
		}
		return nil, err
	}
	return idx, nil
}

// WriteLiteralIndex persists idx atomically.
func WriteLiteralIndex(indexDir, moduleID string, idx *literal.Index) error {
	return WriteJSON(literalSidecarPath(indexDir, moduleID), idx)
}

// ReadLiteralIndex returns a fresh empty index if no sidecar is persisted.
func ReadLiteralIndex(indexDir, moduleID string) (*literal.Index, error) {
	idx := literal.New()
	if err := ReadJSON(literalSidecarPath(indexDir, moduleID), idx); err != nil {
		if os.IsNotExist(err) {
			return literal.New(), nil
		}
		return nil, err
	}
	return idx, nil
}
