package storage

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/conradkoh/raggrep/internal/model"
)

// filePayloadPath maps a module + source-relative path to its persisted
// FileIndex location, replacing path separators so nested source paths
// don't require creating directories that shadow sibling files (e.g.
// "internal/auth.go" and "internal/auth/" both existing as payload
// names).
func filePayloadPath(indexDir, moduleID, relPath string) string {
	safe := strings.ReplaceAll(filepath.ToSlash(relPath), "/", "__")
	return filepath.Join(indexDir, "modules", moduleID, "files", safe+".json")
}

// WriteFileIndex persists one file's chunk/embedding payload for moduleID.
func WriteFileIndex(indexDir, moduleID string, fi *model.FileIndex) error {
	if err := fi.Validate(); err != nil {
		return err
	}
	return WriteJSON(filePayloadPath(indexDir, moduleID, fi.FilePath), fi)
}

// ReadFileIndex returns (nil, nil) if no payload is persisted for relPath.
func ReadFileIndex(indexDir, moduleID, relPath string) (*model.FileIndex, error) {
	var fi model.FileIndex
	if err := ReadJSON(filePayloadPath(indexDir, moduleID, relPath), &fi); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &fi, nil
}

// RemoveFileIndex deletes one file's persisted payload for moduleID. It is
// not an error for the payload to already be absent.
func RemoveFileIndex(indexDir, moduleID, relPath string) error {
	err := os.Remove(filePayloadPath(indexDir, moduleID, relPath))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
