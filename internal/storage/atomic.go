package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conradkoh/raggrep/internal/rgerr"
)

// WriteJSON marshals v and writes it to path atomically: encode to a
// sibling temp file, then os.Rename into place, so a crash or concurrent
// reader never observes a partially-written file. Grounded on
// AtomicWriter's WriteChunkFile/WriteMetadata temp -> rename pattern.
func WriteJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return rgerr.Wrap(rgerr.IO, "storage.WriteJSON.mkdir", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return rgerr.Wrap(rgerr.IO, "storage.WriteJSON.marshal", err)
	}

	tempPath := path + fmt.Sprintf(".tmp-%d", os.Getpid())
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return rgerr.Wrap(rgerr.IO, "storage.WriteJSON.write", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return rgerr.Wrap(rgerr.IO, "storage.WriteJSON.rename", err)
	}
	return nil
}

// ReadJSON unmarshals the file at path into v. Callers distinguish
// "not found" from other errors via os.IsNotExist on the returned error's
// unwrapped chain.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return err
		}
		return rgerr.Wrap(rgerr.IO, "storage.ReadJSON.read", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return rgerr.Wrap(rgerr.Corrupt, "storage.ReadJSON.unmarshal", err)
	}
	return nil
}
