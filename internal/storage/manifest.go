package storage

import (
	"os"
	"path/filepath"

	"github.com/conradkoh/raggrep/internal/model"
)

func globalManifestPath(indexDir string) string {
	return filepath.Join(indexDir, "manifest.json")
}

func moduleManifestPath(indexDir, moduleID string) string {
	return filepath.Join(indexDir, "modules", moduleID, "manifest.json")
}

// ReadGlobalManifest returns (nil, nil) if no manifest exists yet — the
// caller (the freshness controller) treats that as "needs full rebuild",
// not an error.
func ReadGlobalManifest(indexDir string) (*model.GlobalManifest, error) {
	var m model.GlobalManifest
	if err := ReadJSON(globalManifestPath(indexDir), &m); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// WriteGlobalManifest persists m atomically.
func WriteGlobalManifest(indexDir string, m *model.GlobalManifest) error {
	return WriteJSON(globalManifestPath(indexDir), m)
}

// ReadModuleManifest returns a fresh empty manifest if none is persisted
// yet for moduleID.
func ReadModuleManifest(indexDir, moduleID string) (*model.ModuleManifest, error) {
	var m model.ModuleManifest
	if err := ReadJSON(moduleManifestPath(indexDir, moduleID), &m); err != nil {
		if os.IsNotExist(err) {
			return model.NewModuleManifest(moduleID, ""), nil
		}
		return nil, err
	}
	if m.Files == nil {
		m.Files = make(map[string]model.FileManifestEntry)
	}
	return &m, nil
}

// WriteModuleManifest persists m atomically.
func WriteModuleManifest(indexDir string, m *model.ModuleManifest) error {
	return WriteJSON(moduleManifestPath(indexDir, m.ModuleID), m)
}

// RemoveModule deletes a module's entire persisted state: manifest,
// per-file payloads, and sidecars.
func RemoveModule(indexDir, moduleID string) error {
	return os.RemoveAll(filepath.Join(indexDir, "modules", moduleID))
}
