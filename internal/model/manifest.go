package model

import "time"

// FileManifestEntry is one ModuleManifest value: the bookkeeping needed by
// the freshness controller's two-tier mtime/hash change detection.
type FileManifestEntry struct {
	LastModified time.Time `json:"last_modified"`
	ChunkCount   int       `json:"chunk_count"`
	ContentHash  string    `json:"content_hash,omitempty"`
	// EmbeddingModel is the model identifier active when this file was
	// last embedded. A config change to a different model makes every
	// entry whose EmbeddingModel differs stale even though mtime and
	// content hash are unchanged.
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

// ModuleManifest tracks what one module has indexed. Invariant: its key
// set equals the set of persisted FileIndex files for that module, modulo
// atomic-update windows.
type ModuleManifest struct {
	ModuleID    string                       `json:"module_id"`
	Version     string                       `json:"version"`
	LastUpdated time.Time                    `json:"last_updated"`
	Files       map[string]FileManifestEntry `json:"files"`
}

// NewModuleManifest returns an empty manifest for moduleID.
func NewModuleManifest(moduleID, version string) *ModuleManifest {
	return &ModuleManifest{
		ModuleID: moduleID,
		Version:  version,
		Files:    make(map[string]FileManifestEntry),
	}
}

// SchemaVersion is the current GlobalManifest schema version. A breaking
// on-disk format change bumps this; a mismatch triggers a full rebuild
// rather than an attempted migration.
const SchemaVersion = 1

// GlobalManifest is the top-level record of what is currently indexed.
type GlobalManifest struct {
	SchemaVersion int       `json:"schema_version"`
	LastUpdated   time.Time `json:"last_updated"`
	ActiveModules []string  `json:"active_modules"`
}

// NewGlobalManifest returns a fresh manifest at the current schema version.
func NewGlobalManifest(activeModules []string) *GlobalManifest {
	return &GlobalManifest{
		SchemaVersion: SchemaVersion,
		LastUpdated:   time.Now(),
		ActiveModules: activeModules,
	}
}
