// Package module defines the pluggable indexer/search unit every
// language or data-kind binding implements, plus the three concrete
// modules this system ships: core (shared across go/typescript/python/
// rust via a parameterized Parser), data/json, and docs/markdown.
package module

import (
	"context"

	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/introspect"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/model"
	"github.com/conradkoh/raggrep/internal/registry"
)

// Config is the subset of the global engine configuration a module needs
// to initialize: services shared across all modules (embedding, logging,
// introspection), the index directory and the embedding model tag. It has
// no enabled flag or progress setting (which modules run is decided by
// the registry and config.EnabledModules), and there is no
// module-specific settings record.
type Config struct {
	Logger       logging.Logger
	Project      *introspect.Project
	IndexDir     string
	Embedding    embed.Provider
	EmbeddingTag string // model identifier, persisted with chunk payloads
}

// SearchResult is one module's contribution to a search, before the
// aggregator's final fusion and sort.
type SearchResult struct {
	ChunkID      string
	FilePath     string
	Content      string
	StartLine    int
	EndLine      int
	Kind         model.ChunkKind
	Name         string
	Score        float64
	SemanticPart float64
	LexicalPart  float64
	LiteralPart  float64
}

// Module is the unit of pluggable indexing + search behavior. Optional
// lifecycle steps (SupportsFile, Initialize, Finalize, Dispose) are
// exposed as separate narrow interfaces below so a module only
// implements what it needs; the coordinator and aggregator use type
// assertions to check for them.
type Module interface {
	ID() string
	Name() string
	Version() string

	// IndexFile chunks and indexes one file's content. Implementations
	// must not fail the whole run on a malformed file: return a nil error
	// and simply index what could be extracted (even zero chunks) rather
	// than propagating a parse failure upward.
	IndexFile(ctx context.Context, relPath string, content []byte, tags introspect.FileTags) error

	// RemoveFile retracts a previously indexed file from this module's
	// indices (BM25, literal, embeddings).
	RemoveFile(ctx context.Context, relPath string) error

	// Search runs this module's own ranking and returns up to limit
	// results, already sorted by Score descending.
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// FileSupporter is implemented by modules that only handle a subset of
// files. Every module in this package implements it; the catch-all core
// instance (no extension set) accepts every file.
type FileSupporter interface {
	SupportsFile(relPath string) bool
}

// Initializer is implemented by modules with setup to run once before
// the first IndexFile call of a run (e.g. loading persisted sidecars).
type Initializer interface {
	Initialize(ctx context.Context, cfg Config) error
}

// Finalizer is implemented by modules that need a pass after every file
// in a run has been indexed (e.g. persisting the BM25 and literal
// sidecars).
type Finalizer interface {
	Finalize(ctx context.Context) error
}

// Disposer is implemented by modules holding resources (file handles,
// in-memory caches) that must be released when the module is no longer
// needed.
type Disposer interface {
	Dispose() error
}

// New constructs a fresh Module instance for id from reg, the one place
// that type-asserts a registry.Factory's `any` return back down to
// Module (the registry package can't import this one, since Module
// implementations here register themselves into it).
func New(reg *registry.Registry, id string) (Module, bool) {
	v, ok := reg.New(id)
	if !ok {
		return nil, false
	}
	mod, ok := v.(Module)
	return mod, ok
}
