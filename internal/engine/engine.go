// Package engine is the library surface (ยง6): index, search,
// hybridSearch, reset, cleanup, status, watchDirectory. It wires
// internal/config, internal/registry, internal/coordinator,
// internal/freshness, internal/search, and internal/watcher behind one
// façade so a CLI or an embedding caller never touches those packages
// directly.
package engine

import (
	"context"
	"os"
	"time"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/coordinator"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/rgerr"
	"github.com/conradkoh/raggrep/internal/search"
	"github.com/conradkoh/raggrep/internal/storage"
	"github.com/conradkoh/raggrep/internal/watcher"
)

// Engine is the long-lived handle a CLI or host process keeps. It is
// safe for concurrent use across different project roots; concurrent
// writers to the *same* root are still serialized by the on-disk
// advisory lock (ยง5).
type Engine struct {
	reg     *registry.Registry
	modules *moduleCache
}

// New returns an Engine bound to the process-wide module registry.
func New() *Engine {
	return &Engine{reg: registry.Default, modules: newModuleCache()}
}

// IndexOptions overrides config.json for a single index() call.
type IndexOptions struct {
	Model       string // non-empty overrides Embedding.Model for this run
	Concurrency int
	Logger      logging.Logger
}

func (o IndexOptions) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Silent{}
}

// Index runs a full reconciliation pass (ยง4.9) over dir and returns one
// IndexResult per enabled module.
func (e *Engine) Index(ctx context.Context, dir string, opts IndexOptions) ([]coordinator.IndexResult, error) {
	cfg, _, err := e.loadConfig(dir)
	if err != nil {
		return nil, err
	}
	if opts.Model != "" {
		override := *cfg
		override.Embedding.Model = opts.Model
		cfg = &override
	}
	return coordinator.Run(ctx, dir, cfg, e.reg, coordinator.Options{
		Concurrency: opts.Concurrency,
		Logger:      opts.logger(),
	})
}

// Search runs ensureFresh then the aggregated, filtered, deduplicated
// query (ยง4.10).
func (e *Engine) Search(ctx context.Context, dir, query string, opts search.Options) ([]search.Result, error) {
	cfg, _, err := e.loadConfig(dir)
	if err != nil {
		return nil, err
	}
	return search.Search(ctx, dir, query, cfg, e.reg, opts)
}

// HybridSearch runs Search plus the exact-match pass and fuses them.
func (e *Engine) HybridSearch(ctx context.Context, dir, query string, opts search.Options) (*search.HybridResult, error) {
	cfg, _, err := e.loadConfig(dir)
	if err != nil {
		return nil, err
	}
	return search.HybridSearch(ctx, dir, query, cfg, e.reg, opts)
}

// Reset wipes dir's entire index directory. Resetting a project with no
// index yet is a user error, matching the CLI's exit-code contract.
func (e *Engine) Reset(dir string) error {
	indexDir, err := storage.Location(dir)
	if err != nil {
		return err
	}
	e.modules.evictRoot(indexDir)
	if _, statErr := os.Stat(indexDir); statErr != nil {
		if os.IsNotExist(statErr) {
			return rgerr.Wrap(rgerr.Config, "engine.Reset", errNoIndex{dir: dir})
		}
		return rgerr.Wrap(rgerr.IO, "engine.Reset.stat", statErr)
	}
	if err := os.RemoveAll(indexDir); err != nil {
		return rgerr.Wrap(rgerr.IO, "engine.Reset.remove", err)
	}
	return nil
}

// CleanupOptions parameterizes a Cleanup call.
type CleanupOptions struct {
	Logger logging.Logger
}

func (o CleanupOptions) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Silent{}
}

// Cleanup removes manifest entries for files deleted from disk, without
// a full re-walk.
func (e *Engine) Cleanup(ctx context.Context, dir string, opts CleanupOptions) ([]coordinator.CleanupResult, error) {
	cfg, _, err := e.loadConfig(dir)
	if err != nil {
		return nil, err
	}
	return coordinator.Cleanup(ctx, dir, cfg, e.reg, coordinator.Options{Logger: opts.logger()})
}

// ModuleStatus is one enabled module's contribution to Status.
type ModuleStatus struct {
	ModuleID    string
	FileCount   int
	Version     string
	LastUpdated time.Time
}

// Status summarizes the persisted index for dir without reconciling it
// against the filesystem (no ensureFresh call), the `status` CLI
// subcommand's backing call.
type Status struct {
	Root          string
	IndexDir      string
	SchemaVersion int
	ActiveModules []string
	Modules       []ModuleStatus
}

// Status reads dir's global and per-module manifests as they currently
// sit on disk.
func (e *Engine) Status(dir string) (Status, error) {
	indexDir, err := storage.Location(dir)
	if err != nil {
		return Status{}, err
	}

	gm, err := storage.ReadGlobalManifest(indexDir)
	if err != nil {
		return Status{}, err
	}
	if gm == nil {
		return Status{Root: dir, IndexDir: indexDir}, rgerr.Wrap(rgerr.Config, "engine.Status", errNoIndex{dir: dir})
	}

	st := Status{
		Root:          dir,
		IndexDir:      indexDir,
		SchemaVersion: gm.SchemaVersion,
		ActiveModules: gm.ActiveModules,
	}
	for _, id := range gm.ActiveModules {
		manifest, err := storage.ReadModuleManifest(indexDir, id)
		if err != nil {
			continue
		}
		st.Modules = append(st.Modules, ModuleStatus{
			ModuleID:    id,
			FileCount:   len(manifest.Files),
			Version:     manifest.Version,
			LastUpdated: manifest.LastUpdated,
		})
	}
	return st, nil
}

// WatchOptions parameterizes WatchDirectory.
type WatchOptions struct {
	Logger logging.Logger
}

// WatchDirectory starts a long-running watcher (ยง5) that triggers an
// incremental Index pass whenever debounced filesystem events arrive,
// returning immediately with a handle whose Stop() is cooperative.
func (e *Engine) WatchDirectory(ctx context.Context, dir string, opts WatchOptions) (watcher.FileWatcher, error) {
	cfg, _, err := e.loadConfig(dir)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Silent{}
	}

	fw, err := watcher.NewFileWatcher([]string{dir}, cfg.Extensions)
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "engine.WatchDirectory.newWatcher", err)
	}

	err = fw.Start(ctx, func(changed []string) {
		logger.Info("watch: %d file(s) changed, reconciling", len(changed))
		if _, runErr := coordinator.Run(ctx, dir, cfg, e.reg, coordinator.Options{Logger: logger}); runErr != nil {
			logger.Error("watch: reconcile failed: %v", runErr)
		}
	})
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "engine.WatchDirectory.start", err)
	}
	return fw, nil
}

// loadConfig ensures dir's index directory and config.json exist and
// returns the parsed config alongside the index directory path, serving
// from e.modules' cache when a prior call already parsed it.
func (e *Engine) loadConfig(dir string) (*config.Config, string, error) {
	indexDir, err := storage.EnsureLocation(dir)
	if err != nil {
		return nil, "", err
	}

	if cached, ok := e.modules.get(indexDir); ok {
		if cfg, ok := cached.(*config.Config); ok {
			return cfg, indexDir, nil
		}
	}

	cfg, err := config.Load(indexDir)
	if err != nil {
		return nil, "", err
	}
	e.modules.put(indexDir, cfg)
	return cfg, indexDir, nil
}

type errNoIndex struct{ dir string }

func (e errNoIndex) Error() string { return "no index found for " + e.dir }
