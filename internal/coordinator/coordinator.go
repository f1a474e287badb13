// Package coordinator implements the indexer coordinator (ยง4.9): it
// walks a project tree, dispatches each enabled module's IndexFile over a
// bounded worker pool, reconciles per-file mtime/content-hash freshness
// against each module's persisted manifest, and finalizes. A run started
// with a fresh (absent) manifest indexes everything; a run started
// against an existing manifest is the same code path reconciling only
// what changed — this is also what internal/freshness calls on every
// query entry point, so "index" and "ensureFresh" are one engine, not two.
package coordinator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/introspect"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/model"
	"github.com/conradkoh/raggrep/internal/module"
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/rgerr"
	"github.com/conradkoh/raggrep/internal/storage"
)

// IndexResult is one enabled module's contribution to a Run, the unit
// the library surface's `index(dir, opts) -> []IndexResult` returns one
// of per module.
type IndexResult struct {
	ModuleID  string
	Indexed   int
	Removed   int
	Unchanged int
	Errors    int
	Duration  time.Duration
}

// Options parameterizes a Run beyond what Config already fixes.
type Options struct {
	// Concurrency overrides cfg.Concurrency / the default worker-pool
	// formula for this run only (e.g. a CLI --concurrency flag).
	Concurrency int
	Logger      logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Silent{}
}

func workerCount(cfg *config.Config, opts Options) int {
	if opts.Concurrency > 0 {
		return opts.Concurrency
	}
	if cfg.Concurrency > 0 {
		return cfg.Concurrency
	}
	n := int(float64(runtime.NumCPU()) * 0.75)
	if n < 2 {
		n = 2
	}
	if n > 16 {
		n = 16
	}
	return n
}

// Run executes the C9 pipeline against root and returns one IndexResult
// per enabled module. It holds the single-writer advisory lock for the
// full run; a concurrent Run against the same root fails fast rather
// than blocking indefinitely.
func Run(ctx context.Context, root string, cfg *config.Config, reg *registry.Registry, opts Options) ([]IndexResult, error) {
	logger := opts.logger()
	runID := uuid.New().String()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.Run.abs", err)
	}

	indexDir, err := storage.EnsureLocation(absRoot)
	if err != nil {
		return nil, err
	}

	lock := storage.NewLock(indexDir)
	held, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !held {
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.Run", errLockHeld{root: absRoot})
	}
	defer lock.Unlock()

	logger.Debug("index run %s starting for %s", runID, absRoot)

	project, err := introspect.DiscoverProject(absRoot)
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.Run.introspect", err)
	}
	if err := storage.WriteProject(indexDir, project); err != nil {
		return nil, err
	}

	enabledIDs, err := reg.Resolve(cfg.EnabledModules)
	if err != nil {
		return nil, err
	}

	disc, err := newDiscovery(cfg)
	if err != nil {
		return nil, err
	}
	candidates, err := walkCandidates(absRoot, disc)
	if err != nil {
		return nil, err
	}

	embedder, err := embed.NewProvider(embed.Config{
		Provider:   cfg.Embedding.Provider,
		Endpoint:   cfg.Embedding.Endpoint,
		Dimensions: cfg.Embedding.Dimensions,
		Model:      cfg.Embedding.Model,
	})
	if err != nil {
		return nil, rgerr.Wrap(rgerr.Model, "coordinator.Run.embed", err)
	}
	defer embedder.Close()

	workers := workerCount(cfg, opts)
	results := make([]IndexResult, 0, len(enabledIDs))

	for _, id := range enabledIDs {
		if err := ctx.Err(); err != nil {
			break
		}
		res, err := runModule(ctx, absRoot, indexDir, id, reg, project, candidates, embedder, cfg, logger, workers)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}

	active := make([]string, 0, len(enabledIDs))
	for _, r := range results {
		active = append(active, r.ModuleID)
	}
	gm := model.NewGlobalManifest(active)
	if err := storage.WriteGlobalManifest(indexDir, gm); err != nil {
		return results, err
	}

	logger.Debug("index run %s complete", runID)
	return results, nil
}

// runModule processes one module's share of the tree: file support
// filtering, the bounded worker pool, stale-entry removal, manifest
// update, and Finalize.
func runModule(
	ctx context.Context,
	root, indexDir, moduleID string,
	reg *registry.Registry,
	project *introspect.Project,
	candidates []string,
	embedder embed.Provider,
	cfg *config.Config,
	logger logging.Logger,
	workers int,
) (IndexResult, error) {
	start := time.Now()
	res := IndexResult{ModuleID: moduleID}

	mod, ok := module.New(reg, moduleID)
	if !ok {
		return res, rgerr.Wrap(rgerr.Config, "coordinator.runModule", errUnknownModule{id: moduleID})
	}

	modCfg := module.Config{
		Logger:       logger,
		Project:      project,
		IndexDir:     indexDir,
		Embedding:    embedder,
		EmbeddingTag: cfg.Embedding.Model,
	}
	if init, ok := mod.(module.Initializer); ok {
		if err := init.Initialize(ctx, modCfg); err != nil {
			return res, rgerr.Wrap(rgerr.Model, "coordinator.runModule.initialize", err)
		}
	}

	manifest, err := storage.ReadModuleManifest(indexDir, moduleID)
	if err != nil {
		return res, err
	}

	files := candidates
	if fs, ok := mod.(module.FileSupporter); ok {
		filtered := make([]string, 0, len(files))
		for _, f := range files {
			if fs.SupportsFile(f) {
				filtered = append(filtered, f)
			}
		}
		files = filtered
	}

	current := make(map[string]bool, len(files))
	for _, f := range files {
		current[f] = true
	}

	// Stale entries: files the manifest still tracks but which no longer
	// appear in this module's current candidate set (deleted, renamed, or
	// excluded by a config change).
	for relPath := range manifest.Files {
		if current[relPath] {
			continue
		}
		if err := mod.RemoveFile(ctx, relPath); err != nil {
			logger.Warn("coordinator: remove stale entry %s from %s: %v", relPath, moduleID, err)
		}
		delete(manifest.Files, relPath)
		res.Removed++
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx) // per-file errors never cancel the batch; only ctx cancellation does
	g.SetLimit(workers)

	for _, relPath := range files {
		relPath := relPath
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil // cooperative cancellation: stop dispatching new work
			}
			status, chunkCount, hash, mtime, err := processFile(gctx, root, indexDir, mod, project, relPath, manifest, cfg.Embedding.Model)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Errors++
				logger.Warn("coordinator: index %s via %s: %v", relPath, moduleID, err)
			case status == statusReindexed:
				manifest.Files[relPath] = model.FileManifestEntry{
					LastModified:   mtime,
					ChunkCount:     chunkCount,
					ContentHash:    hash,
					EmbeddingModel: cfg.Embedding.Model,
				}
				res.Indexed++
			case status == statusMTimeUpdated:
				entry := manifest.Files[relPath]
				entry.LastModified = mtime
				manifest.Files[relPath] = entry
				res.Unchanged++
			case status == statusUnchanged:
				res.Unchanged++
			}
			return nil
		})
	}
	_ = g.Wait()

	manifest.Version = mod.Version()
	manifest.LastUpdated = time.Now()
	if res.Indexed > 0 || res.Removed > 0 {
		if fin, ok := mod.(module.Finalizer); ok {
			if err := fin.Finalize(ctx); err != nil {
				return res, rgerr.Wrap(rgerr.Model, "coordinator.runModule.finalize", err)
			}
		}
	}
	if err := storage.WriteModuleManifest(indexDir, manifest); err != nil {
		return res, err
	}

	res.Duration = time.Since(start)
	return res, nil
}

type fileStatus int

const (
	statusUnchanged fileStatus = iota
	statusMTimeUpdated
	statusReindexed
)

// processFile implements the two-tier mtime/content-hash change
// detection (ยง4.11): an unchanged mtime skips the file entirely; a
// changed mtime with an unchanged content hash only refreshes the
// manifest's mtime (no re-embed); only a genuine content change goes
// through the module's IndexFile.
func processFile(
	ctx context.Context,
	root, indexDir string,
	mod module.Module,
	project *introspect.Project,
	relPath string,
	manifest *model.ModuleManifest,
	embeddingModel string,
) (status fileStatus, chunkCount int, hash string, mtime time.Time, err error) {
	fullPath := filepath.Join(root, filepath.FromSlash(relPath))
	info, statErr := os.Stat(fullPath)
	if statErr != nil {
		return status, 0, "", time.Time{}, rgerr.Wrap(rgerr.IO, "coordinator.processFile.stat", statErr)
	}
	mtime = info.ModTime()

	entry, tracked := manifest.Files[relPath]
	modelChanged := tracked && entry.EmbeddingModel != "" && entry.EmbeddingModel != embeddingModel
	if tracked && entry.LastModified.Equal(mtime) && !modelChanged {
		return statusUnchanged, entry.ChunkCount, entry.ContentHash, mtime, nil
	}

	content, readErr := os.ReadFile(fullPath)
	if readErr != nil {
		return status, 0, "", mtime, rgerr.Wrap(rgerr.IO, "coordinator.processFile.read", readErr)
	}
	sum := sha256.Sum256(content)
	hash = hex.EncodeToString(sum[:])

	if tracked && entry.ContentHash == hash && !modelChanged {
		return statusMTimeUpdated, entry.ChunkCount, hash, mtime, nil
	}

	language := ""
	tags := introspect.FileTags{}
	if project != nil {
		tags = project.TagFile(relPath, language)
	}

	if err := mod.IndexFile(ctx, relPath, content, tags); err != nil {
		return status, 0, "", mtime, rgerr.Wrap(rgerr.Parse, "coordinator.processFile.indexFile", err)
	}

	fi, readBackErr := storage.ReadFileIndex(indexDir, mod.ID(), relPath)
	if readBackErr == nil && fi != nil {
		chunkCount = len(fi.Chunks)
	}
	return statusReindexed, chunkCount, hash, mtime, nil
}

type errLockHeld struct{ root string }

func (e errLockHeld) Error() string {
	return "index directory for " + e.root + " is locked by another writer"
}

type errUnknownModule struct{ id string }

func (e errUnknownModule) Error() string { return "unknown module id " + e.id }
