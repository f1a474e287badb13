package coordinator

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/module"
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/rgerr"
	"github.com/conradkoh/raggrep/internal/storage"
)

// CleanupResult summarizes stale-entry removal across every enabled
// module, the library surface's `cleanup(dir, opts)` return value.
type CleanupResult struct {
	ModuleID string
	Removed  int
}

// Cleanup removes manifest entries (and their module-side indices) for
// files that no longer exist on disk, without re-walking for new or
// changed content — the lighter-weight counterpart to Run invoked by the
// `cleanup` CLI subcommand and library call (ยง4, "deleted either by
// explicit cleanup ... or by resetIndex").
func Cleanup(ctx context.Context, root string, cfg *config.Config, reg *registry.Registry, opts Options) ([]CleanupResult, error) {
	logger := opts.logger()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.Cleanup.abs", err)
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
		return nil, rgerr.Wrap(rgerr.IO, "coordinator.Cleanup", errLockHeld{root: absRoot})
	}
	defer lock.Unlock()

	enabledIDs, err := reg.Resolve(cfg.EnabledModules)
	if err != nil {
		return nil, err
	}

	results := make([]CleanupResult, 0, len(enabledIDs))
	for _, id := range enabledIDs {
		if err := ctx.Err(); err != nil {
			break
		}
		res, err := cleanupModule(ctx, absRoot, indexDir, id, reg, logger)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func cleanupModule(ctx context.Context, root, indexDir, moduleID string, reg *registry.Registry, logger logging.Logger) (CleanupResult, error) {
	res := CleanupResult{ModuleID: moduleID}

	mod, ok := module.New(reg, moduleID)
	if !ok {
		return res, rgerr.Wrap(rgerr.Config, "coordinator.cleanupModule", errUnknownModule{id: moduleID})
	}

	manifest, err := storage.ReadModuleManifest(indexDir, moduleID)
	if err != nil {
		return res, err
	}

	for relPath := range manifest.Files {
		if _, statErr := os.Stat(filepath.Join(root, filepath.FromSlash(relPath))); statErr == nil {
			continue
		}
		if err := mod.RemoveFile(ctx, relPath); err != nil {
			logger.Warn("cleanup: remove %s from %s: %v", relPath, moduleID, err)
			continue
		}
		delete(manifest.Files, relPath)
		res.Removed++
	}

	if res.Removed > 0 {
		if fin, ok := mod.(module.Finalizer); ok {
			if err := fin.Finalize(ctx); err != nil {
				return res, rgerr.Wrap(rgerr.Model, "coordinator.cleanupModule.finalize", err)
			}
		}
		manifest.LastUpdated = time.Now()
		if err := storage.WriteModuleManifest(indexDir, manifest); err != nil {
			return res, err
		}
	}
	return res, nil
}
