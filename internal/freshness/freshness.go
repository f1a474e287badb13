// Package freshness implements ensureFresh (ยง4.11): the check every
// query entry point runs before trusting the on-disk index. A missing
// manifest or a schema-version mismatch triggers a full rebuild (the
// latter by wiping the index directory first); otherwise it delegates
// straight to internal/coordinator, whose own two-tier mtime/hash
// change detection already *is* the incremental reconciliation this
// controller is named for — ensureFresh's job is deciding whether that
// reconciliation can run in place or needs a clean slate first.
package freshness

import (
	"context"
	"os"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/coordinator"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/model"
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/rgerr"
	"github.com/conradkoh/raggrep/internal/storage"
)

// Result summarizes one ensureFresh pass across every enabled module.
type Result struct {
	Indexed   int
	Removed   int
	Unchanged int
	Errors    int
	Rebuilt   bool // true if a schema mismatch forced a full wipe+reindex
}

// EnsureFresh reconciles the persisted index for root against the
// current filesystem, per module, before a query is allowed to run.
func EnsureFresh(ctx context.Context, root string, cfg *config.Config, reg *registry.Registry, logger logging.Logger) (Result, error) {
	indexDir, err := storage.Location(root)
	if err != nil {
		return Result{}, err
	}

	gm, err := storage.ReadGlobalManifest(indexDir)
	if err != nil {
		return Result{}, err
	}

	rebuilt := false
	if gm != nil && gm.SchemaVersion != model.SchemaVersion {
		logger.Info("schema version %d != %d, rebuilding index for %s", gm.SchemaVersion, model.SchemaVersion, root)
		if err := os.RemoveAll(indexDir); err != nil {
			return Result{}, rgerr.Wrap(rgerr.IO, "freshness.EnsureFresh.wipe", err)
		}
		rebuilt = true
	}

	moduleResults, err := coordinator.Run(ctx, root, cfg, reg, coordinator.Options{Logger: logger})
	if err != nil {
		return Result{Rebuilt: rebuilt}, err
	}

	out := Result{Rebuilt: rebuilt}
	for _, r := range moduleResults {
		out.Indexed += r.Indexed
		out.Removed += r.Removed
		out.Unchanged += r.Unchanged
		out.Errors += r.Errors
	}
	return out, nil
}
