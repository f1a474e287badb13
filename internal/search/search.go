// Package search implements the search aggregator (ยง4.10): ensureFresh
// gating, per-module fan-out, path/type filtering, cross-module
// deduplication, and the hybrid exact-match fusion pass that covers file
// kinds with no parser.
package search

import (
	"context"
	"sort"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/freshness"
	"github.com/conradkoh/raggrep/internal/logging"
	"github.com/conradkoh/raggrep/internal/model"
	"github.com/conradkoh/raggrep/internal/module"
	"github.com/conradkoh/raggrep/internal/registry"
	"github.com/conradkoh/raggrep/internal/rgerr"
	"github.com/conradkoh/raggrep/internal/storage"
)

// defaultTopK is the default result cap when Options.TopK is unset.
const defaultTopK = 10

// Result is one ranked, fused hit returned to a caller of Search or the
// semantic half of HybridSearch.
type Result struct {
	ChunkID          string
	FilePath         string
	Content          string
	StartLine        int
	EndLine          int
	Kind             model.ChunkKind
	Name             string
	ModuleID         string
	Score            float64
	ExactMatchFusion bool
	// LiteralMultiplier is the literal-match boost applied to this
	// result's score (ยง4.3): 1.0 when no literal matched, >1.0 when one
	// did, strictly higher for a definition match than a reference at
	// equal confidence (spec.md ยง8 scenario 4).
	LiteralMultiplier float64
}

// Options parameterizes one Search or HybridSearch call.
type Options struct {
	TopK        int
	MinScore    float64
	TypeFilter  string   // e.g. ".go"; empty means no type filter
	PathFilters []string // OR semantics; glob, "*.ext", or path-prefix
	// SkipFreshness defaults to false, so Search runs ensureFresh first;
	// set it to true to bypass ensureFresh, e.g. for a caller that just ran
	// index() itself moments ago.
	SkipFreshness bool
	Logger        logging.Logger
}

func (o Options) logger() logging.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.Silent{}
}

func (o Options) topK() int {
	if o.TopK > 0 {
		return o.TopK
	}
	return defaultTopK
}

// Search is the C10 aggregator entry point.
func Search(ctx context.Context, root, query string, cfg *config.Config, reg *registry.Registry, opts Options) ([]Result, error) {
	logger := opts.logger()

	if !opts.SkipFreshness {
		if _, err := freshness.EnsureFresh(ctx, root, cfg, reg, logger); err != nil {
			return nil, err
		}
	}

	indexDir, err := storage.Location(root)
	if err != nil {
		return nil, err
	}

	gm, err := storage.ReadGlobalManifest(indexDir)
	if err != nil {
		return nil, err
	}
	if gm == nil {
		return nil, nil
	}

	ids := intersectPreservingOrder(cfg.EnabledModules, gm.ActiveModules)
	ids, err = reg.Resolve(ids)
	if err != nil {
		return nil, err
	}

	project, err := storage.ReadProject(indexDir)
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
		return nil, rgerr.Wrap(rgerr.Model, "search.Search.embed", err)
	}
	defer embedder.Close()

	fetchLimit := opts.topK() * 4
	if fetchLimit < 40 {
		fetchLimit = 40
	}

	var all []Result
	for _, id := range ids {
		mod, ok := module.New(reg, id)
		if !ok {
			continue
		}
		if init, ok := mod.(module.Initializer); ok {
			if err := init.Initialize(ctx, module.Config{
				Logger:       logger,
				Project:      project,
				IndexDir:     indexDir,
				Embedding:    embedder,
				EmbeddingTag: cfg.Embedding.Model,
			}); err != nil {
				logger.Warn("search: initialize %s: %v", id, err)
				continue
			}
		}

		raw, err := mod.Search(ctx, query, fetchLimit)
		if err != nil {
			logger.Warn("search: module %s failed: %v", id, err)
			continue
		}
		for _, r := range raw {
			all = append(all, Result{
				ChunkID:           r.ChunkID,
				FilePath:          r.FilePath,
				Content:           r.Content,
				StartLine:         r.StartLine,
				EndLine:           r.EndLine,
				Kind:              r.Kind,
				Name:              r.Name,
				ModuleID:          id,
				Score:             r.Score,
				LiteralMultiplier: 1.0 + r.LiteralPart,
			})
		}
	}

	all = applyFilters(all, opts)
	all = dedupe(all)

	sortResults(all)

	if opts.MinScore > 0 {
		filtered := all[:0]
		for _, r := range all {
			if r.Score >= opts.MinScore {
				filtered = append(filtered, r)
			}
		}
		all = filtered
	}

	if k := opts.topK(); len(all) > k {
		all = all[:k]
	}
	return all, nil
}

// intersectPreservingOrder returns the subset of enabled also present in
// active, preserving enabled's order (ยง4.10 step 2: "intersect active
// modules with enabled modules").
func intersectPreservingOrder(enabled, active []string) []string {
	activeSet := make(map[string]bool, len(active))
	for _, a := range active {
		activeSet[a] = true
	}
	out := make([]string, 0, len(enabled))
	for _, e := range enabled {
		if activeSet[e] {
			out = append(out, e)
		}
	}
	return out
}

// dedupe collapses results that share (filepath, startLine, endLine),
// keeping the higher-scoring entry, per the spec's resolution of the
// undocumented "two modules report the same chunk" source behavior.
func dedupe(results []Result) []Result {
	type key struct {
		path       string
		start, end int
	}
	best := make(map[key]int, len(results)) // key -> index into out
	var out []Result
	for _, r := range results {
		k := key{r.FilePath, r.StartLine, r.EndLine}
		if idx, ok := best[k]; ok {
			if r.Score > out[idx].Score {
				out[idx] = r
			}
			continue
		}
		best[k] = len(out)
		out = append(out, r)
	}
	return out
}

func sortResults(results []Result) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].FilePath != results[j].FilePath {
			return results[i].FilePath < results[j].FilePath
		}
		return results[i].StartLine < results[j].StartLine
	})
}
