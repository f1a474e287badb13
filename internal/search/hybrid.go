package search

import (
	"context"

	"github.com/conradkoh/raggrep/internal/config"
	"github.com/conradkoh/raggrep/internal/registry"
)

// exactMatchFusionBoost is added to a semantic result's score when its
// file also appears in the exact-match pass. It is a flat additive boost,
// so it can lift a result above an unboosted one scoring up to 0.05
// higher.
const exactMatchFusionBoost = 0.05

// HybridResult pairs the fused semantic ranking with the raw exact-match
// hits, so a caller (the CLI's hybridSearch) can show both: ranked
// semantic results for indexed file kinds, and a flat grep-style list
// covering file kinds no module parses.
type HybridResult struct {
	Semantic     []Result
	ExactMatches []ExactMatch
}

// HybridSearch runs Search and the exact-match pass together, then fuses
// them (ยง4.10): any semantic result whose file also has an exact hit is
// flagged and boosted, and the result set is re-sorted.
func HybridSearch(ctx context.Context, root, query string, cfg *config.Config, reg *registry.Registry, opts Options) (*HybridResult, error) {
	semantic, err := Search(ctx, root, query, cfg, reg, opts)
	if err != nil {
		return nil, err
	}

	exact, err := exactMatchPass(root, query, cfg)
	if err != nil {
		return nil, err
	}

	exactFiles := make(map[string]bool, len(exact))
	for _, m := range exact {
		exactFiles[m.FilePath] = true
	}

	for i := range semantic {
		if exactFiles[semantic[i].FilePath] {
			semantic[i].ExactMatchFusion = true
			semantic[i].Score += exactMatchFusionBoost
		}
	}
	sortResults(semantic)

	return &HybridResult{Semantic: semantic, ExactMatches: exact}, nil
}
