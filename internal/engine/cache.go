package engine

import (
	"github.com/maypok86/otter"
)

// configCacheCapacity bounds how many distinct project roots' parsed
// config.json this process keeps warm at once; a long-running watcher
// or an editor plugin issuing repeated queries against a handful of
// projects is the target, not an unbounded multi-tenant server.
const configCacheCapacity = 64

// moduleCache memoizes parsed configuration per index directory so a
// tight query loop (the interactive CLI REPL-style usage, or an editor
// plugin firing search on every keystroke pause) doesn't re-read and
// re-parse config.json on every call. Grounded on the teacher's
// otter.MustBuilder weight-based cache in internal/graph/searcher.go,
// generalized from a file-content cache to a config cache since this
// engine's hot path is search, not call-graph traversal.
type moduleCache struct {
	configs otter.Cache[string, *cachedConfig]
}

type cachedConfig struct {
	indexDir string
	value    any // *config.Config, stored as any and type-asserted by loadConfig
}

func newModuleCache() *moduleCache {
	cache, err := otter.MustBuilder[string, *cachedConfig](configCacheCapacity).
		CollectStats().
		Build()
	if err != nil {
		// otter.MustBuilder only fails on a malformed builder configuration
		// (e.g. non-positive capacity), never at runtime; configCacheCapacity
		// is a positive compile-time constant, so this is unreachable.
		panic(err)
	}
	return &moduleCache{configs: cache}
}

func (c *moduleCache) get(indexDir string) (any, bool) {
	v, ok := c.configs.Get(indexDir)
	if !ok {
		return nil, false
	}
	return v.value, true
}

func (c *moduleCache) put(indexDir string, value any) {
	c.configs.Set(indexDir, &cachedConfig{indexDir: indexDir, value: value})
}

// evictRoot drops any cached entry for indexDir, called from Reset so a
// wiped project never serves a stale cached config afterward.
func (c *moduleCache) evictRoot(indexDir string) {
	c.configs.Delete(indexDir)
}
