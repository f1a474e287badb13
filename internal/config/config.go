// Package config loads and persists the engine's on-disk configuration:
// a JSON file at <indexDir>/config.json covering supported extensions,
// ignore patterns, the enabled module list, and per-module options (most
// importantly the embedding model identifier). Reading goes through
// spf13/viper so an env var can override any setting without editing the
// file (RAGGREP_EMBEDDING_MODEL, RAGGREP_CONCURRENCY, ...), matching the
// teacher's own viper-plus-AutomaticEnv CLI config pattern; writing goes
// through internal/storage's atomic JSON writer so config.json never
// observes a torn write.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/rgerr"
	"github.com/conradkoh/raggrep/internal/storage"
)

// EmbeddingConfig selects and parameterizes the embedding provider.
type EmbeddingConfig struct {
	Provider   string `json:"provider" mapstructure:"provider"`
	Model      string `json:"model" mapstructure:"model"`
	Endpoint   string `json:"endpoint" mapstructure:"endpoint"`
	Dimensions int    `json:"dimensions" mapstructure:"dimensions"`
}

// Config is the complete engine configuration, persisted at
// <indexDir>/config.json.
type Config struct {
	// Extensions lists the file extensions (with leading dot) the
	// coordinator will walk into candidate files at all; a file whose
	// extension isn't listed here is invisible to `index` regardless of
	// module support (it is still reachable through hybridSearch's
	// exact-match pass, which walks every file subject only to Ignore).
	Extensions []string `json:"extensions" mapstructure:"extensions"`
	// Ignore is a set of gobwas/glob patterns (or bare directory names,
	// matched anywhere in the path) excluded from both indexing and the
	// hybrid exact-match pass.
	Ignore []string `json:"ignore" mapstructure:"ignore"`
	// EnabledModules is the ordered list of module ids the registry
	// resolves against; order is preserved into search result ordering
	// for equal-score ties.
	EnabledModules []string        `json:"enabled_modules" mapstructure:"enabled_modules"`
	Embedding      EmbeddingConfig `json:"embedding" mapstructure:"embedding"`
	// Concurrency overrides the coordinator's worker pool size; 0 means
	// "use the default formula" (see internal/coordinator).
	Concurrency int `json:"concurrency" mapstructure:"concurrency"`
}

// Default returns the out-of-the-box configuration: the language set
// this system ships parsers for, plus .md, .json, and .txt (picked up
// by the catch-all core module so filename/folder-only signal files
// like password.txt are indexed without a dedicated parser), and the
// full closed module enumeration enabled.
func Default() *Config {
	return &Config{
		Extensions: []string{
			".go", ".ts", ".tsx", ".js", ".jsx", ".py", ".rs", ".md", ".json", ".txt",
		},
		Ignore: []string{
			"**/node_modules/**", "**/.git/**", "**/dist/**", "**/build/**", "**/.raggrep/**",
		},
		EnabledModules: []string{
			"core",
			"language/go",
			"language/typescript",
			"language/python",
			"language/rust",
			"data/json",
			"docs/markdown",
		},
		Embedding: EmbeddingConfig{
			Provider:   "http",
			Model:      "BAAI/bge-small-en-v1.5",
			Endpoint:   fmt.Sprintf("http://%s:%d/embed", embed.DefaultEmbedServerHost, embed.DefaultEmbedServerPort),
			Dimensions: 384,
		},
	}
}

// Path returns the location of indexDir's config.json.
func Path(indexDir string) string {
	return filepath.Join(indexDir, "config.json")
}

// Load reads <indexDir>/config.json, applying RAGGREP_-prefixed
// environment variable overrides on top. If no config.json exists yet,
// Load writes Default() to disk (so a subsequent manual edit has
// something to start from) and returns it.
func Load(indexDir string) (*Config, error) {
	path := Path(indexDir)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, rgerr.Wrap(rgerr.IO, "config.Load.stat", err)
		}
		cfg := Default()
		if werr := Save(indexDir, cfg); werr != nil {
			return nil, werr
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix("raggrep")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	applyDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		return nil, rgerr.Wrap(rgerr.Config, "config.Load.read", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, rgerr.Wrap(rgerr.Config, "config.Load.unmarshal", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("enabled_modules", d.EnabledModules)
	v.SetDefault("embedding.provider", d.Embedding.Provider)
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.endpoint", d.Embedding.Endpoint)
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("concurrency", d.Concurrency)
}

// Save persists cfg to <indexDir>/config.json atomically.
func Save(indexDir string, cfg *Config) error {
	return storage.WriteJSON(Path(indexDir), cfg)
}
