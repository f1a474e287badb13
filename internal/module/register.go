package module

import (
	"github.com/conradkoh/raggrep/internal/parser"
	"github.com/conradkoh/raggrep/internal/registry"
)

// init registers this package's closed enumeration of modules into the
// process-wide registry. Module identity is fixed at compile time — new
// modules are added by code change, per this system's plug-in design
// (a dynamic-loading architecture would be the wrong shape for a
// statically known, closed module set).
//
// "core" is the catch-all: constructed with no extension set, it claims
// every file the coordinator's extension/ignore filtering lets through
// and emits nothing richer than a whole-file chunk, guaranteeing the
// file-kind coverage the parser port requires even for files with no
// dedicated language module (config, plain-text, data files the
// data/json and docs/markdown modules don't claim). Language modules
// additionally claim their own extensions with a real chunker, so a
// Go file is indexed twice over — once generically by "core", once
// richly (named function/type chunks) by "language/go" — and the
// aggregator's per-chunk-id dedup keeps the higher-scoring entry.
func init() {
	registry.Default.Register("core", func() any {
		return NewCoreModule("core", "Generic text", "text", nil, parser.WholeFileParser{})
	})
	registry.Default.Register("language/go", func() any {
		return NewCoreModule("language/go", "Go", "go", []string{".go"}, parser.NewGoParser())
	})
	registry.Default.Register("language/typescript", func() any {
		return NewCoreModule("language/typescript", "TypeScript", "typescript",
			[]string{".ts", ".tsx", ".js", ".jsx"}, parser.NewTypeScriptParser())
	})
	registry.Default.Register("language/python", func() any {
		return NewCoreModule("language/python", "Python", "python", []string{".py"}, parser.NewPythonParser())
	})
	registry.Default.Register("language/rust", func() any {
		return NewCoreModule("language/rust", "Rust", "rust", []string{".rs"}, parser.NewRustParser())
	})
	registry.Default.Register("data/json", func() any {
		return NewJSONModule()
	})
	registry.Default.Register("docs/markdown", func() any {
		return NewMarkdownModule()
	})
}
