package introspect

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Scope is how broadly a file's code is shared: code with no package
// affiliation (the project root) vs. code inside a detected monorepo
// package.
type Scope string

const (
	ScopeRoot    Scope = "root"
	ScopePackage Scope = "package"
)

// Layer is the architectural tier a file's path suggests.
type Layer string

const (
	LayerAPI        Layer = "api"
	LayerService    Layer = "service"
	LayerData       Layer = "data"
	LayerUI         Layer = "ui"
	LayerInfra      Layer = "infra"
	LayerTest       Layer = "test"
	LayerUnknown    Layer = ""
)

var layerDirHints = []struct {
	pattern *regexp.Regexp
	layer   Layer
}{
	{regexp.MustCompile(`(^|/)(handlers?|routes?|controllers?|api)(/|$)`), LayerAPI},
	{regexp.MustCompile(`(^|/)(services?|usecases?|domain)(/|$)`), LayerService},
	{regexp.MustCompile(`(^|/)(repos?|repository|models?|storage|db|migrations?)(/|$)`), LayerData},
	{regexp.MustCompile(`(^|/)(components?|views?|pages?|ui)(/|$)`), LayerUI},
	{regexp.MustCompile(`(^|/)(infra|deploy|config|scripts?)(/|$)`), LayerInfra},
	{regexp.MustCompile(`(^|/)(tests?|__tests__|spec)(/|$)`), LayerTest},
}

// FileTags is the Tier-1 classification attached to one file.
type FileTags struct {
	Scope    Scope
	Layer    Layer
	Domain   string // the detected package name, if any
	Language string
}

// TagFile classifies relPath (slash-separated, relative to the project
// root) using its detected package membership and directory-name hints.
// It never errors: an unrecognized path shape just yields LayerUnknown,
// since these tags are a ranking boost, not a correctness requirement.
func (p *Project) TagFile(relPath, language string) FileTags {
	relPath = filepath.ToSlash(relPath)
	tags := FileTags{Scope: ScopeRoot, Language: language}

	if pkg := p.PackageFor(relPath); pkg != nil {
		tags.Scope = ScopePackage
		tags.Domain = pkg.Name
	}

	lower := strings.ToLower(relPath)
	for _, hint := range layerDirHints {
		if hint.pattern.MatchString(lower) {
			tags.Layer = hint.layer
			break
		}
	}
	return tags
}

var identifierSplitter = regexp.MustCompile(`[_\-./]+`)

// ExtractKeywords derives a coarse keyword set from a relative file path
// and its detected tags, for feeding into the BM25 index alongside chunk
// content — a file's directory name and package domain are often the
// strongest lexical signal a query will actually use.
func ExtractKeywords(relPath string, tags FileTags) []string {
	base := strings.TrimSuffix(filepath.Base(relPath), filepath.Ext(relPath))
	joined := filepath.ToSlash(filepath.Dir(relPath)) + "/" + base
	parts := identifierSplitter.Split(SplitCamel(joined), -1)

	seen := make(map[string]bool)
	var keywords []string
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "." || seen[s] {
			return
		}
		seen[s] = true
		keywords = append(keywords, s)
	}

	for _, p := range parts {
		add(p)
	}
	if tags.Domain != "" {
		add(tags.Domain)
	}
	if tags.Layer != "" {
		add(string(tags.Layer))
	}
	return keywords
}

// SplitCamel inserts a separator before each interior uppercase letter
// that follows a lowercase or digit, so "userService" tokenizes the same
// way "user_service" does.
func SplitCamel(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prev := runes[i-1]
			if (prev >= 'a' && prev <= 'z') || (prev >= '0' && prev <= '9') {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
