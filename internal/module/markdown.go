package module

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/conradkoh/raggrep/internal/bm25"
	"github.com/conradkoh/raggrep/internal/embed"
	"github.com/conradkoh/raggrep/internal/introspect"
	"github.com/conradkoh/raggrep/internal/literal"
	"github.com/conradkoh/raggrep/internal/model"
	"github.com/conradkoh/raggrep/internal/parser"
	"github.com/conradkoh/raggrep/internal/storage"
)

// Markdown fusion mirrors the core module's semantic+BM25+vocabulary mix
// but adds a small flat "doc-intent" boost: a query that reads like a
// question ("how do I configure...") is more likely aimed at
// documentation than at code, so prose gets a nudge here that code
// chunks don't get in the core module.
const (
	mdSemanticWeight = 0.7
	mdBM25Weight     = 0.3
	mdMinScore       = 0.15
	mdDocIntentBoost = 0.05
)

var docIntentPrefixes = []string{"how ", "what ", "why ", "when ", "where ", "can i ", "should i "}

type markdownModule struct {
	mu     sync.RWMutex
	cfg    Config
	bm25   *bm25.Index
	lit    *literal.Index
	chunks map[string]*chunkRecord
	byFile map[string][]string
}

// NewMarkdownModule returns the docs/markdown module.
func NewMarkdownModule() Module {
	return &markdownModule{
		chunks: make(map[string]*chunkRecord),
		byFile: make(map[string][]string),
	}
}

func (m *markdownModule) ID() string      { return "docs/markdown" }
func (m *markdownModule) Name() string    { return "Markdown documentation" }
func (m *markdownModule) Version() string { return "1" }

func (m *markdownModule) SupportsFile(relPath string) bool {
	ext := strings.ToLower(filepath.Ext(relPath))
	return ext == ".md" || ext == ".markdown"
}

func (m *markdownModule) Initialize(ctx context.Context, cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg

	idx, err := storage.ReadBM25Index(cfg.IndexDir, m.ID())
	if err != nil {
		return err
	}
	m.bm25 = idx

	lit, err := storage.ReadLiteralIndex(cfg.IndexDir, m.ID())
	if err != nil {
		return err
	}
	m.lit = lit
	return nil
}

func (m *markdownModule) IndexFile(ctx context.Context, relPath string, content []byte, tags introspect.FileTags) error {
	parsed, err := parser.NewMarkdownParser().Parse(ctx, relPath, content)
	if err != nil {
		return err
	}

	contents := make([]string, len(parsed))
	for i, pc := range parsed {
		contents[i] = pc.Content
	}
	var vectors [][]float32
	if len(parsed) > 0 && m.cfg.Embedding != nil {
		vectors, err = m.cfg.Embedding.Embed(ctx, contents, embed.EmbedModePassage)
		if err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeFileLocked(relPath)

	chunks := make([]model.Chunk, len(parsed))
	for i, pc := range parsed {
		id := chunkID(relPath, pc.StartLine, pc.EndLine)
		chunks[i] = model.Chunk{
			ID: id, Content: pc.Content, StartLine: pc.StartLine, EndLine: pc.EndLine,
			Kind: pc.Kind, Name: pc.Name,
		}

		var vec []float32
		if i < len(vectors) {
			vec = vectors[i]
		}
		m.chunks[id] = &chunkRecord{
			FilePath: relPath, StartLine: pc.StartLine, EndLine: pc.EndLine,
			Kind: pc.Kind, Name: pc.Name, Content: pc.Content, Vector: vec,
			Domain: tags.Domain, Layer: tags.Layer,
		}
		m.byFile[relPath] = append(m.byFile[relPath], id)
		m.bm25.AddDocument(id, pc.Content)
		if pc.Name != "" {
			m.lit.Add(pc.Name, literal.Occurrence{ChunkID: id, FilePath: relPath, Kind: literal.Definition, Confidence: 0.8, Line: pc.StartLine})
		}
	}

	payload := &model.FileIndex{FilePath: relPath, Chunks: chunks}
	if len(vectors) > 0 {
		payload.Embeddings = &model.EmbeddingPayload{Model: m.cfg.EmbeddingTag, Vectors: vectors}
	}
	return storage.WriteFileIndex(m.cfg.IndexDir, m.ID(), payload)
}

func (m *markdownModule) removeFileLocked(relPath string) {
	ids, ok := m.byFile[relPath]
	if !ok {
		return
	}
	for _, id := range ids {
		delete(m.chunks, id)
		m.bm25.RemoveDocument(id)
	}
	m.lit.RemoveFile(relPath)
	delete(m.byFile, relPath)
}

func (m *markdownModule) RemoveFile(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeFileLocked(relPath)
	return storage.RemoveFileIndex(m.cfg.IndexDir, m.ID(), relPath)
}

func (m *markdownModule) Finalize(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := storage.WriteBM25Index(m.cfg.IndexDir, m.ID(), m.bm25); err != nil {
		return err
	}
	return storage.WriteLiteralIndex(m.cfg.IndexDir, m.ID(), m.lit)
}

func (m *markdownModule) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var queryVec []float32
	if m.cfg.Embedding != nil {
		vecs, err := m.cfg.Embedding.Embed(ctx, []string{query}, embed.EmbedModeQuery)
		if err == nil && len(vecs) == 1 {
			queryVec = vecs[0]
		}
	}

	bm25Results := m.bm25.Search(query, limit*4)
	bm25ByID := make(map[string]float64, len(bm25Results))
	for _, r := range bm25Results {
		bm25ByID[r.DocID] = r.Score
	}

	isDocIntent := isDocIntentQuery(query)

	candidates := make(map[string]bool)
	for id := range bm25ByID {
		candidates[id] = true
	}
	if queryVec != nil {
		for id := range m.chunks {
			candidates[id] = true
		}
	}

	results := make([]SearchResult, 0, len(candidates))
	for id := range candidates {
		rec, ok := m.chunks[id]
		if !ok {
			continue
		}

		var semantic float64
		if queryVec != nil && rec.Vector != nil {
			if sim, err := cosineSimilaritySafe(queryVec, rec.Vector); err == nil {
				semantic = sim
			}
		}
		lexical := bm25.NormalizeChunk(bm25ByID[id])
		vocab := vocabularyOverlap(query, rec.Content)

		score := mdSemanticWeight*semantic + mdBM25Weight*lexical + vocab
		if isDocIntent {
			score += mdDocIntentBoost
		}
		if score < mdMinScore {
			continue
		}

		results = append(results, SearchResult{
			ChunkID: id, FilePath: rec.FilePath, Content: rec.Content,
			StartLine: rec.StartLine, EndLine: rec.EndLine, Kind: rec.Kind, Name: rec.Name,
			Score: score, SemanticPart: semantic, LexicalPart: lexical,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ChunkID < results[j].ChunkID
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func isDocIntentQuery(query string) bool {
	lower := strings.ToLower(strings.TrimSpace(query))
	for _, prefix := range docIntentPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
