package module

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/conradkoh/raggrep/internal/bm25"
	"github.com/conradkoh/raggrep/internal/introspect"
	"github.com/conradkoh/raggrep/internal/literal"
	"github.com/conradkoh/raggrep/internal/model"
	"github.com/conradkoh/raggrep/internal/parser"
	"github.com/conradkoh/raggrep/internal/storage"
)

// JSON fusion weights: the data/json module has no meaningful semantic
// axis (a JSON document's structure doesn't embed the way prose or code
// does), so it leans on BM25 plus the literal dot-path index instead of
// BM25 plus cosine.
const (
	jsonBM25Weight = 0.4
	jsonLitWeight  = 0.6
	jsonMinScore   = 0.10
)

type jsonModule struct {
	mu      sync.RWMutex
	cfg     Config
	bm25    *bm25.Index
	literal *literal.Index
	files   map[string]string // relPath -> whole-file content, for snippet rendering
}

// NewJSONModule returns the data/json module.
func NewJSONModule() Module {
	return &jsonModule{files: make(map[string]string)}
}

func (m *jsonModule) ID() string      { return "data/json" }
func (m *jsonModule) Name() string    { return "JSON configuration" }
func (m *jsonModule) Version() string { return "1" }

func (m *jsonModule) SupportsFile(relPath string) bool {
	return strings.ToLower(filepath.Ext(relPath)) == ".json"
}

func (m *jsonModule) Initialize(ctx context.Context, cfg Config) error {
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
	m.literal = lit
	return nil
}

func (m *jsonModule) IndexFile(ctx context.Context, relPath string, content []byte, tags introspect.FileTags) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeFileLocked(relPath)

	chunks, err := parser.NewJSONParser().Parse(ctx, relPath, content)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}
	chunk := chunks[0]
	id := chunkID(relPath, chunk.StartLine, chunk.EndLine)

	m.files[relPath] = chunk.Content
	m.bm25.AddDocument(id, chunk.Content)

	for _, path := range parser.ExtractDotPaths(content) {
		m.literal.Add(path, literal.Occurrence{
			ChunkID:    id,
			FilePath:   relPath,
			Kind:       literal.Definition,
			Confidence: 1.0,
			Line:       chunk.StartLine,
		})
	}

	return storage.WriteFileIndex(m.cfg.IndexDir, m.ID(), &model.FileIndex{
		FilePath: relPath,
		Chunks:   []model.Chunk{{ID: id, Content: chunk.Content, StartLine: chunk.StartLine, EndLine: chunk.EndLine, Kind: model.KindFile}},
	})
}

func (m *jsonModule) removeFileLocked(relPath string) {
	if _, ok := m.files[relPath]; !ok {
		return
	}
	id := chunkID(relPath, 1, strings.Count(m.files[relPath], "\n")+1)
	m.bm25.RemoveDocument(id)
	m.literal.RemoveFile(relPath)
	delete(m.files, relPath)
}

func (m *jsonModule) RemoveFile(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeFileLocked(relPath)
	return storage.RemoveFileIndex(m.cfg.IndexDir, m.ID(), relPath)
}

func (m *jsonModule) Finalize(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := storage.WriteBM25Index(m.cfg.IndexDir, m.ID(), m.bm25); err != nil {
		return err
	}
	return storage.WriteLiteralIndex(m.cfg.IndexDir, m.ID(), m.literal)
}

func (m *jsonModule) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pq := literal.ParseQuery(query)
	// A bare dot-path query ("database.host") isn't camelCase/snake, so
	// when ParseQuery finds no literal, the raw query text is tried as a
	// literal directly.
	literals := pq.Literals
	if len(literals) == 0 && query != "" {
		literals = []string{query}
	}

	bm25Results := m.bm25.Search(query, limit*4)
	bm25ByID := make(map[string]float64, len(bm25Results))
	for _, r := range bm25Results {
		bm25ByID[r.DocID] = r.Score
	}

	matchMap := m.literal.BuildMatchMap(literals)

	candidates := make(map[string]bool)
	for id := range bm25ByID {
		candidates[id] = true
	}
	for id := range matchMap {
		candidates[id] = true
	}

	results := make([]SearchResult, 0, len(candidates))
	for id := range candidates {
		relPath, content, ok := m.lookupByChunkID(id)
		if !ok {
			continue
		}

		lexical := bm25.NormalizeFile(bm25ByID[id])
		var litScore float64
		if matches, ok := matchMap[id]; ok {
			litScore = literal.Contribution(matches, lexical > 0)
		}

		score := jsonBM25Weight*lexical + jsonLitWeight*litScore
		if score < jsonMinScore {
			continue
		}

		results = append(results, SearchResult{
			ChunkID:     id,
			FilePath:    relPath,
			Content:     content,
			Kind:        model.KindFile,
			Score:       score,
			LexicalPart: lexical,
			LiteralPart: litScore,
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

func (m *jsonModule) lookupByChunkID(id string) (relPath, content string, ok bool) {
	for path, c := range m.files {
		if chunkID(path, 1, strings.Count(c, "\n")+1) == id {
			return path, c, true
		}
	}
	return "", "", false
}
