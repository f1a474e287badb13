package module

import (
	"context"
	"fmt"
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

// fusion weights for the core module's hybrid ranking, per the hybrid
// search design: semantic cosine similarity dominates, BM25 and the
// vocabulary-overlap bonus refine it, literal matches and introspection
// tags multiply/boost the combined score.
const (
	coreSemanticWeight = 0.7
	coreBM25Weight     = 0.3
	coreMinScore       = 0.15
)

// chunkRecord is one indexed chunk's in-memory footprint: enough to
// re-render a SearchResult and to run cosine similarity against a query
// vector without re-reading the file from disk.
type chunkRecord struct {
	FilePath  string
	StartLine int
	EndLine   int
	Kind      model.ChunkKind
	Name      string
	Content   string
	Vector    []float32
	Domain    string
	Layer     introspect.Layer
}

// coreModule is the shared implementation behind every language module
// (language/go, language/typescript, language/python, language/rust):
// each is this same ranking pipeline parameterized by its own
// parser.Parser and file-extension set.
type coreModule struct {
	id       string
	name     string
	language string
	exts     map[string]bool
	p        parser.Parser

	mu      sync.RWMutex
	cfg     Config
	bm25    *bm25.Index
	literal *literal.Index
	chunks  map[string]*chunkRecord // chunkID -> record
	byFile  map[string][]string     // relPath -> chunk IDs, for RemoveFile
}

// NewCoreModule returns a language module for id (e.g. "language/go"),
// parameterized by a language label (stored as given; it is not compared
// with parser.Parser.Language()) and the file extensions it claims.
func NewCoreModule(id, name, language string, exts []string, p parser.Parser) Module {
	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}
	return &coreModule{
		id:       id,
		name:     name,
		language: language,
		exts:     extSet,
		p:        p,
		chunks:   make(map[string]*chunkRecord),
		byFile:   make(map[string][]string),
	}
}

func (m *coreModule) ID() string      { return m.id }
func (m *coreModule) Name() string    { return m.name }
func (m *coreModule) Version() string { return "1" }

// SupportsFile reports whether this module claims relPath. A coreModule
// constructed with no extension set (the catch-all "core" module) claims
// every file that survives the coordinator's own extension/ignore
// filtering, guaranteeing the file-kind chunk coverage the parser port
// requires; language-specific instances only claim their own extensions.
func (m *coreModule) SupportsFile(relPath string) bool {
	if len(m.exts) == 0 {
		return true
	}
	return m.exts[strings.ToLower(filepath.Ext(relPath))]
}

func (m *coreModule) Initialize(ctx context.Context, cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg = cfg

	idx, err := storage.ReadBM25Index(cfg.IndexDir, m.id)
	if err != nil {
		return err
	}
	m.bm25 = idx

	lit, err := storage.ReadLiteralIndex(cfg.IndexDir, m.id)
	if err != nil {
		return err
	}
	m.literal = lit

	return nil
}

func chunkID(relPath string, startLine, endLine int) string {
	return fmt.Sprintf("%s:%d:%d", relPath, startLine, endLine)
}

func (m *coreModule) IndexFile(ctx context.Context, relPath string, content []byte, tags introspect.FileTags) error {
	parsed, err := m.p.Parse(ctx, relPath, content)
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

	chunks := make([]model.Chunk, len(parsed))

	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeFileLocked(relPath)

	if len(parsed) == 0 {
		return storage.WriteFileIndex(m.cfg.IndexDir, m.id, &model.FileIndex{FilePath: relPath})
	}

	for i, pc := range parsed {
		id := chunkID(relPath, pc.StartLine, pc.EndLine)
		chunks[i] = model.Chunk{
			ID:         id,
			Content:    pc.Content,
			StartLine:  pc.StartLine,
			EndLine:    pc.EndLine,
			Kind:       pc.Kind,
			Name:       pc.Name,
			Exported:   pc.Exported,
			DocComment: pc.DocComment,
		}

		var vec []float32
		if i < len(vectors) {
			vec = vectors[i]
		}
		m.chunks[id] = &chunkRecord{
			FilePath:  relPath,
			StartLine: pc.StartLine,
			EndLine:   pc.EndLine,
			Kind:      pc.Kind,
			Name:      pc.Name,
			Content:   pc.Content,
			Vector:    vec,
			Domain:    tags.Domain,
			Layer:     tags.Layer,
		}
		m.byFile[relPath] = append(m.byFile[relPath], id)

		m.bm25.AddDocument(id, pc.Content)
		indexLiterals(m.literal, id, relPath, pc)
	}

	fi := &model.FileIndex{
		FilePath: relPath,
		Chunks:   chunks,
	}
	if len(vectors) > 0 {
		fi.Embeddings = &model.EmbeddingPayload{Model: m.cfg.EmbeddingTag, Vectors: vectors}
	}
	return storage.WriteFileIndex(m.cfg.IndexDir, m.id, fi)
}

// indexLiterals registers pc's own name as a definition and every other
// identifier-shaped token in its content as a reference — a lightweight
// substitute for full cross-reference resolution that still lets
// "where is X used" queries rank this chunk.
func indexLiterals(idx *literal.Index, chunkID, relPath string, pc parser.ParsedChunk) {
	if pc.Name != "" {
		idx.Add(pc.Name, literal.Occurrence{
			ChunkID:    chunkID,
			FilePath:   relPath,
			Kind:       literal.Definition,
			Confidence: 1.0,
			Line:       pc.StartLine,
		})
	}
	pq := literal.ParseQuery(pc.Content)
	for _, lit := range pq.Literals {
		if lit == pc.Name {
			continue
		}
		idx.Add(lit, literal.Occurrence{
			ChunkID:    chunkID,
			FilePath:   relPath,
			Kind:       literal.Reference,
			Confidence: 0.6,
			Line:       pc.StartLine,
		})
	}
}

func (m *coreModule) RemoveFile(ctx context.Context, relPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeFileLocked(relPath)
	return storage.RemoveFileIndex(m.cfg.IndexDir, m.id, relPath)
}

func (m *coreModule) removeFileLocked(relPath string) {
	ids, ok := m.byFile[relPath]
	if !ok {
		return
	}
	for _, id := range ids {
		delete(m.chunks, id)
		m.bm25.RemoveDocument(id)
	}
	m.literal.RemoveFile(relPath)
	delete(m.byFile, relPath)
}

func (m *coreModule) Finalize(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := storage.WriteBM25Index(m.cfg.IndexDir, m.id, m.bm25); err != nil {
		return err
	}
	return storage.WriteLiteralIndex(m.cfg.IndexDir, m.id, m.literal)
}

func (m *coreModule) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pq := literal.ParseQuery(query)
	bm25Results := m.bm25.Search(query, limit*4)

	var queryVec []float32
	if m.cfg.Embedding != nil {
		vecs, err := m.cfg.Embedding.Embed(ctx, []string{query}, embed.EmbedModeQuery)
		if err == nil && len(vecs) == 1 {
			queryVec = vecs[0]
		}
	}

	bm25ByID := make(map[string]float64, len(bm25Results))
	for _, r := range bm25Results {
		bm25ByID[r.DocID] = r.Score
	}

	matchMap := m.literal.BuildMatchMap(pq.Literals)

	candidates := make(map[string]bool)
	for id := range bm25ByID {
		candidates[id] = true
	}
	for id := range matchMap {
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

		score := coreSemanticWeight*semantic + coreBM25Weight*lexical + vocab

		var literalPart float64
		hasOtherSignal := semantic > 0 || lexical > 0
		if matches, ok := matchMap[id]; ok {
			literalPart = literal.Contribution(matches, hasOtherSignal)
			score *= 1.0 + literalPart
		}

		score += introspectionBoost(rec, pq.Residual)

		if score < coreMinScore {
			continue
		}

		results = append(results, SearchResult{
			ChunkID:      id,
			FilePath:     rec.FilePath,
			Content:      rec.Content,
			StartLine:    rec.StartLine,
			EndLine:      rec.EndLine,
			Kind:         rec.Kind,
			Name:         rec.Name,
			Score:        score,
			SemanticPart: semantic,
			LexicalPart:  lexical,
			LiteralPart:  literalPart,
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

// introspectionBoost nudges the score when the query itself names a
// domain/layer this chunk is tagged with — e.g. a query containing
// "billing" ranks chunks tagged Domain: "billing" slightly higher.
func introspectionBoost(rec *chunkRecord, residual string) float64 {
	lower := strings.ToLower(residual)
	var boost float64
	if rec.Domain != "" && strings.Contains(lower, strings.ToLower(rec.Domain)) {
		boost += 0.05
	}
	if rec.Layer != "" && strings.Contains(lower, strings.ToLower(string(rec.Layer))) {
		boost += 0.03
	}
	return boost
}
