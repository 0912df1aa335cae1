// Package retrieval implements the retrieval engine: it indexes a
// document corpus into vector space and serves nearest-neighbor lookups
// over a pluggable index backend.
package retrieval

import (
	"context"
	"fmt"

	"github.com/upb/support-orchestrator/internal/vectorindex"
	"github.com/upb/support-orchestrator/models"
	"github.com/upb/support-orchestrator/services/embedder"
	"go.uber.org/zap"
)

// Service owns the indexed corpus and its vector index handle. The index
// is read-only after construction, so concurrent Query calls are safe.
type Service struct {
	chunks   []models.DocumentChunk
	byKey    map[string]int
	byPath   map[string]int
	embedder embedder.Embedder
	index    vectorindex.Index
	logger   *zap.Logger
}

// NewService loads the corpus under kbPath, embeds every chunk, and
// builds the vector index. Embedding or index unavailability here is
// fatal: the caller must treat a nil service as a degraded-mode startup
// condition.
func NewService(ctx context.Context, kbPath string, emb embedder.Embedder, index vectorindex.Index, logger *zap.Logger) (*Service, error) {
	if emb == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if index == nil {
		return nil, fmt.Errorf("vector index is required")
	}

	chunks := loadCorpus(kbPath, logger)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := emb.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
	}

	dim := len(vectors[0])
	entries := make([]vectorindex.Entry, len(chunks))
	byKey := make(map[string]int, len(chunks))
	byPath := make(map[string]int, len(chunks))
	for i, c := range chunks {
		if len(vectors[i]) != dim {
			return nil, fmt.Errorf("inconsistent embedding dimension: chunk %d has %d, expected %d", i, len(vectors[i]), dim)
		}
		key := fmt.Sprintf("doc-%d", i)
		entries[i] = vectorindex.Entry{Key: key, Path: c.Path(), Vector: vectors[i]}
		byKey[key] = i
		if _, exists := byPath[c.Path()]; !exists {
			byPath[c.Path()] = i
		}
	}

	if err := index.Upsert(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}

	logger.Info("retrieval engine ready",
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", dim),
		zap.String("kb_path", kbPath))

	return &Service{
		chunks:   chunks,
		byKey:    byKey,
		byPath:   byPath,
		embedder: emb,
		index:    index,
		logger:   logger,
	}, nil
}

// Query embeds text and returns up to k chunks sorted by descending
// cosine similarity. k larger than the corpus returns every chunk.
// Failures mid-query return an empty result with the error surfaced;
// they never invalidate the engine.
func (s *Service) Query(ctx context.Context, text string, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	matches, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	results := make([]models.ScoredChunk, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.ScoredChunk{
			Score: m.Score,
			Chunk: s.hydrate(m),
		})
	}
	return results, nil
}

// hydrate re-associates a match with the locally held chunk list. Keys
// are tried first, then the provenance path; a miss on both synthesizes
// a placeholder chunk so retrieval stays resilient to corpus/index drift.
func (s *Service) hydrate(m vectorindex.Match) models.DocumentChunk {
	if i, ok := s.byKey[m.Key]; ok {
		return s.chunks[i]
	}
	if i, ok := s.byPath[m.Path]; ok {
		return s.chunks[i]
	}
	s.logger.Warn("index returned unknown document, synthesizing placeholder",
		zap.String("key", m.Key), zap.String("path", m.Path))
	return models.NewDocumentChunk(fmt.Sprintf("Document from %s", m.Path), m.Path)
}

// Size returns the number of chunks in the indexed corpus.
func (s *Service) Size() int {
	return len(s.chunks)
}
