package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/support-orchestrator/internal/vectorindex"
	"github.com/upb/support-orchestrator/services/embedder"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	dir := t.TempDir()
	writeKBFile(t, dir, "returns_policy.md",
		"Items can be returned within 30 days of delivery for a full refund.")
	writeKBFile(t, dir, "shipping_policy.md",
		"Standard shipping takes 3 to 5 business days. Expedited shipping takes 1 to 2 business days.")
	writeKBFile(t, dir, "troubleshooting.md",
		"If the device does not power on, hold the reset button for 10 seconds.")

	emb, err := embedder.NewHashEmbedder(256)
	require.NoError(t, err)

	svc, err := NewService(context.Background(), dir, emb, vectorindex.NewLocalIndex(), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresEmbedderAndIndex(t *testing.T) {
	emb, err := embedder.NewHashEmbedder(32)
	require.NoError(t, err)

	_, err = NewService(context.Background(), t.TempDir(), nil, vectorindex.NewLocalIndex(), zap.NewNop())
	assert.Error(t, err)

	_, err = NewService(context.Background(), t.TempDir(), emb, nil, zap.NewNop())
	assert.Error(t, err)
}

func TestQuery_ReturnsMostRelevantChunkFirst(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Query(context.Background(), "How long does standard shipping take?", 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Contains(t, results[0].Chunk.Path(), "shipping_policy.md")
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestQuery_KLargerThanCorpus(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Query(context.Background(), "refund", 50)
	require.NoError(t, err)
	assert.Len(t, results, svc.Size())
}

func TestQuery_NonPositiveK(t *testing.T) {
	svc := newTestService(t)

	results, err := svc.Query(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestQuery_Deterministic(t *testing.T) {
	svc := newTestService(t)

	first, err := svc.Query(context.Background(), "return policy", 3)
	require.NoError(t, err)
	second, err := svc.Query(context.Background(), "return policy", 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestQuery_EmptyKBUsesFallbackChunk(t *testing.T) {
	emb, err := embedder.NewHashEmbedder(64)
	require.NoError(t, err)

	svc, err := NewService(context.Background(), t.TempDir(), emb, vectorindex.NewLocalIndex(), zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 1, svc.Size())

	results, err := svc.Query(context.Background(), "returns", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "builtin", results[0].Chunk.Path())
}

// stubIndex returns canned matches so hydration paths can be exercised
// without a real backend.
type stubIndex struct {
	matches []vectorindex.Match
	err     error
}

func (s *stubIndex) Upsert(ctx context.Context, entries []vectorindex.Entry) error { return nil }

func (s *stubIndex) Search(ctx context.Context, vector []float32, k int) ([]vectorindex.Match, error) {
	return s.matches, s.err
}

func TestQuery_HydratesByPathWhenKeyUnknown(t *testing.T) {
	dir := t.TempDir()
	path := writeKBFile(t, dir, "returns.md", "Returns within 30 days.")

	emb, err := embedder.NewHashEmbedder(64)
	require.NoError(t, err)

	idx := &stubIndex{matches: []vectorindex.Match{{Key: "stale-key", Path: path, Score: 0.9}}}
	svc, err := NewService(context.Background(), dir, emb, idx, zap.NewNop())
	require.NoError(t, err)

	results, err := svc.Query(context.Background(), "returns", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Returns within 30 days.", results[0].Chunk.Text)
}

func TestQuery_SynthesizesPlaceholderForUnknownDocument(t *testing.T) {
	dir := t.TempDir()
	writeKBFile(t, dir, "returns.md", "Returns within 30 days.")

	emb, err := embedder.NewHashEmbedder(64)
	require.NoError(t, err)

	idx := &stubIndex{matches: []vectorindex.Match{{Key: "ghost", Path: "gone.md", Score: 0.5}}}
	svc, err := NewService(context.Background(), dir, emb, idx, zap.NewNop())
	require.NoError(t, err)

	results, err := svc.Query(context.Background(), "returns", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Document from gone.md", results[0].Chunk.Text)
	assert.Equal(t, "gone.md", results[0].Chunk.Path())
}

func TestQuery_SearchErrorSurfaced(t *testing.T) {
	dir := t.TempDir()
	writeKBFile(t, dir, "returns.md", "Returns within 30 days.")

	emb, err := embedder.NewHashEmbedder(64)
	require.NoError(t, err)

	idx := &stubIndex{err: errors.New("backend unavailable")}
	svc, err := NewService(context.Background(), dir, emb, idx, zap.NewNop())
	require.NoError(t, err)

	results, err := svc.Query(context.Background(), "returns", 1)
	assert.Error(t, err)
	assert.Empty(t, results)
}
