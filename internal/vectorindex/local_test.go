package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalIndex_SearchRanksByInnerProduct(t *testing.T) {
	idx := NewLocalIndex()
	ctx := context.Background()

	err := idx.Upsert(ctx, []Entry{
		{Key: "doc-0", Path: "a.md", Vector: []float32{1, 0, 0}},
		{Key: "doc-1", Path: "b.md", Vector: []float32{0, 1, 0}},
		{Key: "doc-2", Path: "c.md", Vector: []float32{0.8, 0.6, 0}},
	})
	require.NoError(t, err)

	matches, err := idx.Search(ctx, []float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)

	assert.Equal(t, "doc-0", matches[0].Key)
	assert.Equal(t, "doc-2", matches[1].Key)
	assert.Equal(t, "doc-1", matches[2].Key)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
	}
}

func TestLocalIndex_SearchTruncatesToK(t *testing.T) {
	idx := NewLocalIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{Key: "doc-0", Vector: []float32{1, 0}},
		{Key: "doc-1", Vector: []float32{0, 1}},
		{Key: "doc-2", Vector: []float32{0.5, 0.5}},
	}))

	matches, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestLocalIndex_KLargerThanIndex(t *testing.T) {
	idx := NewLocalIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{Key: "doc-0", Vector: []float32{1, 0}},
	}))

	matches, err := idx.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestLocalIndex_EmptyIndex(t *testing.T) {
	idx := NewLocalIndex()

	matches, err := idx.Search(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, idx.Len())
}

func TestLocalIndex_UpsertReplacesContents(t *testing.T) {
	idx := NewLocalIndex()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []Entry{
		{Key: "doc-0", Vector: []float32{1, 0}},
		{Key: "doc-1", Vector: []float32{0, 1}},
	}))
	require.NoError(t, idx.Upsert(ctx, []Entry{
		{Key: "doc-9", Vector: []float32{0, 1}},
	}))

	assert.Equal(t, 1, idx.Len())

	matches, err := idx.Search(ctx, []float32{0, 1}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "doc-9", matches[0].Key)
}

func TestLocalIndex_CancelledContext(t *testing.T) {
	idx := NewLocalIndex()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, idx.Upsert(ctx, nil))
	_, err := idx.Search(ctx, []float32{1}, 1)
	assert.Error(t, err)
}
