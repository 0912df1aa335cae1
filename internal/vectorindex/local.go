package vectorindex

import (
	"context"
	"sort"
	"sync"
)

// LocalIndex is an in-process flat index. Vectors are held in memory and
// searched exhaustively; with normalized vectors the inner product equals
// cosine similarity.
type LocalIndex struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLocalIndex creates an empty local index.
func NewLocalIndex() *LocalIndex {
	return &LocalIndex{}
}

// Upsert replaces the index contents with the given entries.
func (idx *LocalIndex) Upsert(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = make([]Entry, len(entries))
	copy(idx.entries, entries)
	return nil
}

// Search returns up to k matches sorted by descending score.
func (idx *LocalIndex) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	matches := make([]Match, 0, len(idx.entries))
	for _, e := range idx.entries {
		matches = append(matches, Match{
			Key:   e.Key,
			Path:  e.Path,
			Score: dot(vector, e.Vector),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// Len returns the number of stored entries.
func (idx *LocalIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// dot computes the inner product over the shared prefix of a and b.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
