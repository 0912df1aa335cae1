// Package vectorindex provides the pluggable vector-storage backends
// behind the retrieval engine. Both backends score with cosine
// similarity over normalized vectors so ranking semantics do not depend
// on the backend choice.
package vectorindex

import "context"

// Entry is one vector to be stored, carrying its document key and the
// provenance path used for hydration.
type Entry struct {
	Key    string
	Path   string
	Vector []float32
}

// Match is one search hit. Score is cosine similarity in [-1,1].
type Match struct {
	Key   string
	Path  string
	Score float64
}

// Index stores vectors with associated document identifiers and supports
// top-k similarity search.
type Index interface {
	// Upsert stores the given entries, replacing any previous contents.
	Upsert(ctx context.Context, entries []Entry) error

	// Search returns up to k matches for the query vector, sorted by
	// descending cosine similarity. k greater than the index size
	// returns all available matches.
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
}
