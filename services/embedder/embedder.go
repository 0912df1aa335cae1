// Package embedder provides the opaque text-to-vector capability behind
// the retrieval engine.
package embedder

import "context"

// Embedder generates fixed-dimension vector embeddings for text.
// The retrieval engine treats the implementation as an opaque capability.
type Embedder interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dim returns the embedding dimensionality.
	Dim() int
}
