package models

// DocumentChunk is one retrievable unit of knowledge-base text.
// Chunks are immutable once loaded; identity is the position in corpus
// load order, and Metadata["path"] is the provenance key used to
// re-associate results returned by a remote index.
type DocumentChunk struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Path returns the provenance key of the chunk.
func (c DocumentChunk) Path() string {
	return c.Metadata["path"]
}

// NewDocumentChunk creates a chunk with the given text and provenance path.
func NewDocumentChunk(text, path string) DocumentChunk {
	return DocumentChunk{
		Text:     text,
		Metadata: map[string]string{"path": path},
	}
}

// ScoredChunk pairs a retrieved chunk with its cosine similarity score.
type ScoredChunk struct {
	Score float64       `json:"score"`
	Chunk DocumentChunk `json:"chunk"`
}
