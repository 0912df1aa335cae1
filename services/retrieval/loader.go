package retrieval

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/upb/support-orchestrator/models"
	"go.uber.org/zap"
)

// recognized text extensions for knowledge-base documents
var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
}

// fallbackChunk is synthesized when the knowledge base yields no
// documents, so the index is never empty.
func fallbackChunk() models.DocumentChunk {
	return models.NewDocumentChunk("Default policy: returns allowed within 30 days.", "builtin")
}

// loadCorpus recursively enumerates recognized text files under kbPath
// and reads each whole file as one DocumentChunk. Unreadable files are
// skipped, not fatal. An empty result degrades to the built-in fallback
// chunk.
func loadCorpus(kbPath string, logger *zap.Logger) []models.DocumentChunk {
	var chunks []models.DocumentChunk

	err := filepath.WalkDir(kbPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !textExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}

		chunks = append(chunks, models.NewDocumentChunk(string(data), path))
		return nil
	})
	if err != nil {
		logger.Warn("knowledge base enumeration failed", zap.String("path", kbPath), zap.Error(err))
	}

	if len(chunks) == 0 {
		logger.Info("knowledge base empty, using built-in fallback chunk", zap.String("path", kbPath))
		chunks = append(chunks, fallbackChunk())
	}

	return chunks
}
