// Package kb handles knowledge-base bootstrapping. This is an explicit
// pre-construction step: the retrieval engine itself never touches the
// filesystem beyond reading.
package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var sampleDocuments = map[string]string{
	"returns_policy.md": "# Returns & Refunds Policy\n" +
		"- Items can be returned within 30 days if unused and in original packaging.\n",
	"shipping_policy.md": "# Shipping Policy\n" +
		"- Standard shipping: 3-5 business days. Expedited: 1-2 business days.\n",
	"troubleshooting.md": "# Troubleshooting\n" +
		"- Tracking may take up to 24h to refresh. Try power cycle for electronics.\n",
}

// EnsureSampleKB creates the KB directory and writes the sample policy
// documents when the directory holds no recognized text files.
func EnsureSampleKB(path string, logger *zap.Logger) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create knowledge base directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("failed to read knowledge base directory: %w", err)
	}
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".txt") {
			return nil
		}
	}

	for name, content := range sampleDocuments {
		target := filepath.Join(path, name)
		if err := os.WriteFile(target, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write sample document %s: %w", name, err)
		}
	}

	logger.Info("bootstrapped sample knowledge base",
		zap.String("path", path),
		zap.Int("documents", len(sampleDocuments)))
	return nil
}
