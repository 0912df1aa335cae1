package kb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsureSampleKB_WritesSamplesIntoEmptyDir(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, EnsureSampleKB(dir, zap.NewNop()))

	for name := range sampleDocuments {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, "sample %s", name)
		assert.NotEmpty(t, data)
	}
}

func TestEnsureSampleKB_CreatesMissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "kb", "nested")

	require.NoError(t, EnsureSampleKB(dir, zap.NewNop()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(sampleDocuments))
}

func TestEnsureSampleKB_LeavesExistingDocumentsAlone(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "custom_policy.md")
	require.NoError(t, os.WriteFile(existing, []byte("house rules"), 0o644))

	require.NoError(t, EnsureSampleKB(dir, zap.NewNop()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "house rules", string(data))
}

func TestEnsureSampleKB_IgnoresUnrecognizedFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte{0x89}, 0o644))

	require.NoError(t, EnsureSampleKB(dir, zap.NewNop()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, len(sampleDocuments)+1)
}
