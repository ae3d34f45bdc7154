package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("ShouldApplyDefaults", func(t *testing.T) {
		cfg, err := LoadConfig(writeConfig(t, `
embedding:
  model: nomic-embed-text
`))
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Server.Port)
		assert.Equal(t, 3000, cfg.RAG.ChunkSize)
		assert.Equal(t, 500, cfg.RAG.ChunkOverlap)
		assert.Equal(t, 4, cfg.RAG.TopK)
		assert.Equal(t, 10, cfg.RAG.MaxHistoryTurns)
	})

	t.Run("ShouldResolveKeysFromEnvironment", func(t *testing.T) {
		t.Setenv("TEST_GROQ_KEY", "sk-from-env")
		cfg, err := LoadConfig(writeConfig(t, `
embedding:
  model: nomic-embed-text
providers:
  - name: groq
    model: llama-3.3-70b-versatile
    key_env: TEST_GROQ_KEY
`))
		require.NoError(t, err)
		require.Len(t, cfg.Providers, 1)
		assert.Equal(t, "sk-from-env", cfg.Providers[0].Key)
	})

	t.Run("ShouldRejectOverlapNotSmallerThanChunkSize", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
rag:
  chunk_size: 100
  chunk_overlap: 100
embedding:
  model: m
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "chunk_overlap")
	})

	t.Run("ShouldRejectMissingEmbeddingModel", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
rag:
  chunk_size: 100
  chunk_overlap: 10
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "embedding model")
	})

	t.Run("ShouldRejectBookWithoutFile", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
embedding:
  model: m
books:
  - id: b1
    title: No File
`))
		require.Error(t, err)
	})

	t.Run("ShouldFailOnMissingFile", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
