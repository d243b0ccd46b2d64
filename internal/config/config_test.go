package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Loads values and fills defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := `
log_level: debug
embed_llm:
  provider: openai
  base_url: http://localhost:11434
  model: nomic-embed-text
rag:
  chunk_size: 800
  top_k: 3
  vector_store: postgres
vocabulary:
  companies: [Acme Cement]
  keywords:
    - name: scope_1
      terms: [scope 1]
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, "openai", cfg.EmbedLLM.Provider)
		assert.Equal(t, 800, cfg.RAG.ChunkSize)
		assert.Equal(t, defaultChunkOverlap, cfg.RAG.ChunkOverlap)
		assert.Equal(t, 3, cfg.RAG.TopK)
		assert.Equal(t, defaultFallbackK, cfg.RAG.FallbackK)
		assert.Equal(t, VectorStorePostgres, cfg.RAG.VectorStore)
		require.NotNil(t, cfg.Vocabulary)
		assert.Equal(t, []string{"Acme Cement"}, cfg.Vocabulary.Companies)
		require.Len(t, cfg.Vocabulary.Keywords, 1)
		assert.Equal(t, "scope_1", cfg.Vocabulary.Keywords[0].Name)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config: read")
	})

	t.Run("Invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("rag: [unclosed"), 0644))
		_, err := LoadConfig(path)
		require.Error(t, err)
	})
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, defaultChunkSize, cfg.RAG.ChunkSize)
	assert.Equal(t, defaultTopK, cfg.RAG.TopK)
	assert.Equal(t, defaultContextWindow, cfg.RAG.ContextWindow)
	assert.Equal(t, VectorStoreChromem, cfg.RAG.VectorStore)
	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
	require.NotNil(t, cfg.Vocabulary)
	assert.NotEmpty(t, cfg.Vocabulary.Companies)
	assert.Len(t, cfg.Vocabulary.Keywords, 8)
}

func TestApplyDefaultsClampsOverlap(t *testing.T) {
	cfg := &Config{RAG: RAGConfig{ChunkSize: 100, ChunkOverlap: 150}}
	cfg.ApplyDefaults()
	assert.Equal(t, 50, cfg.RAG.ChunkOverlap)
}
