package embedding

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"book-rag/internal/config"
)

const (
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// NewEmbedder builds the embedder for the configured backend. One embedder
// configuration serves an entire process; indexes are keyed on its
// fingerprint so vectors from different models never mix.
func NewEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	switch cfg.Backend {
	case "", BackendOpenAI:
		opts := []openai.Option{
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
			openai.WithEmbeddingModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("initializing openai embedding client: %w", err)
		}
		return embeddings.NewEmbedder(llm)
	case BackendOllama:
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama embedding client: %w", err)
		}
		return embeddings.NewEmbedder(llm)
	default:
		return nil, fmt.Errorf("unknown embedding backend: %s", cfg.Backend)
	}
}

// Fingerprint identifies the embedding configuration an index was built
// with. It is part of every index cache key.
func Fingerprint(cfg *config.LLMConfig) string {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendOpenAI
	}
	return backend + "/" + cfg.Model
}
