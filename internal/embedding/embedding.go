package embedding

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"esg-rag/internal/config"
)

// Func maps text to a fixed dimension vector. It has the same signature as
// chromem.EmbeddingFunc.
type Func func(ctx context.Context, text string) ([]float32, error)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderHugot  = "hugot"
)

// New creates the embedding function for the configured provider
func New(cfg *config.LLMConfig) (Func, error) {
	log.Debug().Str("provider", cfg.Provider).Str("base_url", cfg.BaseURL).Str("model", cfg.Model).Msg("Creating embedder")

	switch cfg.Provider {
	case ProviderOllama, "":
		embedder, err := NewOllamaEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return FromEmbedder(embedder), nil
	case ProviderOpenAI:
		embedder, err := NewOpenAIEmbedder(cfg)
		if err != nil {
			return nil, err
		}
		return FromEmbedder(embedder), nil
	case ProviderHugot:
		return NewHugotEmbedder(cfg.Model)
	default:
		return nil, eris.Errorf("embedding: unknown provider %q", cfg.Provider)
	}
}

// NewOpenAIEmbedder creates an embedder against any OpenAI compatible API
func NewOpenAIEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithEmbeddingModel(cfg.Model),
	)
	if err != nil {
		return nil, eris.Wrap(err, "embedding: init openai client")
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, eris.Wrap(err, "embedding: create embedder")
	}
	return embedder, nil
}

// new ollama embedder
func NewOllamaEmbedder(cfg *config.LLMConfig) (*embeddings.EmbedderImpl, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(cfg.BaseURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, eris.Wrap(err, "embedding: init ollama client")
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, eris.Wrap(err, "embedding: create embedder")
	}
	return embedder, nil
}

// FromEmbedder adapts a langchaingo embedder
func FromEmbedder(e embeddings.Embedder) Func {
	return func(ctx context.Context, text string) ([]float32, error) {
		vec, err := e.EmbedQuery(ctx, text)
		if err != nil {
			return nil, eris.Wrap(err, "embedding: embed query")
		}
		return vec, nil
	}
}
