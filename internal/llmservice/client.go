package llmservice

import (
	"context"
	"strings"

	"esg-rag/internal/config"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewModel creates a chat model against any OpenAI compatible API
func NewModel(llmConfig *config.LLMConfig) (llms.Model, error) {
	log.Debug().Str("base_url", llmConfig.BaseURL).Str("model", llmConfig.Model).Msg("Creating chat model")
	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, eris.Wrap(err, "llmservice: init openai client")
	}
	return llm, nil
}

// call llm
func GenerateContent(ctx context.Context, llm llms.Model, tools []llms.Tool, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	if len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}
	res, err := llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "llmservice: generate content")
	}
	if len(res.Choices) == 0 {
		return nil, eris.New("llmservice: empty response")
	}
	return res, nil
}
