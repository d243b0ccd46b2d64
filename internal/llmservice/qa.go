package llmservice

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"esg-rag/internal/models"

	"github.com/rotisserie/eris"
	"github.com/tmc/langchaingo/llms"
)

var (
	thinkRe = regexp.MustCompile(models.ThinkTag)
	jsonRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// QAClient answers a question from a single passage by asking a chat model
// for a verbatim span and a confidence score.
type QAClient struct {
	llm llms.Model
}

func NewQAClient(llm llms.Model) *QAClient {
	return &QAClient{llm: llm}
}

// Answer returns the answer span and its confidence for one passage
func (c *QAClient) Answer(ctx context.Context, question, passage string) (models.QAResult, error) {
	prompt := fmt.Sprintf(models.QAPromptTemplate, passage, question)
	msgContent := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	res, err := GenerateContent(ctx, c.llm, nil, msgContent, llms.WithTemperature(0))
	if err != nil {
		return models.QAResult{}, err
	}
	return ParseQAResponse(res.Choices[0].Content)
}

// ParseQAResponse reads the JSON object out of a model reply. Reasoning
// blocks and text around the object are ignored; the score is clamped to
// [0, 1].
func ParseQAResponse(content string) (models.QAResult, error) {
	content = thinkRe.ReplaceAllString(content, "")
	raw := jsonRe.FindString(content)
	if raw == "" {
		return models.QAResult{}, eris.Errorf("llmservice: no JSON object in reply %q", truncate(content, 80))
	}

	var result models.QAResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return models.QAResult{}, eris.Wrap(err, "llmservice: decode QA reply")
	}
	result.Answer = strings.TrimSpace(result.Answer)
	result.Score = min(max(result.Score, 0), 1)
	if result.Answer == "" {
		result.Score = 0
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
