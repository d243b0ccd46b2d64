package rag

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"esg-rag/internal/models"
)

const errorAnswer = "Error processing chunk"

// Answer retrieves the k chunks most similar to the question and runs
// extractive QA on each one. Records keep retrieval order.
func (r *RAG) Answer(ctx context.Context, question string, k int) ([]models.AnswerRecord, error) {
	if k <= 0 {
		k = r.cfg.RAG.TopK
	}
	results, err := r.index.Search(ctx, question, k, nil)
	if err != nil {
		return nil, eris.Wrap(err, "rag: search")
	}

	records := make([]models.AnswerRecord, 0, len(results))
	for _, res := range results {
		meta := models.ChunkMetadataFromMap(res.Metadata)
		qa, err := r.qa.Answer(ctx, question, res.Content)
		if err != nil {
			log.Warn().Err(err).Str("chunk", res.ID).Msg("QA failed for chunk")
			records = append(records, models.AnswerRecord{
				Answer:   errorAnswer,
				Score:    0,
				Context:  err.Error(),
				Error:    err.Error(),
				Metadata: meta,
			})
			continue
		}

		highlighted, located := Highlight(res.Content, qa.Answer, r.cfg.RAG.ContextWindow)
		records = append(records, models.AnswerRecord{
			Answer:        qa.Answer,
			Score:         qa.Score,
			Context:       highlighted,
			AnswerLocated: located,
			Metadata:      meta,
		})
	}
	return records, nil
}

// Highlight wraps the first case-insensitive occurrence of answer inside
// the leading window characters of content in brackets. When the answer
// is not there the unmarked window is returned with located false.
func Highlight(content, answer string, window int) (string, bool) {
	snippet := truncate(content, window)
	if answer == "" {
		return snippet, false
	}
	i := indexFold(snippet, answer)
	if i < 0 {
		return snippet, false
	}
	end := i + len(answer)
	return snippet[:i] + "[" + snippet[i:end] + "]" + snippet[end:], true
}

func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// truncate keeps the first n runes of s
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
