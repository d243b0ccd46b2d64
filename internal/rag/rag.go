package rag

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"esg-rag/internal/config"
	"esg-rag/internal/extract"
	"esg-rag/internal/models"
)

// ErrNoDocuments is returned when a question is asked before anything was indexed
var ErrNoDocuments = eris.New("rag: no documents have been indexed")

// Index is the similarity search side of a vector store
type Index interface {
	Search(ctx context.Context, query string, k int, where map[string]string) ([]models.SearchResult, error)
	Count(ctx context.Context) (int, error)
}

// Answerer extracts an answer span from a passage
type Answerer interface {
	Answer(ctx context.Context, question, passage string) (models.QAResult, error)
}

type RAG struct {
	index     Index
	qa        Answerer
	extractor *extract.Extractor
	cfg       *config.Config
}

func NewRAG(index Index, qa Answerer, extractor *extract.Extractor, cfg *config.Config) *RAG {
	if cfg == nil {
		cfg = config.Default()
	}
	return &RAG{index: index, qa: qa, extractor: extractor, cfg: cfg}
}

// Ask routes the question to the comparison engine or the single answer
// retriever and returns a serialisable result.
func (r *RAG) Ask(ctx context.Context, question string) (*models.QueryResult, error) {
	n, err := r.index.Count(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "rag: count documents")
	}
	if n == 0 {
		return nil, ErrNoDocuments
	}

	if IsComparisonQuestion(question) {
		log.Info().Str("question", question).Msg("Answering comparison question")
		comparison, err := r.Compare(ctx, question)
		if err != nil {
			return nil, err
		}
		return &models.QueryResult{
			Question:   question,
			Type:       models.QueryTypeComparison,
			Comparison: comparison,
			Entities:   comparison.Entities,
		}, nil
	}

	log.Info().Str("question", question).Msg("Answering question")
	answers, err := r.Answer(ctx, question, r.cfg.RAG.TopK)
	if err != nil {
		return nil, err
	}
	return &models.QueryResult{
		Question: question,
		Type:     models.QueryTypeSingle,
		Answers:  answers,
		Entities: r.extractor.Context(question, r.cfg.RAG.KeywordLimit),
	}, nil
}
