package rag

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	"esg-rag/internal/extract"
	"esg-rag/internal/models"
)

var valueRe = regexp.MustCompile(`(?i)(\d+(?:,\d+)*(?:\.\d+)?)(?:\s*(?:tons?|t|kt|mt|kg)?(?:\s*co2e?)?)`)

// relaxation is one step of the retrieval cascade for a (company, year) pair.
// The first strategy returning results decides the record value.
type relaxation struct {
	name  string
	query func(company, year string, qc models.QuestionContext) string
	where func(company, year string, qc models.QuestionContext) map[string]string
	k     func(r *RAG) int
	value func(content string) string
}

func (r *RAG) relaxations() []relaxation {
	return []relaxation{
		{
			name: "filtered",
			query: func(company, year string, qc models.QuestionContext) string {
				return joinQuery(company, year, extract.ScopePhrase(qc.EmissionScope), "emissions", strings.Join(qc.Keywords, " "))
			},
			where: scopeFilter,
			k:     func(*RAG) int { return 1 },
			value: ExtractValue,
		},
		{
			name: "fallback",
			query: func(company, _ string, qc models.QuestionContext) string {
				return joinQuery(company, extract.ScopePhrase(qc.EmissionScope), "emissions")
			},
			where: func(string, string, models.QuestionContext) map[string]string { return nil },
			k:     func(r *RAG) int { return r.cfg.RAG.FallbackK },
			value: func(string) string { return models.ValueYearSpecificNotFound },
		},
	}
}

// scopeFilter restricts a search to one company and year, and to chunks
// tagged with the question scope, or with any tag when the scope is unknown.
func scopeFilter(company, year string, qc models.QuestionContext) map[string]string {
	where := map[string]string{
		models.MetaCompanyName: company,
		models.MetaReportYear:  year,
	}
	if qc.EmissionScope == models.ScopeUnknown || qc.EmissionScope == "" {
		where[models.MetaHasTags] = "true"
	} else {
		where[models.TagKey(qc.EmissionScope)] = "true"
	}
	return where
}

// Compare builds one record per (company, year) pair named in the question,
// companies first, and computes metrics over them when all are resolved.
func (r *RAG) Compare(ctx context.Context, question string) (*models.ComparisonResult, error) {
	qc := r.extractor.Context(question, r.cfg.RAG.KeywordLimit)

	records := make([]models.ComparisonRecord, 0, len(qc.Companies)*len(qc.Years))
	for _, company := range qc.Companies {
		for _, year := range qc.Years {
			record, err := r.comparePair(ctx, company, year, qc)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
	}

	return &models.ComparisonResult{
		Question:    question,
		Comparisons: records,
		Metrics:     ComputeMetrics(records),
		Entities:    qc,
	}, nil
}

func (r *RAG) comparePair(ctx context.Context, company, year string, qc models.QuestionContext) (models.ComparisonRecord, error) {
	record := models.ComparisonRecord{
		Company:       company,
		Year:          year,
		EmissionScope: qc.EmissionScope,
		Value:         models.ValueNoData,
	}

	for _, step := range r.relaxations() {
		query := step.query(company, year, qc)
		results, err := r.index.Search(ctx, query, step.k(r), step.where(company, year, qc))
		if err != nil {
			return record, eris.Wrapf(err, "rag: %s search for %s %s", step.name, company, year)
		}
		if len(results) == 0 {
			log.Warn().Str("company", company).Str("year", year).Str("strategy", step.name).Msg("No results, relaxing query")
			continue
		}

		top := results[0]
		meta := models.ChunkMetadataFromMap(top.Metadata)
		record.Value = step.value(top.Content)
		record.Context = truncate(top.Content, r.cfg.RAG.ContextWindow)
		record.Page = meta.Page
		record.Source = meta.Source
		record.Dates = meta.Dates
		record.Tags = meta.Tags
		return record, nil
	}
	return record, nil
}

// ExtractValue returns the first number in content, or ValueNotFound
func ExtractValue(content string) string {
	m := valueRe.FindStringSubmatch(content)
	if m == nil {
		return models.ValueNotFound
	}
	return m[1]
}

// ComputeMetrics returns the highest and lowest company and their percentage
// difference. It returns the zero value unless every record holds a number
// and the minimum is not zero.
func ComputeMetrics(records []models.ComparisonRecord) models.ComparisonMetrics {
	if len(records) == 0 {
		return models.ComparisonMetrics{}
	}

	values := make([]float64, len(records))
	for i, rec := range records {
		if !rec.IsResolved() {
			return models.ComparisonMetrics{}
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(rec.Value, ",", ""), 64)
		if err != nil {
			return models.ComparisonMetrics{}
		}
		values[i] = v
	}

	hi, lo := 0, 0
	for i, v := range values {
		if v > values[hi] {
			hi = i
		}
		if v < values[lo] {
			lo = i
		}
	}
	if values[lo] == 0 {
		return models.ComparisonMetrics{}
	}

	return models.ComparisonMetrics{
		Highest:              records[hi].Company,
		Lowest:               records[lo].Company,
		HighestValue:         values[hi],
		LowestValue:          values[lo],
		DifferencePercentage: round2((values[hi] - values[lo]) / values[lo] * 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func joinQuery(parts ...string) string {
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
