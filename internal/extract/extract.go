package extract

import (
	"regexp"
	"slices"
	"strings"

	"esg-rag/internal/models"
)

const (
	yearRegex = `\b(19|20)\d{2}\b`
)

// Extractor pulls companies, years, emission scope and topical tags out of
// free text. It holds no state besides its vocabulary and is safe for
// concurrent use.
type Extractor struct {
	vocab  Vocabulary
	yearRe *regexp.Regexp
	dateRe []*regexp.Regexp
	orgRe  *regexp.Regexp
}

// New creates an extractor over the given vocabulary
func New(vocab Vocabulary) *Extractor {
	return &Extractor{
		vocab:  vocab,
		yearRe: regexp.MustCompile(yearRegex),
		dateRe: compileDateRegexes(),
		orgRe:  regexp.MustCompile(orgRegex),
	}
}

// Vocabulary returns the vocabulary the extractor was built with
func (e *Extractor) Vocabulary() Vocabulary {
	return e.vocab
}

// Companies returns every known company whose lowercase name occurs in the
// lowercased question, in vocabulary order.
func (e *Extractor) Companies(question string) []string {
	q := strings.ToLower(question)
	var out []string
	for _, company := range e.vocab.Companies {
		if strings.Contains(q, strings.ToLower(company)) {
			out = append(out, company)
		}
	}
	return out
}

// Years returns all 4-digit years from 1900 to 2099 in order of appearance.
// Repeated years are kept.
func (e *Extractor) Years(question string) []string {
	return e.yearRe.FindAllString(question, -1)
}

// EmissionScope returns the first of scope_1, scope_2, scope_3 with a
// keyword in the question, or "unknown". A question naming several scopes
// resolves to the lowest one.
func (e *Extractor) EmissionScope(question string) string {
	q := strings.ToLower(question)
	for _, scope := range scopeTags {
		for _, term := range e.terms(scope) {
			if strings.Contains(q, term) {
				return scope
			}
		}
	}
	return models.ScopeUnknown
}

// Tags returns the name of every category with at least one term in text.
func (e *Extractor) Tags(text string) []string {
	t := strings.ToLower(text)
	var tags []string
	for _, category := range e.vocab.Keywords {
		for _, term := range category.Terms {
			if strings.Contains(t, strings.ToLower(term)) {
				tags = append(tags, category.Name)
				break
			}
		}
	}
	return tags
}

// KeywordTerms returns the vocabulary terms that occur in the question,
// category order first, without repeats, at most limit of them.
func (e *Extractor) KeywordTerms(question string, limit int) []string {
	q := strings.ToLower(question)
	var out []string
	for _, category := range e.vocab.Keywords {
		for _, term := range category.Terms {
			if limit > 0 && len(out) >= limit {
				return out
			}
			term = strings.ToLower(term)
			if strings.Contains(q, term) && !slices.Contains(out, term) {
				out = append(out, term)
			}
		}
	}
	return out
}

// Context extracts everything the comparison engine needs from a question
func (e *Extractor) Context(question string, keywordLimit int) models.QuestionContext {
	return models.QuestionContext{
		Question:      question,
		Companies:     e.Companies(question),
		Years:         e.Years(question),
		EmissionScope: e.EmissionScope(question),
		Keywords:      e.KeywordTerms(question, keywordLimit),
	}
}

func (e *Extractor) terms(name string) []string {
	for _, category := range e.vocab.Keywords {
		if category.Name == name {
			lowered := make([]string, len(category.Terms))
			for i, term := range category.Terms {
				lowered[i] = strings.ToLower(term)
			}
			return lowered
		}
	}
	return nil
}

// ScopePhrase turns a scope tag into the phrase used in search queries
func ScopePhrase(scope string) string {
	if scope == models.ScopeUnknown || scope == "" {
		return ""
	}
	return strings.ReplaceAll(scope, "_", " ")
}
