package extract

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	monthNames = `(?:January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)`
	orgSuffix  = `(?:Plc|PLC|Ltd|Limited|Inc|Incorporated|Group|Holdings|Corporation|Company|Bank|Energy|Cement|Breweries)`
	orgRegex   = `\b(?:[A-Z][A-Za-z&'\-]*\s+){0,4}` + orgSuffix + `\b`

	// minimum Levenshtein similarity for a filename window to match a company
	fuzzyThreshold = 0.8
)

func compileDateRegexes() []*regexp.Regexp {
	return []*regexp.Regexp{
		regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		regexp.MustCompile(`\b\d{1,2}(?:st|nd|rd|th)?\s+` + monthNames + `,?\s+\d{4}\b`),
		regexp.MustCompile(`\b` + monthNames + `\s+\d{1,2}(?:st|nd|rd|th)?,\s*\d{4}\b`),
		regexp.MustCompile(`\b` + monthNames + `\s+\d{4}\b`),
	}
}

// Dates returns the date expressions found in text. Patterns are tried
// from most to least specific and a span already covered is not reported
// again.
func (e *Extractor) Dates(text string) []string {
	var out []string
	var covered [][]int
	for _, re := range e.dateRe {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if overlaps(covered, loc) {
				continue
			}
			covered = append(covered, loc)
			d := text[loc[0]:loc[1]]
			if !slices.Contains(out, d) {
				out = append(out, d)
			}
		}
	}
	return out
}

func overlaps(spans [][]int, loc []int) bool {
	for _, s := range spans {
		if loc[0] < s[1] && s[0] < loc[1] {
			return true
		}
	}
	return false
}

// Organizations returns capitalised phrases that look like organisation
// names (ending in Plc, Ltd, Group, ...), without repeats.
func (e *Extractor) Organizations(text string) []string {
	var out []string
	for _, m := range e.orgRe.FindAllString(text, -1) {
		m = strings.Join(strings.Fields(m), " ")
		if !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

// CompanyFromFilename attributes a document to a known company from its
// file name. An exact substring match wins; otherwise every window of
// words of the same length as the company name is compared by Levenshtein
// similarity and the best match above the threshold is returned.
func (e *Extractor) CompanyFromFilename(path string) (string, bool) {
	name := normalize(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	for _, company := range e.vocab.Companies {
		if strings.Contains(name, normalize(company)) {
			return company, true
		}
	}

	words := strings.Fields(name)
	best, bestScore := "", 0.0
	for _, company := range e.vocab.Companies {
		target := normalize(company)
		n := len(strings.Fields(target))
		for i := 0; i+n <= len(words); i++ {
			window := strings.Join(words[i:i+n], " ")
			score := levenshtein.Similarity(window, target, nil)
			if score > bestScore {
				best, bestScore = company, score
			}
		}
	}
	if bestScore >= fuzzyThreshold {
		return best, true
	}
	return "", false
}

// Company attributes a document to a company, from its file name first and
// then from the first known company mentioned in its text.
func (e *Extractor) Company(path, text string) string {
	if company, ok := e.CompanyFromFilename(path); ok {
		return company
	}
	if companies := e.Companies(text); len(companies) > 0 {
		return companies[0]
	}
	return "Unknown"
}

// ReportYear takes the year from the file name if present, otherwise the
// first year mentioned in text.
func (e *Extractor) ReportYear(path, text string) string {
	if years := e.Years(normalize(filepath.Base(path))); len(years) > 0 {
		return years[0]
	}
	if years := e.Years(text); len(years) > 0 {
		return years[0]
	}
	return ""
}

// normalize lowercases, strips accents and turns separators into spaces
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' || r == '.' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
